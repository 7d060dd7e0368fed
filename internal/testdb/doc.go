// Package testdb connects integration tests to a real PostgreSQL database.
//
// Tests using it are built with the integration tag and skipped unless
// DATABASE_URL is set. The schema is rebuilt from the embedded migrations
// once per test binary; WithTx runs a test inside a transaction that is
// rolled back afterwards.
//
//	func TestUserStore(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)
//	        ...
//	    })
//	}
package testdb
