// Package memstore implements store.Wrapper in memory. It honours the same
// query options, unique constraints and relation loading as the postgres
// implementation and is used by service and API tests and by local runs
// without a database.
package memstore
