// Package postgres implements the persistence interfaces of internal/store
// on PostgreSQL through database/sql and the pgx driver. The generic
// repository builds its statements from store.Table definitions, so every
// entity shares one implementation of querying, error mapping and tracing.
// Schema migrations are embedded and applied with goose.
package postgres
