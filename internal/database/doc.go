// Package database provides the PostgreSQL connection pool and schema
// migration for the OHS backend.
//
// The schema is embedded in the binary and applied idempotently by Migrate,
// so a fresh database and an already-migrated one converge on the same state.
package database
