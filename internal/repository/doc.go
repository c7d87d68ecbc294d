// Package repository implements PostgreSQL persistence for domain models.
//
// Repositories depend on the narrow DB interface rather than on *pgxpool.Pool
// so they can run against a pool, a transaction, or a test double.
package repository
