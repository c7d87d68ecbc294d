// Package model defines the domain types shared by the repository and HTTP
// layers.
//
// Conventions:
//   - IDs: uuid.UUID, generated by the application
//   - Emails: stored lower-cased
//   - Optional columns: pointer fields, nil for SQL NULL
package model
