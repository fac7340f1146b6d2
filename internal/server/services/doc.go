// Package services contains the business logic of the catalog server:
// product editing rules, media uploads to object storage, and administrator
// authentication. Services work through a repomanager.RepositoryManager so
// the same repositories run on *sql.DB or inside a transaction.
package services
