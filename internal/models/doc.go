// Package models defines the core domain models for salonbook.
//
// # Models
//
//   - Client: a customer of the business
//   - HistoryEntry: one service performed for a client (what, how much, when)
//   - Company: the business profile used for branding
//
// # Conventions
//
// IDs are int64 values assigned by the store. Relationships use IDs instead of
// pointers (HistoryEntry.ClientID references Client.ID).
//
// Optional text fields use the empty string for "not set". The store persists
// them as NULL, and a backup encodes both the same way, so the distinction
// never survives a round trip and is not modeled.
package models
