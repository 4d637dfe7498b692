// Package repository contains the database access layer: account storage,
// refresh-token storage, and durable snapshots of the ticket ledger.
// Sentinel errors defined here let handlers distinguish failure scenarios
// without string matching.
package repository

import "errors"

// ErrEmailExists is returned when registration hits the unique email
// constraint. Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNoSnapshot is returned by LedgerRepo.Load when no ledger state has
// been persisted yet. Callers start from an empty ledger in that case.
var ErrNoSnapshot = errors.New("no ledger snapshot")
