// Package idgen wraps google/uuid for minting ids. The gateway package
// draws its correlation ids from here; the ledger package mints its
// reservation ids with google/uuid directly.
package idgen

import "github.com/google/uuid"

// New mints a fresh random id string.
func New() string {
	return uuid.NewString()
}

// CorrelationID mints an id for the §7 Internal-error correlation id
// contract.
func CorrelationID() string {
	return uuid.NewString()
}
