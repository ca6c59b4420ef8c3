// Package utils provides small shared helpers.
package utils

import "github.com/oklog/ulid/v2"

// NewID returns a new lexicographically sortable document ID.
func NewID() string {
	return ulid.Make().String()
}
