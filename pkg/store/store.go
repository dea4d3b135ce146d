// Package store defines the durable signup record store.
package store

import (
	"context"

	"github.com/nicetransit/operator-signup/pkg/core/model"
)

// SignupStore is the durable system of record for signups. Both the
// JSON-file-backed filestore.Store and postgres.DB implement this
// interface; remote mirroring never goes through it.
type SignupStore interface {
	// Append durably records a signup on the partition for the given
	// category and work date (yyyy-mm-dd) and returns the stored record.
	Append(ctx context.Context, category model.Category, date string, operatorName string, extra map[string]string) (*model.Signup, error)

	// List returns the partition's signups in insertion order. A partition
	// nobody has signed yet yields an empty slice, not an error.
	List(ctx context.Context, category model.Category, date string) ([]model.Signup, error)
}

// PartitionKey names the partition for a category and work date, e.g.
// "SPARE_WORK_2026-02-11". File-backed stores use it as the file stem.
func PartitionKey(category model.Category, date string) string {
	return string(category) + "_" + date
}
