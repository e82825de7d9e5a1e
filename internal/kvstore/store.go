// Package kvstore provides the durable blob store the performance tracker
// persists its history through. Backends share one small contract: string
// keys, opaque string values, missing keys report ErrNotFound.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
