package cache

import (
	"context"
	"time"
)

// NullCache is a Cache that stores nothing. It backs the --no-cache
// flag so call sites never branch on whether caching is enabled.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
