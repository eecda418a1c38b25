package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// CacheBuilder assembles a single cache-aside operation against one valkey
// database. A nil client turns every operation into a miss or a no-op.
type CacheBuilder struct {
	client CacheClient
	key    string
	value  any
	ttl    time.Duration
	ctx    context.Context
}

func NewCacheBuilder(client CacheClient, key any) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    fmt.Sprint(key),
		ctx:    context.Background(),
	}
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	if ctx != nil {
		b.ctx = ctx
	}
	return b
}

func (b *CacheBuilder) Key() string {
	return b.key
}

func (b *CacheBuilder) Set() error {
	if b.client == nil {
		return nil
	}

	payload, err := json.Marshal(b.value)
	if err != nil {
		return fmt.Errorf("marshal cache value %s: %w", b.key, err)
	}

	set := b.client.B().Set().Key(b.key).Value(string(payload))
	if b.ttl > 0 {
		return b.client.Do(b.ctx, set.ExSeconds(int64(b.ttl.Seconds())).Build()).Error()
	}
	return b.client.Do(b.ctx, set.Build()).Error()
}

// Get decodes the cached value into dest. A missing key is reported as
// found=false with a nil error.
func (b *CacheBuilder) Get(dest any) (bool, error) {
	if b.client == nil {
		return false, nil
	}

	raw, err := b.client.Do(b.ctx, b.client.B().Get().Key(b.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("unmarshal cache value %s: %w", b.key, err)
	}
	return true, nil
}

func (b *CacheBuilder) Delete() error {
	if b.client == nil {
		return nil
	}
	return b.client.Do(b.ctx, b.client.B().Del().Key(b.key).Build()).Error()
}
