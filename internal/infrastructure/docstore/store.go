// Package docstore keeps records and expenses as JSON documents in Redis.
//
// Every owner gets one hash per collection, keyed by document ID:
//
//	{prefix}:owners:{ownerID}:job_orders          id -> record JSON
//	{prefix}:owners:{ownerID}:job_orders:numbers  number -> id
//	{prefix}:owners:{ownerID}:invoices
//	{prefix}:owners:{ownerID}:invoices:numbers
//	{prefix}:owners:{ownerID}:expenses
//
// Writes that check state first (number claims, version checks) run inside
// WATCH/MULTI so a concurrent writer aborts the transaction instead of being
// overwritten.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies the connection
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// keyspace builds the per-owner collection keys
type keyspace struct {
	prefix string
}

func newKeyspace(prefix string) keyspace {
	if prefix == "" {
		prefix = "jobbook"
	}
	return keyspace{prefix: prefix}
}

func (k keyspace) collection(ownerID uuid.UUID, name string) string {
	return fmt.Sprintf("%s:owners:%s:%s", k.prefix, ownerID, name)
}

func (k keyspace) numbers(ownerID uuid.UUID, name string) string {
	return k.collection(ownerID, name) + ":numbers"
}

// versionOf reads only the version of a stored document
func versionOf(raw []byte) (int, error) {
	var head struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return 0, fmt.Errorf("failed to decode document: %w", err)
	}
	return head.Version, nil
}

// getDocument loads one document from a collection hash
func getDocument(ctx context.Context, c redis.Cmdable, key, id string, dst any) error {
	raw, err := c.HGet(ctx, key, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return shared.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// replaceDocument overwrites a document if its stored version is still
// expected. doc must already carry the next version.
func replaceDocument(ctx context.Context, client *redis.Client, key, id string, expected int, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	err = client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, id).Bytes()
		if errors.Is(err, redis.Nil) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := versionOf(raw)
		if err != nil {
			return err
		}
		if current != expected {
			return shared.ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, data)
			return nil
		})
		return err
	}, key)
	return txError(err)
}

// txError maps an aborted WATCH transaction to a version conflict
func txError(err error) error {
	if errors.Is(err, redis.TxFailedErr) {
		return shared.ErrVersionConflict
	}
	return err
}
