package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/billing"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RecordStore implements billing.RecordRepository on Redis hashes
type RecordStore struct {
	client *redis.Client
	keys   keyspace
}

// NewRecordStore creates a RecordStore using keys under prefix
func NewRecordStore(client *redis.Client, prefix string) *RecordStore {
	return &RecordStore{client: client, keys: newKeyspace(prefix)}
}

var _ billing.RecordRepository = (*RecordStore)(nil)

var recordKinds = []billing.RecordKind{billing.KindJobOrder, billing.KindInvoice}

// List returns the owner's records of one kind, oldest first
func (s *RecordStore) List(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind) ([]*billing.MonetaryRecord, error) {
	raw, err := s.client.HVals(ctx, s.keys.collection(ownerID, kind.Collection())).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind.Collection(), err)
	}
	records, err := decodeRecords(raw)
	if err != nil {
		return nil, err
	}
	sortRecords(records)
	return records, nil
}

// ListAll returns every record the owner has, oldest first. Both collections
// are read in one round trip.
func (s *RecordStore) ListAll(ctx context.Context, ownerID uuid.UUID) ([]*billing.MonetaryRecord, error) {
	cmds := make([]*redis.StringSliceCmd, len(recordKinds))
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, kind := range recordKinds {
			cmds[i] = pipe.HVals(ctx, s.keys.collection(ownerID, kind.Collection()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	var records []*billing.MonetaryRecord
	for _, cmd := range cmds {
		decoded, err := decodeRecords(cmd.Val())
		if err != nil {
			return nil, err
		}
		records = append(records, decoded...)
	}
	sortRecords(records)
	return records, nil
}

// FindByID looks the ID up in both collections of the owner
func (s *RecordStore) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*billing.MonetaryRecord, error) {
	for _, kind := range recordKinds {
		var record billing.MonetaryRecord
		err := getDocument(ctx, s.client, s.keys.collection(ownerID, kind.Collection()), id.String(), &record)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &record, nil
	}
	return nil, shared.ErrNotFound
}

// Create stores a new record and claims its number. A number already used
// by the owner for the same kind yields ALREADY_EXISTS.
func (s *RecordStore) Create(ctx context.Context, record *billing.MonetaryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	docKey := s.keys.collection(record.OwnerID, record.Kind.Collection())
	numbersKey := s.keys.numbers(record.OwnerID, record.Kind.Collection())
	id := record.ID.String()

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		taken, err := tx.HExists(ctx, numbersKey, record.Number).Result()
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Record number %s is already in use", record.Number))
		}
		exists, err := tx.HExists(ctx, docKey, id).Result()
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrAlreadyExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, numbersKey, record.Number, id)
			pipe.HSet(ctx, docKey, id, data)
			return nil
		})
		return err
	}, numbersKey, docKey)
	if errors.Is(err, redis.TxFailedErr) {
		// someone claimed a number concurrently; the caller retries with a fresh one
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Record number %s is already in use", record.Number))
	}
	return err
}

// Update writes the record back, guarded by its version
func (s *RecordStore) Update(ctx context.Context, record *billing.MonetaryRecord) error {
	expected := record.GetVersion()
	next := *record
	next.Version = expected + 1

	key := s.keys.collection(record.OwnerID, record.Kind.Collection())
	if err := replaceDocument(ctx, s.client, key, record.ID.String(), expected, &next); err != nil {
		return err
	}
	record.IncrementVersion()
	return nil
}

// Delete removes a record and releases its number
func (s *RecordStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	record, err := s.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	docKey := s.keys.collection(ownerID, record.Kind.Collection())
	numbersKey := s.keys.numbers(ownerID, record.Kind.Collection())

	cmds, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, docKey, id.String())
		pipe.HDel(ctx, numbersKey, record.Number)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if removed, _ := cmds[0].(*redis.IntCmd).Result(); removed == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListNumbers returns every number the owner has used for kind
func (s *RecordStore) ListNumbers(ctx context.Context, ownerID uuid.UUID, kind billing.RecordKind) ([]string, error) {
	numbers, err := s.client.HKeys(ctx, s.keys.numbers(ownerID, kind.Collection())).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list numbers: %w", err)
	}
	return numbers, nil
}

func decodeRecords(raw []string) ([]*billing.MonetaryRecord, error) {
	records := make([]*billing.MonetaryRecord, 0, len(raw))
	for _, doc := range raw {
		var record billing.MonetaryRecord
		if err := json.Unmarshal([]byte(doc), &record); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// sortRecords orders by creation time, then number. Hash values come back in
// no particular order.
func sortRecords(records []*billing.MonetaryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Number < b.Number
	})
}
