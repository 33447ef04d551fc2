package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketMappings = []byte("mappings")

// BoltStore keeps mappings in a local bbolt file. It is the default backend:
// one writer process, durable across restarts, safe for concurrent handlers.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketMappings)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

func (s *BoltStore) UpsertMapping(ctx context.Context, clientExternalID string, chatID int64) error {
	if clientExternalID == "" {
		return fmt.Errorf("client external id required")
	}
	m := Mapping{
		ClientExternalID: clientExternalID,
		ChatID:           chatID,
		UpdatedAt:        time.Now().UTC(),
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMappings).Put([]byte(clientExternalID), b)
	})
}

func (s *BoltStore) LookupChatID(ctx context.Context, clientExternalID string) (int64, error) {
	var m Mapping
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMappings).Get([]byte(clientExternalID))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &m)
	})
	if err != nil {
		return 0, err
	}
	return m.ChatID, nil
}
