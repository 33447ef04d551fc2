package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore keeps mappings in Postgres. Selected when a database URL is
// configured, for deployments where local disk is ephemeral.
type PgStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, url string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	s := &PgStore{pool: pool}
	if err := s.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PgStore) init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `create table if not exists mappings (
		client_external_id text primary key,
		chat_id bigint not null,
		updated_at timestamptz not null default now()
	)`)
	return err
}

func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PgStore) UpsertMapping(ctx context.Context, clientExternalID string, chatID int64) error {
	_, err := s.pool.Exec(ctx,
		`insert into mappings (client_external_id, chat_id, updated_at)
		 values ($1, $2, now())
		 on conflict (client_external_id) do update set chat_id = excluded.chat_id, updated_at = excluded.updated_at`,
		clientExternalID, chatID,
	)
	return err
}

func (s *PgStore) LookupChatID(ctx context.Context, clientExternalID string) (int64, error) {
	var chatID int64
	err := s.pool.QueryRow(ctx,
		`select chat_id from mappings where client_external_id = $1`, clientExternalID,
	).Scan(&chatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return chatID, nil
}
