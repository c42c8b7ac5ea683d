package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores settings in the app_settings table.
// A tenant-scoped row shadows the global (NULL tenant) row for the same key.
type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

func (r *PostgresRepository) Get(ctx context.Context, key string, tenantID *uuid.UUID) (string, bool, error) {
	if tenantID != nil {
		var v string
		err := r.pg.QueryRow(ctx,
			`SELECT value FROM app_settings WHERE key = $1 AND tenant_id = $2`,
			key, *tenantID,
		).Scan(&v)
		if err == nil {
			return v, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", false, err
		}
	}
	var v string
	err := r.pg.QueryRow(ctx,
		`SELECT value FROM app_settings WHERE key = $1 AND tenant_id IS NULL`,
		key,
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, key string, tenantID *uuid.UUID, value string, secret bool) error {
	_, err := r.pg.Exec(ctx,
		`INSERT INTO app_settings (id, tenant_id, key, value, is_secret)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (tenant_id, key) DO UPDATE SET value = EXCLUDED.value, is_secret = EXCLUDED.is_secret`,
		uuid.New(), tenantID, key, value, secret,
	)
	return err
}
