package sink

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marchworks/leadscout/internal/scout"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the Postgres connection pool for the place store.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	Table           string        `mapstructure:"table"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// PlaceStore upserts scouted places into Postgres keyed by name and address,
// so repeat runs over the same region refresh rows instead of duplicating
// them.
type PlaceStore struct {
	pool  execCloser
	table string
}

// NewPlaceStore creates a Postgres-backed PlaceStore using the provided config.
func NewPlaceStore(ctx context.Context, cfg PostgresConfig) (*PlaceStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "places"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PlaceStore{pool: pool, table: table}, nil
}

// NewPlaceStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewPlaceStoreWithPool(pool execCloser, table string) (*PlaceStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "places"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PlaceStore{pool: pool, table: table}, nil
}

// Name identifies the sink in logs.
func (s *PlaceStore) Name() string { return "postgres" }

// Close releases the underlying pool resources.
func (s *PlaceStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the place table when it does not exist yet.
func (s *PlaceStore) EnsureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("place store is not configured")
	}
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id SERIAL PRIMARY KEY,
	location TEXT,
	name TEXT,
	rating DOUBLE PRECISION,
	review_count INTEGER,
	phone TEXT,
	address TEXT,
	website TEXT,
	category TEXT,
	has_website BOOLEAN,
	bucket TEXT,
	emails TEXT,
	instagram TEXT,
	facebook TEXT,
	twitter TEXT,
	whatsapp TEXT,
	telegram TEXT,
	messenger TEXT,
	line TEXT,
	updated_at TIMESTAMPTZ DEFAULT NOW(),
	UNIQUE (name, address)
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Write upserts every candidate of the batch, one row per place.
func (s *PlaceStore) Write(ctx context.Context, batch scout.Batch) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("place store is not configured")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	location,
	name,
	rating,
	review_count,
	phone,
	address,
	website,
	category,
	has_website,
	bucket,
	emails,
	instagram,
	facebook,
	twitter,
	whatsapp,
	telegram,
	messenger,
	line
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18
)
ON CONFLICT (name, address) DO UPDATE SET
	location = EXCLUDED.location,
	rating = EXCLUDED.rating,
	review_count = EXCLUDED.review_count,
	phone = EXCLUDED.phone,
	website = EXCLUDED.website,
	category = EXCLUDED.category,
	has_website = EXCLUDED.has_website,
	bucket = EXCLUDED.bucket,
	emails = EXCLUDED.emails,
	instagram = EXCLUDED.instagram,
	facebook = EXCLUDED.facebook,
	twitter = EXCLUDED.twitter,
	whatsapp = EXCLUDED.whatsapp,
	telegram = EXCLUDED.telegram,
	messenger = EXCLUDED.messenger,
	line = EXCLUDED.line,
	updated_at = NOW()`, s.table)

	for _, part := range batch.Partitions {
		for _, c := range part.Places {
			args := []any{
				batch.Region,
				c.Name,
				c.Rating,
				c.ReviewCount,
				c.Phone,
				c.Address,
				c.WebsiteURL,
				strings.Join(c.Categories, ", "),
				c.HasWebsite(),
				string(c.Bucket),
				strings.Join(c.Contacts.Emails, ", "),
				c.Contacts.Instagram,
				c.Contacts.Facebook,
				c.Contacts.Twitter,
				c.Contacts.WhatsApp,
				c.Contacts.Telegram,
				c.Contacts.Messenger,
				c.Contacts.Line,
			}
			if _, err := s.pool.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert place %q: %w", c.Name, err)
			}
		}
	}
	return nil
}
