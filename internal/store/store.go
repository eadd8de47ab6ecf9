// Package store is the sole gateway to the relational causal-triple
// store: the Evidence Store Adapter (C2). Every other package reaches
// the database only through *PostgresStore, via the narrow
// EvidenceStore interfaces its consumers (internal/expand,
// internal/blanket, internal/engine) define for themselves.
// Grounded on internal/db/postgres.go's pgxpool wrapper, generalized
// from a single-purpose forensics table to the predication/sentence
// pair this domain reads.
package store

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// PostgresStore wraps a pgx connection pool scoped to the predication
// and sentence tables named by the DB_*_SCHEMA / DB_*_TABLE
// environment variables, defaulting to public.predication and
// public.sentence per the external-interfaces contract.
type PostgresStore struct {
	pool *pgxpool.Pool

	predicationSchema string
	predicationTable  string
	sentenceSchema    string
	sentenceTable     string

	// Verbose logs the parameterized query text and argument shapes
	// before execution, never expanding array parameters inline.
	Verbose bool
}

// Connect opens a pool against connStr and verifies it with a ping.
func Connect(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, &models.ConnectError{Cause: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &models.ConnectError{Cause: err}
	}

	s := &PostgresStore{
		pool:              pool,
		predicationSchema: envOrDefault("DB_PREDICATION_SCHEMA", "public"),
		predicationTable:  envOrDefault("DB_PREDICATION_TABLE", "predication"),
		sentenceSchema:    envOrDefault("DB_SENTENCE_SCHEMA", "public"),
		sentenceTable:     envOrDefault("DB_SENTENCE_TABLE", "sentence"),
	}
	log.Printf("[store] connected; predication=%s.%s sentence=%s.%s",
		s.predicationSchema, s.predicationTable, s.sentenceSchema, s.sentenceTable)
	return s, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) predicationRel() string {
	return fmt.Sprintf("%s.%s", s.predicationSchema, s.predicationTable)
}

func (s *PostgresStore) sentenceRel() string {
	return fmt.Sprintf("%s.%s", s.sentenceSchema, s.sentenceTable)
}

func (s *PostgresStore) logQuery(op, sql string, args []any) {
	if !s.Verbose {
		return
	}
	shapes := make([]string, len(args))
	for i, a := range args {
		shapes[i] = argShape(a)
	}
	log.Printf("[store] %s: %s args=%v", op, sql, shapes)
}

func argShape(a any) string {
	switch v := a.(type) {
	case []models.CUI:
		return fmt.Sprintf("[]CUI(len=%d)", len(v))
	case []models.Predicate:
		return fmt.Sprintf("[]Predicate(len=%d)", len(v))
	case []string:
		return fmt.Sprintf("[]string(len=%d)", len(v))
	default:
		return fmt.Sprintf("%T", a)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
