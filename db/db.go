package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/reto140/reto140-api/internal/joincode"
)

// Sentinel errors surfaced by store operations. The service layer maps each
// onto an HTTP status.
var (
	ErrNotFound      = errors.New("group not found or inactive")
	ErrAlreadyMember = errors.New("already an active member of this group")
	ErrGroupFull     = errors.New("group has reached its member limit")
	ErrNotMember     = errors.New("not an active member of this group")
	ErrNoAccess      = errors.New("no access to this group")
	ErrNoFields      = errors.New("no fields to update")
)

// FitnessDB wraps the connection pool together with the join-code generator
// and a logger. It is constructed once and injected into the middleware and
// services; there is no ambient global handle.
type FitnessDB struct {
	DB    *sql.DB
	Codes joincode.Generator
	Log   *zerolog.Logger
}

// NewFitnessDB opens the connection pool and verifies connectivity before
// returning the handle.
func NewFitnessDB(connStr string, codes joincode.Generator, log *zerolog.Logger) (*FitnessDB, error) {
	if connStr == "" {
		log.Error().Msg("database connection string is not set")
		return nil, fmt.Errorf("database connection string is not set")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		return nil, err
	}

	return &FitnessDB{
		DB:    db,
		Codes: codes,
		Log:   log,
	}, nil
}

func (f *FitnessDB) Close() error {
	if err := f.DB.Close(); err != nil {
		return err
	}
	f.Log.Info().Msg("database connection closed")
	return nil
}

// Ping reports whether the store is reachable. Used by the health endpoint.
func (f *FitnessDB) Ping(ctx context.Context) error {
	return f.DB.PingContext(ctx)
}

// CommitTransaction commits a transaction, rolling back if the commit fails.
func (f *FitnessDB) CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}
