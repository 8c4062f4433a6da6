// Package archive stores every citation record the bot has already processed,
// one JSON blob per record under a generated key. Entries are never updated
// or deleted; whether a feed record is new is decided entirely by diffing
// against the full archive.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"citebot/models"

	"github.com/google/uuid"
	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

type Store struct {
	db *sql.DB
}

func NewStore(database string) (*Store, error) {
	db, err := connection(database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ReadAll returns every archived citation record.
func (s *Store) ReadAll(ctx context.Context) ([]models.CitationRecord, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("record").From("citations").OrderBy("created_at", "key").Asc()

	query, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &models.TransientError{Op: "read archive", Err: err}
	}
	defer rows.Close()

	var records []models.CitationRecord
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		var record models.CitationRecord
		if err := json.Unmarshal([]byte(blob), &record); err != nil {
			return nil, fmt.Errorf("corrupt archive entry: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.TransientError{Op: "read archive", Err: err}
	}

	return records, nil
}

// WriteAll persists one new entry per record, each under a fresh key. Every
// record is written in its own statement so a failure part way through never
// leaves a half-written entry behind.
func (s *Store) WriteAll(ctx context.Context, records []models.CitationRecord) error {
	for _, record := range records {
		key := uuid.NewString()

		blob, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode archive entry: %w", err)
		}

		ib := sqlbuilder.NewInsertBuilder()
		ib.InsertInto("citations").
			Cols("key", "record", "created_at").
			Values(key, string(blob), time.Now().Unix())

		query, args := ib.BuildWithFlavor(sqlbuilder.SQLite)

		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return &models.TransientError{Op: "write archive", Err: err}
		}

		log.WithFields(log.Fields{
			"key":  key,
			"name": record.Name,
		}).Info("Archived citation")
	}

	return nil
}

// Count returns the number of archived entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM citations").Scan(&count); err != nil {
		return 0, &models.TransientError{Op: "count archive", Err: err}
	}
	return count, nil
}
