package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/peer-support/internal/domain"
)

type postgresMessageStore struct {
	pool *pgxpool.Pool
}

// NewPostgresMessageStore stores one row per record; position keeps the
// newest-first order of the collection.
func NewPostgresMessageStore(pool *pgxpool.Pool) MessageStore {
	return &postgresMessageStore{pool: pool}
}

const recordColumns = `id, tracking_code, category, declared_urgency, effective_urgency, mood, body,
        status, crisis_detected, crisis_level, crisis_score, crisis_keywords, crisis_categories,
        replies, counselor_notes, created_at, updated_at`

func (s *postgresMessageStore) LoadAll(ctx context.Context) ([]domain.MessageRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+recordColumns+` FROM message_records ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.MessageRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *postgresMessageStore) SaveAll(ctx context.Context, records []domain.MessageRecord) error {
	const insert = `
        INSERT INTO message_records (position, ` + recordColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM message_records`); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for i := range records {
			args, err := recordArgs(i, records[i])
			if err != nil {
				return err
			}
			batch.Queue(insert, args...)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

// recordArgs lays out one row in INSERT column order.
func recordArgs(position int, rec domain.MessageRecord) ([]any, error) {
	rec.Normalize()
	replies, err := json.Marshal(rec.Replies)
	if err != nil {
		return nil, fmt.Errorf("encode replies for %s: %w", rec.ID, err)
	}
	return []any{
		position,
		rec.ID,
		rec.TrackingCode,
		rec.Category,
		rec.DeclaredUrgency,
		rec.EffectiveUrgency,
		rec.Mood,
		rec.Body,
		rec.Status,
		rec.CrisisDetected,
		rec.CrisisLevel,
		rec.CrisisScore,
		rec.CrisisKeywords,
		rec.CrisisCategories,
		string(replies),
		rec.CounselorNotes,
		formatTimestamp(rec.CreatedAt),
		formatTimestamp(rec.UpdatedAt),
	}, nil
}

func scanRecord(row pgx.Row) (domain.MessageRecord, error) {
	var (
		rec              domain.MessageRecord
		replies          []byte
		created, updated string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.TrackingCode,
		&rec.Category,
		&rec.DeclaredUrgency,
		&rec.EffectiveUrgency,
		&rec.Mood,
		&rec.Body,
		&rec.Status,
		&rec.CrisisDetected,
		&rec.CrisisLevel,
		&rec.CrisisScore,
		&rec.CrisisKeywords,
		&rec.CrisisCategories,
		&replies,
		&rec.CounselorNotes,
		&created,
		&updated,
	); err != nil {
		return domain.MessageRecord{}, err
	}
	if len(replies) > 0 {
		if err := json.Unmarshal(replies, &rec.Replies); err != nil {
			return domain.MessageRecord{}, fmt.Errorf("decode replies for %s: %w", rec.ID, err)
		}
	}
	var err error
	if rec.CreatedAt, err = parseTimestamp(created); err != nil {
		return domain.MessageRecord{}, fmt.Errorf("decode created_at for %s: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return domain.MessageRecord{}, fmt.Errorf("decode updated_at for %s: %w", rec.ID, err)
	}
	rec.Normalize()
	return rec, nil
}

// Timestamps are stored as UTC RFC 3339 text; TIMESTAMPTZ would drop the
// nanoseconds and scan back in the local zone.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
