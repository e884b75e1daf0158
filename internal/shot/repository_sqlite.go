package shot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shot-history-api/internal/logging"
)

// SQLiteRepo implements Repository over SQLite.
// Samples and notes are stored as JSON columns.
type SQLiteRepo struct {
	DB *sql.DB
}

const shotColumns = `id, timestamp, profile, profile_id, duration_ms, volume, incomplete, samples, notes`

func (r *SQLiteRepo) Upsert(ctx context.Context, s Shot) error {
	samples, err := json.Marshal(nonNilSamples(s.Samples))
	if err != nil {
		return fmt.Errorf("encode samples: %w", err)
	}
	notes, err := encodeNotes(s.Notes)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
INSERT INTO shots(`+shotColumns+`, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  timestamp=excluded.timestamp,
  profile=excluded.profile,
  profile_id=excluded.profile_id,
  duration_ms=excluded.duration_ms,
  volume=excluded.volume,
  incomplete=excluded.incomplete,
  samples=excluded.samples,
  notes=excluded.notes
`, s.ID, s.Timestamp, s.Profile, s.ProfileID, s.Duration, s.Volume, s.Incomplete,
		string(samples), notes, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (Shot, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+shotColumns+` FROM shots WHERE id=?`, id)
	s, err := scanShot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logging.FromContext(ctx, "shot").Debug().Str("shot_id", id).Msg("Shot not found in database")
			return Shot{}, ErrNotFound
		}
		logging.FromContext(ctx, "shot").Error().Err(err).Str("shot_id", id).Msg("Database error querying shot")
		return Shot{}, err
	}
	return s, nil
}

func (r *SQLiteRepo) List(ctx context.Context, limit, offset int) ([]Shot, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+shotColumns+`
FROM shots ORDER BY timestamp DESC, id ASC LIMIT ? OFFSET ?
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	out := make([]Shot, 0)
	for rows.Next() {
		s, err := scanShot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateNotes(ctx context.Context, id string, notes *Notes) error {
	encoded, err := encodeNotes(notes)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE shots SET notes=? WHERE id=?`, encoded, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM shots WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShot(sc scanner) (Shot, error) {
	var s Shot
	var samples string
	var notes sql.NullString
	if err := sc.Scan(&s.ID, &s.Timestamp, &s.Profile, &s.ProfileID, &s.Duration,
		&s.Volume, &s.Incomplete, &samples, &notes); err != nil {
		return Shot{}, err
	}
	if err := json.Unmarshal([]byte(samples), &s.Samples); err != nil {
		return Shot{}, fmt.Errorf("decode samples of shot %s: %w", s.ID, err)
	}
	s.Samples = nonNilSamples(s.Samples)
	if notes.Valid && notes.String != "" {
		var n Notes
		if err := json.Unmarshal([]byte(notes.String), &n); err != nil {
			return Shot{}, fmt.Errorf("decode notes of shot %s: %w", s.ID, err)
		}
		s.Notes = &n
	}
	return s, nil
}

func encodeNotes(n *Notes) (sql.NullString, error) {
	if n == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode notes: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNilSamples(in []Sample) []Sample {
	if in == nil {
		return []Sample{}
	}
	return in
}
