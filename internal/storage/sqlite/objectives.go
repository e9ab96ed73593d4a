package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

const objectiveColumns = `id, owner_id, name, frequency, last_submitted, streak, last_streak_day, last_reminded, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanObjective(row rowScanner) (models.Objective, error) {
	var o models.Objective
	var frequency string
	var lastSubmitted, lastReminded sql.NullInt64
	var lastStreakDay sql.NullString
	var createdAt int64

	if err := row.Scan(&o.ID, &o.OwnerID, &o.Name, &frequency, &lastSubmitted, &o.Streak, &lastStreakDay, &lastReminded, &createdAt); err != nil {
		return models.Objective{}, err
	}

	o.Frequency = models.Frequency(frequency)
	o.LastSubmitted = fromMillis(lastSubmitted)
	o.LastReminded = fromMillis(lastReminded)
	o.CreatedAt = time.UnixMilli(createdAt).UTC()
	if lastStreakDay.Valid {
		anchor, err := models.ParseDay(lastStreakDay.String)
		if err != nil {
			return models.Objective{}, fmt.Errorf("failed to parse last_streak_day for objective %s: %w", o.ID, err)
		}
		o.LastStreakAnchor = &anchor
	}
	return o, nil
}

func fromMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}

func toMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func toDay(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(models.DayFormat), Valid: true}
}

func (s *Store) GetObjective(ctx context.Context, ownerID, name string) (models.Objective, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+objectiveColumns+` FROM objectives WHERE owner_id = ? AND name = ?`, ownerID, name)
	o, err := scanObjective(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Objective{}, storage.ErrNotFound
	}
	return o, err
}

func (s *Store) ListObjectives(ctx context.Context, ownerID string) ([]models.Objective, error) {
	return s.queryObjectives(ctx,
		`SELECT `+objectiveColumns+` FROM objectives WHERE owner_id = ? ORDER BY created_at, name`, ownerID)
}

func (s *Store) ListAllObjectives(ctx context.Context) ([]models.Objective, error) {
	return s.queryObjectives(ctx,
		`SELECT `+objectiveColumns+` FROM objectives ORDER BY owner_id, created_at, name`)
}

func (s *Store) queryObjectives(ctx context.Context, query string, args ...interface{}) ([]models.Objective, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objectives []models.Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}
	return objectives, rows.Err()
}

func (s *Store) CreateObjective(ctx context.Context, o models.Objective) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO objectives (`+objectiveColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.OwnerID, o.Name, string(o.Frequency),
		toMillis(o.LastSubmitted), o.Streak, toDay(o.LastStreakAnchor), toMillis(o.LastReminded),
		o.CreatedAt.UnixMilli())
	if isUniqueViolation(err) {
		return storage.ErrConflict
	}
	return err
}

func (s *Store) UpsertObjective(ctx context.Context, o models.Objective) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO objectives (`+objectiveColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			frequency = excluded.frequency,
			last_submitted = excluded.last_submitted,
			streak = excluded.streak,
			last_streak_day = excluded.last_streak_day,
			last_reminded = excluded.last_reminded`,
		o.ID, o.OwnerID, o.Name, string(o.Frequency),
		toMillis(o.LastSubmitted), o.Streak, toDay(o.LastStreakAnchor), toMillis(o.LastReminded),
		o.CreatedAt.UnixMilli())
	if isUniqueViolation(err) {
		return storage.ErrConflict
	}
	return err
}

func (s *Store) CompareAndSwapSubmission(ctx context.Context, o models.Objective, prev *time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// "IS ?" matches NULL against a nil previous submission.
	result, err := tx.ExecContext(ctx, `
		UPDATE objectives
		SET last_submitted = ?, streak = ?, last_streak_day = ?
		WHERE id = ? AND last_submitted IS ?`,
		toMillis(o.LastSubmitted), o.Streak, toDay(o.LastStreakAnchor), o.ID, toMillis(prev))
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM objectives WHERE id = ?`, o.ID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return storage.ErrNotFound
		}
		return storage.ErrStale
	}

	return tx.Commit()
}

func (s *Store) MarkReminded(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE objectives SET last_reminded = ? WHERE id = ?`, at.UnixMilli(), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *Store) DeleteObjective(ctx context.Context, ownerID, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM objectives WHERE owner_id = ? AND name = ?`, ownerID, name)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *Store) RenameObjective(ctx context.Context, ownerID, oldName, newName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM objectives WHERE owner_id = ? AND name = ?`, ownerID, oldName).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return storage.ErrNotFound
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM objectives WHERE owner_id = ? AND name = ?`, ownerID, newName).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return storage.ErrConflict
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE objectives SET name = ? WHERE owner_id = ? AND name = ?`, newName, ownerID, oldName); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return err
	}

	return tx.Commit()
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
