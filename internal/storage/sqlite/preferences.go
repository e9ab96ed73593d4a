package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/storage"
)

func (s *Store) GetPreference(ctx context.Context, ownerID string) (models.UserPreference, error) {
	var pref models.UserPreference
	var visibility string
	var updatedAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, visibility, updated_at FROM user_preferences WHERE owner_id = ?`, ownerID).
		Scan(&pref.OwnerID, &visibility, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserPreference{}, storage.ErrNotFound
	}
	if err != nil {
		return models.UserPreference{}, err
	}

	pref.Visibility = models.Visibility(visibility)
	pref.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return pref, nil
}

func (s *Store) SavePreference(ctx context.Context, pref models.UserPreference) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (owner_id, visibility, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			visibility = excluded.visibility,
			updated_at = excluded.updated_at`,
		pref.OwnerID, string(pref.Visibility), pref.UpdatedAt.UnixMilli())
	return err
}

func (s *Store) ListPreferences(ctx context.Context) ([]models.UserPreference, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT owner_id, visibility, updated_at FROM user_preferences ORDER BY owner_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []models.UserPreference
	for rows.Next() {
		var pref models.UserPreference
		var visibility string
		var updatedAt int64
		if err := rows.Scan(&pref.OwnerID, &visibility, &updatedAt); err != nil {
			return nil, err
		}
		pref.Visibility = models.Visibility(visibility)
		pref.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}
