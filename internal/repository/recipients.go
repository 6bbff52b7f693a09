package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/safelanka/alert-engine/internal/models"
)

func (s *SQLiteDB) ListNotifiable(ctx context.Context, district string) ([]models.Recipient, error) {
	query := `SELECT email, district, notifications_enabled FROM recipients
		WHERE notifications_enabled = 1 AND email != ''`
	var args []any

	if d := strings.TrimSpace(district); d != "" {
		query += ` AND LOWER(district) = LOWER(?)`
		args = append(args, d)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing recipients: %w", err)
	}
	defer rows.Close()

	var recipients []models.Recipient
	for rows.Next() {
		var r models.Recipient
		if err := rows.Scan(&r.Email, &r.District, &r.NotificationsEnabled); err != nil {
			return nil, fmt.Errorf("error scanning recipient: %w", err)
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}

func (s *SQLiteDB) CountNotifiable(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipients WHERE notifications_enabled = 1 AND email != ''`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting recipients: %w", err)
	}
	return n, nil
}

func (s *SQLiteDB) UpsertRecipient(ctx context.Context, r *models.Recipient) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recipients (email, district, notifications_enabled) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET district = excluded.district,
		 notifications_enabled = excluded.notifications_enabled`,
		r.Email, r.District, r.NotificationsEnabled,
	)
	if err != nil {
		return fmt.Errorf("error upserting recipient: %w", err)
	}
	return nil
}
