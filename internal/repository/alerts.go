package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/safelanka/alert-engine/internal/models"
)

const alertColumns = "id, severity, topic, message, district, location, author_role, created_at, updated_at"

func (s *SQLiteDB) Create(ctx context.Context, a *models.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (`+alertColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Severity, a.Topic, a.Message, a.District, a.Location, a.Author, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting alert: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)

	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching alert: %w", err)
	}
	return a, nil
}

func (s *SQLiteDB) Update(ctx context.Context, a *models.Alert) error {
	a.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET severity = ?, topic = ?, message = ?, district = ?, location = ?, author_role = ?, updated_at = ?
		 WHERE id = ?`,
		a.Severity, a.Topic, a.Message, a.District, a.Location, a.Author, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteDB) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteDB) List(ctx context.Context, opts Filter) ([]models.Alert, int, error) {
	where, args := listPredicate(opts)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting alerts: %w", err)
	}

	query := `SELECT ` + alertColumns + ` FROM alerts` + where + ` ORDER BY created_at DESC`

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing alerts: %w", err)
	}
	defer rows.Close()

	alerts, err := collectAlerts(rows)
	if err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

func listPredicate(opts Filter) (string, []any) {
	var conds []string
	var args []any

	if len(opts.Districts) > 0 {
		placeholders := make([]string, len(opts.Districts))
		for i, d := range opts.Districts {
			placeholders[i] = "?"
			args = append(args, strings.ToLower(strings.TrimSpace(d)))
		}
		conds = append(conds, "LOWER(district) IN ("+strings.Join(placeholders, ", ")+")")
	}
	if q := strings.TrimSpace(opts.Search); q != "" {
		pattern := "%" + q + "%"
		conds = append(conds, "(topic LIKE ? OR message LIKE ? OR location LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *SQLiteDB) CountAlerts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting alerts: %w", err)
	}
	return n, nil
}

func (s *SQLiteDB) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts WHERE created_at >= ?`, since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting recent alerts: %w", err)
	}
	return n, nil
}

func (s *SQLiteDB) CountBySeverity(ctx context.Context) (map[models.Severity]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT LOWER(severity), COUNT(*) FROM alerts GROUP BY LOWER(severity)`)
	if err != nil {
		return nil, fmt.Errorf("error counting by severity: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Severity]int)
	for rows.Next() {
		var sev string
		var n int
		if err := rows.Scan(&sev, &n); err != nil {
			return nil, fmt.Errorf("error scanning severity count: %w", err)
		}
		counts[models.Severity(sev)] = n
	}
	return counts, rows.Err()
}

func (s *SQLiteDB) ListRecent(ctx context.Context, limit int) ([]models.RecentAlert, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, severity, district, author_role, created_at
		 FROM alerts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent alerts: %w", err)
	}
	defer rows.Close()

	recent := make([]models.RecentAlert, 0, limit)
	for rows.Next() {
		var r models.RecentAlert
		if err := rows.Scan(&r.ID, &r.Topic, &r.Severity, &r.District, &r.Author, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning recent alert: %w", err)
		}
		recent = append(recent, r)
	}
	return recent, rows.Err()
}

func (s *SQLiteDB) QueryReport(ctx context.Context, f ReportFilter) ([]models.Alert, error) {
	var conds []string
	var args []any

	if f.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, f.To.UTC())
	}
	if f.Severity != "" {
		conds = append(conds, "LOWER(severity) = ?")
		args = append(args, string(f.Severity))
	}
	if f.District != "" {
		conds = append(conds, "LOWER(district) = LOWER(?)")
		args = append(args, f.District)
	}

	query := `SELECT ` + alertColumns + ` FROM alerts`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying report: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	err := row.Scan(&a.ID, &a.Severity, &a.Topic, &a.Message, &a.District, &a.Location, &a.Author, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAlerts(rows *sql.Rows) ([]models.Alert, error) {
	var alerts []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning alert: %w", err)
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}
