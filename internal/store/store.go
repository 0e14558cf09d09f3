// Package store keeps privacy-conscious site analytics in SQLite: page visits
// keyed by hashed IP and lightbox image views.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout matches SQLite's CURRENT_TIMESTAMP so string comparison orders correctly.
const timeLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// VisitorMetric is one recorded page visit.
type VisitorMetric struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ImageView is one lightbox open.
type ImageView struct {
	ImageID        int       `json:"image_id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	ActiveCategory string    `json:"active_category"`
	HashedIP       string    `json:"hashed_ip"`
	Timestamp      time.Time `json:"timestamp"`
}

// ImageStat aggregates views for one image.
type ImageStat struct {
	ImageID    int       `json:"image_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Views      int64     `json:"views"`
	LastViewed time.Time `json:"last_viewed"`
}

// AdminStats is the dashboard summary.
type AdminStats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	TotalImageViews  int64           `json:"total_image_views"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TopImages        []ImageStat     `json:"top_images"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
}

// Store provides SQLite-backed analytics.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open creates or opens the database at path and applies the schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	logger.Info("analytics store ready", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordVisit stores a page visit.
func (s *Store) RecordVisit(ctx context.Context, v VisitorMetric) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, formatTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordImageView stores a lightbox open.
func (s *Store) RecordImageView(ctx context.Context, v ImageView) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO image_views (image_id, title, category, active_category, hashed_ip, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, v.ImageID, v.Title, v.Category, v.ActiveCategory, v.HashedIP, formatTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("record image view: %w", err)
	}
	return nil
}

// Stats builds the dashboard summary relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*AdminStats, error) {
	stats := &AdminStats{}
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.TotalImageViews, `SELECT COUNT(*) FROM image_views`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(startOfDay)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(now.Add(-7 * 24 * time.Hour))}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	top, err := s.ImageStats(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.TopImages = top

	recent, err := s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	return stats, nil
}

// ImageStats returns images ordered by view count. limit <= 0 means no limit.
func (s *Store) ImageStats(ctx context.Context, limit int) ([]ImageStat, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT image_id, MAX(title), MAX(category), COUNT(*) AS views, MAX(timestamp)
		FROM image_views
		GROUP BY image_id
		ORDER BY views DESC, image_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("image stats: %w", err)
	}
	defer rows.Close()

	var out []ImageStat
	for rows.Next() {
		var (
			st   ImageStat
			last string
		)
		if err := rows.Scan(&st.ImageID, &st.Title, &st.Category, &st.Views, &last); err != nil {
			return nil, fmt.Errorf("scan image stat: %w", err)
		}
		st.LastViewed = parseTime(last)
		out = append(out, st)
	}
	return out, rows.Err()
}

// ImageStat returns the aggregate for one image.
func (s *Store) ImageStat(ctx context.Context, imageID int) (*ImageStat, error) {
	var (
		st   = ImageStat{ImageID: imageID}
		last sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(title), ''), COALESCE(MAX(category), ''), COUNT(*), MAX(timestamp)
		FROM image_views WHERE image_id = ?
	`, imageID).Scan(&st.Title, &st.Category, &st.Views, &last)
	if err != nil {
		return nil, fmt.Errorf("image stat %d: %w", imageID, err)
	}
	if st.Views == 0 {
		return nil, ErrNotFound
	}
	st.LastViewed = parseTime(last.String)
	return &st, nil
}

// RecentVisitors returns the latest visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var (
			v  VisitorMetric
			ts string
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = parseTime(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Cleanup deletes visits and image views recorded before cutoff.
func (s *Store) Cleanup(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"visitors", "image_views"} {
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE timestamp < ?`, formatTime(cutoff))
		if err != nil {
			return total, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if total > 0 {
		s.logger.Info("privacy cleanup removed old analytics", zap.Int64("rows", total))
	}
	return total, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
