package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/busradar/busradar/core/geo"
	"github.com/busradar/busradar/core/model"
)

// SQLiteStore persists the subscriber roster to a SQLite database.
// ResetAll and ReplaceAll run inside one transaction so concurrent
// selects observe either the old or the new roster, never a mix.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS subscribers (
        id TEXT PRIMARY KEY,
        endpoint TEXT NOT NULL,
        p256dh TEXT NOT NULL,
        auth TEXT NOT NULL,
        route_key TEXT NOT NULL,
        lat REAL,
        lon REAL,
        notified INTEGER NOT NULL DEFAULT 0
    );
    CREATE INDEX IF NOT EXISTS idx_subscribers_route ON subscribers (route_key, notified);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SelectCandidates(ctx context.Context, routeKey string, box geo.BoundingBox) ([]model.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, endpoint, p256dh, auth, route_key, lat, lon, notified
         FROM subscribers
         WHERE route_key = ? AND notified = 0
           AND lat IS NOT NULL AND lon IS NOT NULL
           AND lat >= ? AND lat <= ? AND lon >= ? AND lon <= ?
         ORDER BY id`,
		routeKey, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, err
	}
	return scanSubscribers(rows)
}

func (s *SQLiteStore) SelectByRoute(ctx context.Context, routeKey string) ([]model.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, endpoint, p256dh, auth, route_key, lat, lon, notified
         FROM subscribers WHERE route_key = ? ORDER BY id`, routeKey)
	if err != nil {
		return nil, err
	}
	return scanSubscribers(rows)
}

func (s *SQLiteStore) MarkNotified(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE subscribers SET notified = 1 WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ReplaceAll(ctx context.Context, subs []model.Subscriber) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subscribers`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, sub := range subs {
		var lat, lon any
		if sub.HasPosition {
			lat, lon = sub.Lat, sub.Lon
		}
		notified := 0
		if sub.Notified {
			notified = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subscribers (id, endpoint, p256dh, auth, route_key, lat, lon, notified)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID, sub.Subscription.Endpoint, sub.Subscription.Keys.P256dh,
			sub.Subscription.Keys.Auth, sub.RouteKey, lat, lon, notified); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ResetAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subscribers`); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func scanSubscribers(rows *sql.Rows) ([]model.Subscriber, error) {
	defer func() { _ = rows.Close() }()
	var res []model.Subscriber
	for rows.Next() {
		var (
			sub      model.Subscriber
			lat, lon sql.NullFloat64
			notified int
		)
		if err := rows.Scan(&sub.ID, &sub.Subscription.Endpoint, &sub.Subscription.Keys.P256dh,
			&sub.Subscription.Keys.Auth, &sub.RouteKey, &lat, &lon, &notified); err != nil {
			return nil, err
		}
		if lat.Valid && lon.Valid {
			sub.Lat, sub.Lon, sub.HasPosition = lat.Float64, lon.Float64, true
		}
		sub.Notified = notified != 0
		res = append(res, sub)
	}
	return res, rows.Err()
}
