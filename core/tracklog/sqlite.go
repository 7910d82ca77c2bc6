package tracklog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists points to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS track_points (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        vehicle_id TEXT NOT NULL,
        lat REAL NOT NULL,
        lon REAL NOT NULL,
        ts INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_track_vehicle_ts ON track_points (vehicle_id, ts);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, p Point) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO track_points (vehicle_id, lat, lon, ts) VALUES (?, ?, ?, ?)`,
		p.VehicleID, p.Lat, p.Lon, p.Timestamp.UnixNano())
	return err
}

func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Point, error) {
	var args []any
	query := `SELECT vehicle_id, lat, lon, ts FROM track_points WHERE 1=1`
	if q.VehicleID != "" {
		query += ` AND vehicle_id = ?`
		args = append(args, q.VehicleID)
	}
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	query += ` ORDER BY ts`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Point
	for rows.Next() {
		var p Point
		var ts int64
		if err := rows.Scan(&p.VehicleID, &p.Lat, &p.Lon, &ts); err != nil {
			return nil, err
		}
		p.Timestamp = time.Unix(0, ts).UTC()
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
