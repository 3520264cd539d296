package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/kilianp07/wssim/core/model"
)

type dialect struct {
	driver string
	schema string
	ph     func(n int) string
	ts     func(t time.Time) any
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS station_snapshots (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT,
        station TEXT,
        sim_time INTEGER,
        battery_percent INTEGER,
        power_state TEXT,
        record TEXT
    );`,
	ph: func(int) string { return "?" },
	ts: func(t time.Time) any { return t.UnixNano() },
}

var postgresDialect = dialect{
	driver: "pgx",
	schema: `CREATE TABLE IF NOT EXISTS station_snapshots (
        id BIGSERIAL PRIMARY KEY,
        run_id TEXT,
        station TEXT,
        sim_time TIMESTAMPTZ,
        battery_percent INTEGER,
        power_state TEXT,
        record JSONB
    );`,
	ph: func(n int) string { return "$" + strconv.Itoa(n) },
	ts: func(t time.Time) any { return t.UTC() },
}

// SQLStore persists snapshots in a SQL table. The full snapshot is kept as
// JSON next to a few indexed columns.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// NewSQLiteStore opens or creates the SQLite database at dsn.
func NewSQLiteStore(dsn string) (*SQLStore, error) {
	return openSQLStore(context.Background(), sqliteDialect, dsn)
}

// NewPostgresStore connects to PostgreSQL through the pgx driver.
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	return openSQLStore(ctx, postgresDialect, dsn)
}

func openSQLStore(ctx context.Context, d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w", d.driver, err)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLStore{db: db, d: d}, nil
}

// Append inserts one row.
func (s *SQLStore) Append(ctx context.Context, snap model.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`INSERT INTO station_snapshots (run_id, station, sim_time, battery_percent, power_state, record)
        VALUES (%s, %s, %s, %s, %s, %s)`,
		s.d.ph(1), s.d.ph(2), s.d.ph(3), s.d.ph(4), s.d.ph(5), s.d.ph(6))
	_, err = s.db.ExecContext(ctx, q,
		snap.RunID, snap.Workstation, s.d.ts(snap.SimTime), snap.BatteryPercent, snap.PowerState, string(b))
	return err
}

// Query returns the snapshots matching q ordered by simulated time.
func (s *SQLStore) Query(ctx context.Context, q Query) ([]model.Snapshot, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, s.d.ph(len(args))))
	}
	if !q.Start.IsZero() {
		add("sim_time >= %s", s.d.ts(q.Start))
	}
	if !q.End.IsZero() {
		add("sim_time <= %s", s.d.ts(q.End))
	}
	if q.RunID != "" {
		add("run_id = %s", q.RunID)
	}
	if q.Station != "" {
		add("station = %s", q.Station)
	}
	query := `SELECT record FROM station_snapshots`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY sim_time, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Snapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var snap model.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLStore) Close() error { return s.db.Close() }
