package oracle

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// cacheSchema contains the DDL executed on first open. Using IF NOT EXISTS
// makes it safe to run on every startup. Queries and arrivals are split so
// that empty arrival sets are cached too.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS queries (
    model    TEXT NOT NULL,
    depth    REAL NOT NULL,
    distance REAL NOT NULL,
    PRIMARY KEY (model, depth, distance)
);

CREATE TABLE IF NOT EXISTS arrivals (
    model    TEXT NOT NULL,
    depth    REAL NOT NULL,
    distance REAL NOT NULL,
    seq      INTEGER NOT NULL,
    phase    TEXT NOT NULL,
    time     REAL NOT NULL,
    dtdd     REAL NOT NULL DEFAULT 0,
    dtdh     REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (model, depth, distance, seq)
);
`

// Cache is a read-through store of oracle results in a local SQLite database.
// External oracle invocations dominate run time, so re-runs against the same
// reference model reuse earlier answers. Arrival order is preserved because
// the resolver treats it as priority order.
type Cache struct {
	db    *sql.DB
	inner Oracle
	model string
}

// OpenCache opens (or creates) the cache database at dbPath, wrapping inner.
// The model name namespaces entries so one cache file can serve both iasp91
// and ak135 runs.
func OpenCache(ctx context.Context, dbPath, modelName string, inner Oracle) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}

	// Single connection: SQLite supports one writer, and one connection
	// avoids SQLITE_BUSY contention between pooled connections that each
	// need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}

	return &Cache{db: db, inner: inner, model: modelName}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Compute returns cached arrivals when present, otherwise consults the inner
// oracle and stores its answer. Oracle failures are returned uncached so a
// transient failure does not poison the cell.
func (c *Cache) Compute(ctx context.Context, depthKm, distanceDeg float64) ([]Arrival, error) {
	cached, hit, err := c.lookup(ctx, depthKm, distanceDeg)
	if err != nil {
		return nil, err
	}
	if hit {
		return cached, nil
	}

	arrivals, err := c.inner.Compute(ctx, depthKm, distanceDeg)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, depthKm, distanceDeg, arrivals); err != nil {
		return nil, err
	}
	return arrivals, nil
}

func (c *Cache) lookup(ctx context.Context, depth, distance float64) ([]Arrival, bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx,
		`SELECT 1 FROM queries WHERE model = ? AND depth = ? AND distance = ?`,
		c.model, depth, distance).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: query lookup: %w", err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT phase, time, dtdd, dtdh FROM arrivals
		 WHERE model = ? AND depth = ? AND distance = ? ORDER BY seq`,
		c.model, depth, distance)
	if err != nil {
		return nil, false, fmt.Errorf("cache: arrival lookup: %w", err)
	}
	defer rows.Close()

	var arrivals []Arrival
	for rows.Next() {
		var a Arrival
		if err := rows.Scan(&a.Phase, &a.Time, &a.Dtdd, &a.Dtdh); err != nil {
			return nil, false, fmt.Errorf("cache: scan arrival: %w", err)
		}
		arrivals = append(arrivals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("cache: read arrivals: %w", err)
	}
	return arrivals, true, nil
}

func (c *Cache) store(ctx context.Context, depth, distance float64, arrivals []Arrival) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache: begin store: %w", err)
	}
	defer tx.Rollback()

	// OR IGNORE: concurrent workers may race on the same cell; the first
	// writer wins and both answers are identical.
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO queries (model, depth, distance) VALUES (?, ?, ?)`,
		c.model, depth, distance); err != nil {
		return fmt.Errorf("cache: store query: %w", err)
	}
	for i, a := range arrivals {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO arrivals (model, depth, distance, seq, phase, time, dtdd, dtdh)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.model, depth, distance, i, a.Phase, a.Time, a.Dtdd, a.Dtdh); err != nil {
			return fmt.Errorf("cache: store arrival: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache: commit store: %w", err)
	}
	return nil
}
