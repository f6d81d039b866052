package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/market"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS candles (
	symbol TEXT NOT NULL,
	interval TEXT NOT NULL,
	time INTEGER NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	PRIMARY KEY (symbol, interval, time)
);

CREATE TABLE IF NOT EXISTS fetches (
	symbol TEXT NOT NULL,
	interval TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER NOT NULL,
	fetched_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fetches_key ON fetches(symbol, interval);
`

// Cache stores downloaded candles in SQLite keyed by symbol and interval,
// along with the time ranges that have been fetched.
type Cache struct {
	db *sql.DB
}

func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func cacheKey(symbol, interval string) (string, string) {
	return strings.ToUpper(strings.TrimSpace(symbol)), strings.ToLower(strings.TrimSpace(interval))
}

// Store upserts candles and records [start, end) as fetched.
func (c *Cache) Store(ctx context.Context, symbol, interval string, start, end time.Time, candles []market.Candle) error {
	sym, iv := cacheKey(symbol, interval)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (symbol, interval, time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, interval, time) DO UPDATE SET
			open=excluded.open,
			high=excluded.high,
			low=excluded.low,
			close=excluded.close,
			volume=excluded.volume`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, cd := range candles {
		if _, err := stmt.ExecContext(ctx, sym, iv, cd.Time.Unix(), cd.Open, cd.High, cd.Low, cd.Close, cd.Volume); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fetches (symbol, interval, start_time, end_time, fetched_at)
		VALUES (?, ?, ?, ?, ?)`,
		sym, iv, start.Unix(), end.Unix(), time.Now().Unix(),
	); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Covers reports whether a single earlier fetch spans [start, end - slack].
func (c *Cache) Covers(ctx context.Context, symbol, interval string, start, end time.Time, slack time.Duration) (bool, error) {
	sym, iv := cacheKey(symbol, interval)
	var n int
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM fetches
		WHERE symbol = ? AND interval = ? AND start_time <= ? AND end_time >= ?`,
		sym, iv, start.Unix(), end.Add(-slack).Unix(),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Load returns cached candles with start <= time < end in time order.
func (c *Cache) Load(ctx context.Context, symbol, interval string, start, end time.Time) ([]market.Candle, error) {
	sym, iv := cacheKey(symbol, interval)
	rows, err := c.db.QueryContext(ctx, `
		SELECT time, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND interval = ? AND time >= ? AND time < ?
		ORDER BY time ASC`,
		sym, iv, start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Candle
	for rows.Next() {
		var (
			ts int64
			cd market.Candle
		)
		if err := rows.Scan(&ts, &cd.Open, &cd.High, &cd.Low, &cd.Close, &cd.Volume); err != nil {
			return nil, err
		}
		cd.Time = time.Unix(ts, 0).UTC()
		out = append(out, cd)
	}
	return out, rows.Err()
}

// CachedSource serves requests from a Cache when an earlier download covers
// them and otherwise fetches from Upstream and stores the result.
type CachedSource struct {
	Upstream Source
	Cache    *Cache

	// MaxAge is how far behind the requested end a cached download may stop
	// and still be reused. Zero means one hour.
	MaxAge time.Duration

	now func() time.Time
}

var _ Source = (*CachedSource)(nil)

func NewCachedSource(upstream Source, cache *Cache) *CachedSource {
	return &CachedSource{Upstream: upstream, Cache: cache, now: time.Now}
}

func (s *CachedSource) Candles(ctx context.Context, req Request) ([]market.Candle, error) {
	if s.Upstream == nil || s.Cache == nil {
		return nil, fmt.Errorf("cached source: upstream and cache are required")
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	start, end, err := req.Window(now())
	if err != nil {
		return nil, err
	}
	maxAge := s.MaxAge
	if maxAge <= 0 {
		maxAge = time.Hour
	}

	hit, err := s.Cache.Covers(ctx, req.Symbol, req.Interval, start, end, maxAge)
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	if hit {
		candles, err := s.Cache.Load(ctx, req.Symbol, req.Interval, start, end)
		if err != nil {
			return nil, fmt.Errorf("cache load: %w", err)
		}
		logger.Infof("cache: %s served %d candles", req, len(candles))
		return Clean(req, candles)
	}

	candles, err := s.Upstream.Candles(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Store(ctx, req.Symbol, req.Interval, start, end, candles); err != nil {
		return nil, fmt.Errorf("cache store: %w", err)
	}
	logger.Infof("cache: %s stored %d candles", req, len(candles))
	return candles, nil
}
