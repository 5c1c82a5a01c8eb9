// Package journal keeps a local record of successfully submitted orders
// in SQLite. It is bookkeeping for end-of-day review and export; failures
// here never fail the order itself.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"meo-pos/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	db     *sql.DB
	logger *zerolog.Logger
}

func New(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Sales journal initialized")
	return &DB{db: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            remote_id INTEGER NOT NULL,
            session_id TEXT NOT NULL,
            subtotal INTEGER NOT NULL,
            tax INTEGER NOT NULL,
            total INTEGER NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS order_lines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            order_id INTEGER NOT NULL,
            menu_item_id INTEGER NOT NULL,
            name TEXT NOT NULL,
            price INTEGER NOT NULL,
            qty INTEGER NOT NULL,
            FOREIGN KEY (order_id) REFERENCES orders(id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// RecordOrder inserts the order header and its lines in one transaction
// and fills in entry.ID and entry.CreatedAt.
func (d *DB) RecordOrder(ctx context.Context, entry *models.JournalEntry) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	defer tx.Rollback()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (remote_id, session_id, subtotal, tax, total, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		entry.RemoteID, entry.SessionID, entry.Subtotal, entry.Tax, entry.Total, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	entry.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}

	for _, line := range entry.Lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, menu_item_id, name, price, qty)
             VALUES (?, ?, ?, ?, ?)`,
			entry.ID, line.MenuItemID, line.Name, line.Price, line.Qty,
		); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	return tx.Commit()
}

// OrdersBetween returns journal entries with created_at in [start, end),
// oldest first, lines populated.
func (d *DB) OrdersBetween(ctx context.Context, start, end time.Time) ([]*models.JournalEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, remote_id, session_id, subtotal, tax, total, created_at
         FROM orders
         WHERE created_at >= ? AND created_at < ?
         ORDER BY created_at`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	byID := make(map[int64]*models.JournalEntry)
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.RemoteID, &e.SessionID, &e.Subtotal, &e.Tax, &e.Total, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		entries = append(entries, &e)
		byID[e.ID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	lineRows, err := d.db.QueryContext(ctx,
		`SELECT l.order_id, l.menu_item_id, l.name, l.price, l.qty
         FROM order_lines l
         JOIN orders o ON o.id = l.order_id
         WHERE o.created_at >= ? AND o.created_at < ?
         ORDER BY l.id`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID int64
		var line models.JournalLine
		if err := lineRows.Scan(&orderID, &line.MenuItemID, &line.Name, &line.Price, &line.Qty); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		if e, ok := byID[orderID]; ok {
			e.Lines = append(e.Lines, line)
		}
	}
	return entries, lineRows.Err()
}

// DailyTotals sums the journal for [start, end): order count and revenue.
func (d *DB) DailyTotals(ctx context.Context, start, end time.Time) (int64, int64, error) {
	var count, revenue int64
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0)
         FROM orders
         WHERE created_at >= ? AND created_at < ?`,
		start, end,
	).Scan(&count, &revenue)
	if err != nil {
		return 0, 0, fmt.Errorf("query totals: %w", err)
	}
	return count, revenue, nil
}
