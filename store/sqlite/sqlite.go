/*
Package sqlite provides a SQLite-backed lifecycle.Store.

PURPOSE:
  Production persistence for requests, timelines and balances. The same
  patterns apply to PostgreSQL; only minor SQL dialect differences.

KEY TABLES:
  requests:       One row per request; never deleted, only updated by
                  approve/reject. rowid preserves insertion order, so
                  listing newest-first is ORDER BY rowid DESC.
  timeline_steps: The fixed 4-stage chain per request, keyed by
                  (request_id, seq).
  balances:       Per-employee, per-category credit balances. Credits are
                  stored as decimal strings, never floats.

ATOMICITY:
  WithTx wraps a balance mutation and a request write in one SQL
  transaction, so a submission's debit and its request row commit or roll
  back together.

WAL MODE:
  The database is opened with WAL for better concurrency: readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./portal.db")   // or ":memory:"
  if err != nil { ... }
  defer store.Close()
  svc := lifecycle.NewService(store, nil)
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/hr-portal/leave"
	"github.com/warp/hr-portal/lifecycle"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store implements lifecycle.Store on SQLite.
type Store struct {
	db *sql.DB
	conn
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, conn: conn{q: db}}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		req_type TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT NOT NULL,
		rejection_reason TEXT NOT NULL DEFAULT '',
		leave_category TEXT,
		leave_days TEXT,
		leave_credits TEXT,
		balance_after TEXT,
		shift_from TEXT,
		shift_to TEXT,
		applied_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON requests(employee_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON requests(status);

	CREATE TABLE IF NOT EXISTS timeline_steps (
		request_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL,
		at TEXT,
		PRIMARY KEY (request_id, seq)
	);

	CREATE TABLE IF NOT EXISTS balances (
		employee_id TEXT NOT NULL,
		category TEXT NOT NULL,
		credits TEXT NOT NULL,
		PRIMARY KEY (employee_id, category)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// WithTx executes fn inside one SQL transaction.
func (s *Store) WithTx(ctx context.Context, fn func(lifecycle.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	view := &txStore{conn: conn{q: tx}}
	if err := fn(view); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// txStore is the view handed to WithTx callbacks.
type txStore struct {
	conn
}

// WithTx on an open transaction reuses it; SQLite has no nesting.
func (t *txStore) WithTx(ctx context.Context, fn func(lifecycle.Store) error) error {
	return fn(t)
}

// =============================================================================
// REQUESTS
// =============================================================================

// conn implements the request/balance operations over either a DB or a Tx.
type conn struct {
	q querier
}

func (c conn) Append(ctx context.Context, r *lifecycle.Request) error {
	days, credits, after, category := leaveColumns(r)

	var shiftFrom, shiftTo any
	if r.Shift != nil {
		shiftFrom, shiftTo = r.Shift.From, r.Shift.To
	}

	_, err := c.q.ExecContext(ctx, `
		INSERT INTO requests (
			id, employee_id, req_type, status, reason, rejection_reason,
			leave_category, leave_days, leave_credits, balance_after,
			shift_from, shift_to, applied_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.EmployeeID, string(r.Type), string(r.Status), r.Reason, r.RejectionReason,
		category, days, credits, after,
		shiftFrom, shiftTo,
		r.AppliedAt.UTC().Format(time.RFC3339Nano),
		r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return c.saveTimeline(ctx, r.ID, r.Timeline)
}

func (c conn) Update(ctx context.Context, r *lifecycle.Request) error {
	res, err := c.q.ExecContext(ctx, `
		UPDATE requests
		SET status = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ?`,
		string(r.Status), r.RejectionReason,
		r.UpdatedAt.UTC().Format(time.RFC3339Nano), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("request %s does not exist", r.ID)
	}
	return c.saveTimeline(ctx, r.ID, r.Timeline)
}

func (c conn) saveTimeline(ctx context.Context, requestID string, t lifecycle.Timeline) error {
	for _, step := range t {
		var at any
		if step.At != nil {
			at = step.At.UTC().Format(time.RFC3339Nano)
		}
		_, err := c.q.ExecContext(ctx, `
			INSERT INTO timeline_steps (request_id, seq, title, description, status, at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(request_id, seq) DO UPDATE SET
				description = excluded.description,
				status = excluded.status,
				at = excluded.at`,
			requestID, step.Seq, step.Title, step.Description, string(step.Status), at,
		)
		if err != nil {
			return fmt.Errorf("save timeline step %d: %w", step.Seq, err)
		}
	}
	return nil
}

func (c conn) Get(ctx context.Context, id string) (*lifecycle.Request, error) {
	reqs, err := c.queryRequests(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return reqs[0], nil
}

func (c conn) List(ctx context.Context) ([]*lifecycle.Request, error) {
	return c.queryRequests(ctx, `SELECT `+requestColumns+` FROM requests ORDER BY rowid DESC`)
}

func (c conn) ListByEmployee(ctx context.Context, employeeID string) ([]*lifecycle.Request, error) {
	return c.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE employee_id = ? ORDER BY rowid DESC`,
		employeeID)
}

const requestColumns = `id, employee_id, req_type, status, reason, rejection_reason,
	leave_category, leave_days, leave_credits, balance_after,
	shift_from, shift_to, applied_at, updated_at`

func (c conn) queryRequests(ctx context.Context, query string, args ...any) ([]*lifecycle.Request, error) {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var out []*lifecycle.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, r := range out {
		t, err := c.loadTimeline(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		r.Timeline = t
	}
	return out, nil
}

func scanRequest(rows *sql.Rows) (*lifecycle.Request, error) {
	var (
		r                       lifecycle.Request
		reqType, status         string
		category, days, credits sql.NullString
		after                   sql.NullString
		shiftFrom, shiftTo      sql.NullString
		appliedAt, updatedAt    string
	)
	err := rows.Scan(
		&r.ID, &r.EmployeeID, &reqType, &status, &r.Reason, &r.RejectionReason,
		&category, &days, &credits, &after,
		&shiftFrom, &shiftTo, &appliedAt, &updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan request: %w", err)
	}

	r.Type = lifecycle.RequestType(reqType)
	r.Status = lifecycle.Status(status)

	if r.AppliedAt, err = time.Parse(time.RFC3339Nano, appliedAt); err != nil {
		return nil, fmt.Errorf("parse applied_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	if category.Valid {
		detail := &lifecycle.LeaveDetail{Category: leave.Category(category.String)}
		if days.Valid {
			var raw []string
			if err := json.Unmarshal([]byte(days.String), &raw); err != nil {
				return nil, fmt.Errorf("parse leave_days: %w", err)
			}
			for _, s := range raw {
				d, err := leave.ParseDate(s)
				if err != nil {
					return nil, fmt.Errorf("parse leave day %q: %w", s, err)
				}
				detail.Days = append(detail.Days, d)
			}
		}
		if credits.Valid {
			if detail.Credits, err = decimal.NewFromString(credits.String); err != nil {
				return nil, fmt.Errorf("parse leave_credits: %w", err)
			}
		}
		if after.Valid {
			if detail.BalanceAfter, err = decimal.NewFromString(after.String); err != nil {
				return nil, fmt.Errorf("parse balance_after: %w", err)
			}
		}
		r.Leave = detail
	}

	if shiftFrom.Valid || shiftTo.Valid {
		r.Shift = &lifecycle.ShiftDetail{From: shiftFrom.String, To: shiftTo.String}
	}
	return &r, nil
}

func (c conn) loadTimeline(ctx context.Context, requestID string) (lifecycle.Timeline, error) {
	rows, err := c.q.QueryContext(ctx, `
		SELECT seq, title, description, status, at
		FROM timeline_steps WHERE request_id = ? ORDER BY seq`,
		requestID)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	var t lifecycle.Timeline
	for rows.Next() {
		var (
			step   lifecycle.TimelineStep
			status string
			at     sql.NullString
		)
		if err := rows.Scan(&step.Seq, &step.Title, &step.Description, &status, &at); err != nil {
			return nil, fmt.Errorf("scan timeline step: %w", err)
		}
		step.Status = lifecycle.StepStatus(status)
		if at.Valid {
			parsed, err := time.Parse(time.RFC3339Nano, at.String)
			if err != nil {
				return nil, fmt.Errorf("parse step timestamp: %w", err)
			}
			step.At = &parsed
		}
		t = append(t, step)
	}
	return t, rows.Err()
}

func leaveColumns(r *lifecycle.Request) (days, credits, after, category any) {
	if r.Leave == nil {
		return nil, nil, nil, nil
	}
	raw := make([]string, len(r.Leave.Days))
	for i, d := range r.Leave.Days {
		raw[i] = d.String()
	}
	encoded, _ := json.Marshal(raw)
	return string(encoded), r.Leave.Credits.String(), r.Leave.BalanceAfter.String(), string(r.Leave.Category)
}

// =============================================================================
// BALANCES
// =============================================================================

func (c conn) Balances(ctx context.Context, employeeID string) (leave.BalanceSheet, error) {
	rows, err := c.q.QueryContext(ctx,
		`SELECT category, credits FROM balances WHERE employee_id = ?`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	sheet := leave.BalanceSheet{}
	for rows.Next() {
		var category, credits string
		if err := rows.Scan(&category, &credits); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		v, err := decimal.NewFromString(credits)
		if err != nil {
			return nil, fmt.Errorf("parse balance: %w", err)
		}
		sheet[leave.Category(category)] = v
	}
	return sheet, rows.Err()
}

func (c conn) SetBalance(ctx context.Context, employeeID string, cat leave.Category, v decimal.Decimal) error {
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO balances (employee_id, category, credits)
		VALUES (?, ?, ?)
		ON CONFLICT(employee_id, category) DO UPDATE SET credits = excluded.credits`,
		employeeID, string(cat), v.String())
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}
