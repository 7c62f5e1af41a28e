/*
store.go - Persistence interfaces for requests and balances

PURPOSE:
  Defines the boundary between lifecycle logic and storage so the backend
  is swappable without touching the state machine. Two implementations
  exist: store/memory (tests/dev) and store/sqlite (production).

CONTRACT:
  - Requests are append-then-update only; nothing ever deletes one.
  - List returns insertion order, newest first.
  - Get returns (nil, nil) for an unknown id; the lifecycle service turns
    that into leave.ErrNotFound so stores stay error-vocabulary free.
  - WithTx makes a balance mutation and a request write one atomic unit.
    A crash between the two must not leave a request committed while its
    balance debit was not applied, or vice versa.
*/
package lifecycle

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/hr-portal/leave"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// RequestStore owns the ordered collection of all requests.
type RequestStore interface {
	// Append adds a new request. The request becomes the newest element.
	Append(ctx context.Context, r *Request) error

	// Update replaces the stored request with the same id.
	Update(ctx context.Context, r *Request) error

	// Get returns the request by id, or (nil, nil) if absent.
	Get(ctx context.Context, id string) (*Request, error)

	// List returns all requests, newest first.
	List(ctx context.Context) ([]*Request, error)

	// ListByEmployee returns the employee's requests, newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]*Request, error)
}

// BalanceStore owns per-employee leave balances by category.
type BalanceStore interface {
	// Balances returns the employee's full balance sheet.
	Balances(ctx context.Context, employeeID string) (leave.BalanceSheet, error)

	// SetBalance sets one category balance for an employee.
	SetBalance(ctx context.Context, employeeID string, c leave.Category, v decimal.Decimal) error
}

// Store combines request and balance persistence with atomic execution.
type Store interface {
	RequestStore
	BalanceStore

	// WithTx executes fn atomically. If fn returns an error, every write it
	// performed is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
