// Package memory provides an in-memory lifecycle.Store for tests and dev.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/hr-portal/leave"
	"github.com/warp/hr-portal/lifecycle"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Store keeps requests (newest first) and balances in process memory.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	requests []*lifecycle.Request // newest first
	byID     map[string]*lifecycle.Request
	balances map[string]leave.BalanceSheet
}

func New() *Store {
	return &Store{
		byID:     make(map[string]*lifecycle.Request),
		balances: make(map[string]leave.BalanceSheet),
	}
}

// Append prepends the request so List stays newest-first.
func (s *Store) Append(_ context.Context, r *lifecycle.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(r)
}

func (s *Store) appendLocked(r *lifecycle.Request) error {
	if _, exists := s.byID[r.ID]; exists {
		return fmt.Errorf("request %s already exists", r.ID)
	}
	stored := r.Clone()
	s.requests = append([]*lifecycle.Request{stored}, s.requests...)
	s.byID[r.ID] = stored
	return nil
}

// Update replaces the stored request in place; insertion order is preserved.
func (s *Store) Update(_ context.Context, r *lifecycle.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(r)
}

func (s *Store) updateLocked(r *lifecycle.Request) error {
	if _, exists := s.byID[r.ID]; !exists {
		return fmt.Errorf("request %s does not exist", r.ID)
	}
	stored := r.Clone()
	s.byID[r.ID] = stored
	for i, existing := range s.requests {
		if existing.ID == r.ID {
			s.requests[i] = stored
			break
		}
	}
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*lifecycle.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return r.Clone(), nil
}

func (s *Store) List(_ context.Context) ([]*lifecycle.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*lifecycle.Request, len(s.requests))
	for i, r := range s.requests {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *Store) ListByEmployee(_ context.Context, employeeID string) ([]*lifecycle.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*lifecycle.Request
	for _, r := range s.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

// =============================================================================
// BALANCES
// =============================================================================

func (s *Store) Balances(_ context.Context, employeeID string) (leave.BalanceSheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sheet, ok := s.balances[employeeID]
	if !ok {
		return leave.BalanceSheet{}, nil
	}
	return sheet.Clone(), nil
}

func (s *Store) SetBalance(_ context.Context, employeeID string, c leave.Category, v decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setBalanceLocked(employeeID, c, v)
}

func (s *Store) setBalanceLocked(employeeID string, c leave.Category, v decimal.Decimal) error {
	sheet, ok := s.balances[employeeID]
	if !ok {
		sheet = leave.BalanceSheet{}
		s.balances[employeeID] = sheet
	}
	sheet[c] = v
	return nil
}

// =============================================================================
// TRANSACTIONS - Snapshot and restore
// =============================================================================

// WithTx simulates a transaction with a snapshot, rolled back if fn errors.
func (s *Store) WithTx(ctx context.Context, fn func(lifecycle.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&txView{parent: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	requests []*lifecycle.Request
	byID     map[string]*lifecycle.Request
	balances map[string]leave.BalanceSheet
}

func (s *Store) snapshot() storeSnapshot {
	reqs := make([]*lifecycle.Request, len(s.requests))
	byID := make(map[string]*lifecycle.Request, len(s.byID))
	for i, r := range s.requests {
		c := r.Clone()
		reqs[i] = c
		byID[c.ID] = c
	}
	bals := make(map[string]leave.BalanceSheet, len(s.balances))
	for id, sheet := range s.balances {
		bals[id] = sheet.Clone()
	}
	return storeSnapshot{requests: reqs, byID: byID, balances: bals}
}

func (s *Store) restore(snap storeSnapshot) {
	s.requests = snap.requests
	s.byID = snap.byID
	s.balances = snap.balances
}

// txView routes writes to the already-locked parent. Nested WithTx is not
// supported; the lifecycle service never nests.
type txView struct {
	parent *Store
}

func (v *txView) Append(_ context.Context, r *lifecycle.Request) error { return v.parent.appendLocked(r) }
func (v *txView) Update(_ context.Context, r *lifecycle.Request) error { return v.parent.updateLocked(r) }

func (v *txView) Get(_ context.Context, id string) (*lifecycle.Request, error) {
	r, ok := v.parent.byID[id]
	if !ok {
		return nil, nil
	}
	return r.Clone(), nil
}

func (v *txView) List(_ context.Context) ([]*lifecycle.Request, error) {
	out := make([]*lifecycle.Request, len(v.parent.requests))
	for i, r := range v.parent.requests {
		out[i] = r.Clone()
	}
	return out, nil
}

func (v *txView) ListByEmployee(_ context.Context, employeeID string) ([]*lifecycle.Request, error) {
	var out []*lifecycle.Request
	for _, r := range v.parent.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (v *txView) Balances(_ context.Context, employeeID string) (leave.BalanceSheet, error) {
	sheet, ok := v.parent.balances[employeeID]
	if !ok {
		return leave.BalanceSheet{}, nil
	}
	return sheet.Clone(), nil
}

func (v *txView) SetBalance(_ context.Context, employeeID string, c leave.Category, val decimal.Decimal) error {
	return v.parent.setBalanceLocked(employeeID, c, val)
}

func (v *txView) WithTx(ctx context.Context, fn func(lifecycle.Store) error) error {
	return fn(v)
}
