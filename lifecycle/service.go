/*
service.go - Submit, approve, reject

PURPOSE:
  The Service is the single entry point for creating and transitioning
  requests. It owns the transition guards, the balance debit/refund, and
  the timeline mutations.

MUTUAL EXCLUSION:
  submit/approve/reject are serialized by one mutex: at most one transition
  is in flight per request, which preserves the "exactly one current step"
  and "no transition from a terminal state" invariants under concurrent
  callers.

FAILURE SEMANTICS:
  All errors are reported synchronously; nothing is retried internally.
  Transitions are not idempotent: approving an already-approved request
  fails with leave.ErrAlreadyTerminal, it does not no-op.
*/
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/hr-portal/leave"
)

// =============================================================================
// CLOCK - Injectable timestamp source
// =============================================================================

// Clock stamps submissions and transitions. Injectable so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock always returns the same instant. For tests.
type FixedClock struct{ T time.Time }

func (f FixedClock) Now() time.Time { return f.T }

// =============================================================================
// SERVICE
// =============================================================================

// Service owns the request lifecycle against an injectable store.
type Service struct {
	store Store
	clock Clock

	// Serializes all transitions. See package comment on mutual exclusion.
	mu sync.Mutex
}

// NewService creates a lifecycle service. A nil clock means the wall clock.
func NewService(store Store, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{store: store, clock: clock}
}

// =============================================================================
// SUBMISSION
// =============================================================================

// SubmitLeave commits an assembled leave submission: it re-validates the
// balance projection against the stored balance, then applies the balance
// debit and the request creation as one atomic unit. The responsible
// manager is named on the Department Approval stage.
func (s *Service) SubmitLeave(ctx context.Context, employeeID, manager string, sub leave.Submission) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(sub.Reason) == "" {
		return nil, leave.ErrMissingReason
	}

	balances, err := s.store.Balances(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}

	current := balances.Get(sub.Category)
	remaining := current.Sub(sub.Credits)
	if remaining.IsNegative() {
		return nil, &leave.InsufficientBalanceError{
			Category:  sub.Category,
			Available: current,
			Requested: sub.Credits,
		}
	}

	now := s.clock.Now()
	req := &Request{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Type:       TypeLeave,
		Status:     StatusSubmitted,
		Reason:     sub.Reason,
		Timeline:   NewTimeline(now, manager),
		Leave: &LeaveDetail{
			Category:     sub.Category,
			Days:         append([]leave.Date(nil), sub.Days...),
			Credits:      sub.Credits,
			BalanceAfter: remaining,
		},
		AppliedAt: now,
		UpdatedAt: now,
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.SetBalance(ctx, employeeID, sub.Category, remaining); err != nil {
			return err
		}
		return tx.Append(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("commit submission: %w", err)
	}
	return req.Clone(), nil
}

// SubmitShift creates a shift-change request. Shift changes carry no
// balance payload; only the timeline and the from/to shifts.
func (s *Service) SubmitShift(ctx context.Context, employeeID, manager, fromShift, toShift, reason string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(reason) == "" {
		return nil, leave.ErrMissingReason
	}

	now := s.clock.Now()
	req := &Request{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Type:       TypeShiftChange,
		Status:     StatusSubmitted,
		Reason:     reason,
		Timeline:   NewTimeline(now, manager),
		Shift:      &ShiftDetail{From: fromShift, To: toShift},
		AppliedAt:  now,
		UpdatedAt:  now,
	}

	err := s.store.WithTx(ctx, func(tx Store) error {
		return tx.Append(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("commit submission: %w", err)
	}
	return req.Clone(), nil
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Approve moves a submitted request to Approved and cascades the timeline:
// the current step and every still-pending step complete in this one call.
func (s *Service) Approve(ctx context.Context, id, approver string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.locate(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, fmt.Errorf("approve %s: %w", id, leave.ErrAlreadyTerminal)
	}

	now := s.clock.Now()
	req.Status = StatusApproved
	req.Timeline.cascadeApprove(approver, now)
	req.UpdatedAt = now

	// The status write and the timeline-step writes must land together;
	// a request must never read as approved with a step still current.
	err = s.store.WithTx(ctx, func(tx Store) error {
		return tx.Update(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("commit approval: %w", err)
	}
	return req.Clone(), nil
}

// Reject moves a submitted request to Rejected. Only the current step is
// updated; pending steps remain pending permanently. A leave request's
// debited credits are returned to the balance in the same atomic unit.
func (s *Service) Reject(ctx context.Context, id, approver, reason string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(reason) == "" {
		return nil, leave.ErrMissingReason
	}

	req, err := s.locate(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, fmt.Errorf("reject %s: %w", id, leave.ErrAlreadyTerminal)
	}

	now := s.clock.Now()
	req.Status = StatusRejected
	req.RejectionReason = reason
	req.Timeline.rejectCurrent(approver, reason, now)
	req.UpdatedAt = now

	err = s.store.WithTx(ctx, func(tx Store) error {
		if req.Leave != nil {
			balances, err := tx.Balances(ctx, req.EmployeeID)
			if err != nil {
				return err
			}
			refunded := balances.Get(req.Leave.Category).Add(req.Leave.Credits)
			if err := tx.SetBalance(ctx, req.EmployeeID, req.Leave.Category, refunded); err != nil {
				return err
			}
		}
		return tx.Update(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("commit rejection: %w", err)
	}
	return req.Clone(), nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Get returns the request by id, or leave.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Request, error) {
	req, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request %s: %w", id, leave.ErrNotFound)
	}
	return req, nil
}

// List returns all requests, newest first.
func (s *Service) List(ctx context.Context) ([]*Request, error) {
	return s.store.List(ctx)
}

// ListByEmployee returns one employee's requests, newest first.
func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]*Request, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

// ApprovedDays returns the set of days covered by the employee's approved
// leave requests. This feeds the classifier's ApprovedLeave check, so the
// picker and the calculator both see committed requests.
func (s *Service) ApprovedDays(ctx context.Context, employeeID string) (leave.ApprovedDaySet, error) {
	reqs, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	set := leave.ApprovedDaySet{}
	for _, r := range reqs {
		if r.Status != StatusApproved || r.Leave == nil {
			continue
		}
		for _, d := range r.Leave.Days {
			set[d] = true
		}
	}
	return set, nil
}

func (s *Service) locate(ctx context.Context, id string) (*Request, error) {
	req, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request %s: %w", id, leave.ErrNotFound)
	}
	return req, nil
}
