/*
Package lifecycle implements the request approval lifecycle.

PURPOSE:
  Governs a submitted request (leave or shift change) from submission
  through staged approval to a terminal outcome, and owns the store of
  all requests.

STATE MACHINE:

  Submitted ──▶ Approved   (terminal)
      │
      └───────▶ Rejected   (terminal)

  No transition leaves a terminal state. Attempting one fails with
  leave.ErrAlreadyTerminal; the request is untouched.

TIMELINE:
  Every request carries a fixed 4-stage timeline created at submission:

    1. Submission            completed  (stamped with the submission time)
    2. Department Approval   current    (names the responsible manager)
    3. HR Approval           pending
    4. Application Result    pending

  Exactly one step is current at any non-terminal time. Approval cascades:
  a single approval completes the current step AND every still-pending
  step, because one approval authorizes the full remaining chain. The last
  step gets a distinguished "applied" description marking the stage where
  the underlying record is actually mutated. Rejection does not cascade:
  only the current step changes; pending steps stay pending forever.

SEE ALSO:
  - service.go: submit / approve / reject operations
  - store.go: the injectable persistence interfaces
*/
package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/hr-portal/leave"
)

// =============================================================================
// REQUEST TYPES AND STATUSES
// =============================================================================

// RequestType distinguishes the two request kinds the portal handles.
type RequestType string

const (
	TypeLeave       RequestType = "leave_request"
	TypeShiftChange RequestType = "shift_change"
)

// Status is the lifecycle state of a request.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// =============================================================================
// TIMELINE
// =============================================================================

// StepStatus is the state of one approval stage.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCurrent   StepStatus = "current"
	StepCompleted StepStatus = "completed"
)

// TimelineStep is one stage of the approval chain. At is set when the step
// is completed (or rejected through); pending and current steps carry none.
type TimelineStep struct {
	Seq         int
	Title       string
	Description string
	Status      StepStatus
	At          *time.Time
}

// Timeline is the ordered, fixed-count stage sequence of one request.
type Timeline []TimelineStep

// Stage titles, in order.
const (
	StageSubmission  = "Submission"
	StageDepartment  = "Department Approval"
	StageHR          = "HR Approval"
	StageResult      = "Application Result"
)

// AppliedDescription is the distinguished description of the final stage
// after a cascade: the point where the underlying record is mutated.
const AppliedDescription = "Request applied: record updated"

// NewTimeline builds the 4-stage chain for a freshly submitted request.
// Stage 1 is completed with the submission timestamp, stage 2 is current
// and names the responsible manager, the rest are pending.
func NewTimeline(submittedAt time.Time, manager string) Timeline {
	at := submittedAt
	return Timeline{
		{Seq: 1, Title: StageSubmission, Description: "Request submitted", Status: StepCompleted, At: &at},
		{Seq: 2, Title: StageDepartment, Description: "Awaiting review by " + manager, Status: StepCurrent},
		{Seq: 3, Title: StageHR, Description: "Awaiting HR review", Status: StepPending},
		{Seq: 4, Title: StageResult, Description: "Awaiting final result", Status: StepPending},
	}
}

// CurrentIndex returns the index of the step marked current, or -1.
func (t Timeline) CurrentIndex() int {
	for i, s := range t {
		if s.Status == StepCurrent {
			return i
		}
	}
	return -1
}

// cascadeApprove completes the current step and every still-pending step in
// one transition. This is the one place where "approve" does more than
// advance a single state, so it is isolated here by name. The final step
// receives the distinguished applied description instead of the approver
// annotation. Already-completed steps are untouched.
func (t Timeline) cascadeApprove(approver string, at time.Time) {
	stamp := at
	for i := range t {
		switch t[i].Status {
		case StepCurrent, StepPending:
			t[i].Status = StepCompleted
			t[i].At = &stamp
			if i == len(t)-1 {
				t[i].Description = AppliedDescription
			} else {
				t[i].Description = "Approved by " + approver
			}
		}
	}
}

// rejectCurrent updates only the current step; pending steps remain pending
// permanently because the process halted.
func (t Timeline) rejectCurrent(approver, reason string, at time.Time) {
	i := t.CurrentIndex()
	if i < 0 {
		return
	}
	stamp := at
	t[i].Status = StepCompleted
	t[i].Description = "Rejected by " + approver + ": " + reason
	t[i].At = &stamp
}

// Clone returns an independent copy of the timeline.
func (t Timeline) Clone() Timeline {
	out := make(Timeline, len(t))
	copy(out, t)
	for i := range out {
		if out[i].At != nil {
			at := *out[i].At
			out[i].At = &at
		}
	}
	return out
}

// =============================================================================
// REQUEST - The committed artifact
// =============================================================================

// LeaveDetail is the domain payload of a leave request.
type LeaveDetail struct {
	Category     leave.Category
	Days         []leave.Date
	Credits      decimal.Decimal
	BalanceAfter decimal.Decimal
}

// ShiftDetail is the domain payload of a shift-change request.
type ShiftDetail struct {
	From string
	To   string
}

// Request is the committed artifact produced by a submission. Identity is
// immutable; status and timeline are mutated only by approve/reject.
// Requests are never deleted.
type Request struct {
	ID         string
	EmployeeID string
	Type       RequestType
	Status     Status
	Reason     string
	Timeline   Timeline

	Leave *LeaveDetail
	Shift *ShiftDetail

	AppliedAt       time.Time
	UpdatedAt       time.Time
	RejectionReason string
}

// Clone returns a deep copy, so stores can hand out requests without
// exposing their internal state to mutation.
func (r *Request) Clone() *Request {
	out := *r
	out.Timeline = r.Timeline.Clone()
	if r.Leave != nil {
		ld := *r.Leave
		ld.Days = append([]leave.Date(nil), r.Leave.Days...)
		out.Leave = &ld
	}
	if r.Shift != nil {
		sd := *r.Shift
		out.Shift = &sd
	}
	return &out
}
