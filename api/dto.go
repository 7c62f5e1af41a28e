/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication. These decouple the internal
  domain model from the external contract: credits cross the wire as
  floats for display, but all arithmetic stays decimal on the inside.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

// =============================================================================
// ENTRIES
// =============================================================================

// EntryRequest is one date range of a leave submission.
type EntryRequest struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Partial   bool   `json:"partial"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// DayLineDTO explains one day's contribution.
type DayLineDTO struct {
	Date           string  `json:"date"`
	Classification string  `json:"classification"`
	Status         string  `json:"status"`
	Credits        float64 `json:"credits"`
}

// BreakdownDTO is the computed result of one entry.
type BreakdownDTO struct {
	Days         []DayLineDTO `json:"days"`
	TotalCredits float64      `json:"total_credits"`
}

// =============================================================================
// SUBMISSIONS
// =============================================================================

// SubmitLeaveRequest is the body of a leave submission.
type SubmitLeaveRequest struct {
	Category string         `json:"category"`
	Reason   string         `json:"reason"`
	Manager  string         `json:"manager"`
	Entries  []EntryRequest `json:"entries"`
}

// SubmitShiftRequest is the body of a shift-change submission.
type SubmitShiftRequest struct {
	FromShift string `json:"from_shift"`
	ToShift   string `json:"to_shift"`
	Reason    string `json:"reason"`
	Manager   string `json:"manager"`
}

// DecideRequest is the body of an approve or reject call.
type DecideRequest struct {
	Approver string `json:"approver"`
	Reason   string `json:"reason,omitempty"` // reject only
}

// =============================================================================
// REQUESTS
// =============================================================================

// TimelineStepDTO is one approval stage.
type TimelineStepDTO struct {
	Seq         int    `json:"seq"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	At          string `json:"at,omitempty"`
}

// LeaveDetailDTO is the leave payload of a request.
type LeaveDetailDTO struct {
	Category     string   `json:"category"`
	Days         []string `json:"days"`
	Credits      float64  `json:"credits"`
	BalanceAfter float64  `json:"balance_after"`
}

// ShiftDetailDTO is the shift-change payload of a request.
type ShiftDetailDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RequestDTO represents a committed request.
type RequestDTO struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	Type            string            `json:"type"`
	Status          string            `json:"status"`
	Reason          string            `json:"reason"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	AppliedAt       string            `json:"applied_at"`
	UpdatedAt       string            `json:"updated_at"`
	Timeline        []TimelineStepDTO `json:"timeline"`
	Leave           *LeaveDetailDTO   `json:"leave,omitempty"`
	Shift           *ShiftDetailDTO   `json:"shift,omitempty"`
}

// =============================================================================
// CALENDAR AND BALANCES
// =============================================================================

// CalendarDayDTO is one classified day of the picker feed.
type CalendarDayDTO struct {
	Date           string `json:"date"`
	Classification string `json:"classification"`
	Requestable    bool   `json:"requestable"`
}

// BalanceDTO is one category balance.
type BalanceDTO struct {
	Category string  `json:"category"`
	Credits  float64 `json:"credits"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
