/*
handlers.go - HTTP handlers for the leave portal core

PURPOSE:
  Exposes the eligibility/credit engine and the request lifecycle over
  REST. Handles HTTP parsing, JSON serialization, and error-to-status
  mapping; all domain decisions live in the leave and lifecycle packages.

ENDPOINTS:
  Employees:
    GET  /api/employees/{id}/balance         Category balances
    GET  /api/employees/{id}/calendar        Per-day classification (picker feed)
    GET  /api/employees/{id}/requests        Employee's requests, newest first
    POST /api/employees/{id}/entries/preview Compute a candidate entry's breakdown
    POST /api/employees/{id}/leave-requests  Submit a leave request
    POST /api/employees/{id}/shift-requests  Submit a shift-change request

  Requests:
    GET  /api/requests                       All requests, newest first
    GET  /api/requests/{id}                  One request
    POST /api/requests/{id}/approve          Approve (cascades the timeline)
    POST /api/requests/{id}/reject           Reject (current step only)

ERROR HANDLING:
  - 400: invalid input (bad dates, missing reason, invalid range)
  - 404: unknown request id
  - 409: transition on a terminal request
  - 422: insufficient balance
  - 500: everything else
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/warp/hr-portal/leave"
	"github.com/warp/hr-portal/lifecycle"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// AttendanceDirectory resolves the attendance log of one employee. The
// portal treats attendance as an external collaborator; this is its seam.
type AttendanceDirectory interface {
	AttendanceFor(employeeID string) leave.AttendanceLog
}

// StaticAttendance is an AttendanceDirectory backed by a fixed map.
type StaticAttendance map[string]leave.MapAttendanceLog

func (s StaticAttendance) AttendanceFor(employeeID string) leave.AttendanceLog {
	if log, ok := s[employeeID]; ok {
		return log
	}
	return nil
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service    *lifecycle.Service
	Store      lifecycle.Store
	Holidays   leave.HolidayCalendar
	Rest       leave.RestPattern
	Attendance AttendanceDirectory
	Log        *logrus.Logger
}

// NewHandler wires a handler. Nil holidays/rest/attendance mean "no records
// of that kind"; nil log means a default logger.
func NewHandler(svc *lifecycle.Service, store lifecycle.Store, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		Service: svc,
		Store:   store,
		Rest:    leave.WeekendRest(),
		Log:     log,
	}
}

// contextFor assembles the employee's classification context. Approved days
// come from the live request store, so the picker and the calculator both
// see every committed request.
func (h *Handler) contextFor(ctx context.Context, employeeID string) (leave.EmployeeContext, error) {
	approved, err := h.Service.ApprovedDays(ctx, employeeID)
	if err != nil {
		return leave.EmployeeContext{}, err
	}
	ec := leave.EmployeeContext{
		Holidays: h.Holidays,
		RestDays: h.Rest,
		Approved: approved,
	}
	if h.Attendance != nil {
		ec.Attendance = h.Attendance.AttendanceFor(employeeID)
	}
	return ec, nil
}

// =============================================================================
// SUBMISSION HANDLERS
// =============================================================================

// SubmitLeave handles POST /api/employees/{id}/leave-requests.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var body SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category := leave.Category(body.Category)
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown leave category", nil)
		return
	}
	if len(body.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "At least one entry is required", nil)
		return
	}

	ec, err := h.contextFor(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build employee context", err)
		return
	}

	builder := leave.NewRequestBuilder(category, ec)
	builder.SetReason(body.Reason)
	for _, raw := range body.Entries {
		entry, err := parseEntry(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid entry", err)
			return
		}
		if _, err := builder.AddEntry(entry); err != nil {
			writeDomainError(w, "Entry rejected", err)
			return
		}
	}

	balances, err := h.Store.Balances(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load balances", err)
		return
	}

	sub, err := builder.Build(balances.Get(category))
	if err != nil {
		writeDomainError(w, "Submission rejected", err)
		return
	}

	req, err := h.Service.SubmitLeave(r.Context(), employeeID, body.Manager, sub)
	if err != nil {
		writeDomainError(w, "Submission failed", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"employee":   employeeID,
		"category":   category,
		"credits":    sub.Credits.String(),
	}).Info("leave request submitted")

	writeJSON(w, http.StatusCreated, toRequestDTO(req))
}

// SubmitShift handles POST /api/employees/{id}/shift-requests.
func (h *Handler) SubmitShift(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var body SubmitShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req, err := h.Service.SubmitShift(r.Context(), employeeID, body.Manager, body.FromShift, body.ToShift, body.Reason)
	if err != nil {
		writeDomainError(w, "Submission failed", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"employee":   employeeID,
	}).Info("shift-change request submitted")

	writeJSON(w, http.StatusCreated, toRequestDTO(req))
}

// PreviewEntry handles POST /api/employees/{id}/entries/preview.
// Computes a candidate entry's breakdown without mutating anything.
func (h *Handler) PreviewEntry(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var raw EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	entry, err := parseEntry(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}

	ec, err := h.contextFor(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build employee context", err)
		return
	}

	breakdown, err := leave.ComputeEntry(entry, ec)
	if err != nil {
		writeDomainError(w, "Entry rejected", err)
		return
	}
	writeJSON(w, http.StatusOK, toBreakdownDTO(breakdown))
}

// =============================================================================
// DECISION HANDLERS
// =============================================================================

// ApproveRequest handles POST /api/requests/{id}/approve.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req, err := h.Service.Approve(r.Context(), id, body.Approver)
	if err != nil {
		writeDomainError(w, "Approval failed", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"request_id": id,
		"approver":   body.Approver,
	}).Info("request approved")

	writeJSON(w, http.StatusOK, toRequestDTO(req))
}

// RejectRequest handles POST /api/requests/{id}/reject.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req, err := h.Service.Reject(r.Context(), id, body.Approver, body.Reason)
	if err != nil {
		writeDomainError(w, "Rejection failed", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"request_id": id,
		"approver":   body.Approver,
	}).Info("request rejected")

	writeJSON(w, http.StatusOK, toRequestDTO(req))
}

// =============================================================================
// QUERY HANDLERS
// =============================================================================

// ListRequests handles GET /api/requests.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// GetRequest handles GET /api/requests/{id}.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get request", err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(req))
}

// ListEmployeeRequests handles GET /api/employees/{id}/requests.
func (h *Handler) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Service.ListByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// GetBalance handles GET /api/employees/{id}/balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Store.Balances(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load balances", err)
		return
	}

	dtos := make([]BalanceDTO, 0, len(leave.Categories()))
	for _, c := range leave.Categories() {
		dtos = append(dtos, BalanceDTO{
			Category: string(c),
			Credits:  balances.Get(c).InexactFloat64(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// maxCalendarDays caps one calendar query. The picker pages by month;
// anything wider than a year is a malformed query, not a page.
const maxCalendarDays = 366

// GetCalendar handles GET /api/employees/{id}/calendar?from=...&to=...
// It is the interactive picker's feed: one classification per day in the
// range, straight from the same classifier the calculator uses.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	from, err := leave.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'from' date", err)
		return
	}
	to, err := leave.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'to' date", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "'to' before 'from'", nil)
		return
	}
	if leave.DaysBetween(from, to) > maxCalendarDays {
		writeError(w, http.StatusBadRequest, "Date range exceeds one year", nil)
		return
	}

	ec, err := h.contextFor(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build employee context", err)
		return
	}

	var days []CalendarDayDTO
	for d := from; !d.After(to); d = d.AddDays(1) {
		class := leave.Classify(d, ec)
		days = append(days, CalendarDayDTO{
			Date:           d.String(),
			Classification: string(class),
			Requestable:    class.Requestable(),
		})
	}
	writeJSON(w, http.StatusOK, days)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseEntry(raw EntryRequest) (leave.Entry, error) {
	start, err := leave.ParseDate(raw.Start)
	if err != nil {
		return leave.Entry{}, err
	}
	end, err := leave.ParseDate(raw.End)
	if err != nil {
		return leave.Entry{}, err
	}
	entry := leave.Entry{Start: start, End: end, Partial: raw.Partial}
	if raw.Partial {
		if entry.StartTime, err = leave.ParseClockTime(raw.StartTime); err != nil {
			return leave.Entry{}, err
		}
		if entry.EndTime, err = leave.ParseClockTime(raw.EndTime); err != nil {
			return leave.Entry{}, err
		}
	}
	return entry, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case leave.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case leave.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, leave.ErrInsufficientBalance):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case leave.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
