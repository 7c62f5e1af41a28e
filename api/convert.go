package api

import (
	"time"

	"github.com/warp/hr-portal/leave"
	"github.com/warp/hr-portal/lifecycle"
)

// =============================================================================
// DOMAIN -> DTO CONVERSION
// =============================================================================

func toRequestDTO(r *lifecycle.Request) RequestDTO {
	dto := RequestDTO{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            string(r.Type),
		Status:          string(r.Status),
		Reason:          r.Reason,
		RejectionReason: r.RejectionReason,
		AppliedAt:       r.AppliedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
		Timeline:        make([]TimelineStepDTO, len(r.Timeline)),
	}

	for i, step := range r.Timeline {
		s := TimelineStepDTO{
			Seq:         step.Seq,
			Title:       step.Title,
			Description: step.Description,
			Status:      string(step.Status),
		}
		if step.At != nil {
			s.At = step.At.Format(time.RFC3339)
		}
		dto.Timeline[i] = s
	}

	if r.Leave != nil {
		days := make([]string, len(r.Leave.Days))
		for i, d := range r.Leave.Days {
			days[i] = d.String()
		}
		dto.Leave = &LeaveDetailDTO{
			Category:     string(r.Leave.Category),
			Days:         days,
			Credits:      r.Leave.Credits.InexactFloat64(),
			BalanceAfter: r.Leave.BalanceAfter.InexactFloat64(),
		}
	}
	if r.Shift != nil {
		dto.Shift = &ShiftDetailDTO{From: r.Shift.From, To: r.Shift.To}
	}
	return dto
}

func toRequestDTOs(reqs []*lifecycle.Request) []RequestDTO {
	dtos := make([]RequestDTO, len(reqs))
	for i, r := range reqs {
		dtos[i] = toRequestDTO(r)
	}
	return dtos
}

func toBreakdownDTO(b leave.DayBreakdown) BreakdownDTO {
	dto := BreakdownDTO{
		Days:         make([]DayLineDTO, len(b.Days)),
		TotalCredits: b.TotalCredits.InexactFloat64(),
	}
	for i, line := range b.Days {
		dto.Days[i] = DayLineDTO{
			Date:           line.Date.String(),
			Classification: string(line.Classification),
			Status:         string(line.Status),
			Credits:        line.Credits.InexactFloat64(),
		}
	}
	return dto
}
