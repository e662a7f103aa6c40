package fiber

import (
	"time"

	"geo-timeseries-service/internal/panel/core/domain"
)

type RunResponse struct {
	ID         string  `json:"id" example:"7b0c2f4e-6f55-4c55-9b57-0d9f3d4c1e7a"`
	Status     string  `json:"status" example:"success"`
	StartedAt  string  `json:"started_at" example:"2024-01-05T10:00:00Z"`
	FinishedAt string  `json:"finished_at,omitempty" example:"2024-01-05T10:00:02Z"`
	DurationMS int64   `json:"duration_ms"`
	Geos       int     `json:"geos" example:"51"`
	Days       int     `json:"days" example:"365"`
	Rows       int     `json:"rows" example:"18615"`
	Error      *string `json:"error,omitempty"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_input"`
	Message string `json:"message" example:"response table is empty"`
}

func toRunResponse(r domain.Run) RunResponse {
	resp := RunResponse{
		ID:         r.ID,
		Status:     string(r.Status),
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: r.Duration().Milliseconds(),
		Geos:       r.Geos,
		Days:       r.Days,
		Rows:       r.Rows,
	}
	if !r.FinishedAt.IsZero() {
		resp.FinishedAt = r.FinishedAt.UTC().Format(time.RFC3339)
	}
	if r.Error != "" {
		msg := r.Error
		resp.Error = &msg
	}
	return resp
}
