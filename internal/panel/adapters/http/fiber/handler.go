package fiber

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/panel/core/usecase"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

type BuildPanelUseCase interface {
	Execute(ctx context.Context) (*domain.Run, error)
}

type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

type PanelHandler struct {
	uc   BuildPanelUseCase
	runs RunLister

	// one run at a time; both outputs share fixed destinations
	running sync.Mutex
}

func NewPanelHandler(uc BuildPanelUseCase, runs RunLister) *PanelHandler {
	return &PanelHandler{uc: uc, runs: runs}
}

// Register mounts the panel routes on r.
func (h *PanelHandler) Register(r fiber.Router) {
	r.Post("/panel/runs", h.CreateRun)
	r.Get("/panel/runs", h.ListRuns)
}

// CreateRun godoc
// @Summary Build the geo panel
// @Description Reads both source tables, builds the geo dictionary and the dense geo-level time series, and writes both outputs
// @Tags Panel
// @Produce json
// @Success 201 {object} RunResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /panel/runs [post]
func (h *PanelHandler) CreateRun(c *fiber.Ctx) error {
	if !h.running.TryLock() {
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Error:   "run_in_progress",
			Message: "another panel run is still in progress",
		})
	}
	defer h.running.Unlock()

	run, err := h.uc.Execute(c.UserContext())
	if err != nil {
		if usecase.IsInputFault(err) {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_input",
				Message: err.Error(),
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	return c.Status(http.StatusCreated).JSON(toRunResponse(*run))
}

// ListRuns godoc
// @Summary List recent panel runs
// @Description Returns the run journal, most recent first
// @Tags Panel
// @Produce json
// @Param limit query int false "Max runs to return (default 20, max 500)"
// @Success 200 {object} ListRunsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /panel/runs [get]
func (h *PanelHandler) ListRuns(c *fiber.Ctx) error {
	limit := defaultListLimit
	if s := c.Query("limit", ""); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxListLimit {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be between 1 and " + strconv.Itoa(maxListLimit),
			})
		}
		limit = n
	}

	runs, err := h.runs.ListRuns(c.UserContext(), limit)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	resp := ListRunsResponse{Runs: make([]RunResponse, 0, len(runs))}
	for _, r := range runs {
		resp.Runs = append(resp.Runs, toRunResponse(r))
	}
	return c.Status(http.StatusOK).JSON(resp)
}
