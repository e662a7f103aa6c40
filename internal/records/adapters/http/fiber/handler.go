package fiber

import (
	"context"
	"errors"
	"net/http"

	"geo-timeseries-service/internal/records/core/domain"
	"geo-timeseries-service/internal/records/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type StoreRecordUseCase interface {
	Execute(ctx context.Context, in usecase.StoreRecordInput) (bool, error)
	BulkStoreRecords(ctx context.Context, in usecase.BulkStoreRecordsInput) (usecase.BulkStoreRecordsResult, error)
}

type RecordHandler struct {
	storeUC StoreRecordUseCase
}

func NewRecordHandler(storeUC StoreRecordUseCase) *RecordHandler {
	return &RecordHandler{storeUC: storeUC}
}

// Register mounts the record routes on r.
func (h *RecordHandler) Register(r fiber.Router) {
	r.Post("/records/:kind/bulk", h.BulkCreateRecords)
	r.Post("/records/:kind", h.CreateRecord)
}

// CreateRecord godoc
// @Summary Store one record
// @Description Stores a response or cost value for a (geo, date); an existing (geo, date) is kept
// @Tags Records
// @Accept json
// @Produce json
// @Param kind path string true "responses | costs"
// @Param request body CreateRecordRequest true "Record payload"
// @Success 201 {object} CreateRecordResponse
// @Success 200 {object} CreateRecordResponse "Duplicate (geo, date)"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records/{kind} [post]
func (h *RecordHandler) CreateRecord(c *fiber.Ctx) error {
	var req CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	created, err := h.storeUC.Execute(c.UserContext(), toInput(domain.Kind(c.Params("kind")), req))
	if err != nil {
		return writeError(c, err)
	}

	if !created {
		return c.Status(http.StatusOK).JSON(CreateRecordResponse{Status: "duplicate"})
	}
	return c.Status(http.StatusCreated).JSON(CreateRecordResponse{Status: "created"})
}

// BulkCreateRecords godoc
// @Summary Bulk store records
// @Description Validates every record, then stores them one by one
// @Tags Records
// @Accept json
// @Produce json
// @Param kind path string true "responses | costs"
// @Param request body BulkCreateRecordsRequest true "Bulk record payload"
// @Success 201 {object} BulkCreateRecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records/{kind}/bulk [post]
func (h *RecordHandler) BulkCreateRecords(c *fiber.Ctx) error {
	var req BulkCreateRecordsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.Records) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "records_list_required",
		})
	}

	kind := domain.Kind(c.Params("kind"))
	inputs := make([]usecase.StoreRecordInput, len(req.Records))
	for i, r := range req.Records {
		inputs[i] = toInput(kind, r)
	}

	result, err := h.storeUC.BulkStoreRecords(
		c.UserContext(),
		usecase.BulkStoreRecordsInput{Records: inputs},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(BulkCreateRecordsResponse{
		Created:    result.Created,
		Duplicates: result.Duplicates,
	})
}

func toInput(kind domain.Kind, r CreateRecordRequest) usecase.StoreRecordInput {
	return usecase.StoreRecordInput{
		Kind:    kind,
		Geo:     r.Geo,
		GeoName: r.GeoName,
		Date:    r.Date,
		Value:   r.Value,
	}
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnknownKind):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "unknown_kind",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrInvalidRecord),
		errors.Is(err, usecase.ErrFutureDate):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_record",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
