package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/panel/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyResponses     = errors.New("response table is empty")
	ErrDuplicateKey       = errors.New("duplicate (geo, date) key")
	ErrConflictingGeoName = errors.New("geo has more than one name")
)

// IsInputFault reports whether err comes from bad input tables rather than
// from infrastructure.
func IsInputFault(err error) bool {
	return errors.Is(err, ErrEmptyResponses) ||
		errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrConflictingGeoName) ||
		errors.Is(err, domain.ErrMissingColumn) ||
		errors.Is(err, domain.ErrMissingSource) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, domain.ErrInvalidValue)
}

type Options struct {
	// Strict turns duplicate keys and conflicting geo names into errors.
	Strict bool
}

type Stats struct {
	ResponseDuplicates int
	CostDuplicates     int
	CostDropped        int
	NameConflicts      int
}

type Result struct {
	Dictionary domain.Dictionary
	Index      domain.Index
	Panel      domain.Panel
	Stats      Stats
}

// BuildPanel runs dictionary, index, densify and join over in-memory sources.
func BuildPanel(src domain.Sources, opts Options) (*Result, error) {
	dict, conflicts, err := BuildDictionary(src.Responses, opts.Strict)
	if err != nil {
		return nil, err
	}

	index, err := BuildIndex(src.Responses)
	if err != nil {
		return nil, err
	}

	response, rStats, err := Densify(index, ResponsePoints(src.Responses), opts.Strict)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	cost, cStats, err := Densify(index, CostPoints(src.Costs), opts.Strict)
	if err != nil {
		return nil, fmt.Errorf("cost: %w", err)
	}

	return &Result{
		Dictionary: dict,
		Index:      index,
		Panel:      Join(response, cost, dict),
		Stats: Stats{
			ResponseDuplicates: rStats.Duplicates,
			CostDuplicates:     cStats.Duplicates,
			CostDropped:        cStats.Dropped,
			NameConflicts:      conflicts,
		},
	}, nil
}

type BuildPanelUseCase struct {
	source ports.SourceReaderPort
	sink   ports.PanelWriterPort
	runs   ports.RunLogPort
	logger *zap.Logger
	opts   Options
	now    func() time.Time
}

func NewBuildPanelUseCase(
	source ports.SourceReaderPort,
	sink ports.PanelWriterPort,
	runs ports.RunLogPort,
	logger *zap.Logger,
	opts Options,
) *BuildPanelUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuildPanelUseCase{
		source: source,
		sink:   sink,
		runs:   runs,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// Execute reads both sources, builds the dictionary and the panel, and only
// then hands both to the sink. The returned run is never nil.
func (uc *BuildPanelUseCase) Execute(ctx context.Context) (*domain.Run, error) {
	run := domain.Run{
		ID:        uuid.NewString(),
		StartedAt: uc.now().UTC(),
		Status:    domain.RunInProgress,
	}
	log := uc.logger.With(zap.String("run_id", run.ID))

	if err := uc.runs.StartRun(ctx, run); err != nil {
		log.Warn("could not record run start", zap.Error(err))
	}

	log.Info("start processing")

	result, err := uc.execute(ctx, log)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		run.Status = domain.RunFailed
		run.Error = err.Error()
		uc.finish(ctx, log, &run)
		return &run, err
	}

	run.Status = domain.RunSuccess
	run.Geos = len(result.Index.Geos)
	run.Days = len(result.Index.Dates)
	run.Rows = result.Panel.Len()
	uc.finish(ctx, log, &run)

	log.Info("run finished",
		zap.Int("geos", run.Geos),
		zap.Int("days", run.Days),
		zap.Int("rows", run.Rows),
		zap.Duration("took", run.Duration()))

	return &run, nil
}

func (uc *BuildPanelUseCase) execute(ctx context.Context, log *zap.Logger) (*Result, error) {
	src, err := uc.source.ReadSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	log.Info("cost and response data read",
		zap.Int("responses", len(src.Responses)),
		zap.Int("costs", len(src.Costs)))

	result, err := BuildPanel(*src, uc.opts)
	if err != nil {
		return nil, err
	}
	log.Info("geo dictionary and time series created",
		zap.Int("geos", result.Dictionary.Len()),
		zap.Int("rows", result.Panel.Len()))

	if s := result.Stats; s.ResponseDuplicates > 0 || s.CostDuplicates > 0 || s.NameConflicts > 0 {
		log.Warn("duplicate input rows ignored, first occurrence kept",
			zap.Int("response_duplicates", s.ResponseDuplicates),
			zap.Int("cost_duplicates", s.CostDuplicates),
			zap.Int("geo_name_conflicts", s.NameConflicts))
	}
	if result.Stats.CostDropped > 0 {
		log.Info("cost rows outside the response range dropped",
			zap.Int("dropped", result.Stats.CostDropped))
	}

	if err := uc.sink.WritePanel(ctx, result.Dictionary, result.Panel); err != nil {
		return nil, fmt.Errorf("write outputs: %w", err)
	}
	log.Info("geo dictionary and time series written")

	return result, nil
}

func (uc *BuildPanelUseCase) finish(ctx context.Context, log *zap.Logger, run *domain.Run) {
	run.FinishedAt = uc.now().UTC()
	// record the final status even when ctx is already cancelled
	if err := uc.runs.FinishRun(context.WithoutCancel(ctx), *run); err != nil {
		log.Warn("could not record run end", zap.Error(err))
	}
}
