package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ThiagoRGoveia/haiti-debt/internal/config"
	"github.com/ThiagoRGoveia/haiti-debt/internal/database"
	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
	"github.com/ThiagoRGoveia/haiti-debt/internal/series"
)

var timeNow = time.Now

// Report describes one import execution.
type Report struct {
	Run     *models.ImportRun
	Rows    []models.YearRow
	Skipped bool
}

type IngestionService struct {
	dbManager     database.DBManager
	fileProcessor Processor
	validate      *validator.Validate
	config        config.Config
	logger        *slog.Logger
}

func NewIngestionService(dbManager database.DBManager, processor Processor, cfg config.Config) *IngestionService {
	return &IngestionService{
		dbManager:     dbManager,
		fileProcessor: processor,
		validate:      models.NewValidator(),
		config:        cfg,
		logger:        slog.Default(),
	}
}

// Execute rebuilds the whole series from the file at sourcePath and upserts it.
func (h *IngestionService) Execute(ctx context.Context, sourcePath string) (*Report, error) {
	run := &models.ImportRun{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		StartedAt:  timeNow().UTC(),
	}
	logger := h.logger.With("run_id", run.ID, "source", sourcePath)

	// Step 1: Read the source. Nothing is written when it cannot be read.
	source, err := h.fileProcessor.ReadSource(sourcePath)
	if err != nil {
		logger.Error("failed to read source", "error", err)
		return nil, err
	}
	run.Checksum = source.Checksum

	// Step 2: Optionally skip a file identical to one already imported.
	if h.config.SkipUnchanged {
		imported, err := h.dbManager.IsSourceAlreadyImported(ctx, source.Checksum)
		if err != nil {
			return nil, fmt.Errorf("failed to check previous imports: %w", err)
		}
		if imported {
			logger.Info("source already imported, skipping", "checksum", source.Checksum)
			run.Status = models.ImportStatusSkipped
			h.finish(ctx, run)
			return &Report{Run: run, Skipped: true}, nil
		}
	}

	// Step 3: Parse the CSV and expand it to the full year range.
	result, err := series.Build(string(source.Content), series.Options{
		RejectDuplicateYears: h.config.RejectDuplicateYears,
		Logger:               logger,
	})
	if err != nil {
		h.fail(ctx, run, err)
		return nil, fmt.Errorf("failed to build series from %s: %w", sourcePath, err)
	}
	run.RecordCount = result.RecordCount
	run.RowCount = len(result.Rows)
	run.Warnings = warningMessages(result)
	logger.Info("built series", "records", result.RecordCount, "rows", len(result.Rows), "warnings", len(run.Warnings))

	// Step 4: Validate before touching the store.
	if err := models.ValidateYearRows(h.validate, result.Rows); err != nil {
		h.fail(ctx, run, err)
		return nil, fmt.Errorf("built series is invalid: %w", err)
	}

	// Step 5: Upsert every year in one transaction.
	if err := h.dbManager.UpsertYearRows(ctx, result.Rows); err != nil {
		h.fail(ctx, run, err)
		return nil, fmt.Errorf("failed to store series: %w", err)
	}

	// Step 6: Record the run.
	run.Status = models.ImportStatusDone
	if len(run.Warnings) > 0 {
		run.Status = models.ImportStatusDoneWithWarnings
	}
	h.finish(ctx, run)

	logger.Info("import finished", "status", run.Status, "duration", run.FinishedAt.Sub(run.StartedAt))
	return &Report{Run: run, Rows: result.Rows}, nil
}

func (h *IngestionService) fail(ctx context.Context, run *models.ImportRun, err error) {
	run.Status = models.ImportStatusFatal
	run.Error = err.Error()
	h.finish(ctx, run)
}

func (h *IngestionService) finish(ctx context.Context, run *models.ImportRun) {
	run.FinishedAt = timeNow().UTC()
	h.fileProcessor.RecordRun(ctx, run)
}

func warningMessages(result *series.Result) []string {
	var messages []string
	for _, w := range result.Warnings {
		messages = append(messages, w.String())
	}
	for _, year := range result.DuplicateYears {
		messages = append(messages, fmt.Sprintf("year %d appears more than once, last row kept", year))
	}
	return messages
}
