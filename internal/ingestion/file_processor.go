package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThiagoRGoveia/haiti-debt/internal/database"
	"github.com/ThiagoRGoveia/haiti-debt/internal/models"
	"github.com/ThiagoRGoveia/haiti-debt/pkg/checksum"
)

// Source is the raw content of one import file.
type Source struct {
	Path     string
	Content  []byte
	Checksum string
}

// Processor defines the interface for the file level steps of an import.
type Processor interface {
	ReadSource(path string) (*Source, error)
	RecordRun(ctx context.Context, run *models.ImportRun)
}

// FileProcessor reads source files and keeps the import ledger.
type FileProcessor struct {
	dbManager database.DBManager
}

// NewFileProcessor creates a new FileProcessor with the given DBManager.
func NewFileProcessor(dbManager database.DBManager) *FileProcessor {
	return &FileProcessor{
		dbManager: dbManager,
	}
}

// ReadSource loads the whole file and fingerprints it. The dataset is small enough to hold in memory.
func (fp *FileProcessor) ReadSource(path string) (*Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	return &Source{
		Path:     path,
		Content:  content,
		Checksum: checksum.CalculateHash(content),
	}, nil
}

// RecordRun stores the ledger entry. A ledger failure is logged and never fails the import.
func (fp *FileProcessor) RecordRun(ctx context.Context, run *models.ImportRun) {
	if err := fp.dbManager.InsertImportRun(ctx, run); err != nil {
		slog.Error("failed to record import run", "run_id", run.ID, "status", run.Status, "error", err)
	}
}
