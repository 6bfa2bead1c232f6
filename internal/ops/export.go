package ops

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// ExportSchemaVersion is written to the header line of every export.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string `json:"path"` // optional, default: <dataDir>/exports/brainbucket-<timestamp>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string         `json:"path"`
	Count      int            `json:"count"`
	Counts     map[string]int `json:"counts"`
	ExportedAt int64          `json:"exported_at"`
}

// Export writes every bucket, folder, capture and template to a JSONL file.
// The file is written to a temp name and renamed into place, so a failed export
// never clobbers an existing file.
func Export(ctx context.Context, st *store.Store, cfg *config.Config, dataDir string, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		filename := fmt.Sprintf("brainbucket-%s.jsonl", now.Format("2006-01-02T150405"))
		exportPath = filepath.Join(ExportsDir(dataDir), filename)
	}
	if err := ValidatePath(exportPath, PathCheckWrite, dataDir, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	s := st.State()
	records := exportRecords(&s)

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	header := capture.ExportRecord{
		BrainBucketExport: true,
		SchemaVersion:     ExportSchemaVersion,
		ExportedAt:        exportedAt,
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewInternal(err)
	}

	counts := make(map[string]int, 4)
	for _, record := range records {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("export")
		}
		if err := enc.Encode(record); err != nil {
			return nil, errors.NewInternal(err)
		}
		counts[record.Entity]++
	}

	if err := w.Flush(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      len(records),
		Counts:     counts,
		ExportedAt: exportedAt,
	}, nil
}

// exportRecords lists entities parents first so an import can resolve references in one pass.
func exportRecords(s *store.State) []capture.ExportRecord {
	records := make([]capture.ExportRecord, 0, len(s.Buckets)+len(s.Folders)+len(s.Captures)+len(s.Templates))
	for _, b := range s.Buckets {
		records = append(records, capture.BucketRecord(b))
	}
	for _, f := range s.Folders {
		records = append(records, capture.FolderRecord(f))
	}
	for _, c := range s.Captures {
		records = append(records, capture.CaptureRecord(c))
	}
	for _, t := range s.Templates {
		records = append(records, capture.TemplateRecord(t))
	}
	return records
}
