package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// ImportMode controls what happens when an imported id already exists.
type ImportMode string

const (
	ImportModeSkip    ImportMode = "skip"    // keep the existing entity
	ImportModeReplace ImportMode = "replace" // overwrite the existing entity
)

// maxImportLine bounds a single JSONL record.
const maxImportLine = 4 * 1024 * 1024

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     `json:"path" validate:"required"`
	Mode ImportMode `json:"mode" validate:"omitempty,oneof=skip replace"` // default: skip
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Replaced int           `json:"replaced"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes a record that could not be imported.
type ImportError struct {
	Line    int    `json:"line"`
	Entity  string `json:"entity,omitempty"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type lineRecord struct {
	line   int
	record capture.ExportRecord
}

// Import merges a JSONL export into the current state.
// The reserved bucket is never imported. Folders and captures whose bucket is
// neither present nor in the file are dropped; a capture whose folder is missing
// lands in its bucket's inbox.
func Import(ctx context.Context, st *store.Store, cfg *config.Config, dataDir string, input ImportInput) (*ImportOutput, error) {
	input.Path = strings.TrimSpace(input.Path)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Mode == "" {
		input.Mode = ImportModeSkip
	}
	if err := ValidatePath(input.Path, PathCheckRead, dataDir, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	byEntity, out := parseExportFile(file)

	// Parents first so references resolve against what has already been applied.
	for _, entity := range []string{capture.EntityBucket, capture.EntityFolder, capture.EntityTemplate, capture.EntityCapture} {
		records := byEntity[entity]
		if entity == capture.EntityCapture {
			// Captures are prepended on add; walk backwards to keep file order.
			for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
				records[i], records[j] = records[j], records[i]
			}
		}
		for _, lr := range records {
			if ctx.Err() != nil {
				return nil, errors.NewCancelled("import")
			}
			importRecord(st, input.Mode, lr, out)
		}
	}

	return out, nil
}

// parseExportFile groups valid records by entity. Malformed lines become errors.
func parseExportFile(r io.Reader) (map[string][]lineRecord, *ImportOutput) {
	out := &ImportOutput{Errors: []ImportError{}}
	byEntity := make(map[string][]lineRecord)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record capture.ExportRecord
		if err := json.Unmarshal(line, &record); err != nil {
			out.addError(ImportError{Line: lineNum, Code: "PARSE_ERROR", Message: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}
		if record.BrainBucketExport {
			continue
		}
		if record.EntityID() == "" {
			out.addError(ImportError{Line: lineNum, Entity: record.Entity, Code: "INVALID_RECORD", Message: "missing entity or id"})
			continue
		}
		byEntity[record.Entity] = append(byEntity[record.Entity], lineRecord{line: lineNum, record: record})
	}

	if err := scanner.Err(); err != nil {
		out.addError(ImportError{Line: lineNum, Code: "READ_ERROR", Message: fmt.Sprintf("failed to read file: %v", err)})
	}
	return byEntity, out
}

func importRecord(st *store.Store, mode ImportMode, lr lineRecord, out *ImportOutput) {
	r := lr.record
	id := r.EntityID()
	s := st.State()

	fail := func(code, msg string) {
		out.addError(ImportError{Line: lr.line, Entity: r.Entity, ID: id, Code: code, Message: msg})
	}

	var exists bool
	var add, replace store.Action

	switch r.Entity {
	case capture.EntityBucket:
		if id == capture.UnsortedBucketID {
			out.Skipped++
			return
		}
		if strings.TrimSpace(r.Bucket.Name) == "" {
			fail("INVALID_RECORD", "bucket name is required")
			return
		}
		_, exists = s.Bucket(id)
		add, replace = store.AddBucket{Bucket: *r.Bucket}, store.UpdateBucket{Bucket: *r.Bucket}

	case capture.EntityFolder:
		if _, ok := s.Bucket(r.Folder.BucketID); !ok {
			fail("ORPHAN", fmt.Sprintf("bucket %s does not exist", r.Folder.BucketID))
			return
		}
		_, exists = s.Folder(id)
		add, replace = store.AddFolder{Folder: *r.Folder}, store.UpdateFolder{Folder: *r.Folder}

	case capture.EntityCapture:
		c := *r.Capture
		if strings.TrimSpace(c.Text) == "" {
			fail("INVALID_RECORD", "capture text is required")
			return
		}
		if _, ok := capture.ParseKind(string(c.Kind)); !ok {
			c.Kind = capture.KindTask
		}
		if _, ok := s.Bucket(c.BucketID); !ok {
			fail("ORPHAN", fmt.Sprintf("bucket %s does not exist", c.BucketID))
			return
		}
		_, exists = s.Capture(id)
		add, replace = store.AddCapture{Capture: c}, store.UpdateCapture{Capture: c}

	case capture.EntityTemplate:
		t := *r.Template
		t.Items = capture.CleanStrings(t.Items)
		if strings.TrimSpace(t.Name) == "" || len(t.Items) == 0 {
			fail("INVALID_RECORD", "template needs a name and at least one item")
			return
		}
		_, exists = s.Template(id)
		add, replace = store.AddTemplate{Template: t}, store.UpdateTemplate{Template: t}

	default:
		fail("INVALID_RECORD", "unknown entity: "+r.Entity)
		return
	}

	switch {
	case !exists:
		st.Dispatch(add)
		out.Imported++
	case mode == ImportModeReplace:
		st.Dispatch(replace)
		out.Replaced++
	default:
		out.Skipped++
	}
}

func (o *ImportOutput) addError(e ImportError) {
	o.Errors = append(o.Errors, e)
	o.Skipped++
}
