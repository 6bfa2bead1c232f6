package ops

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
)

// writeExportFile writes a header line followed by records into the exports dir.
func writeExportFile(t *testing.T, dataDir, name string, records []capture.ExportRecord) string {
	t.Helper()
	var sb strings.Builder
	header, err := json.Marshal(capture.ExportRecord{BrainBucketExport: true, SchemaVersion: ExportSchemaVersion})
	require.NoError(t, err)
	sb.Write(header)
	sb.WriteByte('\n')
	for _, r := range records {
		line, err := json.Marshal(r)
		require.NoError(t, err)
		sb.Write(line)
		sb.WriteByte('\n')
	}
	path := filepath.Join(ExportsDir(dataDir), name)
	writeFile(t, path, sb.String())
	return path
}

func importCapture(id, bucketID, folderID, text string) capture.ExportRecord {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return capture.CaptureRecord(capture.Capture{
		ID: id, Text: text, Kind: capture.KindTask, BucketID: bucketID, FolderID: folderID,
		CreatedAt: ts, UpdatedAt: ts,
	})
}

func TestImport_AddsNewEntities(t *testing.T) {
	st := newTestStore(t)
	dataDir := newDataDir(t)

	path := writeExportFile(t, dataDir, "in.jsonl", []capture.ExportRecord{
		capture.BucketRecord(capture.Bucket{ID: "b-new", Name: "Travel", Icon: "Plane", Color: "#112233", ItemCount: 99}),
		capture.FolderRecord(capture.Folder{ID: "f-new", Name: "Japan", BucketID: "b-new"}),
		importCapture("c-1", "b-new", "f-new", "book flights"),
		importCapture("c-2", "b-new", "", "renew passport"),
		capture.TemplateRecord(capture.QuickTemplate{ID: "t-new", Name: "Trip", Icon: "Plane", Color: "#112233", Items: []string{"tickets"}}),
	})

	out, err := Import(context.Background(), st, config.DefaultConfig(), dataDir, ImportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, 5, out.Imported)
	require.Zero(t, out.Skipped)
	require.Empty(t, out.Errors)

	s := st.State()
	b, ok := s.Bucket("b-new")
	require.True(t, ok)
	require.Equal(t, 2, b.ItemCount)
	require.True(t, b.HasInboxItems)
	f, ok := s.Folder("f-new")
	require.True(t, ok)
	require.Equal(t, 1, f.ItemCount)
	_, ok = s.Template("t-new")
	require.True(t, ok)

	// File order is kept for captures.
	require.Equal(t, "c-1", s.Captures[0].ID)
	require.Equal(t, "c-2", s.Captures[1].ID)
}

func TestImport_SkipsExistingAndReserved(t *testing.T) {
	st := newTestStore(t)
	dataDir := newDataDir(t)

	path := writeExportFile(t, dataDir, "in.jsonl", []capture.ExportRecord{
		capture.BucketRecord(capture.Bucket{ID: capture.UnsortedBucketID, Name: "Hijacked"}),
		capture.BucketRecord(capture.Bucket{ID: "1", Name: "Renamed"}),
		capture.TemplateRecord(capture.QuickTemplate{ID: "1", Name: "Renamed", Items: []string{"x"}}),
	})

	out, err := Import(context.Background(), st, config.DefaultConfig(), dataDir, ImportInput{Path: path})
	require.NoError(t, err)
	require.Zero(t, out.Imported)
	require.Equal(t, 3, out.Skipped)

	s := st.State()
	unsorted, _ := s.Bucket(capture.UnsortedBucketID)
	require.Equal(t, "Unsorted", unsorted.Name)
	b, _ := s.Bucket("1")
	require.Equal(t, "To-Dos", b.Name)
}

func TestImport_ReplaceMode(t *testing.T) {
	st := newTestStore(t)
	dataDir := newDataDir(t)
	mustAddCapture(t, st, "a", "1", "")

	path := writeExportFile(t, dataDir, "in.jsonl", []capture.ExportRecord{
		capture.BucketRecord(capture.Bucket{ID: capture.UnsortedBucketID, Name: "Hijacked"}),
		capture.BucketRecord(capture.Bucket{ID: "1", Name: "Renamed", Icon: "CheckSquare", Color: "#3b82f6"}),
	})

	out, err := Import(context.Background(), st, config.DefaultConfig(), dataDir, ImportInput{Path: path, Mode: ImportModeReplace})
	require.NoError(t, err)
	require.Equal(t, 1, out.Replaced)
	require.Equal(t, 1, out.Skipped)

	s := st.State()
	b, _ := s.Bucket("1")
	require.Equal(t, "Renamed", b.Name)
	require.Equal(t, 1, b.ItemCount)
	unsorted, _ := s.Bucket(capture.UnsortedBucketID)
	require.Equal(t, "Unsorted", unsorted.Name)
}

func TestImport_DropsOrphans(t *testing.T) {
	st := newTestStore(t)
	dataDir := newDataDir(t)

	path := writeExportFile(t, dataDir, "in.jsonl", []capture.ExportRecord{
		capture.FolderRecord(capture.Folder{ID: "f-orphan", Name: "Lost", BucketID: "gone"}),
		importCapture("c-orphan", "gone", "", "lost"),
		importCapture("c-unfiled", "1", "f-missing", "lands in inbox"),
	})

	out, err := Import(context.Background(), st, config.DefaultConfig(), dataDir, ImportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, 1, out.Imported)
	require.Equal(t, 2, out.Skipped)
	require.Len(t, out.Errors, 2)
	for _, e := range out.Errors {
		require.Equal(t, "ORPHAN", e.Code)
	}

	s := st.State()
	require.Len(t, s.Captures, 1)
	require.Equal(t, "c-unfiled", s.Captures[0].ID)
	require.Empty(t, s.Captures[0].FolderID)
	_, ok := s.Folder("f-orphan")
	require.False(t, ok)
}

func TestImport_MalformedLines(t *testing.T) {
	st := newTestStore(t)
	dataDir := newDataDir(t)

	good, err := json.Marshal(importCapture("c-ok", "1", "", "fine"))
	require.NoError(t, err)
	content := strings.Join([]string{
		`{"_brainbucket_export":true,"schema_version":"1.0"}`,
		`{not json`,
		``,
		`{"entity":"capture"}`,
		`{"entity":"widget","bucket":{"id":"x"}}`,
		`{"entity":"capture","capture":{"id":"c-blank","text":"  ","bucketId":"1"}}`,
		string(good),
	}, "\n")
	path := filepath.Join(ExportsDir(dataDir), "bad.jsonl")
	writeFile(t, path, content)

	out, err := Import(context.Background(), st, config.DefaultConfig(), dataDir, ImportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, 1, out.Imported)
	require.Len(t, out.Errors, 4)
	require.Equal(t, "PARSE_ERROR", out.Errors[0].Code)
	require.Equal(t, 2, out.Errors[0].Line)
	require.Equal(t, "INVALID_RECORD", out.Errors[1].Code)
	require.Equal(t, 4, out.Errors[1].Line)
}

func TestImport_UnknownKindDefaultsToTask(t *testing.T) {
	st := newTestStore(t)
	dataDir := newDataDir(t)

	rec := importCapture("c-1", "1", "", "x")
	rec.Capture.Kind = "memo"
	path := writeExportFile(t, dataDir, "in.jsonl", []capture.ExportRecord{rec})

	_, err := Import(context.Background(), st, config.DefaultConfig(), dataDir, ImportInput{Path: path})
	require.NoError(t, err)
	c, err := GetCapture(context.Background(), st, "c-1")
	require.NoError(t, err)
	require.Equal(t, capture.KindTask, c.Kind)
}

func TestImport_RoundTrip(t *testing.T) {
	src := newTestStore(t)
	dataDir := newDataDir(t)
	ctx := context.Background()

	b, err := AddBucket(ctx, src, AddBucketInput{Name: "Travel"})
	require.NoError(t, err)
	folderID := mustAddFolder(t, src, b.ID, "Japan")
	mustAddCapture(t, src, "first", b.ID, folderID)
	mustAddCapture(t, src, "second", b.ID, "")
	mustAddCapture(t, src, "third", "", "")
	_, err = AddTemplate(ctx, src, AddTemplateInput{Name: "Trip", Items: []string{"tickets"}})
	require.NoError(t, err)

	exp, err := Export(ctx, src, config.DefaultConfig(), dataDir, ExportInput{})
	require.NoError(t, err)

	dst := newTestStore(t)
	out, err := Import(ctx, dst, config.DefaultConfig(), dataDir, ImportInput{Path: exp.Path})
	require.NoError(t, err)
	require.Empty(t, out.Errors)
	// bucket, folder, 3 captures, template; seeds already exist.
	require.Equal(t, 6, out.Imported)

	want, got := src.State(), dst.State()
	require.Equal(t, want.Buckets, got.Buckets)
	require.Equal(t, want.Folders, got.Folders)
	require.Equal(t, want.Captures, got.Captures)
	require.Equal(t, want.Templates, got.Templates)
}

func TestImport_PathErrors(t *testing.T) {
	st := newTestStore(t)
	dataDir := newDataDir(t)
	ctx := context.Background()
	cfg := config.DefaultConfig()

	_, err := Import(ctx, st, cfg, dataDir, ImportInput{})
	requireCode(t, err, errors.ErrInvalidRequest)

	_, err = Import(ctx, st, cfg, dataDir, ImportInput{Path: filepath.Join(ExportsDir(dataDir), "missing.jsonl")})
	requireCode(t, err, errors.ErrFileNotFound)

	outside := filepath.Join(t.TempDir(), "in.jsonl")
	require.NoError(t, os.WriteFile(outside, []byte("{}\n"), 0600))
	_, err = Import(ctx, st, cfg, dataDir, ImportInput{Path: outside})
	requireCode(t, err, errors.ErrInvalidRequest)

	path := writeExportFile(t, dataDir, "in.jsonl", nil)
	_, err = Import(ctx, st, cfg, dataDir, ImportInput{Path: path, Mode: "rename"})
	requireCode(t, err, errors.ErrInvalidRequest)
}
