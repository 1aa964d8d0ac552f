package report

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"xmltrip/internal/runinfo"
	"xmltrip/internal/util"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

const (
	RunArchiveName  = "run.tar.zst"
	RunArchiveCodec = "zstd"
	SummaryFile     = "summary.json"
)

// ArtifactWriter persists a run's inputs, outputs and summary under OutputDir.
type ArtifactWriter struct {
	OutputDir string
	Archive   bool
}

// Run is one run directory.
type Run struct {
	ID  string
	Dir string
}

// Summary is the persisted description of a run.
type Summary struct {
	RunID          string             `json:"run_id"`
	Dialect        string             `json:"dialect"`
	Target         string             `json:"target"`
	Total          int                `json:"total"`
	Passed         int                `json:"passed"`
	Failed         int                `json:"failed"`
	Fixtures       []FixtureSummary   `json:"fixtures"`
	RunInfo        *runinfo.BasicInfo `json:"run_info,omitempty"`
	ArchiveName    string             `json:"archive_name,omitempty"`
	ArchiveCodec   string             `json:"archive_codec,omitempty"`
	UploadLocation string             `json:"upload_location,omitempty"`
	Timestamp      string             `json:"timestamp"`
}

// FixtureSummary is the persisted outcome of one fixture.
type FixtureSummary struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	Stage       string `json:"stage,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	InputFile   string `json:"input_file"`
	OutputFile  string `json:"output_file,omitempty"`
}

// NewArtifactWriter returns a writer rooted at outputDir.
func NewArtifactWriter(outputDir string, archive bool) *ArtifactWriter {
	return &ArtifactWriter{OutputDir: outputDir, Archive: archive}
}

// NewRun allocates a run directory named after a time-ordered id.
func (w *ArtifactWriter) NewRun() (Run, error) {
	runID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		runID = v7.String()
	}
	dir := filepath.Join(w.OutputDir, "run_"+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Run{}, err
	}
	return Run{ID: runID, Dir: dir}, nil
}

// WriteTally writes per-fixture SQL files, summary.json and, when enabled,
// the run archive. It returns the summary that was written.
func (w *ArtifactWriter) WriteTally(run Run, dialect, target string, info *runinfo.BasicInfo, tally Tally) (Summary, error) {
	summary := Summary{
		RunID:     run.ID,
		Dialect:   dialect,
		Target:    target,
		Total:     tally.Total,
		Passed:    tally.Passed,
		Failed:    tally.Failed,
		RunInfo:   info,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, out := range tally.Outcomes {
		entry := FixtureSummary{
			ID:        int(out.FixtureID),
			Status:    out.Status.String(),
			ElapsedMs: out.Elapsed.Milliseconds(),
			InputFile: fmt.Sprintf("fixture_%d.sql", out.FixtureID),
		}
		if err := w.WriteText(run, entry.InputFile, out.Input); err != nil {
			return Summary{}, err
		}
		if out.OK() {
			entry.OutputFile = fmt.Sprintf("fixture_%d.out.sql", out.FixtureID)
			if err := w.WriteText(run, entry.OutputFile, out.Output+"\n"); err != nil {
				return Summary{}, err
			}
		} else {
			entry.Stage = string(out.Stage)
			entry.Error = fmt.Sprintf("%v", out.Err)
			entry.ErrorDetail = fmt.Sprintf("%+v", out.Err)
		}
		summary.Fixtures = append(summary.Fixtures, entry)
	}
	if w.Archive {
		summary.ArchiveName = RunArchiveName
		summary.ArchiveCodec = RunArchiveCodec
	}
	if err := w.WriteSummary(run, summary); err != nil {
		return Summary{}, err
	}
	if w.Archive {
		if _, _, err := w.WriteArchive(run); err != nil {
			return Summary{}, err
		}
	}
	return summary, nil
}

// WriteSummary writes summary.json into the run directory.
func (w *ArtifactWriter) WriteSummary(run Run, summary Summary) error {
	f, err := os.Create(filepath.Join(run.Dir, SummaryFile))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "summary output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(summary)
}

// WriteText writes raw text content into the run directory.
func (w *ArtifactWriter) WriteText(run Run, name string, content string) error {
	path := filepath.Join(run.Dir, name)
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// WriteArchive packs the run directory into a zstd-compressed tarball.
func (w *ArtifactWriter) WriteArchive(run Run) (name string, codec string, err error) {
	archivePath := filepath.Join(run.Dir, RunArchiveName)
	if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return "", "", removeErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()
	file, err := os.Create(archivePath)
	if err != nil {
		return "", "", err
	}
	defer util.CloseWithErr(file, "archive output")

	zw, err := zstd.NewWriter(file)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if closeErr := zw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(zw)
	defer func() {
		if closeErr := tw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(run.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(run.Dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer util.CloseWithErr(src, "archive source")
		_, err = io.Copy(tw, src)
		return err
	})
	if walkErr != nil {
		return "", "", walkErr
	}
	return RunArchiveName, RunArchiveCodec, nil
}
