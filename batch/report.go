package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"facette.io/natsort"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrokit/modelparams/build"
	"github.com/hydrokit/modelparams/logger"
	"github.com/hydrokit/modelparams/paramcheck"
	"github.com/hydrokit/modelparams/printable"
	"github.com/hydrokit/modelparams/sanitize"
	"github.com/hydrokit/modelparams/spans"
)

const problemKindUndecodable = "undecodable"

const reportFileMode = 0o600

// Report is the JSON artifact summarizing one batch validation run.
type Report struct {
	RunId       string        `json:"run_id"` //nolint:tagliatelle
	Version     string        `json:"version"`
	GeneratedAt time.Time     `json:"generated_at"` //nolint:tagliatelle
	Total       int           `json:"total"`
	Valid       int           `json:"valid"`
	Invalid     int           `json:"invalid"`
	Documents   []ReportEntry `json:"documents"`
}

// ReportEntry is one document's row in the report, ordered by source.
type ReportEntry struct {
	Source     string             `json:"source"`
	DocumentId string             `json:"document_id,omitempty"` //nolint:tagliatelle
	Valid      bool               `json:"valid"`
	Parameters []string           `json:"parameters,omitempty"`
	Problems   []ReportProblem    `json:"problems,omitempty"`
	Payload    *printable.Payload `json:"payload,omitempty"`
}

// ReportProblem is a single failure row.
type ReportProblem struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// NewReport assembles the report for a run. corpus may be nil when the run
// was not corpus-backed; when present, its undecodable files appear as
// failed rows with their payloads embedded.
func NewReport(run *Run, corpus *Corpus) *Report {
	report := &Report{
		RunId:       run.Id,
		Version:     build.Version(),
		GeneratedAt: time.Now().UTC(),
		Documents:   make([]ReportEntry, 0, len(run.Results)),
	}

	for source, result := range run.Results {
		report.Documents = append(report.Documents, resultEntry(source, result))
	}

	if corpus != nil {
		for source, file := range corpus.Undecodable {
			report.Documents = append(report.Documents, undecodedEntry(source, file))
		}
	}

	sort.SliceStable(report.Documents, func(i, j int) bool {
		return natsort.Compare(report.Documents[i].Source, report.Documents[j].Source)
	})

	report.Total = len(report.Documents)

	for _, entry := range report.Documents {
		if entry.Valid {
			report.Valid++
		} else {
			report.Invalid++
		}
	}

	return report
}

// ReportPath returns the artifact path Write would use for the given
// directory and label. The file name is derived from label through
// sanitize.FileName, so corpus paths, timestamps and free-form run labels
// all yield portable names.
func ReportPath(dir, label string) string {
	return filepath.Join(dir, sanitize.FileName(label)+".json")
}

// Write renders the report as indented JSON at ReportPath(dir, label) and
// returns the path written.
func (r *Report) Write(ctx context.Context, dir, label string) (string, error) {
	path := ReportPath(dir, label)

	err := spans.StartErr(ctx, "batch.write_report",
		spans.WithAttribute("report_path", attribute.StringValue(path)),
		spans.WithErrorMessage("report write failed"),
	).Enter(func(ctx context.Context, _ trace.Span) error {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}

		if err := os.WriteFile(path, data, reportFileMode); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		logger.Get(ctx).Info("Report written",
			"path", path,
			"documents", r.Total,
			"invalid", r.Invalid)

		return nil
	})
	if err != nil {
		return "", err
	}

	return path, nil
}

func resultEntry(source string, result Result) ReportEntry {
	entry := ReportEntry{
		Source:     source,
		DocumentId: result.DocumentId,
		Valid:      result.Valid(),
	}

	if result.Valid() {
		names := result.Set.Names()

		entry.Parameters = make([]string, len(names))
		for i, name := range names {
			entry.Parameters[i] = string(name)
		}

		return entry
	}

	entry.Problems = problemRows(result.Err)

	return entry
}

func undecodedEntry(source string, file *UndecodedFile) ReportEntry {
	entry := ReportEntry{
		Source: source,
		Problems: []ReportProblem{{
			Kind:    problemKindUndecodable,
			Message: file.Err.Error(),
		}},
	}

	// Best effort: a payload that cannot be rendered is simply omitted.
	if payload, err := printable.FromBytes(file.Raw); err == nil {
		entry.Payload = payload
	}

	return entry
}

func problemRows(err error) []ReportProblem {
	var aggregate *paramcheck.Errors

	if !errors.As(err, &aggregate) {
		return []ReportProblem{{Message: err.Error()}}
	}

	rows := make([]ReportProblem, 0, aggregate.Len())

	for _, failure := range aggregate.All() {
		rows = append(rows, ReportProblem{
			Kind:    string(failure.Kind),
			Message: failure.Error(),
		})
	}

	return rows
}
