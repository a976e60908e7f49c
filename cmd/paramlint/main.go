// Command paramlint validates hydrological model parameter documents.
//
// Each PATH argument is a parameter document (JSON or YAML, optionally
// compressed) or a directory scanned for such documents. The exit status is
// the number of invalid documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hydrokit/modelparams/batch"
	"github.com/hydrokit/modelparams/build"
	"github.com/hydrokit/modelparams/cli"
	"github.com/hydrokit/modelparams/document"
	"github.com/hydrokit/modelparams/logger"
	"github.com/hydrokit/modelparams/schema"
	"github.com/hydrokit/modelparams/startup"
)

// maxExitStatus keeps the invalid-document count inside the range of plain
// exit codes; larger values collide with shell and signal conventions.
const maxExitStatus = 125

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

type options struct {
	showSchema  bool
	showVersion bool
	reportDir   string
	label       string
	force       bool
	paths       []string
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	flagSet := flag.NewFlagSet("paramlint", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `paramlint validates hydrological model parameter documents.

Usage:
  paramlint [options] PATH ...

Arguments:
  PATH
    A parameter document (.json, .yaml or .yml, optionally compressed as
    .gz, .zst, .br or .lz4) or a directory scanned for such documents.

Options:
`)
		flagSet.PrintDefaults()
	}

	opts := &options{}

	flagSet.BoolVar(&opts.showSchema, "schema", false, "Print the JSON Schema contract and exit.")
	flagSet.BoolVar(&opts.showVersion, "version", false, "Print build metadata and exit.")
	flagSet.StringVar(&opts.reportDir, "report", "", "Directory to write the run report into.")
	flagSet.StringVar(&opts.label, "label", "", "Report label; defaults to the run id.")
	flagSet.BoolVar(&opts.force, "force", false, "Overwrite an existing report without asking.")

	if err := flagSet.Parse(args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opts.paths = flagSet.Args()

	return opts, nil
}

func run(args []string, output io.Writer) int {
	opts, err := parseFlags(args, output)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	switch {
	case opts.showVersion:
		fmt.Fprintln(output, build.Version())

		return 0
	case opts.showSchema:
		return printSchema(output)
	}

	if len(opts.paths) == 0 {
		fmt.Fprintln(os.Stderr, "paramlint: no documents named, see -help")

		return 2
	}

	ctx, err := startup.Initialize("paramlint")
	if err != nil {
		fmt.Fprintln(os.Stderr, "paramlint: "+err.Error())

		return 1
	}

	corpus, err := loadInputs(ctx, opts.paths)
	if err != nil {
		logger.Get(ctx).Error("Loading documents failed", "error", err)

		return 1
	}

	runner := batch.NewRunner(ctx)
	defer runner.Close()

	outcome := runner.ValidateAll(ctx, corpus.Documents)
	report := batch.NewReport(outcome, corpus)

	render(output, report)

	if opts.reportDir != "" {
		if code := writeReport(ctx, report, opts); code != 0 {
			return code
		}
	}

	return min(report.Invalid, maxExitStatus)
}

func printSchema(output io.Writer) int {
	data, err := schema.JSON()
	if err != nil {
		fmt.Fprintln(os.Stderr, "paramlint: "+err.Error())

		return 1
	}

	fmt.Fprintln(output, string(data))

	return 0
}

// loadInputs merges the named files and directories into one corpus.
// Directory entries keep their corpus-relative path prefixed with the
// argument, so report rows name files the way the caller reached them.
func loadInputs(ctx context.Context, paths []string) (*batch.Corpus, error) {
	merged := &batch.Corpus{
		Documents:   map[string]document.Map{},
		Undecodable: map[string]*batch.UndecodedFile{},
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		if info.IsDir() {
			corpus, err := batch.LoadCorpus(ctx, path)
			if err != nil {
				return nil, err //nolint:wrapcheck
			}

			for rel, doc := range corpus.Documents {
				merged.Documents[filepath.ToSlash(filepath.Join(path, rel))] = doc
			}

			for rel, file := range corpus.Undecodable {
				merged.Undecodable[filepath.ToSlash(filepath.Join(path, rel))] = file
			}

			continue
		}

		if err := loadFile(ctx, merged, path); err != nil {
			return nil, err
		}
	}

	return merged, nil
}

// loadFile adds one explicitly named document to the corpus. A recognizable
// parameter document that fails to decode becomes an undecodable row; a file
// with an unknown extension is the caller's mistake and aborts the run.
func loadFile(ctx context.Context, corpus *batch.Corpus, path string) error {
	doc, err := batch.LoadDocument(ctx, path)
	if err == nil {
		corpus.Documents[path] = doc

		return nil
	}

	if errors.Is(err, batch.ErrUnknownFormat) {
		return err //nolint:wrapcheck
	}

	raw, readErr := os.ReadFile(path) // #nosec G304 -- the caller named the file
	if readErr != nil {
		raw = nil
	}

	corpus.Undecodable[path] = &batch.UndecodedFile{Err: err, Raw: raw}

	return nil
}

func render(output io.Writer, report *batch.Report) {
	for _, entry := range report.Documents {
		if entry.Valid {
			fmt.Fprintf(output, "ok      %s\n", entry.Source)

			continue
		}

		fmt.Fprintf(output, "INVALID %s\n", entry.Source)

		for _, problem := range entry.Problems {
			if problem.Kind != "" {
				fmt.Fprintf(output, "        %s: %s\n", problem.Kind, problem.Message)
			} else {
				fmt.Fprintf(output, "        %s\n", problem.Message)
			}
		}
	}

	fmt.Fprintf(output, "\n%d documents: %d valid, %d invalid\n",
		report.Total, report.Valid, report.Invalid)
}

// writeReport writes the report artifact, asking before replacing an
// existing one unless -force was given.
func writeReport(ctx context.Context, report *batch.Report, opts *options) int {
	label := opts.label
	if label == "" {
		label = report.RunId
	}

	target := batch.ReportPath(opts.reportDir, label)

	if !opts.force {
		if _, err := os.Stat(target); err == nil {
			overwrite, err := cli.PromptConfirm("Overwrite existing report " + target)
			if err != nil {
				logger.Get(ctx).Error("Confirmation failed", "error", err)

				return 1
			}

			if !overwrite {
				logger.Get(ctx).Info("Existing report left untouched", "path", target)

				return 0
			}
		}
	}

	if _, err := report.Write(ctx, opts.reportDir, label); err != nil {
		logger.Get(ctx).Error("Writing report failed", "error", err)

		return 1
	}

	return 0
}
