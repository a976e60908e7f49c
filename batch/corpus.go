package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrokit/modelparams/closer"
	"github.com/hydrokit/modelparams/document"
	"github.com/hydrokit/modelparams/logger"
	"github.com/hydrokit/modelparams/spans"
)

// ErrUnknownFormat is returned for files whose extension names neither a
// document format nor a compressed document format.
var ErrUnknownFormat = errors.New("not a parameter document file")

const (
	formatJSON = "json"
	formatYAML = "yaml"

	extGzip   = ".gz"
	extZstd   = ".zst"
	extBrotli = ".br"
	extLz4    = ".lz4"
)

// Corpus is a set of parameter documents loaded from a directory tree,
// keyed by slash-separated path relative to the corpus root.
type Corpus struct {
	// Documents holds every file that decoded into a parameter document.
	Documents map[string]document.Map

	// Undecodable holds files that could not be read or decoded, with
	// their raw bytes retained for the report where available.
	Undecodable map[string]*UndecodedFile
}

// Len returns the number of files the corpus picked up, decodable or not.
func (c *Corpus) Len() int {
	return len(c.Documents) + len(c.Undecodable)
}

// UndecodedFile is a corpus file whose bytes did not produce a document.
type UndecodedFile struct {
	// Err is the read or decode failure.
	Err error

	// Raw holds the decompressed file contents, nil when the file could
	// not be read at all.
	Raw []byte
}

// LoadCorpus walks dir and loads every parameter document in it. Files are
// recognized by extension: .json, .yaml and .yml, optionally compressed as
// .gz, .zst, .br or .lz4 (for example site7.json.gz). Other files are
// ignored.
//
// Files that fail to read or decode do not abort the walk; they are carried
// in Corpus.Undecodable so a report can show them.
func LoadCorpus(ctx context.Context, dir string) (*Corpus, error) {
	corpus := &Corpus{
		Documents:   map[string]document.Map{},
		Undecodable: map[string]*UndecodedFile{},
	}

	err := spans.StartErr(ctx, "batch.load_corpus",
		spans.WithAttribute("corpus_dir", attribute.StringValue(dir)),
	).Enter(func(ctx context.Context, _ trace.Span) error {
		return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if entry.IsDir() {
				return nil
			}

			format, ok := documentFormat(entry.Name())
			if !ok {
				return nil
			}

			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr //nolint:wrapcheck
			}

			key := filepath.ToSlash(rel)

			doc, raw, loadErr := loadDocument(ctx, path, format)
			if loadErr != nil {
				logger.Get(ctx).Warn("Corpus file did not decode",
					"file", key, "error", loadErr)

				corpus.Undecodable[key] = &UndecodedFile{Err: loadErr, Raw: raw}

				return nil
			}

			corpus.Documents[key] = doc

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus %s: %w", dir, err)
	}

	logger.Get(ctx).Debug("Corpus loaded",
		"dir", dir,
		"documents", len(corpus.Documents),
		"undecodable", len(corpus.Undecodable))

	return corpus, nil
}

// LoadDocument reads and decodes a single parameter document file,
// decompressing by extension like LoadCorpus does.
func LoadDocument(ctx context.Context, path string) (document.Map, error) {
	format, ok := documentFormat(filepath.Base(path))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	doc, _, err := loadDocument(ctx, path, format)

	return doc, err
}

// loadDocument reads one file through the decompression stack and decodes
// it. The decompressed bytes are returned even when decoding fails, so
// callers can retain them.
func loadDocument(ctx context.Context, path, format string) (document.Map, []byte, error) {
	reader, err := openDocument(path)
	if err != nil {
		return nil, nil, err
	}

	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logger.Get(ctx).Warn("Closing corpus file failed",
				"file", path, "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := decodeDocument(raw, format)
	if err != nil {
		return nil, raw, err
	}

	return doc, raw, nil
}

func decodeDocument(data []byte, format string) (document.Map, error) {
	if format == formatYAML {
		return document.DecodeYAML(data)
	}

	return document.DecodeJSON(data)
}

// openDocument opens a corpus file, stacking a decompressor over it when
// the name carries a compression extension. Closing the returned reader
// releases the decoder and the file together.
func openDocument(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	reader, err := decompressingReader(file, compressionExt(path))
	if err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}

	return reader, nil
}

// decompressingReader wraps file in the decoder its extension calls for.
// The decoder is closed before the file, mirroring the order the resources
// were stacked.
func decompressingReader(file *os.File, ext string) (io.ReadCloser, error) {
	switch ext {
	case extGzip:
		zr, err := gzip.NewReader(file)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return closer.ForReader(zr, closer.NewCloser(zr, file)), nil

	case extZstd:
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		resources := closer.NewCloser(closer.CustomCloser(func() error {
			dec.Close()

			return nil
		}), file)

		return closer.ForReader(dec, resources), nil

	case extBrotli:
		return closer.ForReader(brotli.NewReader(file), file), nil

	case extLz4:
		return closer.ForReader(lz4.NewReader(file), file), nil

	default:
		return file, nil
	}
}

// compressionExt returns the trailing compression extension, or "".
func compressionExt(name string) string {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case extGzip, extZstd, extBrotli, extLz4:
		return ext
	default:
		return ""
	}
}

// documentFormat resolves a file name to its document format, looking
// beneath any compression extension. ok is false for files that are not
// parameter documents.
func documentFormat(name string) (string, bool) {
	if ext := compressionExt(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return formatJSON, true
	case ".yaml", ".yml":
		return formatYAML, true
	default:
		return "", false
	}
}
