// Package printable converts raw parameter document payloads into
// human-readable or loggable formats.
//
// Corpus files arrive in whatever shape the submitting modeler produced:
// UTF-8 JSON if we are lucky, text in a legacy encoding, or binary junk. When
// a document fails to decode, the raw payload is worth logging, and this
// package handles the conversion. It detects character encodings, converts to
// UTF-8 where possible, and base64-encodes anything that cannot be
// represented as text.
//
// # Basic Usage
//
//	payload, err := printable.FromBytes(raw)
//	if err != nil {
//	    return err
//	}
//
//	// Check if content is JSON
//	isJSON, _ := payload.IsJSON()
//
//	// Truncate large payloads
//	truncated, _ := payload.Truncate(1024)
//
//	// Use with slog
//	logger.Get(ctx).Warn("document rejected", "payload", payload)
//
// # Content Detection
//
// The package uses multiple strategies to determine how to represent content:
//
// 1. Character encoding detection (using chardet)
// 2. UTF-8 validation
// 3. Printability heuristics (95% printable characters threshold)
//
// Content that cannot be represented as text is automatically base64-encoded.
package printable

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// printabilityCheckLen defines how many bytes to check when determining if
// content is printable. This is a heuristic to avoid processing very large
// payloads unnecessarily. Only the first 1024 bytes are checked - if 95% of
// those are printable, the entire content is assumed to be printable.
const printabilityCheckLen = 1024

// Payload represents a payload that can be printed or displayed.
// It contains the content, its length, and whether it is base64 encoded.
// It also includes a truncated length for cases where the content is too large.
type Payload struct {
	Base64          bool   `json:"base64,omitempty"`
	Content         string `json:"content"`
	Length          int64  `json:"length"`
	TruncatedLength int64  `json:"truncatedLength,omitempty"`
}

// FromBytes converts a raw payload into its printable form. Text content is
// normalized to UTF-8, detecting the source encoding when necessary, and
// anything that fails the printability heuristic is base64-encoded instead.
// Empty input yields a nil payload.
func FromBytes(rawData []byte) (*Payload, error) {
	if len(rawData) == 0 {
		return nil, nil //nolint:nilnil
	}

	decodedData, isUtf8, err := decodeToUtf8(rawData)
	if err != nil {
		return nil, fmt.Errorf("error decoding payload as UTF-8: %w", err)
	}

	// If we can't get utf-8, we have no choice but to treat it as binary
	if !isUtf8 {
		return &Payload{
			Base64:  true,
			Content: base64.StdEncoding.EncodeToString(rawData),
			Length:  int64(len(rawData)),
		}, nil
	}

	checkLen := len(decodedData)

	if checkLen > printabilityCheckLen {
		checkLen = printabilityCheckLen
	}

	sample := decodedData[:checkLen]

	printable, total := 0, 0

	for len(sample) > 0 {
		r, size := utf8.DecodeRune(sample)

		sample = sample[size:]
		total++

		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}

	// Heuristic: 95%+ means printable
	isPrintable := float64(printable)/float64(total) > 0.95 //nolint:mnd

	if isPrintable {
		return &Payload{
			Content: string(decodedData),
			Length:  int64(len(decodedData)),
		}, nil
	}

	return &Payload{
		Base64:  true,
		Content: base64.StdEncoding.EncodeToString(rawData),
		Length:  int64(len(rawData)),
	}, nil
}

// String returns the content as a string. If the payload is nil or empty, returns
// an empty string or "<nil>". This implements the fmt.Stringer interface.
func (p *Payload) String() string {
	if p == nil {
		return "<nil>"
	}

	if p.IsEmpty() {
		return ""
	}

	if p.IsTruncated() {
		return p.Content + "…"
	}

	return p.Content
}

// LogValue implements slog.LogValuer to provide rich structured logging of payloads.
// It returns a slog.GroupValue containing the raw content, parsed JSON (if applicable),
// base64 encoding flag, size information, and truncation details.
func (p *Payload) LogValue() slog.Value {
	if p == nil {
		return slog.StringValue("<nil>")
	}

	var attrs []slog.Attr

	attrs = append(attrs, slog.String("raw", p.String()))

	isJSON, err := p.IsJSON()
	if err == nil && isJSON {
		contentBytes, err := p.GetContentBytes()
		if err == nil && len(contentBytes) > 0 {
			var jsonValue any
			if err := json.Unmarshal(contentBytes, &jsonValue); err != nil {
				return slog.StringValue(p.String())
			}

			val := jsonToSlogValue(jsonValue)
			attrs = append(attrs, slog.Any("json", val))
		}
	}

	attrs = append(attrs, slog.Bool("base64", p.IsBase64()))
	attrs = append(attrs, slog.Int64("size", p.Length))

	if p.IsTruncated() {
		attrs = append(attrs, slog.Int64("sizeTruncated", p.GetTruncatedLength()))
	}

	return slog.GroupValue(attrs...)
}

// jsonToSlogValue recursively converts arbitrary JSON values into slog.Value types
// for structured logging. Maps become slog groups, arrays become indexed groups,
// and primitive types are converted to their appropriate slog value types.
func jsonToSlogValue(v any) slog.Value { //nolint:cyclop
	switch value := v.(type) {
	case map[string]any:
		attrs := make([]slog.Attr, 0, len(value))

		for k, val := range value {
			attrs = append(attrs, slog.Attr{
				Key:   k,
				Value: jsonToSlogValue(val),
			})
		}

		return slog.GroupValue(attrs...)
	case []any:
		attrs := make([]slog.Attr, len(value))

		for i, val := range value {
			attrs[i] = slog.Attr{
				Key:   strconv.FormatInt(int64(i), 10),
				Value: jsonToSlogValue(val),
			}
		}

		return slog.GroupValue(attrs...)
	case string:
		return slog.StringValue(value)
	case float32:
		return slog.Float64Value(float64(value)) // use Float64Value for consistency
	case float64:
		return slog.Float64Value(value)
	case int:
		return slog.Int64Value(int64(value)) // use Int64Value for consistency
	case int32:
		return slog.Int64Value(int64(value))
	case uint32:
		return slog.Uint64Value(uint64(value))
	case int64:
		return slog.Int64Value(value)
	case uint64:
		return slog.Uint64Value(value)
	case bool:
		return slog.BoolValue(value)
	case nil:
		return slog.AnyValue(nil)
	default:
		// fallback for unexpected types, or custom structs
		return slog.AnyValue(value)
	}
}

// IsEmpty returns true if the payload is nil or has no content.
func (p *Payload) IsEmpty() bool {
	return p == nil || (p.Content == "" && p.Length == 0)
}

// IsBase64 returns true if the content is base64-encoded (indicating binary data).
func (p *Payload) IsBase64() bool {
	return p != nil && p.Base64
}

// IsJSON checks if the payload content is valid JSON. Returns false if the
// payload is nil or if the content cannot be decoded as valid UTF-8.
func (p *Payload) IsJSON() (bool, error) {
	if p == nil {
		return false, nil
	}

	bts, err := p.GetContentBytes()
	if err != nil {
		return false, fmt.Errorf("error getting content bytes: %w", err)
	}

	return json.Valid(bts), nil
}

// GetContent returns the raw content string. Returns empty string if payload is nil.
func (p *Payload) GetContent() string {
	if p == nil {
		return ""
	}

	return p.Content
}

// GetContentBytes returns the content as a byte slice. If the content is base64-encoded,
// it is automatically decoded. Returns nil if the payload is nil.
func (p *Payload) GetContentBytes() ([]byte, error) {
	if p == nil {
		return nil, nil //nolint:nilnil
	}

	if p.IsBase64() {
		return base64.StdEncoding.DecodeString(p.Content)
	}

	return []byte(p.Content), nil
}

// GetLength returns the original content length in bytes. Returns 0 if payload is nil.
func (p *Payload) GetLength() int64 {
	if p == nil {
		return 0
	}

	return p.Length
}

// IsTruncated returns true if the content has been truncated to a smaller size.
func (p *Payload) IsTruncated() bool {
	if p == nil {
		return false
	}

	return p.GetTruncatedLength() < p.Length
}

// Clone creates a deep copy of the payload. Returns nil if the original is nil.
func (p *Payload) Clone() *Payload {
	if p == nil {
		return nil
	}

	return &Payload{
		Base64:          p.Base64,
		Content:         p.Content,
		Length:          p.Length,
		TruncatedLength: p.TruncatedLength,
	}
}

// Truncate returns a new payload with content truncated to the specified size in bytes.
// If the payload is already smaller than the specified size, it returns the original unchanged.
// For base64-encoded content, the underlying binary data is truncated before re-encoding.
// Returns nil if the payload is nil or size is negative.
func (p *Payload) Truncate(size int64) (*Payload, error) {
	if p == nil || size < 0 {
		return nil, nil //nolint:nilnil
	}

	if size >= p.Length || size >= p.GetTruncatedLength() {
		// No truncation needed, just return the original
		return p, nil
	}

	cloned := p.Clone()

	if p.IsBase64() {
		bts, err := p.GetContentBytes()
		if err != nil {
			return nil, fmt.Errorf("error getting content bytes: %w", err)
		}

		cloned.TruncatedLength = size
		truncated := bts[:size]
		cloned.Content = base64.StdEncoding.EncodeToString(truncated)
	} else {
		cloned.Content = cloned.Content[:size]

		// String truncation vs byte truncation may disagree in length (due
		// to multibyte characters), so we need to ensure the length is correct.
		cloned.TruncatedLength = int64(len([]byte(cloned.Content)))
	}

	return cloned, nil
}

// GetTruncatedLength returns the truncated content length in bytes.
// If the content has not been truncated, returns the full length.
func (p *Payload) GetTruncatedLength() int64 {
	if p == nil {
		return 0
	}

	if p.TruncatedLength > 0 {
		return p.TruncatedLength
	}

	// If not set, use the full length
	return p.Length
}

// decodeToUtf8 attempts to decode the given data as UTF-8, detecting the
// source charset. Returns the decoded data and a boolean indicating if the
// result is valid UTF-8.
//
// Note: Even valid UTF-8 may contain control characters or invisible
// characters that are not printable. The caller should perform additional
// printability checks if needed.
func decodeToUtf8(data []byte) ([]byte, bool, error) {
	decodedReader, _ := utf8Reader(data)

	// Normalize the input to UTF-8, hopefully
	decodedData, err := io.ReadAll(decodedReader)
	if err != nil {
		return nil, false, err //nolint:wrapcheck
	}

	// Check UTF-8 validity (paranoia)
	if !utf8.Valid(decodedData) {
		return data, false, nil
	}

	// Return the decoded data
	return decodedData, true, nil
}

// utf8Reader creates an io.Reader that decodes the data to UTF-8. It uses
// github.com/saintfish/chardet to detect the charset and
// golang.org/x/net/html/charset to convert from it. Returns the reader and
// the charset name that was detected.
func utf8Reader(data []byte) (io.Reader, string) {
	detector := chardet.NewTextDetector()

	best, err := detector.DetectBest(data)
	if err != nil {
		// Last resort, assume UTF-8, even if it might be wrong
		return bytes.NewReader(data), "utf-8"
	}

	// We have a detected charset, try to use it
	decodedReader, err := charset.NewReaderLabel(best.Charset, bytes.NewReader(data))
	if err != nil {
		// Last resort, assume UTF-8, even if it might be wrong
		decodedReader = bytes.NewReader(data)
	}

	// Return the detected charset and reader
	return decodedReader, best.Charset
}
