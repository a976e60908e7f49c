// Package closer provides utilities for managing io.Closer resources.
//
// The package includes:
//   - Closer: a collector that manages multiple io.Closer instances and closes them all at once
//   - CloseOnce: a thread-safe wrapper that ensures an io.Closer is only closed once
//   - HandlePanic: a wrapper that recovers from panics in Close() and converts them to errors
//   - CustomCloser: creates an io.Closer from any cleanup function
//   - ForReader: pairs an io.Reader with a separately-managed io.Closer
package closer

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
)

// ErrClosePanic is returned (wrapped) when a closer guarded by HandlePanic
// panics during Close.
var ErrClosePanic = errors.New("panic during close")

// customCloser wraps a function to make it an io.Closer, so arbitrary
// cleanup logic can be collected by Closer and guarded by CloseOnce or
// HandlePanic.
type customCloser struct {
	closeFn func() error
}

// CustomCloser creates an io.Closer from a cleanup function. Returns nil if
// closeFn is nil.
//
// Example:
//
//	collector := NewCloser()
//	collector.Add(CustomCloser(func() error {
//	    return provider.Shutdown(ctx)
//	}))
//	defer collector.Close()
func CustomCloser(closeFn func() error) io.Closer {
	if closeFn == nil {
		return nil
	}

	return &customCloser{closeFn: closeFn}
}

// Close executes the wrapped cleanup function and returns its result.
func (c *customCloser) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}

	return nil
}

// Closer is a collector that manages multiple io.Closer instances. Closers
// are added incrementally and closed all at once, with every close attempted
// even when earlier ones fail.
//
// Example:
//
//	closer := NewCloser()
//	file, err := os.Open("ensemble.json.gz")
//	if err != nil {
//	    return err
//	}
//	closer.Add(file)
//
//	zr, err := gzip.NewReader(file)
//	if err != nil {
//	    closer.Close()
//	    return err
//	}
//	closer.Add(zr)
//
//	defer closer.Close()
type Closer struct {
	closers []io.Closer
}

// NewCloser creates a new Closer with zero or more initial io.Closer
// instances.
func NewCloser(closers ...io.Closer) *Closer {
	return &Closer{closers: closers}
}

// Add adds an io.Closer to the collection. Nil closers are allowed and will
// be skipped during Close.
//
// Add is not thread-safe. Callers that add closers concurrently need their
// own synchronization.
func (c *Closer) Add(closer io.Closer) {
	c.closers = append(c.closers, closer)
}

// Close closes all registered closers in the order they were added. Every
// closer is attempted; failures are collected and returned as a joined
// error.
func (c *Closer) Close() error {
	var errs []error

	for _, closer := range c.closers {
		if closer != nil {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// closeOnceImpl guards an io.Closer with a mutex so only one Close call
// reaches the underlying resource.
type closeOnceImpl struct {
	mut    sync.Mutex
	closed bool
	closer io.Closer
}

// CloseOnce wraps an io.Closer to ensure it can only be closed once.
// Subsequent calls to Close are no-ops and return nil.
//
// If the underlying Close returns an error, the resource is NOT marked as
// closed and later calls will retry. Successful closes are idempotent.
//
// Special cases:
//   - returns nil if the input closer is nil
//   - an already-wrapped closer is returned unchanged
func CloseOnce(closer io.Closer) io.Closer {
	if closer == nil {
		return nil
	}

	once, ok := closer.(*closeOnceImpl)
	if ok {
		return once
	}

	return &closeOnceImpl{closer: closer}
}

// Close closes the underlying io.Closer exactly once. Safe for concurrent
// use.
func (c *closeOnceImpl) Close() error {
	if c.closer == nil {
		return nil
	}

	c.mut.Lock()
	defer c.mut.Unlock()

	if c.closed {
		return nil
	}

	if err := c.closer.Close(); err != nil {
		return err
	}

	c.closed = true

	return nil
}

// HandlePanic wraps an io.Closer to recover from panics during Close and
// convert them into errors, including the panic value and stack trace. If
// Close both returns an error and panics, the two are joined.
//
// Special cases:
//   - returns nil if the input closer is nil
//   - an already-wrapped closer is returned unchanged
func HandlePanic(closer io.Closer) io.Closer {
	if closer == nil {
		return nil
	}

	if _, ok := closer.(*panicHandlingImpl); ok {
		return closer
	}

	return &panicHandlingImpl{closer: closer}
}

type panicHandlingImpl struct {
	closer io.Closer
}

// Close calls the underlying Close with panic recovery.
func (p *panicHandlingImpl) Close() (err error) {
	if p.closer == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err2 := fmt.Errorf("%w: %v\n%s", ErrClosePanic, r, debug.Stack())
			if err == nil {
				err = err2
			} else {
				err = errors.Join(err, err2)
			}
		}
	}()

	return p.closer.Close()
}

type readCloser struct {
	reader io.Reader
	closer io.Closer
}

// ForReader combines a reader with a closer into a single io.ReadCloser.
// Reads go to the reader; Close goes to the closer. This is how a decoded
// stream is handed out when closing it must also release the resources
// underneath, such as a decoder stacked on a file:
//
//	resources := NewCloser(zr, file)
//
//	return ForReader(zr, resources), nil
func ForReader(reader io.Reader, closer io.Closer) io.ReadCloser {
	return &readCloser{reader: reader, closer: closer}
}

// Read reads from the wrapped reader.
func (r *readCloser) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

// Close closes the attached closer, not the reader.
func (r *readCloser) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}
