// Package tests provides helpers shared by this module's test suites:
// uniquely-tagged test contexts, environment-driven skipping, and a test
// logger that routes slog output through the testing runner.
//
// Example usage:
//
//	func TestCorpusRun(t *testing.T) {
//	    ctx := tests.GetUniqueContext(t)
//	    tests.Logger(t)
//
//	    id, _ := tests.GetTestId(ctx)
//	    dir := filepath.Join(t.TempDir(), id)
//	    // ... run against uniquely-named resources
//	}
package tests

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/neilotoole/slogt"

	"github.com/hydrokit/modelparams/contexts"
	"github.com/hydrokit/modelparams/envutil"
)

// contextKey is a private type for test metadata keys, so they cannot
// collide with keys from other packages.
type contextKey string

const (
	// testIdKey stores the unique test identifier, a UUID prefixed with
	// "test-".
	testIdKey contextKey = "testId"

	// testNameKey stores the full test name from testing.T.Name(),
	// including the subtest path.
	testNameKey contextKey = "testName"

	// testTestKey stores the testing.T instance, so helpers deep in a
	// call chain can reach t.Helper(), t.Log() and friends.
	testTestKey contextKey = "testTest"
)

// GetUniqueContext derives a context from t.Context() carrying a unique
// test id, the test name, and the testing.T itself. Use it when a test
// needs uniquely-named resources such as report files, or wants its
// identity visible to helpers reading the context.
func GetUniqueContext(t *testing.T) context.Context {
	t.Helper()

	return contexts.WithMultipleValues[contextKey](t.Context(), map[contextKey]any{
		testTestKey: t,
		testIdKey:   "test-" + uuid.New().String(),
		testNameKey: t.Name(),
	})
}

// CheckSkipped skips the test when the boolean environment variable envKey
// reads true. The first optional value sets the default when the variable
// is unset; a second optional value inverts the reading, for tests that
// should only run when a variable is set.
//
// Example:
//
//	func TestSlowCorpus(t *testing.T) {
//	    tests.CheckSkipped(t.Context(), t, "SKIP_SLOW_TESTS", true)
//	    // ... runs only when SKIP_SLOW_TESTS=false
//	}
func CheckSkipped(ctx context.Context, t *testing.T, envKey string, defaultValue ...bool) {
	t.Helper()

	defl := false
	invert := false

	if len(defaultValue) > 0 {
		defl = defaultValue[0]
	}

	if len(defaultValue) > 1 {
		invert = defaultValue[1]
	}

	shouldSkip := envutil.BoolCtx(ctx, envKey, envutil.Default(defl)).ValueOrElse(defl)

	original := shouldSkip

	if invert {
		shouldSkip = !shouldSkip
	}

	if shouldSkip {
		t.Skipf("Skipping test because of environment variable: %s=%v",
			envKey, original)
	}
}

// Logger installs a process-default slog logger that writes through t.Log
// for the duration of the test, so library log output lands in the test's
// own output and honors -v. The previous default is restored on cleanup.
//
// The swap mutates the process-wide default; tests that call Logger should
// not run in parallel with tests asserting on global log output.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()

	log := slogt.New(t)

	previous := slog.Default()
	slog.SetDefault(log)

	t.Cleanup(func() {
		slog.SetDefault(previous)
	})

	return log
}

// GetTestName retrieves the test name from the context. The second return
// is false when the context does not come from GetUniqueContext.
func GetTestName(ctx context.Context) (string, bool) {
	return contexts.GetValue[contextKey, string](ctx, testNameKey)
}

// GetTestId retrieves the unique test identifier from the context. The
// second return is false when the context does not come from
// GetUniqueContext.
func GetTestId(ctx context.Context) (string, bool) {
	return contexts.GetValue[contextKey, string](ctx, testIdKey)
}

// GetTest retrieves the testing.T instance from the context. The second
// return is false when the context does not come from GetUniqueContext.
func GetTest(ctx context.Context) (*testing.T, bool) {
	return contexts.GetValue[contextKey, *testing.T](ctx, testTestKey)
}
