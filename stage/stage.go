// Package stage determines the deployment environment the process runs in
// (local, test, dev, staging, prod), from the RUNNING_ENV environment
// variable with a context override for tests.
package stage

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/hydrokit/modelparams/envutil"
	"github.com/hydrokit/modelparams/lazy"
	"github.com/hydrokit/modelparams/logger"
)

// Stage represents a deployment environment.
type Stage string

// ErrUnrecognizedStage is returned when RUNNING_ENV contains an invalid
// stage value.
var ErrUnrecognizedStage = errors.New("unrecognized stage")

const (
	// Unknown indicates the stage could not be determined.
	Unknown Stage = "unknown"
	// Local indicates the code is running on a developer's machine.
	Local Stage = "local"
	// Test indicates the code is running in unit tests.
	Test Stage = "test"
	// Dev indicates the code is running in the development environment.
	Dev Stage = "dev"
	// Staging indicates the code is running in the staging environment.
	Staging Stage = "staging"
	// Prod indicates the code is running in the production environment.
	Prod Stage = "prod"
)

type contextKey string

// WithStage returns a context that pins the stage for Current, overriding
// the environment. Meant for tests and tooling.
func WithStage(ctx context.Context, s Stage) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("stage"), s)
}

// Current returns the current running environment. A stage pinned on the
// context wins; otherwise the stage is determined once from the environment
// and cached.
func Current(ctx ...context.Context) Stage {
	for _, c := range ctx {
		if c == nil {
			continue
		}

		if s, ok := c.Value(contextKey("stage")).(Stage); ok {
			return s
		}
	}

	return runningStage.Get()
}

// IsLocal returns true if the current stage is Local.
func IsLocal(ctx ...context.Context) bool {
	return Current(ctx...) == Local
}

// IsTest returns true if the current stage is Test.
func IsTest(ctx ...context.Context) bool {
	return Current(ctx...) == Test
}

// IsDev returns true if the current stage is Dev.
func IsDev(ctx ...context.Context) bool {
	return Current(ctx...) == Dev
}

// IsStaging returns true if the current stage is Staging.
func IsStaging(ctx ...context.Context) bool {
	return Current(ctx...) == Staging
}

// IsProd returns true if the current stage is Prod.
func IsProd(ctx ...context.Context) bool {
	return Current(ctx...) == Prod
}

// IsUnknown returns true if the current stage is Unknown.
func IsUnknown(ctx ...context.Context) bool {
	return Current(ctx...) == Unknown
}

// runningStage lazily determines and caches the current stage.
var runningStage = lazy.New[Stage](getRunningStage) //nolint:gochecknoglobals

// getRunningStage reads RUNNING_ENV. If the variable is unset or invalid, it
// falls back to Test when running under go test, and Unknown otherwise.
func getRunningStage() Stage {
	reader := envutil.String("RUNNING_ENV")

	env := envutil.Map[string, Stage](reader, func(s string) (Stage, error) {
		switch Stage(s) {
		case Local, Test, Dev, Staging, Prod:
			return Stage(s), nil
		case Unknown:
			fallthrough
		default:
			logger.Get().Warn("unknown stage", "value", s)

			return "", fmt.Errorf("%w: %s", ErrUnrecognizedStage, s)
		}
	})

	// When running unit tests, the environment variable is usually not set.
	// Detect the test binary by checking for the test.v flag.
	if flag.Lookup("test.v") != nil {
		return env.ValueOrElse(Test)
	}

	return env.ValueOrElse(Unknown)
}

// Configured logs and returns the cached stage. Call it once at startup so
// the chosen stage lands in the logs.
func Configured() Stage {
	value := runningStage.Get()
	if value != Unknown {
		logger.Get().Info("Configured stage", "stage", value)
	}

	return value
}
