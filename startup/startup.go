// Package startup bootstraps the process in one call: environment file,
// signal handling, logging and telemetry, in that order, so every later
// environment read sees the merged environment.
package startup

import (
	"context"
	"fmt"

	"github.com/hydrokit/modelparams/envutil"
	"github.com/hydrokit/modelparams/logger"
	"github.com/hydrokit/modelparams/shutdown"
	"github.com/hydrokit/modelparams/telemetry"
)

// envFileVar names an optional env file applied before anything else reads
// the environment. Useful for local development and container entrypoints;
// variables already present in the real environment keep their values.
const envFileVar = "MODELPARAMS_ENV_FILE"

// Initialize prepares the process for work:
//
//  1. applies the env file named by MODELPARAMS_ENV_FILE, if any
//  2. installs the SIGINT/SIGTERM handler
//  3. configures logging from the environment
//  4. initializes telemetry and registers its shutdown hook
//
// The returned context is the process root: it is canceled once the
// registered shutdown hooks have run.
func Initialize(app string) (context.Context, error) {
	if err := applyEnvFile(); err != nil {
		return nil, err
	}

	ctx := shutdown.SetupHandler()

	logger.ConfigureLogging(ctx, app)

	if err := initTelemetry(ctx); err != nil {
		return nil, err
	}

	return ctx, nil
}

func applyEnvFile() error {
	path := envutil.String(envFileVar).ValueOrElse("")
	if path == "" {
		return nil
	}

	if err := envutil.ApplyEnvFile(path); err != nil {
		return fmt.Errorf("applying env file %s: %w", path, err)
	}

	return nil
}

// initTelemetry starts OpenTelemetry export and schedules its flush. The
// hook runs before the root context is canceled, so batched spans and log
// records still have a live context to export under.
func initTelemetry(ctx context.Context) error {
	config, err := telemetry.LoadConfigFromEnv(ctx)
	if err != nil {
		return fmt.Errorf("loading telemetry configuration: %w", err)
	}

	if err := telemetry.Initialize(ctx, config); err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	shutdown.BeforeShutdown(func() {
		if err := telemetry.Shutdown(ctx); err != nil {
			logger.Get(ctx).Warn("Telemetry shutdown failed", "error", err)
		}
	})

	return nil
}
