// ROM Runner Core
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ROM Runner Core.
//
// ROM Runner Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ROM Runner Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ROM Runner Core.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ZaparooProject/romrunner-core/internal/telemetry"
	"github.com/ZaparooProject/romrunner-core/pkg/api"
	"github.com/ZaparooProject/romrunner-core/pkg/api/client"
	"github.com/ZaparooProject/romrunner-core/pkg/cli"
	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/ZaparooProject/romrunner-core/pkg/helpers"
	"github.com/ZaparooProject/romrunner-core/pkg/service"
	"github.com/ZaparooProject/romrunner-core/pkg/service/discovery"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.CommandLine
	flags := cli.SetupFlags(fs)
	if exit, err := flags.Pre(fs, os.Args[1:], os.Stdout); exit {
		return err
	}

	if !*flags.Serve && *flags.API == "" && !flags.HasCommand() {
		fs.Usage()
		return nil
	}

	var logWriters []io.Writer
	if *flags.Serve {
		logWriters = []io.Writer{os.Stderr}
	}

	dirs := helpers.DefaultDirs()
	cfg, err := cli.Setup(dirs, config.BaseDefaults, *flags.Debug, logWriters)
	if err != nil {
		return err
	}
	if *flags.Bundle != "" {
		bundle, err := filepath.Abs(*flags.Bundle)
		if err != nil {
			return fmt.Errorf("invalid bundle path: %w", err)
		}
		cfg.SetBundleDir(bundle)
	}

	err = telemetry.Init(cfg.ErrorReporting(), cfg.ErrorReportingDSN(), cfg.InstanceID(), config.AppVersion)
	if err != nil {
		log.Warn().Err(err).Msg("error reporting unavailable")
	}
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	local := client.NewLocal(cfg)
	if *flags.API != "" {
		return cli.RunAPI(ctx, local, *flags.API, os.Stdout)
	}

	running := cli.IsServiceRunning(ctx, local)
	if *flags.Serve {
		if running {
			return errors.New("service is already running")
		}
		return serve(ctx, cfg, dirs)
	}

	if running {
		log.Debug().Msg("using running service")
		return flags.Post(ctx, cli.NewAPIBackend(local), afero.NewOsFs(), os.Stdout)
	}

	engine, stopSvc, err := service.Start(ctx, cfg, dirs)
	if err != nil {
		return fmt.Errorf("error starting engine: %w", err)
	}
	defer func() {
		if err := stopSvc(); err != nil {
			log.Error().Err(err).Msg("error stopping engine")
		}
	}()
	return flags.Post(ctx, engine, afero.NewOsFs(), os.Stdout)
}

func serve(ctx context.Context, cfg *config.Instance, dirs helpers.Dirs) error {
	engine, stopSvc, err := service.Start(ctx, cfg, dirs)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		return fmt.Errorf("error starting service: %w", err)
	}
	defer func() {
		if err := stopSvc(); err != nil {
			log.Error().Err(err).Msg("error stopping service")
		}
	}()

	disc := discovery.New(cfg)
	if err := disc.Start(); err != nil {
		log.Warn().Err(err).Msg("network discovery unavailable")
	}
	defer disc.Stop()

	log.Info().Str("version", config.AppVersion).Str("listen", cfg.APIListen()).Msg("service started")
	if err := api.Start(ctx, cfg, engine); err != nil {
		return fmt.Errorf("api server failed: %w", err)
	}
	log.Info().Msg("service stopped")
	return nil
}
