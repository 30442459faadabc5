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

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/romrunner-core/pkg/api/client"
	"github.com/ZaparooProject/romrunner-core/pkg/autolist"
	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/ZaparooProject/romrunner-core/pkg/helpers"
	"github.com/ZaparooProject/romrunner-core/pkg/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrNoCommand      = errors.New("no command given")
	ErrMissingDestRef = errors.New("destination id is required")
	ErrMissingRoot    = errors.New("destination root is required")
	ErrLayoutMismatch = errors.New("destination does not match the selected OS")
)

type Flags struct {
	API      *string
	Root     *string
	Scan     *bool
	Paths    *bool
	Evaluate *string
	Output   *string
	DestID   *string
	Device   *string
	OS       *string
	Bundle   *string
	Serve    *bool
	Version  *bool
	Debug    *bool
}

// SetupFlags defines the CLI flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		API: fs.String(
			"api",
			"",
			"send method[:params] to a running service and print the response",
		),
		Root: fs.String(
			"root",
			"",
			"path the destination is mounted at",
		),
		Scan: fs.Bool(
			"scan",
			false,
			"scan the destination at -root and print the report",
		),
		Paths: fs.Bool(
			"paths",
			false,
			"print the resolved deployment paths for -dest-id, scanning -root first when enabled",
		),
		Evaluate: fs.String(
			"evaluate",
			"",
			"evaluate the games in this CSV file (game_id,platform_id,title)",
		),
		Output: fs.String(
			"output",
			"",
			"write evaluation results to this CSV file instead of stdout",
		),
		DestID: fs.String(
			"dest-id",
			"",
			"destination id used to remember scans and overrides",
		),
		Device: fs.String(
			"device",
			"",
			"target device id (defaults to the configured device)",
		),
		OS: fs.String(
			"os",
			"",
			"target OS id (defaults to the device's default OS)",
		),
		Bundle: fs.String(
			"bundle",
			"",
			"load the definition pack from this directory",
		),
		Serve: fs.Bool(
			"serve",
			false,
			"run the API service in the foreground",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
	}
}

// Pre parses args and handles flags that need no environment. It returns
// true when the program should exit.
func (f *Flags) Pre(fs *flag.FlagSet, args []string, out io.Writer) (bool, error) {
	if err := fs.Parse(args); err != nil {
		return true, fmt.Errorf("failed to parse flags: %w", err)
	}
	if *f.Version {
		_, _ = fmt.Fprintf(out, "ROM Runner v%s\n", config.AppVersion)
		return true, nil
	}
	return false, nil
}

// Setup creates the app directories, starts logging and loads the user
// config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	dirs helpers.Dirs,
	defaults config.Values,
	debug bool,
	writers []io.Writer,
) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(dirs); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	if err := helpers.InitLogging(dirs.Log, debug, writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(dirs.Config, defaults)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	helpers.SetDebugLogging(debug || cfg.DebugLogging())
	return cfg, nil
}

// RunAPI sends a raw "method:params" value to the service.
func RunAPI(ctx context.Context, c client.APIClient, value string, out io.Writer) error {
	method, params, _ := strings.Cut(value, ":")
	if method == "" {
		return errors.New("api flag requires a method")
	}

	resp, err := c.Call(ctx, method, params)
	if err != nil {
		log.Error().Err(err).Msg("error calling API")
		return fmt.Errorf("error calling API: %w", err)
	}
	_, _ = fmt.Fprintln(out, resp)
	return nil
}

// HasCommand reports whether a command that needs a backend was given.
func (f *Flags) HasCommand() bool {
	return *f.Scan || *f.Paths || *f.Evaluate != ""
}

// Post runs the command selected by the flags against b.
func (f *Flags) Post(
	ctx context.Context,
	b Backend,
	fs afero.Fs,
	out io.Writer,
) error {
	switch {
	case *f.Scan:
		return f.runScan(ctx, b, out)
	case *f.Paths:
		return f.runPaths(ctx, b, out)
	case *f.Evaluate != "":
		return f.runEvaluate(ctx, b, fs, out)
	default:
		return ErrNoCommand
	}
}

func (f *Flags) runScan(ctx context.Context, b Backend, out io.Writer) error {
	if *f.DestID == "" {
		return ErrMissingDestRef
	}
	if *f.Root == "" {
		return ErrMissingRoot
	}
	report, err := b.Scan(ctx, service.ScanRequest{
		DestinationID: *f.DestID,
		Root:          *f.Root,
		DeviceID:      *f.Device,
		OSID:          *f.OS,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if err := writeJSON(out, report); err != nil {
		return err
	}
	if report.Result.HasErrors() {
		return ErrLayoutMismatch
	}
	return nil
}

func (f *Flags) runPaths(ctx context.Context, b Backend, out io.Writer) error {
	if *f.DestID == "" {
		return ErrMissingDestRef
	}
	resolved, err := b.ResolvePaths(ctx, service.PathsRequest{
		DestinationID: *f.DestID,
		DeviceID:      *f.Device,
		OSID:          *f.OS,
		Root:          *f.Root,
	})
	if err != nil {
		return fmt.Errorf("path resolution failed: %w", err)
	}
	return writeJSON(out, resolved)
}

func (f *Flags) runEvaluate(ctx context.Context, b Backend, fs afero.Fs, out io.Writer) error {
	in, err := fs.Open(*f.Evaluate)
	if err != nil {
		return fmt.Errorf("failed to open games list: %w", err)
	}
	defer func() {
		if err := in.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing games list")
		}
	}()

	games, err := autolist.ReadCandidates(in)
	if err != nil {
		return fmt.Errorf("failed to read games list: %w", err)
	}

	verdicts, err := b.EvaluateBatch(ctx, service.EvaluateRequest{
		DeviceID: *f.Device,
		OSID:     *f.OS,
		Games:    games,
	})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	included, excluded, _ := autolist.Summary(verdicts)
	log.Info().Int("included", included).Int("excluded", excluded).Msg("evaluation finished")

	if *f.Output == "" {
		return autolist.WriteVerdicts(out, verdicts) //nolint:wrapcheck // csv errors are already wrapped
	}

	dst, err := fs.Create(*f.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := autolist.WriteVerdicts(dst, verdicts); err != nil {
		_ = dst.Close()
		return err //nolint:wrapcheck // csv errors are already wrapped
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
