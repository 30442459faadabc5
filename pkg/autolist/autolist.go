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

// Package autolist decides, game by game, whether a title belongs in an
// automatically curated collection for one device and OS.
package autolist

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/compat"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/gate"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/osprofile"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/performance"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/policy"
	"golang.org/x/sync/errgroup"
)

// Candidate is one game submitted for evaluation.
type Candidate struct {
	GameID     string `csv:"game_id" json:"gameId" mapstructure:"gameId" validate:"required"`
	PlatformID string `csv:"platform_id" json:"platformId" mapstructure:"platformId" validate:"required"`
	Title      string `csv:"title,omitempty" json:"title,omitempty" mapstructure:"title"`
}

type Settings struct {
	// MinPerformanceTier excludes rated games below it. Empty means poor.
	MinPerformanceTier catalog.PerformanceTier `json:"minPerformanceTier"`
	Gate               gate.Settings           `json:"gate"`
	// Workers bounds batch concurrency. Zero uses GOMAXPROCS.
	Workers int `json:"workers"`
}

// Target is the device and resolved OS profile games are evaluated for.
type Target struct {
	DeviceID string
	Profile  osprofile.Profile
}

type gameKey struct {
	platform string
	game     string
}

// Overrides is a read-only snapshot of the user's game and platform
// overrides.
type Overrides struct {
	games     map[gameKey]database.GameOverride
	platforms map[string]string
}

func NewOverrides(games []database.GameOverride, platforms []database.PlatformOverride) *Overrides {
	o := &Overrides{
		games:     make(map[gameKey]database.GameOverride, len(games)),
		platforms: make(map[string]string, len(platforms)),
	}
	for _, g := range games {
		o.games[gameKey{platform: g.PlatformID, game: g.GameID}] = g
	}
	for _, p := range platforms {
		o.platforms[p.PlatformID] = p.EmulatorID
	}
	return o
}

func (o *Overrides) game(platformID, gameID string) (database.GameOverride, bool) {
	if o == nil {
		return database.GameOverride{}, false
	}
	g, ok := o.games[gameKey{platform: platformID, game: gameID}]
	return g, ok
}

func (o *Overrides) platformEmulator(platformID string) string {
	if o == nil {
		return ""
	}
	return o.platforms[platformID]
}

type StageName string

const (
	StageOverride    StageName = "override"
	StageEmulator    StageName = "emulator"
	StagePerformance StageName = "performance"
	StageCompat      StageName = "compatibility"
)

// Stage is the outcome of one evaluation step, kept for diagnostics.
type Stage struct {
	Name    StageName        `json:"name"`
	Source  string           `json:"source"`
	Outcome resolver.Outcome `json:"outcome"`
}

// Verdict is the decision for one game.
type Verdict struct {
	GameID     string          `json:"gameId"`
	PlatformID string          `json:"platformId"`
	EmulatorID string          `json:"emulatorId,omitempty"`
	Reason     resolver.Reason `json:"reason"`
	Warnings   []string        `json:"warnings"`
	Stages     []Stage         `json:"stages"`
	Include    bool            `json:"include"`
}

type Generator struct {
	cat      *catalog.Catalog
	policies *policy.Store
	perf     *performance.Resolver
	compat   *compat.Resolver
	settings Settings
}

// NewGenerator builds the resolvers for cat. The generator holds no
// mutable state and is safe for concurrent use.
func NewGenerator(cat *catalog.Catalog, settings Settings) *Generator {
	if !settings.MinPerformanceTier.Valid() {
		settings.MinPerformanceTier = catalog.TierPoor
	}
	if settings.Workers <= 0 {
		settings.Workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		cat:      cat,
		policies: policy.NewStore(cat),
		perf:     performance.NewResolver(cat),
		compat:   compat.NewResolver(cat),
		settings: settings,
	}
}

func (g *Generator) Settings() Settings {
	return g.settings
}

// Evaluate produces the verdict for one game. A user include or exclude
// returns immediately; otherwise an emulator is chosen and the
// performance stage runs before the compatibility stage.
func (g *Generator) Evaluate(t *Target, ov *Overrides, c Candidate) Verdict {
	platformID := c.PlatformID
	if p, ok := g.cat.Platform(platformID); ok {
		platformID = p.ID
	}
	v := Verdict{
		GameID:     c.GameID,
		PlatformID: platformID,
		Warnings:   []string{},
		Stages:     make([]Stage, 0, 3),
	}

	userGame, hasUserGame := ov.game(platformID, c.GameID)
	if hasUserGame {
		switch userGame.Action {
		case database.GameActionInclude:
			return g.finish(v, Stage{
				Name: StageOverride, Source: "user",
				Outcome: resolver.Include(resolver.ReasonUserOverrideInclude),
			})
		case database.GameActionExclude:
			return g.finish(v, Stage{
				Name: StageOverride, Source: "user",
				Outcome: resolver.Exclude(resolver.ReasonUserOverrideExclude),
			})
		case database.GameActionNone:
		}
	}

	emulatorID, source := g.chooseEmulator(t, ov, platformID, userGame)
	if emulatorID == "" {
		return g.finish(v, Stage{
			Name: StageEmulator, Source: source,
			Outcome: resolver.Exclude(resolver.ReasonNoEmulatorAvailable),
		})
	}
	v.EmulatorID = emulatorID

	lookup := g.policies.Lookup(platformID)
	if lookup.Warning != "" {
		v.Warnings = append(v.Warnings, lookup.Warning)
	}

	perfStage := Stage{Name: StagePerformance}
	if m, ok := g.perf.Resolve(performance.Query{
		GameID:     c.GameID,
		PlatformID: platformID,
		DeviceID:   t.DeviceID,
		EmulatorID: emulatorID,
	}); ok {
		perfStage.Source = m.Rule
		perfStage.Outcome = performance.Decide(m.Record, g.settings.MinPerformanceTier)
	} else {
		perfStage.Source = "policy"
		perfStage.Outcome = gate.Performance(lookup.Policy)
	}
	if !perfStage.Outcome.Include {
		return g.finish(v, perfStage)
	}

	var statusOverride *catalog.CompatStatus
	if hasUserGame && userGame.CompatStatus.Valid() {
		s := userGame.CompatStatus
		statusOverride = &s
	}
	compatStage := Stage{Name: StageCompat}
	if m, ok := g.compat.Resolve(compat.Query{
		Override:   statusOverride,
		GameID:     c.GameID,
		PlatformID: platformID,
		EmulatorID: emulatorID,
	}); ok {
		compatStage.Source = string(m.Source)
		compatStage.Outcome = compat.Decide(m.Status)
	} else {
		compatStage.Source = "policy"
		compatStage.Outcome = gate.Compatibility(lookup.Policy, g.settings.Gate)
	}

	return g.finish(v, perfStage, compatStage)
}

// chooseEmulator picks the forced game emulator, then the user's platform
// emulator, then the profile default.
func (*Generator) chooseEmulator(
	t *Target,
	ov *Overrides,
	platformID string,
	userGame database.GameOverride,
) (id, source string) {
	if userGame.ForceEmulatorID != "" {
		return userGame.ForceEmulatorID, "game_override"
	}
	if id := ov.platformEmulator(platformID); id != "" {
		return id, "platform_override"
	}
	if id, ok := t.Profile.DefaultEmulator(platformID); ok {
		return id, "profile"
	}
	return "", "profile"
}

// finish records the stages and derives the verdict. The reason is the
// excluding stage's reason, else the first notable reason, else the last
// stage's own reason.
func (*Generator) finish(v Verdict, stages ...Stage) Verdict {
	v.Stages = append(v.Stages, stages...)
	v.Include = true

	var notable resolver.Reason
	for _, s := range stages {
		v.Warnings = append(v.Warnings, s.Outcome.Warnings...)
		if !s.Outcome.Include {
			v.Include = false
			v.Reason = s.Outcome.Reason
			return v
		}
		if notable == "" && s.Outcome.Notable {
			notable = s.Outcome.Reason
		}
	}

	switch {
	case notable != "":
		v.Reason = notable
	case len(stages) == 1:
		v.Reason = stages[0].Outcome.Reason
	default:
		v.Reason = resolver.ReasonCompatOK
	}
	return v
}

// EvaluateBatch evaluates candidates on a bounded worker pool. Verdicts
// are returned in candidate order. Cancelling ctx stops scheduling new
// work and returns the context error.
func (g *Generator) EvaluateBatch(
	ctx context.Context,
	t *Target,
	ov *Overrides,
	candidates []Candidate,
) ([]Verdict, error) {
	verdicts := make([]Verdict, len(candidates))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.settings.Workers)
	for i := range candidates {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err //nolint:wrapcheck // context error returned as is
			}
			verdicts[i] = g.Evaluate(t, ov, candidates[i])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("batch evaluation stopped: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch evaluation stopped: %w", err)
	}
	return verdicts, nil
}

// Summary counts verdicts by reason.
func Summary(verdicts []Verdict) (included, excluded int, byReason map[resolver.Reason]int) {
	byReason = make(map[resolver.Reason]int)
	for i := range verdicts {
		if verdicts[i].Include {
			included++
		} else {
			excluded++
		}
		byReason[verdicts[i].Reason]++
	}
	return included, excluded, byReason
}
