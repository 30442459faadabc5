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

// Package validation decodes and validates API request parameters using
// go-playground/validator, with custom tags for catalog ids and ratings.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var (
	ErrMissingParams = errors.New("missing params")
	ErrInvalidParams = errors.New("invalid params")
)

type contextKey struct{}

var validateCtxKey = contextKey{}

// Validator handles validation of API parameters.
type Validator struct {
	validate *validator.Validate
}

// Context carries the loaded catalog for the id validators. A nil Context
// or catalog skips id checks.
type Context struct {
	Catalog *catalog.Catalog
}

func NewContext(cat *catalog.Catalog) *Context {
	return &Context{Catalog: cat}
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("duration", validateDuration)
	_ = v.RegisterValidation("tier", validateTier)
	_ = v.RegisterValidation("compat", validateCompat)
	_ = v.RegisterValidationCtx("platform", catalogLookup(func(c *catalog.Catalog, id string) bool {
		_, ok := c.Platform(id)
		return ok
	}))
	_ = v.RegisterValidationCtx("device", catalogLookup(func(c *catalog.Catalog, id string) bool {
		_, ok := c.Device(id)
		return ok
	}))
	_ = v.RegisterValidationCtx("os", catalogLookup(func(c *catalog.Catalog, id string) bool {
		_, ok := c.OperatingSystem(id)
		return ok || id == catalog.GenericOSID
	}))
	_ = v.RegisterValidationCtx("emulator", catalogLookup(func(c *catalog.Catalog, id string) bool {
		_, ok := c.Emulator(id)
		return ok
	}))

	return &Validator{validate: v}
}

// DefaultValidator is a shared validator instance for API use.
var DefaultValidator = NewValidator()

func (v *Validator) Validate(params any) error {
	return v.ValidateCtx(context.Background(), params, nil)
}

// ValidateCtx validates a struct and returns an *Error for field failures.
func (v *Validator) ValidateCtx(ctx context.Context, params any, vctx *Context) error {
	ctxVal := context.WithValue(ctx, validateCtxKey, vctx)
	if err := v.validate.StructCtx(ctxVal, params); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewError(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ValidateAndUnmarshal decodes params into dest and validates it without
// catalog checks.
func ValidateAndUnmarshal[T any](params json.RawMessage, dest *T) error {
	return ValidateAndUnmarshalCtx(context.Background(), params, dest, nil)
}

// ValidateAndUnmarshalCtx decodes params into dest and validates it.
// Returns ErrMissingParams if params is empty, an error wrapping
// ErrInvalidParams if it isn't a JSON object matching dest, or an *Error if
// validation fails. Unknown keys are rejected.
func ValidateAndUnmarshalCtx[T any](
	ctx context.Context,
	params json.RawMessage,
	dest *T,
	vctx *Context,
) error {
	if len(params) == 0 || string(params) == "null" {
		return ErrMissingParams
	}

	var raw map[string]any
	if err := json.Unmarshal(params, &raw); err != nil {
		return ErrInvalidParams
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      dest,
		TagName:     "json",
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	return DefaultValidator.ValidateCtx(ctx, dest, vctx)
}

func validateDuration(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	d, err := time.ParseDuration(val)
	return err == nil && d >= 0
}

func validateTier(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == "" || catalog.PerformanceTier(val).Valid()
}

func validateCompat(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == "" || catalog.CompatStatus(val).Valid()
}

func catalogLookup(
	exists func(*catalog.Catalog, string) bool,
) validator.FuncCtx {
	return func(ctx context.Context, fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true
		}
		vctx, ok := ctx.Value(validateCtxKey).(*Context)
		if !ok || vctx == nil || vctx.Catalog == nil {
			return true
		}
		return exists(vctx.Catalog, val)
	}
}
