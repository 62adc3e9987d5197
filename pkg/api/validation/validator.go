// Pomodesk
// Copyright (c) 2026 The Pomodesk Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Pomodesk.
//
// Pomodesk is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Pomodesk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pomodesk.  If not, see <http://www.gnu.org/licenses/>.

// Package validation decodes and checks API request bodies.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pomodesk/pomodesk/pkg/api/models"
)

var (
	ErrMissingParams  = errors.New("missing params")
	ErrMalformedInput = errors.New("malformed input")
)

// MaxBodySize bounds request bodies. Every request body is a handful of
// small integers.
const MaxBodySize = 4 << 10

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateCalendarDate, models.SetTimeParams{})
	return &Validator{validate: v}
}

// DefaultValidator is shared by the API handlers.
var DefaultValidator = NewValidator()

func (v *Validator) Validate(params any) error {
	if err := v.validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return NewError(verrs)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ValidateAndUnmarshal decodes a JSON object into dest and validates it.
// Unknown fields and anything after the object are ErrMalformedInput; an
// empty body is ErrMissingParams.
func ValidateAndUnmarshal[T any](body io.Reader, dest *T) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxBodySize+1))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if len(data) > MaxBodySize {
		return fmt.Errorf("%w: body too large", ErrMalformedInput)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrMissingParams
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after object", ErrMalformedInput)
	}

	return DefaultValidator.Validate(dest)
}

// validateCalendarDate rejects dates such as 31 April or 29 February in a
// common year. Range errors on the individual fields are reported by their
// own tags, so the check only runs once those pass.
func validateCalendarDate(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(models.SetTimeParams)
	if !ok || p.Day == nil || p.Month == nil || p.Year == nil {
		return
	}
	d, mo, y := *p.Day, *p.Month, *p.Year
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return
	}
	if d > DaysIn(time.Month(mo), y) {
		sl.ReportError(p.Day, "d", "Day", "calendar", "")
	}
}

// DaysIn returns the number of days in month m of year y.
func DaysIn(m time.Month, y int) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
