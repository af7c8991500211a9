// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package validation provides struct validation using
// go-playground/validator v10 behind a thread-safe singleton, plus the
// semantic admission checks an attendance event must pass before the
// engine will assess it.
//
// Validation failure is a typed error the caller can unpack field by
// field. An event that fails admission must not proceed to assessment.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/clockguard/trustengine/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Value   interface{}
	message string
}

func (e *FieldError) Error() string {
	return e.message
}

// Errors aggregates field validation failures for one struct.
type Errors struct {
	Fields []*FieldError
}

func (e *Errors) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// instance returns the singleton validator, creating it on first use. The
// instance caches struct metadata, so sharing it is both safe and faster.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// transport_mode accepts only members of the closed enum.
		_ = validate.RegisterValidation("transport_mode", func(fl validator.FieldLevel) bool {
			return models.TransportMode(fl.Field().String()).Valid()
		})
	})
	return validate
}

// ValidateStruct validates v against its `validate` tags, returning a
// typed *Errors on failure.
func ValidateStruct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validation internal error: %w", err)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := &Errors{Fields: make([]*FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, &FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			message: fmt.Sprintf("field %s failed %q validation", fe.Field(), fe.Tag()),
		})
	}
	return out
}

// ValidateEvent admits an attendance event into the engine: struct tags
// first, then the semantic checks tags cannot express.
func ValidateEvent(e *models.AttendanceEvent) error {
	if e == nil {
		return &Errors{Fields: []*FieldError{{Field: "event", Tag: "required", message: "event must not be nil"}}}
	}
	if err := ValidateStruct(e); err != nil {
		return err
	}

	var fields []*FieldError
	if e.CheckOutAt != nil && e.CheckOutAt.Before(e.CheckInAt) {
		fields = append(fields, &FieldError{
			Field: "CheckOutAt", Tag: "gtefield", Value: *e.CheckOutAt,
			message: "field CheckOutAt must not precede CheckInAt",
		})
	}
	if (e.EndLatitude == nil) != (e.EndLongitude == nil) {
		fields = append(fields, &FieldError{
			Field: "EndLatitude", Tag: "required_with",
			message: "end latitude and longitude must be set together",
		})
	}
	if e.EndLatitude != nil && e.EndLongitude != nil {
		if *e.EndLatitude < -90 || *e.EndLatitude > 90 || *e.EndLongitude < -180 || *e.EndLongitude > 180 {
			fields = append(fields, &FieldError{
				Field: "EndLatitude", Tag: "latitude",
				message: "end coordinates out of range",
			})
		}
	}
	for _, m := range e.TransportModes {
		if !m.Valid() {
			fields = append(fields, &FieldError{
				Field: "TransportModes", Tag: "transport_mode", Value: m,
				message: fmt.Sprintf("unknown transport mode %q", m),
			})
			break
		}
	}

	if len(fields) > 0 {
		return &Errors{Fields: fields}
	}
	return nil
}
