// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"path/filepath"
	"strings"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
)

// WeightRequest is the JSON body of POST /weight.
//
// Containers is a comma-separated list of container ids.
//
// @Description Weighing event recorded at the scale
// @Example {"direction": "in", "truck": "T-14409", "containers": "C-35434,K-8263", "weight": 15000, "unit": "kg"}
type WeightRequest struct {
	Direction  string   `json:"direction" example:"in" enums:"in,out,none"`
	Truck      string   `json:"truck,omitempty" example:"T-14409"`
	Containers string   `json:"containers,omitempty" example:"C-35434,K-8263"`
	Weight     *float64 `json:"weight" example:"15000"`
	Unit       string   `json:"unit,omitempty" example:"kg" enums:"kg,lbs"`
	Force      bool     `json:"force,omitempty" example:"false"`
	Produce    string   `json:"produce,omitempty" example:"orange"`
} // @name WeightRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrInvalidDirection is returned when direction is missing or unknown.
	ErrInvalidDirection = &ValidationError{Field: "direction", Message: "must be one of in, out, none"}
	// ErrMissingWeight is returned when weight is absent.
	ErrMissingWeight = &ValidationError{Field: "weight", Message: "is required"}
	// ErrInvalidWeight is returned for negative or non-finite weights.
	ErrInvalidWeight = &ValidationError{Field: "weight", Message: "must be a number between 0 and 2147483647 kg"}
	// ErrInvalidUnit is returned for units other than kg and lbs.
	ErrInvalidUnit = &ValidationError{Field: "unit", Message: "must be kg or lbs"}
	// ErrMissingTruck is returned when an in or out weighing has no truck.
	ErrMissingTruck = &ValidationError{Field: "truck", Message: "is required for in and out"}
	// ErrMissingFile is returned when a batch request names no file.
	ErrMissingFile = &ValidationError{Field: "file", Message: "is required"}
	// ErrInvalidFile is returned when a batch file name contains a path.
	ErrInvalidFile = &ValidationError{Field: "file", Message: "must be a plain file name"}
)

// ToWeighing validates the request and converts it to the engine input.
// The reading is converted to integer kilograms.
func (r *WeightRequest) ToWeighing() (model.WeighingRequest, error) {
	var out model.WeighingRequest

	dir, err := model.ParseDirection(r.Direction)
	if err != nil {
		return out, ErrInvalidDirection
	}
	if r.Weight == nil {
		return out, ErrMissingWeight
	}
	unit, err := model.ParseUnit(r.Unit)
	if err != nil {
		return out, ErrInvalidUnit
	}
	kg, ok := model.ToKilograms(*r.Weight, unit)
	if !ok {
		return out, ErrInvalidWeight
	}

	truck := strings.TrimSpace(r.Truck)
	if dir != model.DirectionNone && (truck == "" || truck == model.NoTruck) {
		return out, ErrMissingTruck
	}
	if dir == model.DirectionNone {
		truck = model.NoTruck
	}

	produce := strings.TrimSpace(r.Produce)
	if produce == "" {
		produce = model.NoProduce
	}

	return model.WeighingRequest{
		Direction:  dir,
		Truck:      truck,
		Containers: model.SplitContainers(r.Containers),
		Weight:     kg,
		Force:      r.Force,
		Produce:    produce,
	}, nil
}

// BatchWeightRequest is the JSON body of POST /batch-weight.
//
// @Description Container tare file to import from the input directory
// @Example {"file": "containers1.csv"}
type BatchWeightRequest struct {
	File string `json:"file" example:"containers1.csv"`
} // @name BatchWeightRequest

// Validate rejects empty names and names carrying directory components.
func (r *BatchWeightRequest) Validate() error {
	name := strings.TrimSpace(r.File)
	if name == "" {
		return ErrMissingFile
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || filepath.Base(name) != name {
		return ErrInvalidFile
	}
	r.File = name
	return nil
}

// AuditQuery holds the query parameters of GET /audit.
type AuditQuery struct {
	Truck     string `form:"truck"`
	Session   int64  `form:"session"`
	Action    string `form:"action"`
	RequestID string `form:"request_id"`
	Level     string `form:"level"`
	From      string `form:"from"`
	To        string `form:"to"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

// ToOptions converts the query into log sink options over rng.
func (q AuditQuery) ToOptions(rng model.TimeRange) (model.LogQueryOptions, error) {
	const op = "parse audit query"

	if q.Session < 0 {
		return model.LogQueryOptions{}, model.Validationf(op, "session must be a positive number")
	}
	action := strings.TrimSpace(q.Action)
	if action != "" && !model.ValidAction(action) {
		return model.LogQueryOptions{}, model.Validationf(op, "unknown action %q", action)
	}
	if q.Limit < 0 || q.Offset < 0 {
		return model.LogQueryOptions{}, model.Validationf(op, "limit and offset must not be negative")
	}

	from, to := rng.From.UTC(), rng.To.UTC()
	return model.LogQueryOptions{
		RequestID:  strings.TrimSpace(q.RequestID),
		Level:      strings.ToLower(strings.TrimSpace(q.Level)),
		ActionType: action,
		Truck:      strings.TrimSpace(q.Truck),
		SessionID:  q.Session,
		StartTime:  &from,
		EndTime:    &to,
		Limit:      q.Limit,
		Skip:       q.Offset,
	}, nil
}
