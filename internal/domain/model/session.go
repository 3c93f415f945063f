// Package model defines the core domain entities for the weight service.
package model

import (
	"fmt"
	"strings"
	"time"
)

// NoTruck is the truck value stored for standalone weighings.
const NoTruck = "na"

// NoProduce is the produce label used when none is given.
const NoProduce = "na"

// Direction is the kind of a weighing event.
type Direction int

const (
	// DirectionNone is a standalone weighing not tied to a truck visit.
	DirectionNone Direction = iota
	// DirectionIn opens a session with the gross weight.
	DirectionIn
	// DirectionOut closes a session with the truck tare.
	DirectionOut
)

// ParseDirection validates a wire value once at the boundary.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in":
		return DirectionIn, nil
	case "out":
		return DirectionOut, nil
	case "none":
		return DirectionNone, nil
	default:
		return DirectionNone, fmt.Errorf("invalid direction %q", s)
	}
}

// String returns the stored representation.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	default:
		return "none"
	}
}

// Event is one ledger row. A logical session is an in event plus the out
// event sharing its SessionID, or a single none event.
type Event struct {
	ID         int64
	SessionID  int64
	Truck      string
	Direction  Direction
	Bruto      *int
	TruckTara  *int
	Neto       *int
	Containers []string
	Produce    string
	CreatedAt  time.Time
}

// WeighingRequest is a validated POST /weight call.
type WeighingRequest struct {
	Direction  Direction
	Truck      string
	Containers []string
	Weight     int
	Force      bool
	Produce    string
}

// EntryResult is returned by in and none weighings.
type EntryResult struct {
	SessionID int64  `json:"session"`
	Truck     string `json:"truck"`
	Bruto     int    `json:"bruto"`
}

// ExitResult is returned by out weighings.
type ExitResult struct {
	SessionID int64  `json:"session"`
	Truck     string `json:"truck"`
	TruckTara int    `json:"truckTara"`
	Neto      int    `json:"neto"`
}

// WeighingResult holds exactly one of Entry or Exit.
type WeighingResult struct {
	Direction Direction
	Entry     *EntryResult
	Exit      *ExitResult
}

// Body returns the variant to serialize.
func (r WeighingResult) Body() interface{} {
	if r.Exit != nil {
		return r.Exit
	}
	return r.Entry
}

// SessionView is the merged view of all events of one session.
type SessionView struct {
	ID        int64  `json:"id"`
	Truck     string `json:"truck"`
	Bruto     *int   `json:"bruto,omitempty"`
	TruckTara *int   `json:"truckTara,omitempty"`
	Neto      *int   `json:"neto,omitempty"`
	Produce   string `json:"produce"`
}

// MergeSession folds the events of one session into a SessionView.
// Events must share a session id; later events override earlier ones.
func MergeSession(events []Event) (SessionView, bool) {
	if len(events) == 0 {
		return SessionView{}, false
	}
	view := SessionView{ID: events[0].SessionID, Truck: events[0].Truck, Produce: NoProduce}
	for _, e := range events {
		switch e.Direction {
		case DirectionIn, DirectionNone:
			view.Bruto = e.Bruto
			if e.Produce != "" {
				view.Produce = e.Produce
			}
		case DirectionOut:
			view.TruckTara = e.TruckTara
			view.Neto = e.Neto
		}
		if e.Truck != "" {
			view.Truck = e.Truck
		}
	}
	return view, true
}

// WeighingView is one row of GET /weight.
type WeighingView struct {
	ID         int64    `json:"id"`
	Session    int64    `json:"session"`
	Direction  string   `json:"direction"`
	Truck      string   `json:"truck"`
	Bruto      *int     `json:"bruto,omitempty"`
	Neto       *int     `json:"neto,omitempty"`
	Produce    string   `json:"produce"`
	Containers []string `json:"containers"`
	Timestamp  string   `json:"timestamp"`
}

// TaraUnknown is the Tara of an item whose tare was never measured.
const TaraUnknown = "na"

// ItemView is returned by GET /item/:id. Tara is an int or TaraUnknown.
type ItemView struct {
	ID       string      `json:"id"`
	Tara     interface{} `json:"tara"`
	Sessions []int64     `json:"sessions"`
}

// TimeLayout is the yyyymmddhhmmss format of the from/to query parameters.
const TimeLayout = "20060102150405"

// TimeRange is an inclusive interval of event timestamps.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// ParseTimeRange parses from/to with defaults: from is the first second of
// the current month, to is now. from after to is a validation error.
func ParseTimeRange(from, to string, now time.Time) (TimeRange, error) {
	r := TimeRange{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		To:   now,
	}
	if from != "" {
		t, err := time.ParseInLocation(TimeLayout, from, now.Location())
		if err != nil {
			return r, Validationf("parse range", "invalid 'from' date format, use yyyymmddhhmmss")
		}
		r.From = t
	}
	if to != "" {
		t, err := time.ParseInLocation(TimeLayout, to, now.Location())
		if err != nil {
			return r, Validationf("parse range", "invalid 'to' date format, use yyyymmddhhmmss")
		}
		r.To = t
	}
	if r.From.After(r.To) {
		return r, Validationf("parse range", "'from' must not be after 'to'")
	}
	return r, nil
}

// SplitContainers parses the comma-joined container field. Blank parts are
// dropped; the order of first appearance is kept.
func SplitContainers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// JoinContainers is the inverse of SplitContainers.
func JoinContainers(ids []string) string {
	return strings.Join(ids, ",")
}
