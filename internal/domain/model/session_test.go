//go:build !integration

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "in", want: DirectionIn},
		{in: "OUT", want: DirectionOut},
		{in: " none ", want: DirectionNone},
		{in: "sideways", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Direction {
	t.Helper()
	d, err := ParseDirection(s)
	require.NoError(t, err)
	return d
}

func TestMergeSession(t *testing.T) {
	_, ok := MergeSession(nil)
	assert.False(t, ok)

	view, ok := MergeSession([]Event{
		{SessionID: 4, Truck: "T-1", Direction: DirectionIn, Bruto: intPtr(15000), Produce: "orange"},
		{SessionID: 4, Truck: "T-1", Direction: DirectionOut, TruckTara: intPtr(5000), Neto: intPtr(9700)},
	})
	require.True(t, ok)
	assert.Equal(t, SessionView{ID: 4, Truck: "T-1", Bruto: intPtr(15000), TruckTara: intPtr(5000), Neto: intPtr(9700), Produce: "orange"}, view)

	open, ok := MergeSession([]Event{{SessionID: 5, Truck: "T-2", Direction: DirectionIn, Bruto: intPtr(100)}})
	require.True(t, ok)
	assert.Nil(t, open.TruckTara)
	assert.Nil(t, open.Neto)
	assert.Equal(t, NoProduce, open.Produce)
}

func TestWeighingResult_Body(t *testing.T) {
	entry := WeighingResult{Entry: &EntryResult{SessionID: 1}}
	assert.Same(t, entry.Entry, entry.Body())

	exit := WeighingResult{Exit: &ExitResult{SessionID: 1}}
	assert.Same(t, exit.Exit, exit.Body())
}

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2026, time.March, 17, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to string
		want     TimeRange
		wantErr  bool
	}{
		{
			name: "defaults",
			want: TimeRange{From: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), To: now},
		},
		{
			name: "explicit range",
			from: "20260101000000",
			to:   "20260102235959",
			want: TimeRange{From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 1, 2, 23, 59, 59, 0, time.UTC)},
		},
		{name: "malformed from", from: "2026-01-01", wantErr: true},
		{name: "malformed to", to: "yesterday", wantErr: true},
		{name: "from after to", from: "20260310000000", to: "20260301000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeRange(tt.from, tt.to, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitContainers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "  ", want: nil},
		{in: "C-1", want: []string{"C-1"}},
		{in: "C-1, C-2,,C-1", want: []string{"C-1", "C-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitContainers(tt.in))
		})
	}

	assert.Equal(t, "C-1,C-2", JoinContainers([]string{"C-1", "C-2"}))
}
