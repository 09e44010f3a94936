//go:build unit

package seatmap_test

import (
	"testing"

	"enhanced-seatmap/internal/domain/seatmap"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLetters(t *testing.T) {
	cases := []struct {
		name    string
		columns []string
		aisle   []string
		want    []string
	}{
		{
			name:    "narrow body with adjacent aisle seats",
			columns: []string{"A", "B", "C", "D", "E", "F"},
			aisle:   []string{"C", "D"},
			want:    []string{"A", "B", "C", "|", "D", "E", "F"},
		},
		{
			name:    "twin aisle with two adjacent pairs",
			columns: []string{"A", "C", "D", "E", "F", "G", "H", "K"},
			aisle:   []string{"C", "D", "G", "H"},
			want:    []string{"A", "C", "|", "D", "E", "F", "G", "|", "H", "K"},
		},
		{
			name:    "only outer aisle seats flagged",
			columns: []string{"A", "C", "D", "E", "G", "H", "K"},
			aisle:   []string{"C", "H"},
			want:    []string{"A", "C", "|", "D", "E", "G", "|", "H", "K"},
		},
		{
			name:    "single flagged column gives no marker",
			columns: []string{"A", "B", "C"},
			aisle:   []string{"B"},
			want:    []string{"A", "B", "C"},
		},
		{
			name:    "no flags",
			columns: []string{"A", "B"},
			want:    []string{"A", "B"},
		},
		{
			name:    "flagged neighbours at the edge",
			columns: []string{"A", "B"},
			aisle:   []string{"A", "B"},
			want:    []string{"A", "|", "B"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flags := make(map[string]bool)
			for _, c := range tc.aisle {
				flags[c] = true
			}
			assert.Equal(t, tc.want, seatmap.DeriveLetters(tc.columns, flags))
		})
	}
}

func TestNewCharacteristics(t *testing.T) {
	got := seatmap.NewCharacteristics(seatmap.CharWindow, seatmap.CharExit, "", seatmap.CharWindow)

	assert.Equal(t, seatmap.Characteristics{seatmap.CharExit, seatmap.CharWindow}, got)
	assert.True(t, got.Has(seatmap.CharExit))
	assert.False(t, got.Has(seatmap.CharAisle))
}

func TestStatus(t *testing.T) {
	assert.True(t, seatmap.StatusAvailable.IsSelectable())
	assert.True(t, seatmap.StatusAvailableForFee.IsSelectable())
	assert.False(t, seatmap.StatusOccupied.IsSelectable())
	assert.False(t, seatmap.StatusBlocked.IsSelectable())
	assert.False(t, seatmap.Status("bogus").IsValid())
}
