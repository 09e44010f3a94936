//go:build unit

package assignment_test

import (
	"testing"

	"enhanced-seatmap/internal/domain/assignment"
	"enhanced-seatmap/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffAgainstConfirmed(t *testing.T) {
	pax := passengers(t, 3)
	store := assignment.NewStore(pax)
	store.Load(pax, []reservation.SeatAssignment{
		{PassengerID: "1", SegmentNumber: "1", SeatLabel: "10A"},
		{PassengerID: "2", SegmentNumber: "1", SeatLabel: "10B"},
	})
	_, err := store.AssignSeat("2", "1", "12B")
	require.NoError(t, err)
	_, err = store.AssignSeat("3", "1", "12C")
	require.NoError(t, err)

	d := store.DiffAgainstConfirmed()

	require.Len(t, d.New, 1)
	assert.Equal(t, "12C", d.New[0].SeatLabel)
	require.Len(t, d.Changed, 1)
	assert.Equal(t, "12B", d.Changed[0].SeatLabel)
	assert.Len(t, d.All(), 2)
	assert.Equal(t, "12C", d.All()[0].SeatLabel)
}

func TestEqual(t *testing.T) {
	a := []reservation.SeatAssignment{
		{PassengerID: "1", SegmentNumber: "1", SeatLabel: "10a"},
		{PassengerID: "2", SegmentNumber: "1", SeatLabel: "10B", Confirmed: true},
	}
	b := []reservation.SeatAssignment{
		{PassengerID: "2", SegmentNumber: "1", SeatLabel: "10B"},
		{PassengerID: "1", SegmentNumber: "1", SeatLabel: "10A", Confirmed: true},
	}

	assert.True(t, assignment.Equal(a, b))
	assert.True(t, assignment.Equal(nil, nil))
	assert.False(t, assignment.Equal(a, b[:1]))

	b[0].SegmentNumber = "2"
	assert.False(t, assignment.Equal(a, b))
}

func TestBuildBatches(t *testing.T) {
	pax := passengers(t, 2)
	d := assignment.Diff{
		New: []reservation.SeatAssignment{
			{PassengerID: "1", SegmentNumber: "2", SeatLabel: "3A"},
			{PassengerID: "1", SegmentNumber: "1", SeatLabel: "10A"},
			{PassengerID: "9", SegmentNumber: "1", SeatLabel: "10C"},
		},
		Changed: []reservation.SeatAssignment{
			{PassengerID: "2", SegmentNumber: "1", SeatLabel: "10B"},
		},
	}

	batches, unaddressable := assignment.BuildBatches(d, pax, assignment.SegmentOrder{"1": 0, "2": 1})

	require.Len(t, batches, 2)
	assert.Equal(t, "1", batches[0].SegmentNumber)
	require.Len(t, batches[0].Changes, 2)
	assert.Equal(t, "1.1", batches[0].Changes[0].NameReference)
	assert.False(t, batches[0].Changes[0].Replace)
	assert.Equal(t, "2.1", batches[0].Changes[1].NameReference)
	assert.True(t, batches[0].Changes[1].Replace)
	assert.Equal(t, "2", batches[1].SegmentNumber)

	require.Len(t, unaddressable, 1)
	assert.Equal(t, reservation.PassengerID("9"), unaddressable[0].PassengerID)
}

func TestBuildBatchesFollowsDocumentOrder(t *testing.T) {
	pax := passengers(t, 1)
	d := assignment.Diff{New: []reservation.SeatAssignment{
		{PassengerID: "1", SegmentNumber: "10", SeatLabel: "4A"},
		{PassengerID: "1", SegmentNumber: "2", SeatLabel: "3A"},
		{PassengerID: "1", SegmentNumber: "7", SeatLabel: "5A"},
	}}

	tests := []struct {
		name  string
		order assignment.SegmentOrder
		want  []string
	}{
		{name: "document order", order: assignment.SegmentOrder{"2": 0, "10": 1, "7": 2}, want: []string{"2", "10", "7"}},
		{name: "unknown segments last", order: assignment.SegmentOrder{"7": 0}, want: []string{"7", "10", "2"}},
		{name: "no order", order: nil, want: []string{"10", "2", "7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches, _ := assignment.BuildBatches(d, pax, tt.order)

			got := make([]string, 0, len(batches))
			for _, b := range batches {
				got = append(got, b.SegmentNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
