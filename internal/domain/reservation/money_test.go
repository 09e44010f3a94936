//go:build unit

package reservation_test

import (
	"testing"

	"enhanced-seatmap/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	t.Run("decimal text", func(t *testing.T) {
		m, err := reservation.ParseMoney("25.00", "usd")
		require.NoError(t, err)
		assert.Equal(t, int64(2500), m.Cents())
		assert.Equal(t, "USD", m.Currency())
		assert.Equal(t, "25.00 USD", m.String())
	})

	t.Run("rounds to cents", func(t *testing.T) {
		m, err := reservation.ParseMoney("7.5", "")
		require.NoError(t, err)
		assert.Equal(t, int64(750), m.Cents())
		assert.Equal(t, "7.50", m.String())
	})

	t.Run("empty is zero", func(t *testing.T) {
		m, err := reservation.ParseMoney(" ", "EUR")
		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("invalid", func(t *testing.T) {
		for _, in := range []string{"abc", "-1", "NaN", "Inf"} {
			_, err := reservation.ParseMoney(in, "USD")
			assert.ErrorIs(t, err, reservation.ErrInvalidAmount, in)
		}
	})
}

func TestTotalSeatFees(t *testing.T) {
	assignments := []reservation.SeatAssignment{
		{PassengerID: "1", SegmentNumber: "1", SeatLabel: "10A", Price: reservation.NewMoney(2500, "USD")},
		{PassengerID: "2", SegmentNumber: "1", SeatLabel: "10B"},
		{PassengerID: "1", SegmentNumber: "2", SeatLabel: "3C", Price: reservation.NewMoney(1000, "USD")},
		{PassengerID: "2", SegmentNumber: "2", SeatLabel: "3D", Price: reservation.NewMoney(1500, "EUR")},
	}

	totals := reservation.TotalSeatFees(assignments)

	require.Len(t, totals, 2)
	assert.Equal(t, "EUR", totals[0].Currency)
	assert.Equal(t, int64(1500), totals[0].Total.Cents())
	assert.Equal(t, "USD", totals[1].Currency)
	assert.Equal(t, int64(3500), totals[1].Total.Cents())
	assert.Empty(t, reservation.TotalSeatFees(nil))
}

func TestSeatAssignmentSameSeat(t *testing.T) {
	a := reservation.SeatAssignment{PassengerID: "1", SegmentNumber: "1", SeatLabel: "10a"}
	b := reservation.SeatAssignment{PassengerID: "1", SegmentNumber: "1", SeatLabel: "10A", Confirmed: true}

	assert.True(t, a.SameSeat(b))
	b.SegmentNumber = "2"
	assert.False(t, a.SameSeat(b))
}
