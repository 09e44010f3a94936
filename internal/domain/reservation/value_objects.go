package reservation

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money holds an amount in minor units (cents) together with its currency.
type Money struct {
	cents    int64
	currency string
}

func NewMoney(cents int64, currency string) Money {
	return Money{cents: cents, currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// ParseMoney reads decimal text such as "25.00" or "7.5".
func ParseMoney(amount, currency string) (Money, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return NewMoney(0, currency), nil
	}
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return Money{}, ErrInvalidAmount
	}
	return NewMoney(int64(math.Round(f*100)), currency), nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) Add(other Money) Money {
	currency := m.currency
	if currency == "" {
		currency = other.currency
	}
	return Money{cents: m.cents + other.cents, currency: currency}
}

func (m Money) String() string {
	s := strconv.FormatFloat(float64(m.cents)/100.0, 'f', 2, 64)
	if m.currency == "" {
		return s
	}
	return s + " " + m.currency
}

// SeatAssignment is one passenger's seat on one segment. At most one exists
// per (PassengerID, SegmentNumber) pair in any collection the store owns.
type SeatAssignment struct {
	PassengerID   PassengerID
	SegmentNumber string
	SeatLabel     string
	Confirmed     bool
	Price         Money
}

func (a SeatAssignment) SameSeat(other SeatAssignment) bool {
	return a.PassengerID == other.PassengerID &&
		a.SegmentNumber == other.SegmentNumber &&
		strings.EqualFold(a.SeatLabel, other.SeatLabel)
}
