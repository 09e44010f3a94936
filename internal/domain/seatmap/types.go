package seatmap

import "sort"

type Status string

const (
	StatusAvailable       Status = "available"
	StatusAvailableForFee Status = "available-for-fee"
	StatusOccupied        Status = "occupied"
	StatusBlocked         Status = "blocked"
	StatusUnavailable     Status = "unavailable"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusAvailableForFee, StatusOccupied, StatusBlocked, StatusUnavailable:
		return true
	default:
		return false
	}
}

// IsSelectable drives click eligibility in the seat grid.
func (s Status) IsSelectable() bool {
	return s == StatusAvailable || s == StatusAvailableForFee
}

// Characteristic is a canonical seat or row attribute.
type Characteristic string

const (
	CharAisle      Characteristic = "aisle"
	CharWindow     Characteristic = "window"
	CharCenter     Characteristic = "center"
	CharExit       Characteristic = "exit"
	CharOverwing   Characteristic = "overwing"
	CharBulkhead   Characteristic = "bulkhead"
	CharChargeable Characteristic = "chargeable"
	CharPreferred  Characteristic = "preferred"
	CharLegroom    Characteristic = "legroom"
	CharBassinet   Characteristic = "bassinet"
	CharNoSeat     Characteristic = "no-seat"
	CharRestricted Characteristic = "restricted"
	CharBlocked    Characteristic = "blocked"
)

// Characteristics is a sorted, duplicate-free set.
type Characteristics []Characteristic

func NewCharacteristics(cs ...Characteristic) Characteristics {
	seen := make(map[Characteristic]bool, len(cs))
	out := make(Characteristics, 0, len(cs))
	for _, c := range cs {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (cs Characteristics) Has(c Characteristic) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}
