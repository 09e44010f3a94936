package sws

import (
	"strconv"

	"github.com/beevik/etree"

	"enhanced-seatmap/internal/domain/seatmap"
)

// SerializeFixture renders a seat map back into the response shape
// ParseSeatMap reads. Aisle flags are written on the columns that border an
// aisle marker so that the letters derive the same way again.
func SerializeFixture(m *seatmap.SeatMap) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	rs := doc.CreateElement("EnhancedSeatMapRS")
	sm := rs.CreateElement("SeatMap")

	rows := m.Layout.Rows
	if len(rows) == 0 {
		rows = rowsFromSeats(m.Seats)
	}
	byRow := make(map[int][]seatmap.SeatDescriptor)
	for _, s := range m.Seats {
		byRow[s.Row] = append(byRow[s.Row], s)
	}

	cabins := make(map[string]*etree.Element)
	for _, r := range rows {
		key, deck, letters := fixtureCabin(m.Layout, r)
		cabin, ok := cabins[key]
		if !ok {
			cabin = sm.CreateElement("Cabin")
			cabin.CreateAttr("deck", deck)
			aisleCols := aisleColumns(letters)
			for _, letter := range letters {
				if letter == seatmap.AisleMarker {
					continue
				}
				col := cabin.CreateElement("Column")
				col.CreateElement("Column").SetText(letter)
				if aisleCols[letter] {
					col.CreateElement("Characteristics").SetText(string(seatmap.CharAisle))
				}
			}
			cabins[key] = cabin
		}

		rowEl := cabin.CreateElement("Row")
		if r.Exit {
			rowEl.CreateAttr("exitRowInd", "true")
		}
		if r.Overwing {
			rowEl.CreateAttr("overwingInd", "true")
		}
		if r.Bulkhead {
			rowEl.CreateAttr("bulkheadInd", "true")
		}
		rowEl.CreateElement("RowNumber").SetText(strconv.Itoa(r.Number))

		for _, s := range byRow[r.Number] {
			writeSeat(rowEl, s)
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func writeSeat(rowEl *etree.Element, s seatmap.SeatDescriptor) {
	seatEl := rowEl.CreateElement("Seat")
	switch s.Status {
	case seatmap.StatusUnavailable:
		seatEl.CreateAttr("inoperativeInd", "true")
	case seatmap.StatusBlocked:
		seatEl.CreateAttr("blockedInd", "true")
	case seatmap.StatusOccupied:
		seatEl.CreateAttr("occupiedInd", "true")
	case seatmap.StatusAvailableForFee:
		seatEl.CreateAttr("chargeableInd", "true")
	}
	seatEl.CreateElement("Number").SetText(s.Column)

	if !s.Price.IsZero() {
		amount := seatEl.CreateElement("Offer").CreateElement("Price").CreateElement("TotalAmount")
		if s.Price.Currency() != "" {
			amount.CreateAttr("currencyCode", s.Price.Currency())
		}
		amount.SetText(strconv.FormatFloat(float64(s.Price.Cents())/100, 'f', 2, 64))
	}
	for _, c := range s.Characteristics {
		seatEl.CreateElement("Characteristic").SetText(string(c))
	}
}

// fixtureCabin picks the cabin a row is written under. Rows outside every
// known cabin share one cabin per deck.
func fixtureCabin(l seatmap.LayoutMeta, r seatmap.Row) (key, deck string, letters []string) {
	for i, c := range l.Cabins {
		if r.Number >= c.FirstRow && r.Number <= c.LastRow {
			deck = c.Deck
			if deck == "" {
				deck = l.Deck
			}
			return "cabin-" + strconv.Itoa(i), deck, c.Letters
		}
	}
	deck = r.Deck
	if deck == "" {
		deck = l.Deck
	}
	return "deck-" + deck, deck, l.Letters
}

func aisleColumns(letters []string) map[string]bool {
	out := make(map[string]bool)
	for i, l := range letters {
		if l != seatmap.AisleMarker {
			continue
		}
		if i > 0 {
			out[letters[i-1]] = true
		}
		if i+1 < len(letters) {
			out[letters[i+1]] = true
		}
	}
	return out
}

func rowsFromSeats(seats []seatmap.SeatDescriptor) []seatmap.Row {
	seen := make(map[int]bool)
	var rows []seatmap.Row
	for _, s := range seats {
		if seen[s.Row] {
			continue
		}
		seen[s.Row] = true
		rows = append(rows, seatmap.Row{Number: s.Row})
	}
	return rows
}
