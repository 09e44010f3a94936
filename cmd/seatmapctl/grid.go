package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"enhanced-seatmap/internal/domain/seatmap"
)

var statusGlyph = map[seatmap.Status]string{
	seatmap.StatusAvailable:       ".",
	seatmap.StatusAvailableForFee: "$",
	seatmap.StatusOccupied:        "X",
	seatmap.StatusBlocked:         "#",
	seatmap.StatusUnavailable:     " ",
}

// renderGrid draws one line per row. Exit rows are marked with "E" and
// overwing rows with "W".
func renderGrid(w io.Writer, m *seatmap.SeatMap) error {
	seats := make(map[string]seatmap.SeatDescriptor, len(m.Seats))
	rowSet := make(map[int]bool)
	for _, s := range m.Seats {
		seats[s.Label] = s
		rowSet[s.Row] = true
	}
	rows := make([]int, 0, len(rowSet))
	for r := range rowSet {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	var b strings.Builder
	b.WriteString("     ")
	for _, l := range m.Layout.Letters {
		b.WriteString(l)
	}
	b.WriteString("\n")

	for _, n := range rows {
		fmt.Fprintf(&b, "%4d ", n)
		for _, l := range m.Layout.Letters {
			if l == seatmap.AisleMarker {
				b.WriteString(" ")
				continue
			}
			s, ok := seats[seatmap.Label(n, l)]
			if !ok {
				b.WriteString(" ")
				continue
			}
			b.WriteString(statusGlyph[s.Status])
		}
		if row, ok := m.Layout.Row(n); ok {
			if row.Exit {
				b.WriteString(" E")
			}
			if row.Overwing {
				b.WriteString(" W")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n. free  $ fee  X occupied  # blocked\n")

	_, err := io.WriteString(w, b.String())
	return err
}
