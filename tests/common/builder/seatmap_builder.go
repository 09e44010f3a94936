//go:build unit || e2e

package builder

import (
	"fmt"
	"strings"
)

// SeatSpec is one seat of a SeatMapBuilder row. Attrs are written verbatim on
// the Seat element, e.g. `occupiedInd="true"`.
type SeatSpec struct {
	Column   string
	Attrs    string
	Chars    []string
	Amount   string
	Currency string
}

type RowSpec struct {
	Number int
	Attrs  string
	Seats  []SeatSpec
}

type ColumnSpec struct {
	Letter string
	Chars  []string
}

// CabinSpec is a cabin rendered after the builder's own.
type CabinSpec struct {
	Deck    string
	Columns []ColumnSpec
	Rows    []RowSpec
}

// SeatMapBuilder renders EnhancedSeatMapRS documents. The builder's own
// fields form the first cabin; WithCabin appends more.
type SeatMapBuilder struct {
	Deck    string
	Columns []ColumnSpec
	Rows    []RowSpec
	NoCabin bool
	Extra   []CabinSpec
}

// NewSeatMapBuilder starts from a 3-3 narrow-body row pair: row 10 is an exit
// row with a priced window seat, row 11 has one occupied and one blocked seat.
func NewSeatMapBuilder() *SeatMapBuilder {
	return &SeatMapBuilder{
		Deck: "main",
		Columns: []ColumnSpec{
			{Letter: "A", Chars: []string{"W"}},
			{Letter: "B", Chars: []string{"9"}},
			{Letter: "C", Chars: []string{"A"}},
			{Letter: "D", Chars: []string{"A"}},
			{Letter: "E", Chars: []string{"9"}},
			{Letter: "F", Chars: []string{"W"}},
		},
		Rows: []RowSpec{
			{Number: 10, Attrs: `exitRowInd="true"`, Seats: []SeatSpec{
				{Column: "A", Amount: "25.00", Currency: "USD"},
				{Column: "B"},
				{Column: "C"},
				{Column: "D"},
				{Column: "E"},
				{Column: "F"},
			}},
			{Number: 11, Seats: []SeatSpec{
				{Column: "A", Attrs: `occupiedInd="true"`},
				{Column: "B"},
				{Column: "C", Attrs: `blockedInd="true"`},
				{Column: "D"},
				{Column: "E", Chars: []string{"8"}},
				{Column: "F"},
			}},
		},
	}
}

func (b *SeatMapBuilder) WithRows(rows ...RowSpec) *SeatMapBuilder {
	b.Rows = rows
	return b
}

func (b *SeatMapBuilder) WithColumns(cols ...ColumnSpec) *SeatMapBuilder {
	b.Columns = cols
	return b
}

func (b *SeatMapBuilder) WithCabin(c CabinSpec) *SeatMapBuilder {
	b.Extra = append(b.Extra, c)
	return b
}

func (b *SeatMapBuilder) WithoutCabin() *SeatMapBuilder {
	b.NoCabin = true
	return b
}

func (b *SeatMapBuilder) BuildXML() []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sb.WriteString(`<ns2:EnhancedSeatMapRS xmlns:ns2="http://stl.sabre.com/Merchandising/v8"><ns2:SeatMap>`)
	if b.NoCabin {
		writeRows(&sb, b.Rows)
	} else {
		writeCabin(&sb, CabinSpec{Deck: b.Deck, Columns: b.Columns, Rows: b.Rows})
		for _, c := range b.Extra {
			writeCabin(&sb, c)
		}
	}
	sb.WriteString(`</ns2:SeatMap></ns2:EnhancedSeatMapRS>`)
	return []byte(sb.String())
}

func writeCabin(sb *strings.Builder, c CabinSpec) {
	fmt.Fprintf(sb, `<ns2:Cabin deck=%q>`, c.Deck)
	for _, col := range c.Columns {
		fmt.Fprintf(sb, `<ns2:Column><ns2:Column>%s</ns2:Column>`, col.Letter)
		for _, ch := range col.Chars {
			fmt.Fprintf(sb, `<ns2:Characteristics>%s</ns2:Characteristics>`, ch)
		}
		sb.WriteString(`</ns2:Column>`)
	}
	writeRows(sb, c.Rows)
	sb.WriteString(`</ns2:Cabin>`)
}

func writeRows(sb *strings.Builder, rows []RowSpec) {
	for _, r := range rows {
		fmt.Fprintf(sb, `<ns2:Row %s><ns2:RowNumber>%d</ns2:RowNumber>`, r.Attrs, r.Number)
		for _, s := range r.Seats {
			fmt.Fprintf(sb, `<ns2:Seat %s><ns2:Number>%s</ns2:Number>`, s.Attrs, s.Column)
			if s.Amount != "" {
				fmt.Fprintf(sb, `<ns2:Offer><ns2:Price><ns2:TotalAmount currencyCode=%q>%s</ns2:TotalAmount></ns2:Price></ns2:Offer>`,
					s.Currency, s.Amount)
			}
			for _, ch := range s.Chars {
				fmt.Fprintf(sb, `<ns2:Characteristic>%s</ns2:Characteristic>`, ch)
			}
			sb.WriteString(`</ns2:Seat>`)
		}
		sb.WriteString(`</ns2:Row>`)
	}
}
