package sws

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/domain/seatmap"
	"enhanced-seatmap/internal/pkg/errs"
)

// ParseSeatMap uses the embedded table and the default logger.
func ParseSeatMap(raw []byte) (*seatmap.SeatMap, error) {
	return NewParser(nil, nil).ParseSeatMap(raw)
}

type cabinNode struct {
	deck  string
	rows  []*etree.Element
	aisle map[string]bool
	chars map[string][]seatmap.Characteristic
}

// ParseSeatMap builds seat descriptors and layout metadata. Only a document
// without any row is a ParseError; everything else degrades per field.
func (p *Parser) ParseSeatMap(raw []byte) (*seatmap.SeatMap, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "seat map document is not well-formed XML"), errs.ErrParse)
	}

	cabins := p.cabins(&doc.Element)
	rowCount := 0
	for _, c := range cabins {
		rowCount += len(c.rows)
	}
	if rowCount == 0 {
		return nil, errs.Mark(errs.New("seat map document has no rows"), errs.ErrParse)
	}

	m := &seatmap.SeatMap{}
	rowIndex := make(map[int]int)
	seenSeat := make(map[string]bool)

	for _, c := range cabins {
		if m.Layout.Deck == "" {
			m.Layout.Deck = c.deck
		}
		columns := make([]string, 0)
		seenColumn := make(map[string]bool)
		aisle := make(map[string]bool)
		for col, flagged := range c.aisle {
			if flagged {
				aisle[col] = true
			}
		}
		layout := seatmap.CabinLayout{Deck: c.deck}

		for _, rowEl := range c.rows {
			row, ok := p.row(rowEl, c.deck)
			if !ok {
				continue
			}
			if i, exists := rowIndex[row.Number]; exists {
				prev := &m.Layout.Rows[i]
				prev.Exit = prev.Exit || row.Exit
				prev.Overwing = prev.Overwing || row.Overwing
				prev.Bulkhead = prev.Bulkhead || row.Bulkhead
			} else {
				rowIndex[row.Number] = len(m.Layout.Rows)
				m.Layout.Rows = append(m.Layout.Rows, row)
			}
			if layout.FirstRow == 0 || row.Number < layout.FirstRow {
				layout.FirstRow = row.Number
			}
			if row.Number > layout.LastRow {
				layout.LastRow = row.Number
			}

			for _, seatEl := range findAll(rowEl, relative(p.table.SeatMap.Seats)) {
				seat, ok := p.seat(seatEl, row, c.chars)
				if !ok || seenSeat[seat.Label] {
					continue
				}
				seenSeat[seat.Label] = true
				if !seenColumn[seat.Column] {
					seenColumn[seat.Column] = true
					columns = append(columns, seat.Column)
				}
				if seat.Characteristics.Has(seatmap.CharAisle) {
					aisle[seat.Column] = true
				}
				m.Seats = append(m.Seats, seat)
			}
		}

		if len(columns) == 0 {
			continue
		}
		layout.Letters = seatmap.DeriveLetters(columns, aisle)
		m.Layout.Cabins = append(m.Layout.Cabins, layout)
	}

	if m.Layout.Deck == "" {
		m.Layout.Deck = seatmap.DefaultDeck
	}
	if widest, ok := m.Layout.WidestCabin(); ok {
		m.Layout.Letters = widest.Letters
	} else {
		m.Layout.Letters = []string{}
	}
	return m, nil
}

func (p *Parser) cabins(root *etree.Element) []cabinNode {
	t := p.table.SeatMap
	cabinEls := findAll(root, t.Cabins)
	if len(cabinEls) == 0 {
		return []cabinNode{{
			deck:  seatmap.DefaultDeck,
			rows:  findAll(root, t.Rows),
			aisle: map[string]bool{},
			chars: map[string][]seatmap.Characteristic{},
		}}
	}

	out := make([]cabinNode, 0, len(cabinEls))
	for _, el := range cabinEls {
		deck := strings.ToLower(t.CabinFields["deck"].First(el))
		if deck == "" {
			deck = seatmap.DefaultDeck
		}
		c := cabinNode{
			deck:  deck,
			rows:  findAll(el, t.Rows),
			aisle: make(map[string]bool),
			chars: make(map[string][]seatmap.Characteristic),
		}
		for _, colEl := range findAll(el, relative(t.Columns)) {
			letter := strings.ToUpper(t.ColumnFields["letter"].First(colEl))
			if letter == "" {
				continue
			}
			chars := p.characteristics(t.ColumnCharacteristics.All(colEl))
			c.chars[letter] = chars
			for _, ch := range chars {
				if ch == seatmap.CharAisle {
					c.aisle[letter] = true
				}
			}
		}
		out = append(out, c)
	}
	return out
}

func (p *Parser) row(el *etree.Element, deck string) (seatmap.Row, bool) {
	t := p.table.SeatMap
	raw := t.RowFields["number"].First(el)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		p.logger.Debug("Skipping row without number", slog.String("row", raw))
		return seatmap.Row{}, false
	}
	chars := seatmap.NewCharacteristics(p.characteristics(t.RowCharacteristics.All(el))...)
	return seatmap.Row{
		Number:   n,
		Deck:     deck,
		Exit:     flag(t.RowFields["exit"].First(el)) || chars.Has(seatmap.CharExit),
		Overwing: flag(t.RowFields["overwing"].First(el)) || chars.Has(seatmap.CharOverwing),
		Bulkhead: flag(t.RowFields["bulkhead"].First(el)) || chars.Has(seatmap.CharBulkhead),
	}, true
}

func (p *Parser) seat(el *etree.Element, row seatmap.Row, columnChars map[string][]seatmap.Characteristic) (seatmap.SeatDescriptor, bool) {
	f := p.table.SeatMap.SeatFields
	column := strings.ToUpper(f["column"].First(el))
	// Some feeds put the full label in the column slot.
	column = strings.TrimLeft(column, "0123456789")
	if column == "" {
		p.logger.Debug("Skipping seat without column", slog.Int("row", row.Number))
		return seatmap.SeatDescriptor{}, false
	}

	chars := p.characteristics(p.table.SeatMap.SeatCharacteristics.All(el))
	chars = append(chars, columnChars[column]...)
	if row.Exit {
		chars = append(chars, seatmap.CharExit)
	}
	if row.Overwing {
		chars = append(chars, seatmap.CharOverwing)
	}
	if row.Bulkhead {
		chars = append(chars, seatmap.CharBulkhead)
	}
	set := seatmap.NewCharacteristics(chars...)

	amount := f["amount"].First(el)
	price, err := reservation.ParseMoney(amount, f["currency"].First(el))
	if err != nil {
		p.logger.Debug("Seat price unreadable, defaulting to zero",
			slog.String("seat", seatmap.Label(row.Number, column)), slog.String("amount", amount))
		price = reservation.NewMoney(0, f["currency"].First(el))
	}

	return seatmap.SeatDescriptor{
		Label:           seatmap.Label(row.Number, column),
		Row:             row.Number,
		Column:          column,
		Status:          p.classify(el, set, price),
		Price:           price,
		Characteristics: set,
	}, true
}

// classify applies the status precedence: unavailable, blocked, occupied,
// available-for-fee, available.
func (p *Parser) classify(el *etree.Element, chars seatmap.Characteristics, price reservation.Money) seatmap.Status {
	f := p.table.SeatMap.SeatFields
	switch {
	case flag(f["inoperative"].First(el)) || chars.Has(seatmap.CharNoSeat):
		return seatmap.StatusUnavailable
	case flag(f["blocked"].First(el)) || flag(f["restricted"].First(el)) ||
		chars.Has(seatmap.CharBlocked) || chars.Has(seatmap.CharRestricted):
		return seatmap.StatusBlocked
	case flag(f["occupied"].First(el)):
		return seatmap.StatusOccupied
	case price.Cents() > 0 || flag(f["chargeable"].First(el)):
		return seatmap.StatusAvailableForFee
	default:
		return seatmap.StatusAvailable
	}
}

// characteristics maps raw codes, which may be space or comma separated, to
// canonical names. Unknown codes are dropped.
func (p *Parser) characteristics(values []string) []seatmap.Characteristic {
	out := make([]seatmap.Characteristic, 0, len(values))
	for _, v := range values {
		for _, code := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' || r == ';' }) {
			if c, ok := p.table.Characteristic(code); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func relative(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if strings.HasPrefix(p, ".") {
			out[i] = p
			continue
		}
		out[i] = "./" + p
	}
	return out
}
