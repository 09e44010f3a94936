package sws

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"enhanced-seatmap/internal/domain/seatmap"
	"enhanced-seatmap/internal/pkg/errs"
)

//go:embed normalization.yaml
var defaultTableYAML []byte

// Candidates is an ordered list of source locations for one canonical field.
type Candidates []string

// Kind describes one record kind: where its nodes live and where each field
// may be read from.
type Kind struct {
	Roots      []string              `yaml:"roots"`
	Nodes      []string              `yaml:"nodes"`
	AirMarkers []string              `yaml:"airMarkers"`
	Fields     map[string]Candidates `yaml:"fields"`
}

type SeatMapKind struct {
	Cabins                []string              `yaml:"cabins"`
	Rows                  []string              `yaml:"rows"`
	CabinFields           map[string]Candidates `yaml:"cabinFields"`
	RowFields             map[string]Candidates `yaml:"rowFields"`
	RowCharacteristics    Candidates            `yaml:"rowCharacteristics"`
	Columns               []string              `yaml:"columns"`
	ColumnFields          map[string]Candidates `yaml:"columnFields"`
	ColumnCharacteristics Candidates            `yaml:"columnCharacteristics"`
	Seats                 []string              `yaml:"seats"`
	SeatFields            map[string]Candidates `yaml:"seatFields"`
	SeatCharacteristics   Candidates            `yaml:"seatCharacteristics"`
}

// Table is the normalisation table.
type Table struct {
	Reservation     Kind              `yaml:"reservation"`
	Passenger       Kind              `yaml:"passenger"`
	Segment         Kind              `yaml:"segment"`
	AssignedSeat    Kind              `yaml:"assignedSeat"`
	SeatMap         SeatMapKind       `yaml:"seatMap"`
	Characteristics map[string]string `yaml:"characteristics"`
}

func LoadTable(raw []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, errs.Wrap(err, "failed to decode normalisation table")
	}
	if len(t.Passenger.Nodes) == 0 || len(t.Segment.Nodes) == 0 || len(t.SeatMap.Rows) == 0 {
		return nil, errs.New("normalisation table is missing node paths")
	}
	norm := make(map[string]string, len(t.Characteristics))
	for code, name := range t.Characteristics {
		norm[strings.ToLower(strings.TrimSpace(code))] = name
	}
	t.Characteristics = norm
	return &t, nil
}

var (
	defaultTableOnce sync.Once
	defaultTable     *Table
)

// DefaultTable returns the embedded table. It panics if the embedded file is
// broken, which a unit test guards against.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		t, err := LoadTable(defaultTableYAML)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// First returns the first non-empty candidate value.
func (c Candidates) First(el *etree.Element) string {
	for _, cand := range c {
		for _, v := range lookup(el, cand) {
			if v != "" {
				return v
			}
		}
	}
	return ""
}

// All returns every non-empty value of every candidate, in candidate order.
func (c Candidates) All(el *etree.Element) []string {
	var out []string
	for _, cand := range c {
		for _, v := range lookup(el, cand) {
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func lookup(el *etree.Element, candidate string) []string {
	if el == nil || candidate == "" {
		return nil
	}
	path, attr := splitCandidate(candidate)

	targets := []*etree.Element{el}
	if path != "" {
		targets = el.FindElements("./" + path)
	}
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if attr != "" {
			out = append(out, strings.TrimSpace(attrValue(t, attr)))
			continue
		}
		out = append(out, strings.TrimSpace(t.Text()))
	}
	return out
}

func splitCandidate(c string) (path, attr string) {
	if strings.HasPrefix(c, "@") {
		return "", c[1:]
	}
	if i := strings.LastIndex(c, "/@"); i >= 0 {
		return c[:i], c[i+2:]
	}
	return c, ""
}

// attrValue matches the attribute key without namespace prefix.
func attrValue(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// findAll returns every node matched by the paths, de-duplicated, in path order.
func findAll(el *etree.Element, paths []string) []*etree.Element {
	seen := make(map[*etree.Element]bool)
	var out []*etree.Element
	for _, p := range paths {
		for _, n := range el.FindElements(p) {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// Characteristic maps an upstream code to its canonical name.
func (t *Table) Characteristic(code string) (seatmap.Characteristic, bool) {
	name, ok := t.Characteristics[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return "", false
	}
	return seatmap.Characteristic(name), true
}

func flag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "y", "yes":
		return true
	default:
		return false
	}
}
