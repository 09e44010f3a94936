package reservation

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultPalette is cycled through by passenger index.
var DefaultPalette = []string{
	"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728",
	"#9467BD", "#8C564B", "#E377C2", "#17BECF",
}

// PassengerFactory hands out local ids and display fields in the order
// passengers are added.
type PassengerFactory struct {
	palette []string
	next    int
}

func NewPassengerFactory(palette []string) *PassengerFactory {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &PassengerFactory{palette: palette}
}

func (f *PassengerFactory) Create(givenName, surname, nameReference, associationToken string) (*Passenger, error) {
	ref := NormalizeNameReference(nameReference)
	if ref == "" {
		return nil, ErrMissingNameReference
	}
	index := f.next
	f.next++

	givenName = strings.TrimSpace(givenName)
	surname = strings.TrimSpace(surname)
	return &Passenger{
		id:               PassengerID(strconv.Itoa(index + 1)),
		givenName:        givenName,
		surname:          surname,
		nameReference:    ref,
		associationToken: strings.TrimSpace(associationToken),
		colorTag:         f.palette[index%len(f.palette)],
		initials:         initials(givenName, surname),
	}, nil
}

// NormalizeNameReference turns "01.01" into "1.1". Anything that is not
// dot-separated digits is returned trimmed and otherwise untouched.
func NormalizeNameReference(ref string) string {
	ref = strings.TrimSpace(ref)
	parts := strings.Split(ref, ".")
	for i, part := range parts {
		if part == "" || strings.IndexFunc(part, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
			return ref
		}
		trimmed := strings.TrimLeft(part, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		parts[i] = trimmed
	}
	return strings.Join(parts, ".")
}

// Titles such as MR or MRS trail the given name in host records.
var titles = map[string]bool{
	"MR": true, "MRS": true, "MS": true, "MISS": true, "MSTR": true, "DR": true,
}

func initials(givenName, surname string) string {
	var b strings.Builder
	for _, word := range strings.Fields(givenName) {
		if titles[strings.ToUpper(word)] {
			continue
		}
		b.WriteRune(firstRune(word))
		break
	}
	if r := firstRune(surname); r != 0 {
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

func firstRune(s string) rune {
	for _, r := range strings.TrimSpace(s) {
		return r
	}
	return 0
}
