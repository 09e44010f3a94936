package reservation

import (
	"errors"
	"strings"
)

var ErrInvalidCabinClass = errors.New("invalid cabin class")

// CabinClass filters which seat rows are requested from the back-end.
type CabinClass string

const (
	CabinAll            CabinClass = "All"
	CabinEconomy        CabinClass = "Economy"
	CabinPremiumEconomy CabinClass = "Premium"
	CabinBusiness       CabinClass = "Business"
	CabinFirst          CabinClass = "First"
)

var cabinCodes = map[CabinClass]string{
	CabinAll:            "",
	CabinEconomy:        "Y",
	CabinPremiumEconomy: "S",
	CabinBusiness:       "C",
	CabinFirst:          "F",
}

func ParseCabinClass(s string) (CabinClass, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CabinAll, nil
	}
	for c, code := range cabinCodes {
		if strings.EqualFold(s, string(c)) || (code != "" && strings.EqualFold(s, code)) {
			return c, nil
		}
	}
	return "", ErrInvalidCabinClass
}

func (c CabinClass) String() string {
	return string(c)
}

// Code is the back-end cabin code; empty for CabinAll.
func (c CabinClass) Code() string {
	return cabinCodes[c]
}

func (c CabinClass) IsValid() bool {
	_, ok := cabinCodes[c]
	return ok
}
