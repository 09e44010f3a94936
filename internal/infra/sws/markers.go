package sws

import (
	"strings"

	"github.com/beevik/etree"
)

// DefaultErrorMarkers are the substrings that flag a business-level failure.
var DefaultErrorMarkers = []string{"<Error", ":Error", "NotProcessed"}

var noReservationPhrases = []string{
	"NO ACTIVE PNR",
	"NO PNR",
	"NO_PNR",
	"NO ACTIVE RESERVATION",
	"PNR NOT FOUND",
}

const genericRejection = "back-end rejected the request"

// ErrorDetector inspects a response body textually. The transport does not
// raise for back-end failures, so a 2xx body can still be a rejection.
type ErrorDetector struct {
	markers []string
}

func NewErrorDetector(markers []string) *ErrorDetector {
	cleaned := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			cleaned = append(cleaned, m)
		}
	}
	if len(cleaned) == 0 {
		cleaned = DefaultErrorMarkers
	}
	return &ErrorDetector{markers: cleaned}
}

// Detect reports whether body carries an error marker and, if so, the message
// of the first Error, Message or faultstring element.
func (d *ErrorDetector) Detect(body string) (string, bool) {
	hit := false
	for _, m := range d.markers {
		if strings.Contains(body, m) {
			hit = true
			break
		}
	}
	if !hit {
		return "", false
	}
	return extractMessage(body), true
}

func extractMessage(body string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return genericRejection
	}
	for _, path := range []string{".//Error", ".//Message", ".//faultstring"} {
		el := doc.FindElement(path)
		if el == nil {
			continue
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			return text
		}
		for _, attr := range []string{"ShortText", "message", "Message"} {
			if v := strings.TrimSpace(attrValue(el, attr)); v != "" {
				return v
			}
		}
		if msg := el.FindElement(".//Message"); msg != nil {
			if text := strings.TrimSpace(msg.Text()); text != "" {
				return text
			}
		}
	}
	return genericRejection
}

// IsNoReservation reports whether a rejection message means there is no
// active reservation in the agent's work area.
func IsNoReservation(message string) bool {
	upper := strings.ToUpper(message)
	for _, p := range noReservationPhrases {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}
