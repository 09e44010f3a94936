//go:build unit

package sws_test

import (
	"testing"

	"enhanced-seatmap/internal/infra/sws"

	"github.com/stretchr/testify/assert"
)

func TestErrorDetector(t *testing.T) {
	d := sws.NewErrorDetector(nil)

	cases := []struct {
		name     string
		body     string
		rejected bool
		message  string
	}{
		{
			name: "success body",
			body: `<AirSeatRS><ApplicationResults status="Complete"/></AirSeatRS>`,
		},
		{
			name:     "error attribute",
			body:     `<AirSeatRS><Errors><Error ShortText="SEAT NOT AVAILABLE"/></Errors></AirSeatRS>`,
			rejected: true,
			message:  "SEAT NOT AVAILABLE",
		},
		{
			name: "prefixed error with nested message",
			body: `<stl:GetReservationRS xmlns:stl="urn:x"><stl:ApplicationResults status="NotProcessed">` +
				`<stl:Error><stl:SystemSpecificResults><stl:Message>NO PNR IN AAA</stl:Message></stl:SystemSpecificResults></stl:Error>` +
				`</stl:ApplicationResults></stl:GetReservationRS>`,
			rejected: true,
			message:  "NO PNR IN AAA",
		},
		{
			name:     "marker in broken xml",
			body:     `<Error>`,
			rejected: true,
			message:  "back-end rejected the request",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, rejected := d.Detect(tc.body)
			assert.Equal(t, tc.rejected, rejected)
			assert.Equal(t, tc.message, msg)
		})
	}
}

func TestErrorDetectorCustomMarkers(t *testing.T) {
	d := sws.NewErrorDetector([]string{" ", "FAILED"})

	_, rejected := d.Detect(`<Error>x</Error>`)
	assert.False(t, rejected)

	msg, rejected := d.Detect(`<RS><Message>FAILED HARD</Message></RS>`)
	assert.True(t, rejected)
	assert.Equal(t, "FAILED HARD", msg)
}

func TestIsNoReservation(t *testing.T) {
	assert.True(t, sws.IsNoReservation("no active pnr in work area"))
	assert.True(t, sws.IsNoReservation("PNR NOT FOUND"))
	assert.False(t, sws.IsNoReservation("SEAT NOT AVAILABLE"))
}
