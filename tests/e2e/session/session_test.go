//go:build e2e

package session_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"enhanced-seatmap/internal/handler/api"
	resdto "enhanced-seatmap/internal/handler/dto/response"
	"enhanced-seatmap/internal/infra/sws"
	"enhanced-seatmap/tests/common/builder"
	"enhanced-seatmap/tests/common/httptest"
	"enhanced-seatmap/tests/e2e"
)

const sessionsURL = "/api/sessions"

type sessionSuite struct {
	e2e.SharedSuite
}

func TestSessionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(sessionSuite))
}

func (s *sessionSuite) open() resdto.SessionResponse {
	s.SWS.Respond(sws.ActionGetReservation, builder.NewReservationBuilder().BuildXML())
	s.SWS.Respond(sws.ActionSeatMap, builder.NewSeatMapBuilder().BuildXML())

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, sessionsURL, nil, map[string]string{
		api.SessionTokenHeader: "Shared/IDL:IceSess/SessMgr:1.0.IDL/Common/!ICESMS/ACPCRTD!ICESMSLB/CRT.LB!-1",
	})
	var resp resdto.SessionResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
	require.Equal(s.T(), "ready", resp.State)
	return resp
}

func (s *sessionSuite) TestAssignAndSave() {
	s.Run("stages seats, saves them and closes the session", func() {
		sess := s.open()
		s.Equal("QWERTY", sess.RecordLocator)
		s.Require().NotNil(sess.SeatMap)
		s.Equal([]string{"A", "B", "C", "|", "D", "E", "F"}, sess.SeatMap.Letters)

		base := sessionsURL + "/" + sess.ID
		for _, body := range []map[string]any{
			{"passengerId": "1", "seatLabel": "10A"},
			{"passengerId": "2", "seatLabel": "10B"},
		} {
			rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, base+"/assignments", body, nil)
			httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		}

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, base, nil, nil)
		var staged resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &staged)
		s.Equal(2, staged.Pending)
		s.Require().Len(staged.SeatFees, 1)
		s.Equal("25.00", staged.SeatFees[0].Amount)

		b := builder.NewReservationBuilder()
		b.Passengers[0].Seats = []builder.SeatXML{{Label: "10A", SegmentNumber: "1"}}
		b.Passengers[1].Seats = []builder.SeatXML{{Label: "10B", SegmentNumber: "1"}}
		s.SWS.Respond(sws.ActionGetReservation, b.BuildXML())

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, base+"/save", nil, nil)
		var saved resdto.SaveResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &saved)
		s.Equal(2, saved.Submitted)
		s.Equal("closed", saved.Session.State)
		s.Contains(s.SWS.Calls(), sws.ActionAssignSeats)
	})

	s.Run("rejected save keeps the session open", func() {
		sess := s.open()
		base := sessionsURL + "/" + sess.ID

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, base+"/assignments", map[string]any{
			"passengerId": "1",
			"seatLabel":   "11B",
		}, nil)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)

		s.SWS.Respond(sws.ActionAssignSeats, []byte(`<AirSeatRS><Errors><Error>SEAT 11B NOT AVAILABLE</Error></Errors></AirSeatRS>`))

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, base+"/save", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "backend_rejection")

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, base, nil, nil)
		var after resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &after)
		s.Equal("ready", after.State)
		s.Equal(1, after.Pending)
		s.Contains(after.LastError, "SEAT 11B NOT AVAILABLE")
	})
}

func (s *sessionSuite) TestNoActiveReservation() {
	s.SWS.Respond(sws.ActionGetReservation, []byte(`<GetReservationRS><Errors><Error>NO ACTIVE PNR</Error></Errors></GetReservationRS>`))

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, sessionsURL, map[string]any{"sessionToken": "tok"}, nil)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "no_active_reservation")
}

func (s *sessionSuite) TestCloseSession() {
	sess := s.open()

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, sessionsURL+"/"+sess.ID, nil, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, sessionsURL+"/"+sess.ID, nil, nil)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "session_not_found")
}
