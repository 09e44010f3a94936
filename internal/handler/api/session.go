package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enhanced-seatmap/internal/domain/reservation"
	reqdto "enhanced-seatmap/internal/handler/dto/request"
	resdto "enhanced-seatmap/internal/handler/dto/response"
	"enhanced-seatmap/internal/handler/httperr"
	"enhanced-seatmap/internal/pkg/errs"
	"enhanced-seatmap/internal/usecase/session"
)

const SessionTokenHeader = "X-Sws-Session"

type SessionHandler struct {
	sessions session.Sessions
}

func NewSessionHandler(sessions session.Sessions) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// @Summary Open seat map session
// @Description Load the active reservation and the seat map of its first segment
// @Tags sessions
// @Accept json
// @Produce json
// @Param X-Sws-Session header string false "Back-end session token"
// @Param request body reqdto.OpenSessionRequest false "Session token"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /api/sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	var req reqdto.OpenSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
			return
		}
	}
	token := req.Token(c.GetHeader(SessionTokenHeader))
	if token == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("missing session token"), "Session token is required", nil)
		return
	}

	d, err := h.sessions.Open(c.Request.Context(), token)
	if err != nil {
		var detail any
		if d != nil {
			detail = gin.H{"sessionId": d.ID(), "state": string(d.Snapshot().State)}
		}
		abortWithSessionError(c, err, detail)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSnapshot(d.Snapshot()))
}

// @Summary Get seat map session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} httperr.Response
// @Router /api/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(d.Snapshot()))
}

// @Summary Change segment or cabin
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.SelectSegmentRequest true "Selection"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/sessions/{id}/selection [put]
func (h *SessionHandler) SelectSegment(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	var req reqdto.SelectSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	cabin, err := req.CabinClass()
	if err != nil {
		abortWithSessionError(c, errs.Mark(err, session.ErrInvalidCabin), nil)
		return
	}
	if err := d.SelectSegment(c.Request.Context(), req.SegmentNumber, cabin); err != nil {
		abortWithSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(d.Snapshot()))
}

// @Summary Select passenger
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.SelectPassengerRequest true "Passenger"
// @Success 200 {object} resdto.SessionResponse
// @Router /api/sessions/{id}/passenger [put]
func (h *SessionHandler) SelectPassenger(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	var req reqdto.SelectPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	if err := d.SelectPassenger(reservation.PassengerID(req.PassengerID)); err != nil {
		abortWithSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(d.Snapshot()))
}

// @Summary Assign seat locally
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.AssignSeatRequest true "Seat"
// @Success 200 {object} resdto.SessionResponse
// @Router /api/sessions/{id}/assignments [post]
func (h *SessionHandler) AssignSeat(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	var req reqdto.AssignSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	if _, err := d.AssignSeat(reservation.PassengerID(req.PassengerID), req.SegmentNumber, req.SeatLabel); err != nil {
		abortWithSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(d.Snapshot()))
}

// @Summary Clear a staged seat
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param passengerId path string true "Passenger ID"
// @Param segmentNumber path string true "Segment number"
// @Success 200 {object} resdto.SessionResponse
// @Router /api/sessions/{id}/assignments/{passengerId}/{segmentNumber} [delete]
func (h *SessionHandler) ClearAssignment(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	err := d.ClearAssignment(reservation.PassengerID(c.Param("passengerId")), c.Param("segmentNumber"))
	if err != nil {
		abortWithSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(d.Snapshot()))
}

// @Summary Auto assign the selected segment
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.AutoAssignResponse
// @Router /api/sessions/{id}/auto-assign [post]
func (h *SessionHandler) AutoAssign(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	assigned, err := d.AutoAssign()
	if err != nil {
		abortWithSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.AutoAssignResponse{
		Assigned: resdto.FromAssignments(assigned),
		Session:  resdto.FromSnapshot(d.Snapshot()),
	})
}

// @Summary Save staged seats
// @Description Send every staged seat in one request. The session closes on success.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SaveResponse
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /api/sessions/{id}/save [post]
func (h *SessionHandler) Save(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	result, err := d.Save(c.Request.Context())
	if err != nil {
		abortWithSessionError(c, err, gin.H{"submitted": len(result.Submitted)})
		return
	}
	c.JSON(http.StatusOK, resdto.SaveResponse{
		Submitted: len(result.Submitted),
		Skipped:   result.Skipped,
		Session:   resdto.FromSnapshot(d.Snapshot()),
	})
}

// @Summary Cancel a confirmed seat
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.CancelSeatRequest true "Seat and confirmation"
// @Success 200 {object} resdto.SessionResponse
// @Failure 412 {object} httperr.Response
// @Router /api/sessions/{id}/cancel [post]
func (h *SessionHandler) CancelSeat(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	var req reqdto.CancelSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	err := d.CancelSeat(c.Request.Context(), reservation.PassengerID(req.PassengerID), req.SegmentNumber, session.StaticConfirmer(req.Confirm))
	if err != nil {
		abortWithSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(d.Snapshot()))
}

// @Summary Reset all seats
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.ResetRequest true "Confirmation"
// @Success 200 {object} resdto.SessionResponse
// @Failure 412 {object} httperr.Response
// @Router /api/sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	d, ok := h.driver(c)
	if !ok {
		return
	}
	var req reqdto.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	if err := d.Reset(c.Request.Context(), session.StaticConfirmer(req.Confirm)); err != nil {
		abortWithSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(d.Snapshot()))
}

// @Summary Close seat map session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Router /api/sessions/{id} [delete]
func (h *SessionHandler) Close(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		abortWithSessionError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) driver(c *gin.Context) (*session.Driver, bool) {
	d, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		abortWithSessionError(c, err, nil)
		return nil, false
	}
	return d, true
}

// abortWithSessionError maps the session error taxonomy onto HTTP statuses.
// Kind tells the UI which message to show.
func abortWithSessionError(c *gin.Context, err error, detail any) {
	switch {
	case errs.Is(err, session.ErrSessionNotFound):
		httperr.AbortWithKind(c, http.StatusNotFound, err, "session_not_found", "Session not found", detail)
	case errs.Is(err, session.ErrNoActiveReservation):
		httperr.AbortWithKind(c, http.StatusUnprocessableEntity, err, "no_active_reservation", "No active reservation", detail)
	case errs.Is(err, session.ErrUnknownPassenger):
		httperr.AbortWithKind(c, http.StatusBadRequest, err, "unknown_passenger", "Unknown passenger", detail)
	case errs.Is(err, session.ErrUnknownSegment):
		httperr.AbortWithKind(c, http.StatusBadRequest, err, "unknown_segment", "Unknown segment", detail)
	case errs.Is(err, session.ErrIncompleteSegment):
		httperr.AbortWithKind(c, http.StatusUnprocessableEntity, err, "incomplete_segment", "Segment lacks flight details for a seat map", detail)
	case errs.Is(err, session.ErrInvalidCabin):
		httperr.AbortWithKind(c, http.StatusBadRequest, err, "invalid_cabin", "Invalid cabin class", detail)
	case errs.Is(err, session.ErrSeatNotOnMap):
		httperr.AbortWithKind(c, http.StatusBadRequest, err, "seat_not_on_map", "Seat is not on the seat map", detail)
	case errs.Is(err, session.ErrNothingToCancel):
		httperr.AbortWithKind(c, http.StatusBadRequest, err, "nothing_to_cancel", "No confirmed seat to cancel", detail)
	case errs.Is(err, session.ErrNotConfirmed):
		httperr.AbortWithKind(c, http.StatusPreconditionFailed, err, "not_confirmed", "Action requires confirmation", detail)
	case errs.Is(err, session.ErrSuperseded):
		httperr.AbortWithKind(c, http.StatusConflict, err, "superseded", "Selection changed while loading", detail)
	case errs.Is(err, session.ErrInvalidState):
		httperr.AbortWithKind(c, http.StatusConflict, err, "invalid_state", "Operation not allowed now", detail)
	case errs.Is(err, session.ErrRefreshFailed):
		httperr.AbortWithKind(c, http.StatusBadGateway, err, "refresh_failed", "Saved, but the reservation could not be reloaded", detail)
	case errs.Is(err, session.ErrBackendRejection):
		httperr.AbortWithKind(c, http.StatusUnprocessableEntity, err, "backend_rejection", "The reservation system rejected the request", detail)
	case errs.Is(err, session.ErrTimeout):
		httperr.AbortWithKind(c, http.StatusGatewayTimeout, err, "timeout", "The reservation system did not answer in time", detail)
	case errs.Is(err, session.ErrParse):
		httperr.AbortWithKind(c, http.StatusBadGateway, err, "parse", "The reservation system sent an unreadable response", detail)
	case errs.Is(err, session.ErrTransport):
		httperr.AbortWithKind(c, http.StatusBadGateway, err, "transport", "The reservation system could not be reached", detail)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", detail)
	}
}
