package api

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"enhanced-seatmap/internal/handler/httperr"
	"enhanced-seatmap/internal/pkg/errs"
	"enhanced-seatmap/internal/usecase/upload"
)

var errBodyTooLarge = errs.New("upload body exceeds the size limit")

type UploadHandler struct {
	uploader     upload.Uploader
	maxBodyBytes int64
}

func NewUploadHandler(uploader upload.Uploader, maxBodyBytes int64) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxBodyBytes: maxBodyBytes}
}

// @Summary Relay an XML document to object storage
// @Description Store the raw request body under a generated key. Gzip bodies are inflated first.
// @Tags relay
// @Accept xml
// @Produce plain
// @Param X-Auth header string true "Shared secret"
// @Success 200 {string} string "Uploaded as <key>"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 413 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	body, err := h.readBody(c.Request)
	if err != nil {
		switch {
		case errs.Is(err, errBodyTooLarge):
			httperr.AbortWithError(c, http.StatusRequestEntityTooLarge, err, "Request body too large", nil)
		default:
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable request body", nil)
		}
		return
	}

	key, err := h.uploader.Upload(c.Request.Context(), body)
	if err != nil {
		switch {
		case errs.Is(err, upload.ErrEmptyBody):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Request body is empty", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Upload failed", nil)
		}
		return
	}
	c.String(http.StatusOK, "Uploaded as %s", key)
}

// readBody inflates gzip bodies and enforces the size limit on the inflated
// bytes.
func (h *UploadHandler) readBody(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(h.limit(r.Body))
	if err != nil {
		return nil, errs.Wrap(err, "failed to read body")
	}
	if h.maxBodyBytes > 0 && int64(len(raw)) > h.maxBodyBytes {
		return nil, errBodyTooLarge
	}

	var src io.Reader = bytes.NewReader(raw)
	if isGzip(r.Header.Get("Content-Encoding"), raw) {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errs.Wrap(err, "invalid gzip body")
		}
		defer zr.Close()
		src = zr
	}

	body, err := io.ReadAll(h.limit(src))
	if err != nil {
		return nil, errs.Wrap(err, "failed to inflate body")
	}
	if h.maxBodyBytes > 0 && int64(len(body)) > h.maxBodyBytes {
		return nil, errBodyTooLarge
	}
	return body, nil
}

// limit reads at most one byte past the limit so an oversized body is detected.
func (h *UploadHandler) limit(r io.Reader) io.Reader {
	if h.maxBodyBytes <= 0 {
		return r
	}
	return io.LimitReader(r, h.maxBodyBytes+1)
}

// isGzip trusts the header and otherwise sniffs the gzip magic bytes.
func isGzip(encoding string, raw []byte) bool {
	if strings.EqualFold(strings.TrimSpace(encoding), "gzip") {
		return true
	}
	return len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b
}
