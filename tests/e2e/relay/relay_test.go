//go:build e2e

package relay_test

import (
	"bytes"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"enhanced-seatmap/internal/handler/middleware"
	"enhanced-seatmap/tests/common/builder"
	"enhanced-seatmap/tests/common/httptest"
	"enhanced-seatmap/tests/e2e"
)

const uploadURL = "/upload"

var uploadedAs = regexp.MustCompile(`^Uploaded as (enhanced-seatmap-\S+\.xml)$`)

type relaySuite struct {
	e2e.SharedSuite
}

func TestRelaySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(relaySuite))
}

func (s *relaySuite) auth() map[string]string {
	return map[string]string{
		middleware.SharedSecretHeader: s.Config.Relay.SharedSecret,
		"Content-Type":                "application/xml",
	}
}

func (s *relaySuite) keyFrom(body string) string {
	m := uploadedAs.FindStringSubmatch(body)
	require.Len(s.T(), m, 2, "unexpected response %q", body)
	return m[1]
}

func (s *relaySuite) TestUpload() {
	doc := builder.NewSeatMapBuilder().BuildXML()

	s.Run("stores the document under a generated key", func() {
		rec := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, uploadURL, doc, s.auth())
		require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

		key := s.keyFrom(rec.Body.String())
		s.Equal(doc, s.ReadObject(key))
	})

	s.Run("two uploads never share a key", func() {
		first := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, uploadURL, doc, s.auth())
		second := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, uploadURL, doc, s.auth())
		require.Equal(s.T(), http.StatusOK, first.Code)
		require.Equal(s.T(), http.StatusOK, second.Code)
		s.NotEqual(s.keyFrom(first.Body.String()), s.keyFrom(second.Body.String()))
	})

	s.Run("gzip bodies are stored inflated", func() {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(doc)
		require.NoError(s.T(), err)
		require.NoError(s.T(), zw.Close())

		headers := s.auth()
		headers["Content-Encoding"] = "gzip"
		rec := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, uploadURL, buf.Bytes(), headers)
		require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

		s.Equal(doc, s.ReadObject(s.keyFrom(rec.Body.String())))
	})

	s.Run("wrong secret is forbidden", func() {
		rec := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, uploadURL, doc, map[string]string{
			middleware.SharedSecretHeader: "nope",
		})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("empty body is rejected", func() {
		rec := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, uploadURL, []byte("  \n"), s.auth())
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("oversized body is rejected", func() {
		big := []byte("<a>" + strings.Repeat("x", int(s.Config.Relay.MaxBodyBytes)) + "</a>")
		rec := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, uploadURL, big, s.auth())
		httptest.AssertErrorResponse(s.T(), rec, http.StatusRequestEntityTooLarge, "")
	})
}
