package origins

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"advohub/pkg/requestcontext"
)

type ClientSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	lastReq  *http.Request
	lastBody []byte
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.handler = nil
	s.lastReq = nil
	s.lastBody = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastReq = r
		s.lastBody, _ = io.ReadAll(r.Body)
		s.handler(w, r)
	}))
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) respond(status int, body string) {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *ClientSuite) TestList_ForwardsParamsAndHeaders() {
	s.respond(http.StatusOK, `{"success":true,"data":[{"_id":"v1"}],"pagination":{"page":1,"limit":50,"total":1,"totalPages":1}}`)
	client := NewVolunteerClient(s.server.URL+"/", WithToken("origin-token"))

	ctx := requestcontext.WithRequestID(context.Background(), "req-123")
	resp, err := client.List(ctx, ListParams{Page: 1, Limit: 50})
	s.Require().NoError(err)

	s.True(resp.Success)
	s.JSONEq(`[{"_id":"v1"}]`, string(resp.Data))
	s.Require().NotNil(resp.Pagination)
	s.Equal(1, resp.Pagination.Total)

	s.Equal("/volunteers", s.lastReq.URL.Path)
	s.Equal("1", s.lastReq.URL.Query().Get("page"))
	s.Equal("50", s.lastReq.URL.Query().Get("limit"))
	s.Len(s.lastReq.URL.Query(), 2, "only paging is sent; filtering happens on the snapshot")
	s.Equal("Bearer origin-token", s.lastReq.Header.Get("Authorization"))
	s.Equal("req-123", s.lastReq.Header.Get("X-Request-ID"))
}

func (s *ClientSuite) TestList_KeepsAdminWrapperRaw() {
	s.respond(http.StatusOK, `{"success":true,"data":{"admins":[{"_id":"a1","role":"Admin"}]}}`)
	client := NewAdminClient(s.server.URL)

	resp, err := client.List(context.Background(), ListParams{})
	s.Require().NoError(err)
	s.JSONEq(`{"admins":[{"_id":"a1","role":"Admin"}]}`, string(resp.Data))
	s.Equal("/admins", s.lastReq.URL.Path)
	s.Empty(s.lastReq.URL.RawQuery)
}

func (s *ClientSuite) TestList_UnsuccessfulEnvelopeIsReturned() {
	s.respond(http.StatusOK, `{"success":false,"message":"maintenance"}`)
	client := NewContactClient(s.server.URL)

	resp, err := client.List(context.Background(), ListParams{})
	s.Require().NoError(err)
	s.False(resp.Success)
	s.Equal("maintenance", resp.Message)
}

func (s *ClientSuite) TestErrorCategories() {
	cases := []struct {
		name     string
		status   int
		body     string
		category ErrorCategory
		message  string
	}{
		{"not found carries origin message", http.StatusNotFound, `{"success":false,"message":"Volunteer not found"}`, ErrorNotFound, "Volunteer not found"},
		{"unauthorized", http.StatusUnauthorized, `{"error":"token expired"}`, ErrorAuthentication, "token expired"},
		{"rate limited", http.StatusTooManyRequests, ``, ErrorRateLimited, "429 Too Many Requests"},
		{"server error", http.StatusBadGateway, `<html>`, ErrorOutage, "502 Bad Gateway"},
		{"validation rejected", http.StatusUnprocessableEntity, `{"message":"email taken"}`, ErrorRejected, "email taken"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.respond(tc.status, tc.body)
			client := NewVolunteerClient(s.server.URL)

			_, err := client.Update(context.Background(), "v1", map[string]any{"status": "approved"})
			s.Require().Error(err)
			s.Equal(tc.category, CategoryOf(err))
			s.Equal(tc.message, MessageOf(err))
		})
	}
}

func (s *ClientSuite) TestUpdate_SendsPatch() {
	s.respond(http.StatusOK, `{"success":true,"message":"Volunteer updated"}`)
	client := NewVolunteerClient(s.server.URL)

	resp, err := client.Update(context.Background(), "v/1", map[string]any{"status": "approved"})
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(http.MethodPut, s.lastReq.Method)
	s.Equal("/volunteers/v%2F1", s.lastReq.URL.EscapedPath())

	var body map[string]any
	s.Require().NoError(json.Unmarshal(s.lastBody, &body))
	s.Equal("approved", body["status"])
}

func (s *ClientSuite) TestAdminToggleAndDelete() {
	s.respond(http.StatusOK, `{"success":true,"message":"ok"}`)
	client := NewAdminClient(s.server.URL)

	_, err := client.ToggleStatus(context.Background(), "a1")
	s.Require().NoError(err)
	s.Equal(http.MethodPatch, s.lastReq.Method)
	s.Equal("/admins/a1/toggle-status", s.lastReq.URL.Path)

	_, err = client.Delete(context.Background(), "a1")
	s.Require().NoError(err)
	s.Equal(http.MethodDelete, s.lastReq.Method)
	s.Equal("/admins/a1", s.lastReq.URL.Path)
}

func (s *ClientSuite) TestMalformedEnvelope() {
	s.respond(http.StatusOK, `not json`)
	client := NewCommunityClient(s.server.URL)

	_, err := client.List(context.Background(), ListParams{})
	s.Require().Error(err)
	s.Equal(ErrorBadData, CategoryOf(err))
}

func (s *ClientSuite) TestBodilessSuccessAcknowledgesMutation() {
	s.respond(http.StatusNoContent, ``)
	client := NewVolunteerClient(s.server.URL, WithFailureThreshold(1))

	resp, err := client.Delete(context.Background(), "v1")
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(http.MethodDelete, s.lastReq.Method)
	s.False(client.Degraded())
}

func (s *ClientSuite) TestBodilessListIsBadData() {
	s.respond(http.StatusOK, ``)
	client := NewVolunteerClient(s.server.URL)

	_, err := client.List(context.Background(), ListParams{})
	s.Require().Error(err)
	s.Equal(ErrorBadData, CategoryOf(err))
}

func (s *ClientSuite) TestBreakerMarksOriginDegraded() {
	s.respond(http.StatusServiceUnavailable, ``)
	client := NewCommunityClient(s.server.URL, WithFailureThreshold(2))

	_, _ = client.List(context.Background(), ListParams{})
	s.False(client.Degraded())
	_, _ = client.List(context.Background(), ListParams{})
	s.True(client.Degraded())

	// request-level rejections do not count against origin health
	s.respond(http.StatusNotFound, `{"message":"gone"}`)
	other := NewCommunityClient(s.server.URL, WithFailureThreshold(1))
	_, _ = other.Delete(context.Background(), "x")
	s.False(other.Degraded())
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewContactClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.List(ctx, ListParams{})
	require.Error(t, err)
	assert.Equal(t, ErrorTimeout, CategoryOf(err))
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewContactClient(url).List(context.Background(), ListParams{})
	require.Error(t, err)
	assert.Equal(t, ErrorOutage, CategoryOf(err))
}
