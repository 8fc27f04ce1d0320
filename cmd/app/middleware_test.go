package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	app.recoverPanic(handler).ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestRequestID(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	existing := uuid.NewString()

	testCases := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "generated", header: ""},
		{name: "invalid header replaced", header: "not-a-uuid"},
		{name: "reused", header: existing, expected: existing},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = app.getRequestID(r)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(requestIDHeader, tc.header)
			}
			res := httptest.NewRecorder()

			app.requestID(handler).ServeHTTP(res, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, seen, res.Header().Get(requestIDHeader))
			if tc.expected != "" {
				assert.Equal(t, tc.expected, seen)
			}
		})
	}
}

func TestLogRequest(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	var buf bytes.Buffer
	app.logger = zerolog.New(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/posts?q=Why", nil)
	res := httptest.NewRecorder()

	app.logRequest(handler).ServeHTTP(res, req)

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"uri":"/v1/posts?q=Why"`)
}

func TestRateLimit(t *testing.T) {
	testCases := []struct {
		name     string
		enabled  bool
		requests int
		limited  int
	}{
		{name: "enabled", enabled: true, requests: 6, limited: 2},
		{name: "disabled", enabled: false, requests: 6, limited: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := newTestApplication(t, nil)
			app.config.RateLimitEnabled = tc.enabled
			app.limiter = newRateLimiter(0.001, 4)

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			mw := app.rateLimit(handler)

			limited := 0
			for i := 0; i < tc.requests; i++ {
				res := httptest.NewRecorder()
				mw.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
				if res.Code == http.StatusTooManyRequests {
					limited++
				}
			}

			assert.Equal(t, tc.limited, limited)
		})
	}
}
