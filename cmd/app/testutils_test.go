package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/postbook/internal/blogservice"
	"github.com/sushihentaime/postbook/internal/common"
	"github.com/sushihentaime/postbook/internal/postservice"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := m.Called(msg, key, exchange)
	return args.Error(0)
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestConfig() *Config {
	return &Config{
		Environment:      "testing",
		Version:          "test",
		DBDriver:         string(common.SQLite),
		RateLimitEnabled: false,
		RateLimitRPS:     2,
		RateLimitBurst:   4,
		CacheTTL:         time.Minute,
	}
}

func newTestApplication(t *testing.T, producer common.MessageProducer) (*application, *common.Store) {
	store := common.TestStore(t, common.SQLite)
	cfg := newTestConfig()

	app := &application{
		config:      cfg,
		logger:      zerolog.New(io.Discard),
		postService: postservice.NewPostService(store),
		blogService: blogservice.NewBlogService(store, common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)),
		producer:    producer,
		limiter:     newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	return app, store
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var env envelope
	err = json.Unmarshal(responseBody, &env)
	require.NoError(t, err, "body: %s", responseBody)

	return res.StatusCode, res.Header, env
}

func (ts *testServer) do(t *testing.T, method, path string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, nil)
}

func (ts *testServer) post(t *testing.T, path string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, payload)
}

func (ts *testServer) put(t *testing.T, path string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, payload)
}

func (ts *testServer) delete(t *testing.T, path string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, nil)
}

func seedBlogs(t *testing.T, app *application, urls ...string) {
	for _, url := range urls {
		_, err := app.blogService.CreateBlog(context.Background(), url)
		require.NoError(t, err)
	}
}

func seedPost(t *testing.T, app *application, title, content, url string) {
	count, err := app.postService.Add(context.Background(), title, content, url)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
