package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStrategy struct {
	name   string
	html   string
	err    error
	calls  int
	lastTo string
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(_ context.Context, rawURL string) (string, error) {
	s.calls++
	s.lastTo = rawURL
	return s.html, s.err
}

func TestWebsiteFetcher_FirstTierWins(t *testing.T) {
	render := &stubStrategy{name: "headless", html: "<html>rendered</html>"}
	fallback := &stubStrategy{name: "http", html: "<html>plain</html>"}

	f := New(zap.NewNop(), render, fallback)
	got := f.Fetch(context.Background(), "https://example.test")

	assert.Equal(t, "<html>rendered</html>", got)
	assert.Equal(t, 1, render.calls)
	assert.Zero(t, fallback.calls, "fallback must not run when the render succeeds")
}

func TestWebsiteFetcher_FallsBackOnRenderFailure(t *testing.T) {
	render := &stubStrategy{name: "headless", err: errors.New("browser crashed")}
	fallback := &stubStrategy{name: "http", html: "<html>plain</html>"}

	f := New(zap.NewNop(), render, fallback)
	assert.Equal(t, "<html>plain</html>", f.Fetch(context.Background(), "https://example.test"))
	assert.Equal(t, 1, fallback.calls)
}

func TestWebsiteFetcher_TotalFailureReturnsEmpty(t *testing.T) {
	render := &stubStrategy{name: "headless", err: errors.New("timeout")}
	fallback := &stubStrategy{name: "http", err: errors.New("unreachable")}

	f := New(zap.NewNop(), render, fallback)
	assert.Empty(t, f.Fetch(context.Background(), "https://unreachable.test"))
}

func TestWebsiteFetcher_NormalizesScheme(t *testing.T) {
	s := &stubStrategy{name: "http", html: "ok"}
	f := New(zap.NewNop(), s)
	f.Fetch(context.Background(), "example.test")
	assert.Equal(t, "https://example.test", s.lastTo)
}

func TestWebsiteFetcher_FetchStaticSkipsRenderTier(t *testing.T) {
	render := &stubStrategy{name: "headless", html: "<html>rendered</html>"}
	fallback := &stubStrategy{name: "http", html: "<html>plain</html>"}

	f := New(zap.NewNop(), render, fallback)
	assert.Equal(t, "<html>plain</html>", f.FetchStatic(context.Background(), "https://example.test"))
	assert.Zero(t, render.calls)
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>hello</body></html>")
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Config{UserAgent: "test-agent"})
	html, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "hello")
}

func TestHTTPFetcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Config{UserAgent: "test-agent"})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestHTTPFetcher_UnreachableHost(t *testing.T) {
	f := NewHTTPFetcher(Config{UserAgent: "test-agent"})
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
}

func TestNewChromedpRenderer_Disabled(t *testing.T) {
	_, err := NewChromedpRenderer(Config{RenderEnabled: false}, zap.NewNop())
	require.ErrorIs(t, err, ErrRendererDisabled)
}

func TestChromedpRenderer_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<!doctype html><html><body><script>document.body.innerHTML = '<a href="https://instagram.com/late">late</a>';</script></body></html>`)
	}))
	defer srv.Close()

	renderer, err := NewChromedpRenderer(Config{
		UserAgent:     "test-agent",
		RenderEnabled: true,
	}, zap.NewNop())
	if err != nil {
		t.Skipf("chromedp unavailable: %v", err)
	}
	defer renderer.Close()

	html, err := renderer.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Skipf("render failed: %v", err)
	}
	assert.Contains(t, html, "instagram.com/late")
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"example.test", "https://example.test"},
		{"http://example.test", "http://example.test"},
		{"https://example.test", "https://example.test"},
		{"  example.test ", "https://example.test"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeURL(tc.in))
	}
}
