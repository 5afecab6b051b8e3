package logging

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
	assert.Equal(t, log.InfoLevel, ParseLevel("shouting"))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.DebugLevel)

	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, log.Default(), FromContext(context.Background()))
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(New(&buf, log.InfoLevel))
	p.Done("extracted outline", "nodes", 4)

	out := buf.String()
	assert.Contains(t, out, "extracted outline")
	assert.Contains(t, out, "nodes=4")
	assert.Contains(t, out, "elapsed=")
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel)

	var got *log.Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Same(t, l, got)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	line := buf.String()
	assert.True(t, strings.Contains(line, "path=/health"), line)
	assert.Contains(t, line, "status=418")
	assert.Contains(t, line, "bytes=15")
}
