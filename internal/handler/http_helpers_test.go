package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notekeeper/internal/metrics"
	"github.com/notekeeper/internal/service"
)

func TestSafeRedirectTarget(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{next: "/notes/", want: "/notes/"},
		{next: "", want: "/"},
		{next: "https://evil.example", want: "/"},
		{next: "//evil.example", want: "/"},
		{next: `/\evil.example`, want: "/"},
	}

	for _, tt := range tests {
		if got := safeRedirectTarget(tt.next, "/"); got != tt.want {
			t.Fatalf("safeRedirectTarget(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}

func TestNoteOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: metrics.OutcomeOK},
		{err: &service.SlugConflictError{Slug: "x"}, want: metrics.OutcomeConflict},
		{err: service.ErrNoteNotFound, want: metrics.OutcomeNotFound},
		{err: service.ErrTitleRequired, want: metrics.OutcomeInvalid},
		{err: errors.New("boom"), want: metrics.OutcomeError},
	}

	for _, tt := range tests {
		if got := noteOutcome(tt.err); got != tt.want {
			t.Fatalf("noteOutcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html, err := renderMarkdown("**bold**\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("renderMarkdown returned error: %v", err)
	}
	if !strings.Contains(string(html), "<strong>bold</strong>") {
		t.Fatalf("expected bold markup, got %q", html)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected script to be stripped, got %q", html)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, requestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(requestIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Fatalf("expected generated request id, header %q body %q", generated, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected incoming request id to be kept, got %q", got)
	}
}

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(actorContextKey, service.Anonymous)
		c.Next()
	})
	r.GET("/add/", AuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		path string
		want string
	}{
		{path: "/add/", want: "/auth/login/?next=/add/"},
		{path: "/add/?from=home&x=1", want: "/auth/login/?next=/add/%3Ffrom%3Dhome%26x%3D1"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

		if w.Code != http.StatusFound {
			t.Fatalf("%s: expected status 302, got %d", tt.path, w.Code)
		}
		if got := w.Header().Get("Location"); got != tt.want {
			t.Fatalf("%s: expected redirect %q, got %q", tt.path, tt.want, got)
		}
	}
}
