package prebuilt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leofalp/nodeflow/core/node"
	"github.com/leofalp/nodeflow/core/state"
)

const samplePage = `<html><head><title>Sample</title></head>
<body><h1>Welcome</h1><p>Hello <strong>world</strong>, this is a <a href="/docs">link</a>.</p></body></html>`

func newPageReader(t *testing.T) *node.Node {
	t.Helper()
	reader, err := PageReader()
	if err != nil {
		t.Fatalf("PageReader failed: %v", err)
	}
	return reader
}

func TestPageReader_ConvertsHTMLToMarkdown(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(samplePage)); err != nil {
			t.Fatalf("failed to write page: %v", err)
		}
	}))
	defer server.Close()

	reader := newPageReader(t)
	s := state.New()
	s["url"] = server.URL

	result, err := reader.Invoke(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	content, ok := result[KeyPageContent].(string)
	if !ok {
		t.Fatalf("page content is %T, want string", result[KeyPageContent])
	}
	if !strings.Contains(content, "# Welcome") {
		t.Errorf("markdown lacks the heading:\n%s", content)
	}
	if !strings.Contains(content, "**world**") {
		t.Errorf("markdown lacks the bold text:\n%s", content)
	}
	if strings.Contains(content, "<strong>") {
		t.Errorf("markdown still carries HTML tags:\n%s", content)
	}

	if result[KeyPageURL] != server.URL {
		t.Errorf("page URL = %v, want %q", result[KeyPageURL], server.URL)
	}
	if userAgent != pageUserAgent {
		t.Errorf("User-Agent = %q, want %q", userAgent, pageUserAgent)
	}
}

func TestPageReader_ReportsFinalURLAfterRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte("<html><body><p>Landed</p></body></html>")); err != nil {
			t.Fatalf("failed to write page: %v", err)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	reader := newPageReader(t)
	s := state.New()
	s["url"] = server.URL + "/start"

	result, err := reader.Invoke(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if result[KeyPageURL] != server.URL+"/final" {
		t.Errorf("page URL = %v, want the redirect target", result[KeyPageURL])
	}
	content, _ := result[KeyPageContent].(string)
	if !strings.Contains(content, "Landed") {
		t.Errorf("markdown lacks the final page content:\n%s", content)
	}
}

func TestPageReader_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	reader := newPageReader(t)
	s := state.New()
	s["url"] = server.URL

	_, err := reader.Invoke(context.Background(), s, nil)
	if err == nil {
		t.Fatal("expected an error for a 404 page")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error does not carry the status: %v", err)
	}
}

func TestPageReader_MissingURL(t *testing.T) {
	reader := newPageReader(t)

	_, err := reader.Invoke(context.Background(), state.New(), nil)
	if err == nil {
		t.Fatal("expected an error without a url")
	}
	if !errors.Is(err, node.ErrValidation) {
		t.Errorf("error does not match ErrValidation: %v", err)
	}
}

func TestPageReader_URLFromInvocationArgs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte("<html><body><p>From args</p></body></html>")); err != nil {
			t.Fatalf("failed to write page: %v", err)
		}
	}))
	defer server.Close()

	reader := newPageReader(t)

	result, err := reader.Invoke(context.Background(), state.New(), nil, node.WithArg("url", server.URL))
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	content, _ := result[KeyPageContent].(string)
	if !strings.Contains(content, "From args") {
		t.Errorf("markdown lacks the page content:\n%s", content)
	}
}
