package prebuilt

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/nodeflow/core/node"
	"github.com/leofalp/nodeflow/internal/utils"
)

const (
	pageFetchTimeout = 30 * time.Second
	pageMaxBodySize  = 10 * 1024 * 1024
	pageUserAgent    = "nodeflow-page-reader/1.0"
	pageMaxRedirects = 10
)

// pageClient bounds connection setup and caps redirects for page fetches.
var pageClient = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
	},
	CheckRedirect: func(_ *http.Request, via []*http.Request) error {
		if len(via) >= pageMaxRedirects {
			return fmt.Errorf("too many redirects (>%d)", pageMaxRedirects)
		}
		return nil
	},
}

// PageReader returns a node that fetches the web page named by the required
// url key, converts its HTML to Markdown, and stores the result under
// [KeyPageContent] with the final URL after redirects under [KeyPageURL].
//
// Partial URLs are normalised by prepending "https://". Responses are capped
// at 10MB and the fetch carries a 30 second timeout on top of the caller's
// context.
func PageReader() (*node.Node, error) {
	return node.NewFunc("page_reader", readPage,
		[]node.Param{node.Required("url")},
		node.WithSink(KeyPageContent, KeyPageURL),
	)
}

func readPage(ctx context.Context, args node.Args) (any, error) {
	url := strings.TrimSpace(args.String("url"))
	if url == "" {
		return nil, fmt.Errorf("url is empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	ctx, cancel := context.WithTimeout(ctx, pageFetchTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	request.Header.Set("User-Agent", pageUserAgent)

	response, err := pageClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer utils.CloseWithLog(response.Body)

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d %s", url, response.StatusCode, response.Status)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, pageMaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if len(body) > pageMaxBodySize {
		return nil, fmt.Errorf("reading %s: body exceeds %d bytes", url, pageMaxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return nil, fmt.Errorf("converting %s to markdown: %w", url, err)
	}

	return []string{markdown, response.Request.URL.String()}, nil
}
