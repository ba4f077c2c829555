// Package collyfetcher implements analyzer.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/user/page-analyzer/internal/analyzer"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// DefaultTimeout bounds a fetch when the config leaves it unset, so one
// slow remote page cannot pin a request indefinitely.
const DefaultTimeout = 10 * time.Second

// Fetcher performs single-page GETs with the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	c.WithTransport(newHTTPTransport())
	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch executes one HTTP GET against origin. Any returned status code,
// 4xx and 5xx included, is a successful outcome carrying that code; only
// transport-level failures produce an error.
func (f *Fetcher) Fetch(ctx context.Context, origin string) (analyzer.FetchResult, error) {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	collector.SetRequestTimeout(timeout)

	var (
		result   analyzer.FetchResult
		got      bool
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		result = analyzer.FetchResult{
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
		got = true
	})
	collector.OnError(func(r *colly.Response, err error) {
		// Colly reports HTTP error statuses through OnError; a response
		// carrying a status code is still a completed fetch here.
		if r != nil && r.StatusCode > 0 {
			result = analyzer.FetchResult{
				StatusCode: r.StatusCode,
				Body:       append([]byte(nil), r.Body...),
			}
			got = true
			return
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(origin)
	}()

	select {
	case <-ctx.Done():
		return analyzer.FetchResult{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if got {
			return result, nil
		}
		if fetchErr != nil {
			return analyzer.FetchResult{}, fmt.Errorf("fetch failed: %w", fetchErr)
		}
		if err != nil {
			return analyzer.FetchResult{}, fmt.Errorf("fetch failed: %w", err)
		}
		return analyzer.FetchResult{}, fmt.Errorf("fetch produced no response")
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
