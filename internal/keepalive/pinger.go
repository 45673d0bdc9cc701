// Package keepalive pings a URL on a fixed interval so that a backend hosted
// on a platform that idles inactive services stays warm.
package keepalive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/csg33k/employee-directory/internal/logger"
)

// DefaultTimeout bounds a single ping.
const DefaultTimeout = 30 * time.Second

type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
}

// New returns a pinger for url. An empty url yields a pinger whose Run only
// logs a warning and waits for shutdown.
func New(url string, interval time.Duration) *Pinger {
	return &Pinger{url: url, interval: interval, client: &http.Client{Timeout: DefaultTimeout}}
}

// Ping performs one GET and returns the response status.
func (p *Pinger) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build keep-alive request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Run pings every interval until ctx is done. Failures are logged and never
// stop the loop.
func (p *Pinger) Run(ctx context.Context) error {
	if p.url == "" {
		logger.WarnLog(ctx, "keep-alive URL not configured, pinger disabled")
		<-ctx.Done()
		return nil
	}
	if p.interval <= 0 {
		return fmt.Errorf("keep-alive interval must be positive, got %s", p.interval)
	}

	logger.InfoLog(ctx, "keep-alive pinger started, pinging %s every %s", p.url, p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoLog(ctx, "keep-alive pinger stopped")
			return nil
		case <-ticker.C:
			status, err := p.Ping(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				logger.ErrorErr(ctx, err, "keep-alive ping failed")
				continue
			}
			logger.InfoLog(ctx, "keep-alive ping successful: %d", status)
		}
	}
}
