package service

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// progressLogInterval is how often a long stream reports progress.
const progressLogInterval = 30 * time.Second

// progressReader wraps an io.ReadCloser to log how much of an artifact
// has been sent to the client.
type progressReader struct {
	reader  io.ReadCloser
	total   int64
	sent    int64
	started time.Time
	lastLog time.Time
	logger  *slog.Logger
	mu      sync.Mutex
	closed  bool
}

func newProgressReader(r io.ReadCloser, total int64, logger *slog.Logger) *progressReader {
	now := time.Now()
	return &progressReader{
		reader:  r,
		total:   total,
		started: now,
		lastLog: now,
		logger:  logger,
	}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)

	p.mu.Lock()
	defer p.mu.Unlock()

	if n > 0 {
		p.sent += int64(n)
		if time.Since(p.lastLog) > progressLogInterval {
			p.logProgress("stream progress")
			p.lastLog = time.Now()
		}
	}
	return n, err
}

// Close closes the underlying reader once; later calls return nil.
func (p *progressReader) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.logProgress("stream finished")
	p.mu.Unlock()

	return p.reader.Close()
}

func (p *progressReader) Sent() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent
}

func (p *progressReader) logProgress(msg string) {
	attrs := []any{
		"sent_mb", p.sent / (1024 * 1024),
		"elapsed", time.Since(p.started).Round(time.Millisecond),
	}
	if p.total > 0 {
		pct := float64(p.sent) / float64(p.total) * 100
		attrs = append(attrs,
			"total_mb", p.total/(1024*1024),
			"percent", fmt.Sprintf("%.1f%%", pct),
		)
	}
	p.logger.Info(msg, attrs...)
}
