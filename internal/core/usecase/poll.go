package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
	"github.com/mlobankov/resume-pilot/internal/core/ports"
)

// Poller owns the poll cadence the store deliberately does not: it calls
// the result-fetch operations at a fixed rate until the backend reports a
// terminal status or the deadline passes.
type Poller struct {
	interval time.Duration
	timeout  time.Duration
}

func NewPoller(interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Poller{interval: interval, timeout: timeout}
}

// AwaitParse polls GetParseResult until the résumé leaves processing.
// The last fetched entity is returned alongside a deadline error so the
// caller can still show the freshest known state.
func (p *Poller) AwaitParse(ctx context.Context, lib ports.ResumeOrchestrator, resumeID int64) (*domain.Resume, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(p.interval), 1)
	var last *domain.Resume
	for {
		if err := limiter.Wait(ctx); err != nil {
			return last, fmt.Errorf("parse polling: %w", err)
		}
		resume, err := lib.GetParseResult(ctx, resumeID)
		if err != nil {
			return last, err
		}
		last = resume
		if resume.Status.Terminal() {
			return resume, nil
		}
	}
}

// AwaitAnalysis polls GetAnalysisResult until the run reports completed or
// failed. Intermediate statuses are cached by the store as they arrive.
func (p *Poller) AwaitAnalysis(ctx context.Context, lib ports.ResumeOrchestrator, analysisID string) (*domain.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(p.interval), 1)
	var last *domain.AnalysisResult
	for {
		if err := limiter.Wait(ctx); err != nil {
			return last, fmt.Errorf("analysis polling: %w", err)
		}
		result, err := lib.GetAnalysisResult(ctx, analysisID)
		if err != nil {
			return last, err
		}
		last = result
		if result.Status == string(domain.StatusCompleted) || result.Status == string(domain.StatusFailed) {
			return result, nil
		}
	}
}
