package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

func TestAwaitParseStopsOnTerminalStatus(t *testing.T) {
	processing := pendingResume(5)
	processing.Status = domain.StatusProcessing
	completed := pendingResume(5)
	completed.Status = domain.StatusCompleted

	gateway := &resumeGatewayFake{
		parseResults: []domain.Resume{processing, processing, completed},
	}
	lib := NewResumeLibrary(gateway, nil)
	poller := NewPoller(time.Millisecond, time.Second)

	resume, err := poller.AwaitParse(context.Background(), lib, 5)
	if err != nil {
		t.Fatalf("AwaitParse() error = %v", err)
	}
	if resume.Status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", resume.Status)
	}
	if gateway.parseResultIdx != 3 {
		t.Fatalf("expected 3 polls, got %d", gateway.parseResultIdx)
	}
}

func TestAwaitParseTimeoutReturnsLastKnownState(t *testing.T) {
	processing := pendingResume(5)
	processing.Status = domain.StatusProcessing

	gateway := &resumeGatewayFake{
		parseResults: []domain.Resume{processing},
	}
	lib := NewResumeLibrary(gateway, nil)
	poller := NewPoller(5*time.Millisecond, 30*time.Millisecond)

	resume, err := poller.AwaitParse(context.Background(), lib, 5)
	if err == nil {
		t.Fatalf("expected a deadline error")
	}
	if resume == nil || resume.Status != domain.StatusProcessing {
		t.Fatalf("the freshest known state must be returned, got %+v", resume)
	}
}

func TestAwaitParsePropagatesFetchError(t *testing.T) {
	gateway := &resumeGatewayFake{
		parseResultErr: domain.WrapError(domain.ErrNotFound, "resume_parse_result", errors.New("gone")),
	}
	lib := NewResumeLibrary(gateway, nil)
	poller := NewPoller(time.Millisecond, time.Second)

	if _, err := poller.AwaitParse(context.Background(), lib, 5); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAwaitAnalysisStopsOnCompleted(t *testing.T) {
	gateway := &resumeGatewayFake{
		analysisResults: []domain.AnalysisResult{
			{ID: "an-1", Status: "pending"},
			{ID: "an-1", Status: "processing"},
			{ID: "an-1", Status: "completed"},
		},
	}
	lib := NewResumeLibrary(gateway, nil)
	poller := NewPoller(time.Millisecond, time.Second)

	result, err := poller.AwaitAnalysis(context.Background(), lib, "an-1")
	if err != nil {
		t.Fatalf("AwaitAnalysis() error = %v", err)
	}
	if result.Status != "completed" {
		t.Fatalf("expected completed, got %s", result.Status)
	}
	// Intermediate fetches keep the cache current along the way.
	if cached := lib.AnalysisResult(); cached == nil || cached.Status != "completed" {
		t.Fatalf("cache must hold the last fetched result, got %+v", cached)
	}
}

func TestAwaitAnalysisStopsOnFailed(t *testing.T) {
	gateway := &resumeGatewayFake{
		analysisResults: []domain.AnalysisResult{
			{ID: "an-1", Status: "processing"},
			{ID: "an-1", Status: "failed"},
		},
	}
	lib := NewResumeLibrary(gateway, nil)
	poller := NewPoller(time.Millisecond, time.Second)

	result, err := poller.AwaitAnalysis(context.Background(), lib, "an-1")
	if err != nil {
		t.Fatalf("AwaitAnalysis() error = %v", err)
	}
	if result.Status != "failed" {
		t.Fatalf("failed is terminal for an analysis run, got %s", result.Status)
	}
}

func TestAwaitAnalysisHonorsCallerCancellation(t *testing.T) {
	gateway := &resumeGatewayFake{
		analysisResults: []domain.AnalysisResult{{ID: "an-1", Status: "processing"}},
	}
	lib := NewResumeLibrary(gateway, nil)
	poller := NewPoller(5*time.Millisecond, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := poller.AwaitAnalysis(ctx, lib, "an-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
