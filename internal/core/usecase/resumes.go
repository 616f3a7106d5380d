package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
	"github.com/mlobankov/resume-pilot/internal/core/ports"
)

// ResumeLibrary holds the authoritative client-side view of the résumé
// collection and drives the pipeline state machine
// (pending → processing → completed|failed). Transitions to a terminal
// state only ever come from a server response; elapsed time alone never
// completes anything. Racing completions resolve last-writer-wins keyed
// by résumé id.
type ResumeLibrary struct {
	gateway ports.ResumeGateway
	logger  *slog.Logger

	// onTransition observes every status change applied to the local
	// view; wired to metrics at bootstrap.
	onTransition func(domain.ResumeStatus)

	mu             sync.Mutex
	resumes        []domain.Resume
	current        *domain.Resume
	analysis       *domain.AnalysisResult
	loading        bool
	uploading      bool
	analyzing      bool
	uploadProgress int
}

func NewResumeLibrary(gateway ports.ResumeGateway, logger *slog.Logger) *ResumeLibrary {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumeLibrary{
		gateway: gateway,
		logger:  logger,
	}
}

// SetTransitionObserver installs the status-transition callback. Must be
// called before the library is shared across goroutines.
func (l *ResumeLibrary) SetTransitionObserver(fn func(domain.ResumeStatus)) {
	l.onTransition = fn
}

// FetchResumes replaces the whole local collection with the server's page.
// No merging: optimistic entries the server does not know yet may be
// transiently absent, which is the accepted consistency window.
func (l *ResumeLibrary) FetchResumes(ctx context.Context, page, pageSize int) (*domain.ResumePage, error) {
	l.setLoading(true)
	defer l.setLoading(false)

	result, err := l.gateway.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.resumes = append([]domain.Resume(nil), result.Items...)
	l.mu.Unlock()

	return result, nil
}

// UploadResume sends the file and inserts the confirmed entity at the head
// of the collection. Nothing is inserted before the server confirms, so a
// failed upload leaves no phantom entry. Progress is monotonic in [0,100]
// and resets to 0 once the upload finishes either way.
func (l *ResumeLibrary) UploadResume(ctx context.Context, req domain.UploadRequest, onProgress func(int)) (*domain.Resume, error) {
	if _, ok := domain.FileTypeFromName(req.Filename); !ok {
		return nil, domain.WrapError(domain.ErrValidation, "upload resume",
			fmt.Errorf("unsupported file type: %q", req.Filename))
	}
	if len(req.Data) == 0 {
		return nil, domain.WrapError(domain.ErrValidation, "upload resume", errors.New("empty file"))
	}

	l.mu.Lock()
	l.uploading = true
	l.uploadProgress = 0
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.uploading = false
		l.uploadProgress = 0
		l.mu.Unlock()
	}()

	progress := func(pct int) {
		l.mu.Lock()
		if pct > l.uploadProgress {
			l.uploadProgress = pct
		}
		l.mu.Unlock()
		if onProgress != nil {
			onProgress(pct)
		}
	}

	resume, err := l.gateway.Upload(ctx, req, progress)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.resumes = append([]domain.Resume{*resume}, l.resumes...)
	copied := *resume
	l.current = &copied
	l.mu.Unlock()

	l.notifyTransition(resume.Status)
	return resume, nil
}

// ParseResume requests the parse stage and eagerly moves the entity to
// processing. The transition is optimistic; only the next successful
// GetParseResult confirms the authoritative status.
func (l *ResumeLibrary) ParseResume(ctx context.Context, resumeID int64) (string, error) {
	l.setLoading(true)
	defer l.setLoading(false)

	taskID, err := l.gateway.Parse(ctx, resumeID)
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	if l.current != nil && l.current.ID == resumeID {
		l.current.Status = domain.StatusProcessing
	}
	for i := range l.resumes {
		if l.resumes[i].ID == resumeID {
			l.resumes[i].Status = domain.StatusProcessing
			break
		}
	}
	l.mu.Unlock()

	l.notifyTransition(domain.StatusProcessing)
	return taskID, nil
}

// GetParseResult fetches the server-side entity and replaces the local one
// wholesale. This is the only path by which a résumé reaches completed or
// failed after a parse.
func (l *ResumeLibrary) GetParseResult(ctx context.Context, resumeID int64) (*domain.Resume, error) {
	resume, err := l.gateway.ParseResult(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.current != nil && l.current.ID == resumeID {
		copied := *resume
		l.current = &copied
	}
	for i := range l.resumes {
		if l.resumes[i].ID == resumeID {
			l.resumes[i] = *resume
			break
		}
	}
	l.mu.Unlock()

	l.notifyTransition(resume.Status)
	return resume, nil
}

// AnalyzeResume starts an analysis run. It does not touch résumé status:
// analysis is decoupled from parsing and tracked by its own identifier.
func (l *ResumeLibrary) AnalyzeResume(ctx context.Context, resumeID int64, targetPosition, industry string) (string, error) {
	l.mu.Lock()
	l.analyzing = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.analyzing = false
		l.mu.Unlock()
	}()

	return l.gateway.Analyze(ctx, domain.AnalyzeRequest{
		ResumeID:       resumeID,
		TargetPosition: targetPosition,
		Industry:       industry,
	})
}

// GetAnalysisResult replaces the cached analysis result wholesale. The
// store never polls on its own; cadence and timeout belong to the caller.
func (l *ResumeLibrary) GetAnalysisResult(ctx context.Context, analysisID string) (*domain.AnalysisResult, error) {
	result, err := l.gateway.AnalysisResult(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	copied := *result
	l.analysis = &copied
	l.mu.Unlock()

	return result, nil
}

// DeleteResume removes the entity after server confirmation. Deleting the
// selected résumé also clears the cached analysis result: no result may
// outlive its owning résumé.
func (l *ResumeLibrary) DeleteResume(ctx context.Context, resumeID int64) error {
	if err := l.gateway.Delete(ctx, resumeID); err != nil {
		return err
	}

	l.mu.Lock()
	for i := range l.resumes {
		if l.resumes[i].ID == resumeID {
			l.resumes = append(l.resumes[:i], l.resumes[i+1:]...)
			break
		}
	}
	if l.current != nil && l.current.ID == resumeID {
		l.current = nil
		l.analysis = nil
	}
	l.mu.Unlock()

	return nil
}

// SetCurrentResume switches focus and always drops the cached analysis
// result; a result is only valid for the résumé that was current when it
// was fetched.
func (l *ResumeLibrary) SetCurrentResume(r *domain.Resume) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r == nil {
		l.current = nil
	} else {
		copied := *r
		l.current = &copied
	}
	l.analysis = nil
}

func (l *ResumeLibrary) ClearAnalysisResult() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.analysis = nil
}

// Reset returns the library to its initial state.
func (l *ResumeLibrary) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resumes = nil
	l.current = nil
	l.analysis = nil
	l.loading = false
	l.uploading = false
	l.analyzing = false
	l.uploadProgress = 0
}

// Resumes returns a copy of the collection; external code never holds a
// reference it could mutate.
func (l *ResumeLibrary) Resumes() []domain.Resume {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Resume(nil), l.resumes...)
}

func (l *ResumeLibrary) CurrentResume() *domain.Resume {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	copied := *l.current
	return &copied
}

func (l *ResumeLibrary) AnalysisResult() *domain.AnalysisResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.analysis == nil {
		return nil
	}
	copied := *l.analysis
	return &copied
}

func (l *ResumeLibrary) ResumeCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.resumes)
}

func (l *ResumeLibrary) UploadProgress() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.uploadProgress
}

func (l *ResumeLibrary) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *ResumeLibrary) Uploading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.uploading
}

func (l *ResumeLibrary) Analyzing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.analyzing
}

func (l *ResumeLibrary) notifyTransition(status domain.ResumeStatus) {
	if l.onTransition != nil {
		l.onTransition(status)
	}
}

func (l *ResumeLibrary) setLoading(v bool) {
	l.mu.Lock()
	l.loading = v
	l.mu.Unlock()
}
