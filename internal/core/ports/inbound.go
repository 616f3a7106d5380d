package ports

import (
	"context"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

// SessionReader is the read-only session view consumed by the transport
// and the navigation guard. Neither may mutate session state.
type SessionReader interface {
	IsAuthenticated() bool
	CurrentUser() *domain.User
	HasPermission(name string) bool
}

// SessionController is the inbound contract for session lifecycle operations.
type SessionController interface {
	SessionReader
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthGrant, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthGrant, error)
	Logout(ctx context.Context)
	CheckAuth(ctx context.Context)
}

// ResumeOrchestrator is the inbound contract for driving the résumé
// pipeline and reading its client-side state.
type ResumeOrchestrator interface {
	FetchResumes(ctx context.Context, page, pageSize int) (*domain.ResumePage, error)
	UploadResume(ctx context.Context, req domain.UploadRequest, onProgress func(int)) (*domain.Resume, error)
	ParseResume(ctx context.Context, resumeID int64) (string, error)
	GetParseResult(ctx context.Context, resumeID int64) (*domain.Resume, error)
	AnalyzeResume(ctx context.Context, resumeID int64, targetPosition, industry string) (string, error)
	GetAnalysisResult(ctx context.Context, analysisID string) (*domain.AnalysisResult, error)
	DeleteResume(ctx context.Context, resumeID int64) error
	SetCurrentResume(r *domain.Resume)
	Resumes() []domain.Resume
	CurrentResume() *domain.Resume
	AnalysisResult() *domain.AnalysisResult
}
