package ports

import (
	"context"
	"time"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

// UserGateway is the outbound contract for account and session endpoints.
type UserGateway interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthGrant, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthGrant, error)
	Logout(ctx context.Context) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, profile domain.Profile) (*domain.User, error)
}

// ResumeGateway is the outbound contract for the résumé pipeline endpoints.
type ResumeGateway interface {
	List(ctx context.Context, page, pageSize int) (*domain.ResumePage, error)
	Upload(ctx context.Context, req domain.UploadRequest, onProgress func(percent int)) (*domain.Resume, error)
	Parse(ctx context.Context, resumeID int64) (taskID string, err error)
	ParseResult(ctx context.Context, resumeID int64) (*domain.Resume, error)
	Analyze(ctx context.Context, req domain.AnalyzeRequest) (analysisID string, err error)
	AnalysisResult(ctx context.Context, analysisID string) (*domain.AnalysisResult, error)
	Get(ctx context.Context, resumeID int64) (*domain.Resume, error)
	Update(ctx context.Context, resumeID int64, patch map[string]any) (*domain.Resume, error)
	Delete(ctx context.Context, resumeID int64) error
}

// AIGateway is the outbound contract for the stateless AI endpoints.
type AIGateway interface {
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)
	RetrieveKnowledge(ctx context.Context, q domain.KnowledgeQuery) ([]domain.KnowledgeItem, error)
	GenerateSuggestions(ctx context.Context, req domain.SuggestionRequest) (*domain.SuggestionSet, error)
	Health(ctx context.Context) (*domain.AIHealth, error)
}

// TokenStore is the durable credential storage shared between the session
// manager (writer) and the transport (reader).
type TokenStore interface {
	Save(token string, expiresAt time.Time) error
	Token() (string, bool)
	// Subject resolves the user id the stored token was issued for.
	Subject() (int64, bool)
	Expired() bool
	Clear() error
}
