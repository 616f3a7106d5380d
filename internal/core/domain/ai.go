package domain

type ChatOptions struct {
	UseResumeContext *bool  `json:"useResumeContext,omitempty"`
	UseKnowledgeBase *bool  `json:"useKnowledgeBase,omitempty"`
	Language         string `json:"language,omitempty"`
}

type ChatRequest struct {
	SessionID string       `json:"sessionId"`
	Message   string       `json:"message"`
	Context   string       `json:"context,omitempty"`
	Options   *ChatOptions `json:"options,omitempty"`
}

type ChatReply struct {
	Response  string   `json:"response"`
	SessionID string   `json:"sessionId"`
	Sources   []string `json:"sources,omitempty"`
	Status    string   `json:"status"`
}

type KnowledgeQuery struct {
	Query               string            `json:"query"`
	TopK                int               `json:"topK,omitempty"`
	SimilarityThreshold float64           `json:"similarityThreshold,omitempty"`
	Filters             map[string]string `json:"filters,omitempty"`
}

type KnowledgeItem struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type SuggestionOptions struct {
	MaxSuggestions  int    `json:"maxSuggestions,omitempty"`
	FocusArea       string `json:"focusArea,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
}

type SuggestionRequest struct {
	AnalysisID     string             `json:"analysisId"`
	TargetPosition string             `json:"targetPosition,omitempty"`
	Industry       string             `json:"industry,omitempty"`
	Options        *SuggestionOptions `json:"options,omitempty"`
}

// SuggestionSet is a ranked suggestion list plus the optional reasoning
// trace the generation engine produced.
type SuggestionSet struct {
	Suggestions []Suggestion `json:"suggestions"`
	Reasoning   string       `json:"reasoning,omitempty"`
	Status      string       `json:"status"`
}

// AIHealth maps component names to their reported status.
type AIHealth struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components"`
}
