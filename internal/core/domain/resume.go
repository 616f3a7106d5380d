package domain

import (
	"strings"
	"time"
)

type ResumeStatus string

const (
	StatusPending    ResumeStatus = "pending"
	StatusProcessing ResumeStatus = "processing"
	StatusCompleted  ResumeStatus = "completed"
	StatusFailed     ResumeStatus = "failed"
)

// Terminal reports whether a status can no longer change without a new
// pipeline stage being requested.
func (s ResumeStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOC  FileType = "doc"
	FileTypeDOCX FileType = "docx"
	FileTypeMD   FileType = "md"
	FileTypeTXT  FileType = "txt"
)

// FileTypeFromName derives the file type from a filename extension.
// Unsupported extensions return false; the caller rejects the upload
// locally without a network call.
func FileTypeFromName(name string) (FileType, bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return "", false
	}
	switch FileType(strings.ToLower(name[idx+1:])) {
	case FileTypePDF:
		return FileTypePDF, true
	case FileTypeDOC:
		return FileTypeDOC, true
	case FileTypeDOCX:
		return FileTypeDOCX, true
	case FileTypeMD:
		return FileTypeMD, true
	case FileTypeTXT:
		return FileTypeTXT, true
	default:
		return "", false
	}
}

// Resume is the client-side view of one résumé and its pipeline state.
// AnalysisID is only ever set by a server response confirming completion;
// Score only once an analysis result has been attached server-side.
type Resume struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Status     ResumeStatus `json:"status"`
	UploadTime string       `json:"uploadTime"`
	FileType   FileType     `json:"fileType"`
	FileSize   int64        `json:"fileSize"`
	FilePath   string       `json:"filePath"`
	Score      *float64     `json:"score,omitempty"`
	AnalysisID string       `json:"analysisId,omitempty"`
	UserID     int64        `json:"userId"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// ResumePage is one page of the server-side résumé collection.
type ResumePage struct {
	Items    []Resume `json:"data"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// ScoreBreakdown carries the overall score, the five fixed dimensions and
// any additional dimensions the analysis engine reports.
type ScoreBreakdown struct {
	OverallScore        float64            `json:"overallScore"`
	CompletenessScore   float64            `json:"completenessScore"`
	ClarityScore        float64            `json:"clarityScore"`
	KeywordScore        float64            `json:"keywordScore"`
	FormatScore         float64            `json:"formatScore"`
	QuantificationScore float64            `json:"quantificationScore"`
	DimensionScores     map[string]float64 `json:"dimensionScores,omitempty"`
}

// Suggestion is immutable once received; the client never edits one locally.
type Suggestion struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Section     string   `json:"section"`
	Action      string   `json:"action"`
	Examples    []string `json:"examples,omitempty"`
}

type Improvement struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Section     string   `json:"section"`
	Before      string   `json:"before"`
	After       string   `json:"after"`
	Examples    []string `json:"examples,omitempty"`
}

// AnalysisResult is tied 1:1 to a résumé and replaced wholesale on every
// successful fetch, never merged field by field.
type AnalysisResult struct {
	ID           string         `json:"id"`
	ResumeID     int64          `json:"resumeId"`
	Status       string         `json:"status"`
	Scores       ScoreBreakdown `json:"scores"`
	Suggestions  []Suggestion   `json:"suggestions"`
	Improvements []Improvement  `json:"improvements"`
	Summary      string         `json:"summary"`
	AnalyzedAt   string         `json:"analyzedAt"`
}

// AnalysisOptions toggles individual scoring dimensions.
type AnalysisOptions struct {
	EnableCompleteness   *bool `json:"enableCompleteness,omitempty"`
	EnableClarity        *bool `json:"enableClarity,omitempty"`
	EnableKeyword        *bool `json:"enableKeyword,omitempty"`
	EnableFormat         *bool `json:"enableFormat,omitempty"`
	EnableQuantification *bool `json:"enableQuantification,omitempty"`
}

// UploadRequest describes one multipart upload. Data is fully buffered by
// the gateway so upload progress can be reported against a known total.
type UploadRequest struct {
	Filename       string
	Data           []byte
	TargetPosition string
	Industry       string
}

// AnalyzeRequest asks the backend to start an analysis run.
type AnalyzeRequest struct {
	ResumeID       int64            `json:"resumeId"`
	TargetPosition string           `json:"targetPosition"`
	Industry       string           `json:"industry"`
	Options        *AnalysisOptions `json:"options,omitempty"`
}
