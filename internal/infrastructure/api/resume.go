package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

type resumeEnvelope struct {
	Data    domain.Resume `json:"data"`
	Message string        `json:"message"`
}

func (c *Client) List(ctx context.Context, page, pageSize int) (*domain.ResumePage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var out domain.ResumePage
	err := c.do(ctx, call{
		op:         "resume_list",
		method:     http.MethodGet,
		path:       "/v1/resume/list?" + query.Encode(),
		out:        &out,
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload sends the résumé as multipart form data. The body is buffered so
// progress can be reported against a known total; onProgress receives a
// non-decreasing percentage in [0,100].
func (c *Client) Upload(ctx context.Context, req domain.UploadRequest, onProgress func(int)) (*domain.Resume, error) {
	const op = "resume_upload"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("build %s form: %w", op, err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, fmt.Errorf("build %s form: %w", op, err)
	}
	if req.TargetPosition != "" {
		if err := writer.WriteField("targetPosition", req.TargetPosition); err != nil {
			return nil, fmt.Errorf("build %s form: %w", op, err)
		}
	}
	if req.Industry != "" {
		if err := writer.WriteField("industry", req.Industry); err != nil {
			return nil, fmt.Errorf("build %s form: %w", op, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build %s form: %w", op, err)
	}

	body := &progressReader{
		r:          bytes.NewReader(buf.Bytes()),
		total:      int64(buf.Len()),
		onProgress: onProgress,
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/resume/upload", body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.ContentLength = int64(buf.Len())
	c.decorate(httpReq)

	var out resumeEnvelope
	if err := c.execute(httpReq, op, &out, false); err != nil {
		return nil, err
	}
	c.metrics.RecordUploadBytes(len(req.Data))
	return &out.Data, nil
}

func (c *Client) Parse(ctx context.Context, resumeID int64) (string, error) {
	var out struct {
		TaskID  string `json:"taskId"`
		Message string `json:"message"`
	}
	err := c.do(ctx, call{
		op:      "resume_parse",
		method:  http.MethodPost,
		path:    "/v1/resume/parse",
		payload: map[string]int64{"resumeId": resumeID},
		out:     &out,
	})
	if err != nil {
		return "", err
	}
	return out.TaskID, nil
}

func (c *Client) ParseResult(ctx context.Context, resumeID int64) (*domain.Resume, error) {
	var out resumeEnvelope
	err := c.do(ctx, call{
		op:         "resume_parse_result",
		method:     http.MethodGet,
		path:       fmt.Sprintf("/v1/resume/%d/parse-result", resumeID),
		out:        &out,
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Analyze(ctx context.Context, req domain.AnalyzeRequest) (string, error) {
	var out struct {
		AnalysisID string `json:"analysisId"`
		Status     string `json:"status"`
		Message    string `json:"message"`
	}
	err := c.do(ctx, call{
		op:      "resume_analyze",
		method:  http.MethodPost,
		path:    "/v1/resume/analyze",
		payload: req,
		out:     &out,
	})
	if err != nil {
		return "", err
	}
	return out.AnalysisID, nil
}

func (c *Client) AnalysisResult(ctx context.Context, analysisID string) (*domain.AnalysisResult, error) {
	var out struct {
		Data    domain.AnalysisResult `json:"data"`
		Message string                `json:"message"`
	}
	err := c.do(ctx, call{
		op:         "analysis_result",
		method:     http.MethodGet,
		path:       "/v1/ai/analysis/" + url.PathEscape(analysisID) + "/result",
		out:        &out,
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Get(ctx context.Context, resumeID int64) (*domain.Resume, error) {
	var out resumeEnvelope
	err := c.do(ctx, call{
		op:         "resume_get",
		method:     http.MethodGet,
		path:       fmt.Sprintf("/v1/resume/%d", resumeID),
		out:        &out,
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Update(ctx context.Context, resumeID int64, patch map[string]any) (*domain.Resume, error) {
	var out resumeEnvelope
	err := c.do(ctx, call{
		op:      "resume_update",
		method:  http.MethodPut,
		path:    fmt.Sprintf("/v1/resume/%d", resumeID),
		payload: patch,
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Delete(ctx context.Context, resumeID int64) error {
	return c.do(ctx, call{
		op:     "resume_delete",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/v1/resume/%d", resumeID),
	})
}

// progressReader reports upload progress as the transport drains the body.
// Percentages are clamped to 100 and never repeated or decreased.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.onProgress != nil && p.total > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.onProgress(pct)
		}
	}
	return n, err
}
