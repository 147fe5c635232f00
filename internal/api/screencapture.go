package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
)

// ScreenCaptureAPI uploads screenshots for the assistant to analyze.
type ScreenCaptureAPI struct {
	c *Client
}

// Upload posts a screenshot as multipart form data, tagged with the
// conversation it belongs to and a free-form description.
func (a *ScreenCaptureAPI) Upload(ctx context.Context, conversationID, description, filename string, screenshot io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("screenshot", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, screenshot); err != nil {
		return nil, err
	}
	if err := w.WriteField("conversationId", conversationID); err != nil {
		return nil, err
	}
	if err := w.WriteField("description", description); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.c.baseURL+"/screen-capture/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.c.send(req)
}

// Analyze asks the backend to run analysis on a previously uploaded capture.
func (a *ScreenCaptureAPI) Analyze(ctx context.Context, captureID string) (json.RawMessage, error) {
	return a.c.Do(ctx, http.MethodPost, "/screen-capture/"+captureID+"/analyze", nil)
}
