package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/staging"
)

// Upload posts one staged file to a platform upload endpoint and returns
// the stored path the platform assigns. Every entity type has its own
// endpoint (/api/v1/uploads/chadawa, /api/v1/uploads/products/{id}, ...).
func (c *Client) Upload(ctx context.Context, path string, file staging.File, fields map[string]string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "build multipart", err)
	}
	src, err := os.Open(file.Path)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "open staged file", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		src.Close()
		return "", apperr.Wrap(apperr.KindUpload, "copy staged file", err)
	}
	src.Close()

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", apperr.Wrap(apperr.KindUpload, "write field", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "close multipart", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "build upload request", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Str("file", file.Name).Msg("upload failed")
		return "", apperr.Wrap(apperr.KindUpload, fmt.Sprintf("upload %s", file.Name), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "read upload response", err)
	}
	if resp.StatusCode >= 400 {
		return "", apperr.New(apperr.KindUpload, fmt.Sprintf("upload %s: upstream returned %d",
			file.Name, resp.StatusCode))
	}

	var parsed struct {
		Path string `json:"path"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "decode upload response", err)
	}
	stored := parsed.Path
	if stored == "" {
		stored = parsed.URL
	}
	if stored == "" {
		return "", apperr.New(apperr.KindUpload, "upload response carries no stored path")
	}

	c.log.Info().Str("file", file.Name).Str("stored", stored).Msg("uploaded")
	return stored, nil
}

// UploadBatch uploads staged files in their staged (display) order and
// returns the stored paths in the same order. The first failure aborts the
// batch; paths already stored are returned alongside the error so callers
// can report partial success.
func (c *Client) UploadBatch(ctx context.Context, path string, files []staging.File, fields map[string]string) ([]string, error) {
	stored := make([]string, 0, len(files))
	for _, f := range files {
		p, err := c.Upload(ctx, path, f, fields)
		if err != nil {
			return stored, err
		}
		stored = append(stored, p)
	}
	return stored, nil
}

// UploadEndpoint builds the conventional per-entity upload path.
func UploadEndpoint(entity string, id uint) string {
	if id == 0 {
		return fmt.Sprintf("/api/v1/uploads/%s", entity)
	}
	return fmt.Sprintf("/api/v1/uploads/%s/%d", entity, id)
}
