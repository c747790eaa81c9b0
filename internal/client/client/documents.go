package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/medquery/internal/client/models"
	"github.com/dmitrijs2005/medquery/internal/netx"
)

// UploadDocument sends the file at path as multipart field "file".
func (c *HTTPClient) UploadDocument(ctx context.Context, path string) (*models.DocumentUpload, error) {
	body, contentType, err := netx.MultipartFile("file", path)
	if err != nil {
		return nil, err
	}

	var resp models.DocumentUpload
	if err := c.do(ctx, request{method: http.MethodPost, path: "/documents/upload", body: body, contentType: contentType}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var resp []models.Document
	if err := c.do(ctx, request{method: http.MethodGet, path: "/documents"}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DownloadDocument streams the document body into w and returns the filename
// announced by the server (empty when none was sent).
func (c *HTTPClient) DownloadDocument(ctx context.Context, id string, w io.Writer) (string, error) {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/documents/download/" + url.PathEscape(id)})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("download %s: %w", id, err)
	}

	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		return "", nil
	}
	return params["filename"], nil
}

func (c *HTTPClient) SearchDocuments(ctx context.Context, query string, topK int) (*models.DocumentSearchResponse, error) {
	q := url.Values{"q": {query}}
	if topK > 0 {
		q.Set("top_k", strconv.Itoa(topK))
	}

	var resp models.DocumentSearchResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/documents/search", query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
