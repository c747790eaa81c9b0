package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/medquery/internal/client/models"
)

func (c *HTTPClient) SearchPubMed(ctx context.Context, query string, limit int) (*models.PubMedSearchResponse, error) {
	q := url.Values{"query": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp models.PubMedSearchResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/pubmed/search", query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) PubMedPaper(ctx context.Context, pmid string) (*models.PubMedPaper, error) {
	var resp models.PubMedPaper
	if err := c.do(ctx, request{method: http.MethodGet, path: "/pubmed/paper/" + url.PathEscape(pmid)}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
