package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/medquery/internal/client/models"
)

func (c *HTTPClient) AskQuestion(ctx context.Context, question string) (*models.QueryAnswer, error) {
	body, err := jsonBody(models.QueryRequest{Question: question})
	if err != nil {
		return nil, err
	}

	var resp models.QueryAnswer
	if err := c.do(ctx, request{method: http.MethodPost, path: "/ai/query", body: body, contentType: "application/json"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) QueryHistory(ctx context.Context, limit int) (*models.QueryHistory, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp models.QueryHistory
	if err := c.do(ctx, request{method: http.MethodGet, path: "/ai/history", query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
