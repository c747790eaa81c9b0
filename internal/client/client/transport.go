package client

import (
	"net/http"

	"github.com/dmitrijs2005/medquery/internal/common"
	"github.com/google/uuid"
)

// bearerTransport decorates outbound requests with the access token and a
// request id.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	r.Header.Del(common.AuthorizationHeaderName)
	if t.tokens != nil {
		if token, ok := t.tokens.Token(); ok {
			r.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
		}
	}
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}
	r.Header.Set("User-Agent", common.UserAgent)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}
