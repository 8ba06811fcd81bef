package client

import (
	"net/http"

	"github.com/dmitrijs2005/gymadmin/internal/common"
	"github.com/google/uuid"
)

// authTransport decorates every outgoing request with the bearer token and a
// request id. The request passed in is never modified.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	r.Header.Del(common.AuthorizationHeaderName)
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			r.Header.Set(common.AuthorizationHeaderName, common.BearerToken(token))
		}
	}

	return t.base.RoundTrip(r)
}
