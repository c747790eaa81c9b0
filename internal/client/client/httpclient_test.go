package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/medquery/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

type staticToken struct {
	token string
}

func (s *staticToken) Token() (string, bool) {
	return s.token, s.token != ""
}

type captured struct {
	method string
	path   string
	query  string
	auth   string
	reqID  string
	ctype  string
	body   []byte
}

// newServer starts a test backend answering every request with handler and
// recording the last request it saw.
func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *captured) {
	t.Helper()
	last := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*last = captured{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			reqID:  r.Header.Get("X-Request-ID"),
			ctype:  r.Header.Get("Content-Type"),
			body:   body,
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, url string, tokens TokenSource) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(url, tokens)
	require.NoError(t, err)
	return c
}

/*************
 * Construction & transport
 *************/

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("ftp://example.org", nil)
	require.Error(t, err)

	_, err = NewHTTPClient("://nope", nil)
	require.Error(t, err)
}

func TestTransport_AttachesBearerWhenTokenPresent(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "healthy"})
	})
	tokens := &staticToken{token: "tok-123"}
	c := newClient(t, srv.URL, tokens)

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, "Bearer tok-123", last.auth)
	assert.NotEmpty(t, last.reqID)

	tokens.token = ""
	require.NoError(t, c.Health(context.Background()))
	assert.Empty(t, last.auth, "no header once the token is cleared")
}

func TestTransport_RequestIDsDiffer(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "healthy"})
	})
	c := newClient(t, srv.URL, nil)

	require.NoError(t, c.Health(context.Background()))
	first := last.reqID
	require.NoError(t, c.Health(context.Background()))
	assert.NotEqual(t, first, last.reqID)
}

/*************
 * Auth endpoints
 *************/

func TestLogin_Success(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, models.TokenResponse{AccessToken: "jwt", TokenType: "bearer"})
	})
	c := newClient(t, srv.URL, nil)

	resp, err := c.Login(context.Background(), "a@b.com", "pw", models.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.AccessToken)

	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "/auth/login", last.path)
	assert.Equal(t, "application/json", last.ctype)
	assert.JSONEq(t, `{"email":"a@b.com","password":"pw","role":"doctor"}`, string(last.body))
}

func TestLogin_BadCredentials(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"detail": "Incorrect email or password"})
	})
	c := newClient(t, srv.URL, nil)

	_, err := c.Login(context.Background(), "a@b.com", "bad", models.RoleDoctor)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Incorrect email or password", Message(err))
	assert.True(t, IsRejection(err))
}

func TestLogin_ErrorBodyWithSuccessStatus(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"error": "account locked"})
	})
	c := newClient(t, srv.URL, nil)

	_, err := c.Login(context.Background(), "a@b.com", "pw", models.RolePatient)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 200, apiErr.Status)
	assert.Equal(t, "account locked", apiErr.Message)
}

func TestSignup_SendsPayload(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 201, models.SignupResponse{Message: "ok", UserID: 9, UserEmail: "p@x.org", UserRole: models.RolePatient})
	})
	c := newClient(t, srv.URL, nil)

	resp, err := c.Signup(context.Background(), models.SignupRequest{
		Email: "p@x.org", FullName: "Pat", Password: "Secret123", Role: models.RolePatient,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.UserID)
	assert.Equal(t, "/auth/signup", last.path)
	assert.JSONEq(t, `{"email":"p@x.org","full_name":"Pat","password":"Secret123","role":"patient"}`, string(last.body))
}

func TestSignup_Conflict(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 400, map[string]string{"detail": "Email already registered"})
	})
	c := newClient(t, srv.URL, nil)

	_, err := c.Signup(context.Background(), models.SignupRequest{Email: "p@x.org"})
	require.Error(t, err)
	assert.True(t, IsRejection(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Email already registered", Message(err))
}

func TestCurrentUser_Success(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"id": 1, "email": " a@b.com", "full_name": "Ann", "role": "Doctor", "institution": ""})
	})
	c := newClient(t, srv.URL, &staticToken{token: "t"})

	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, models.RoleDoctor, u.Role)
	assert.Nil(t, u.Institution)
	assert.Equal(t, "/auth/me", last.path)
	assert.Equal(t, "Bearer t", last.auth)
}

func TestCurrentUser_NonOKSuccessStatusIsRejected(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 204, nil)
	})
	c := newClient(t, srv.URL, nil)

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsRejection(err))
}

func TestCurrentUser_EmptyPayloadIsRejected(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{})
	})
	c := newClient(t, srv.URL, nil)

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsRejection(err))
}

func TestCurrentUser_MalformedBody(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html>proxy</html>"))
	})
	c := newClient(t, srv.URL, nil)

	_, err := c.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.False(t, IsRejection(err))
}

func TestLogout_IgnoresBody(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"message": "Successfully logged out"})
	})
	c := newClient(t, srv.URL, &staticToken{token: "t"})

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "/auth/logout", last.path)
}

/*************
 * Error mapping
 *************/

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{401, ErrUnauthorized},
		{403, ErrUnauthorized},
		{404, ErrNotFound},
		{502, ErrUnavailable},
		{503, ErrUnavailable},
		{504, ErrUnavailable},
		{500, nil},
		{422, nil},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]string{"detail": "nope"})
			})
			c := newClient(t, srv.URL, nil)

			err := c.Health(context.Background())
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "nope", apiErr.Message)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newClient(t, url, nil)
	_, err := c.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, IsRejection(err))
}

func TestTimeout_IsUnavailable(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	c, err := NewHTTPClient(srv.URL, nil, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestContextCancel_IsUnavailableAndCanceled(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	c := newClient(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

/*************
 * Assistant, documents, PubMed
 *************/

func TestAskQuestion(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{
			"question": "fever?", "answer": "rest and fluids", "created_at": "2024-05-01T10:30:00",
			"sources": []map[string]string{{"doc_id": "d", "filename": "f.pdf", "chunk_id": "c", "snippet": "s"}},
		})
	})
	c := newClient(t, srv.URL, &staticToken{token: "t"})

	ans, err := c.AskQuestion(context.Background(), "fever?")
	require.NoError(t, err)
	assert.Equal(t, "rest and fluids", ans.Answer)
	require.Len(t, ans.Sources, 1)
	assert.Equal(t, "/ai/query", last.path)
	assert.JSONEq(t, `{"question":"fever?"}`, string(last.body))
}

func TestQueryHistory_Limit(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"queries": []any{}})
	})
	c := newClient(t, srv.URL, nil)

	h, err := c.QueryHistory(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, h.Queries)
	assert.Equal(t, "/ai/history", last.path)
	assert.Equal(t, "limit=5", last.query)
}

func TestUploadDocument(t *testing.T) {
	var gotName, gotBody string
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err == nil {
			gotName = hdr.Filename
			b, _ := io.ReadAll(f)
			gotBody = string(b)
		}
		writeJSON(w, 200, models.DocumentUpload{ID: "u1", Filename: gotName})
	})
	c := newClient(t, srv.URL, &staticToken{token: "t"})

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	up, err := c.UploadDocument(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "u1", up.ID)
	assert.Equal(t, "notes.txt", gotName)
	assert.Equal(t, "hello", gotBody)
	assert.Equal(t, "/documents/upload", last.path)
	assert.Contains(t, last.ctype, "multipart/form-data")
}

func TestListAndSearchDocuments(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/documents":
			writeJSON(w, 200, []map[string]any{{"id": "d1", "filename": "a.pdf", "processed": true, "preview": "p", "created_at": "2024-01-01T00:00:00Z"}})
		case "/documents/search":
			writeJSON(w, 200, map[string]any{"query": r.URL.Query().Get("q"), "results": []map[string]string{{"doc_id": "d1", "text": "t", "filename": "a.pdf", "chunk_id": "c"}}})
		default:
			http.NotFound(w, r)
		}
	})
	c := newClient(t, srv.URL, nil)

	docs, err := c.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].Processed)

	res, err := c.SearchDocuments(context.Background(), "insulin dose", 3)
	require.NoError(t, err)
	assert.Equal(t, "insulin dose", res.Query)
	assert.Len(t, res.Results, 1)
	assert.Equal(t, "q=insulin+dose&top_k=3", last.query)
}

func TestDownloadDocument(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		_, _ = w.Write([]byte("PDFDATA"))
	})
	c := newClient(t, srv.URL, nil)

	var buf bytes.Buffer
	name, err := c.DownloadDocument(context.Background(), "abc", &buf)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", name)
	assert.Equal(t, "PDFDATA", buf.String())
	assert.Equal(t, "/documents/download/abc", last.path)
}

func TestDownloadDocument_NotFound(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"detail": "Document not found"})
	})
	c := newClient(t, srv.URL, nil)

	var buf bytes.Buffer
	_, err := c.DownloadDocument(context.Background(), "missing", &buf)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, buf.Len())
}

func TestPubMed(t *testing.T) {
	srv, last := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pubmed/search":
			writeJSON(w, 200, models.PubMedSearchResponse{Query: "aspirin", Count: 1, Papers: []models.PubMedPaper{{PMID: "1", Title: "T"}}})
		case "/pubmed/paper/123":
			writeJSON(w, 200, models.PubMedPaper{PMID: "123", Title: "Paper", Authors: []string{"A", "B"}})
		default:
			writeJSON(w, 404, map[string]string{"detail": "Could not fetch details"})
		}
	})
	c := newClient(t, srv.URL, nil)

	res, err := c.SearchPubMed(context.Background(), "aspirin", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "limit=10&query=aspirin", last.query)

	p, err := c.PubMedPaper(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.Authors)

	_, err = c.PubMedPaper(context.Background(), "999")
	require.ErrorIs(t, err, ErrNotFound)
}
