package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/medquery/internal/client/models"
)

// TokenSource yields the current bearer token, if any. It is consulted on
// every request, so a token set or cleared mid-session takes effect at once.
type TokenSource interface {
	Token() (string, bool)
}

// Client is the transport-agnostic contract for the MedQuery backend.
type Client interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, error)
	Login(ctx context.Context, email, password string, role models.Role) (*models.TokenResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	Health(ctx context.Context) error

	AskQuestion(ctx context.Context, question string) (*models.QueryAnswer, error)
	QueryHistory(ctx context.Context, limit int) (*models.QueryHistory, error)

	UploadDocument(ctx context.Context, path string) (*models.DocumentUpload, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)
	DownloadDocument(ctx context.Context, id string, w io.Writer) (string, error)
	SearchDocuments(ctx context.Context, query string, topK int) (*models.DocumentSearchResponse, error)

	SearchPubMed(ctx context.Context, query string, limit int) (*models.PubMedSearchResponse, error)
	PubMedPaper(ctx context.Context, pmid string) (*models.PubMedPaper, error)
}
