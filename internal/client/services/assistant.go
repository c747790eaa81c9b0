// Package services contains application services for the MedQuery client.
// This file defines the assistant service: AI questions, document library
// and PubMed lookups, gated by the signed-in user's role.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/medquery/internal/client/client"
	"github.com/dmitrijs2005/medquery/internal/client/models"
)

// minQuestionLen matches the backend's lower bound on a question.
const minQuestionLen = 3

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrForbiddenRole    = errors.New("not available for this role")
	ErrQuestionTooShort = fmt.Errorf("question must be at least %d characters", minQuestionLen)
)

// Principal reports the signed-in user. *session.Manager implements it.
type Principal interface {
	User() (*models.User, bool)
}

// Capability is a user-facing feature that may be restricted by role.
type Capability string

const (
	CapAsk       Capability = "ask"
	CapHistory   Capability = "history"
	CapUpload    Capability = "upload"
	CapDocuments Capability = "documents"
	CapSearch    Capability = "search"
	CapDownload  Capability = "download"
	CapPubMed    Capability = "pubmed"
)

var allCapabilities = []Capability{CapAsk, CapHistory, CapUpload, CapDocuments, CapSearch, CapDownload, CapPubMed}

// Allowed mirrors the backend's role checks.
func Allowed(role models.Role, c Capability) bool {
	if !role.Valid() {
		return false
	}
	switch c {
	case CapUpload:
		return role.Clinical()
	case CapAsk, CapHistory:
		return role != models.RoleAdmin
	case CapDocuments, CapSearch, CapDownload, CapPubMed:
		return true
	}
	return false
}

// Capabilities lists what role may do, in menu order.
func Capabilities(role models.Role) []Capability {
	var out []Capability
	for _, c := range allCapabilities {
		if Allowed(role, c) {
			out = append(out, c)
		}
	}
	return out
}

// AssistantService defines the signed-in operations for the CLI.
//
// Every method first checks the principal's role and returns
// ErrNotAuthenticated or ErrForbiddenRole without a network call when the
// backend would refuse.
type AssistantService interface {
	Ask(ctx context.Context, question string) (*models.QueryAnswer, error)
	History(ctx context.Context, limit int) (*models.QueryHistory, error)
	Upload(ctx context.Context, path string) (*models.DocumentUpload, error)
	Documents(ctx context.Context) ([]models.Document, error)
	SearchDocuments(ctx context.Context, query string, topK int) (*models.DocumentSearchResponse, error)
	Download(ctx context.Context, id string, w io.Writer) (string, error)
	SearchPubMed(ctx context.Context, query string, limit int) (*models.PubMedSearchResponse, error)
	Paper(ctx context.Context, pmid string) (*models.PubMedPaper, error)
}

type assistantService struct {
	client    client.Client
	principal Principal
}

func NewAssistantService(c client.Client, p Principal) AssistantService {
	return &assistantService{client: c, principal: p}
}

func (s *assistantService) authorize(c Capability) error {
	u, ok := s.principal.User()
	if !ok || u == nil {
		return ErrNotAuthenticated
	}
	if !Allowed(u.Role, c) {
		return fmt.Errorf("%s: %w (%s)", c, ErrForbiddenRole, u.Role)
	}
	return nil
}

func (s *assistantService) Ask(ctx context.Context, question string) (*models.QueryAnswer, error) {
	if err := s.authorize(CapAsk); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	if utf8.RuneCountInString(question) < minQuestionLen {
		return nil, ErrQuestionTooShort
	}
	return s.client.AskQuestion(ctx, question)
}

func (s *assistantService) History(ctx context.Context, limit int) (*models.QueryHistory, error) {
	if err := s.authorize(CapHistory); err != nil {
		return nil, err
	}
	return s.client.QueryHistory(ctx, limit)
}

func (s *assistantService) Upload(ctx context.Context, path string) (*models.DocumentUpload, error) {
	if err := s.authorize(CapUpload); err != nil {
		return nil, err
	}
	return s.client.UploadDocument(ctx, path)
}

func (s *assistantService) Documents(ctx context.Context) ([]models.Document, error) {
	if err := s.authorize(CapDocuments); err != nil {
		return nil, err
	}
	return s.client.ListDocuments(ctx)
}

func (s *assistantService) SearchDocuments(ctx context.Context, query string, topK int) (*models.DocumentSearchResponse, error) {
	if err := s.authorize(CapSearch); err != nil {
		return nil, err
	}
	return s.client.SearchDocuments(ctx, query, topK)
}

func (s *assistantService) Download(ctx context.Context, id string, w io.Writer) (string, error) {
	if err := s.authorize(CapDownload); err != nil {
		return "", err
	}
	return s.client.DownloadDocument(ctx, id, w)
}

func (s *assistantService) SearchPubMed(ctx context.Context, query string, limit int) (*models.PubMedSearchResponse, error) {
	if err := s.authorize(CapPubMed); err != nil {
		return nil, err
	}
	return s.client.SearchPubMed(ctx, query, limit)
}

func (s *assistantService) Paper(ctx context.Context, pmid string) (*models.PubMedPaper, error) {
	if err := s.authorize(CapPubMed); err != nil {
		return nil, err
	}
	return s.client.PubMedPaper(ctx, pmid)
}
