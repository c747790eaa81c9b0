package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/medquery/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// SignupRequest is the registration payload for POST /auth/signup.
type SignupRequest struct {
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	Password       string  `json:"password"`
	Role           Role    `json:"role"`
	LicenseNumber  *string `json:"license_number,omitempty"`
	Institution    *string `json:"institution,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

var (
	hasLower = regexp.MustCompile(`[a-z]`)
	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasDigit = regexp.MustCompile(`\d`)
)

// Validate applies the same rules the backend enforces so obviously bad
// registrations fail without a round trip. The error wraps
// common.ErrorValidation.
func (r SignupRequest) Validate() error {
	role := r.Role
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FullName, validation.By(textLength(2, 100))),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 0),
			validation.Match(hasLower).Error("must contain a lowercase letter"),
			validation.Match(hasUpper).Error("must contain an uppercase letter"),
			validation.Match(hasDigit).Error("must contain a digit")),
		validation.Field(&r.Role,
			validation.Required,
			validation.In(RoleDoctor, RoleResearcher, RolePatient, RoleAdmin)),
		validation.Field(&r.LicenseNumber,
			validation.By(requiredIf(role.Clinical(), "is required for "+string(role)+"s")),
			validation.RuneLength(0, 50)),
		validation.Field(&r.Institution,
			validation.By(requiredIf(role.Valid() && role != RolePatient, "is required for "+string(role)+"s")),
			validation.RuneLength(0, 200)),
		validation.Field(&r.Specialization, validation.RuneLength(0, 100)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}

func textLength(lo, hi int) validation.RuleFunc {
	return func(v any) error {
		s, _ := v.(string)
		n := len(strings.TrimSpace(s))
		if n < lo || n > hi {
			return fmt.Errorf("the length must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func requiredIf(cond bool, msg string) validation.RuleFunc {
	return func(v any) error {
		if !cond {
			return nil
		}
		s, _ := v.(*string)
		if s == nil || strings.TrimSpace(*s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// SignupResponse is returned by a successful signup.
type SignupResponse struct {
	Message   string `json:"message"`
	UserID    int64  `json:"user_id"`
	UserEmail string `json:"user_email"`
	UserRole  Role   `json:"user_role"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ErrorResponse covers both error shapes the backend emits: {"error": "..."}
// and FastAPI's {"detail": "..."} (detail may also be a list of field errors).
type ErrorResponse struct {
	Error     string   `json:"error,omitempty"`
	Detail    any      `json:"detail,omitempty"`
	ErrorType string   `json:"error_type,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// Message returns the most specific human-readable message available.
func (e ErrorResponse) Message() string {
	if e.Error != "" {
		return e.Error
	}
	var msg string
	switch d := e.Detail.(type) {
	case string:
		msg = d
	case []any:
		parts := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok {
					parts = append(parts, s)
					continue
				}
			}
			parts = append(parts, fmt.Sprint(item))
		}
		msg = strings.Join(parts, "; ")
	}
	if len(e.Errors) > 0 {
		if msg != "" {
			msg += ": "
		}
		msg += strings.Join(e.Errors, "; ")
	}
	return msg
}
