package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/medquery/internal/client/models"
	"github.com/dmitrijs2005/medquery/internal/client/session"
)

// getSimpleText, getPassword and friends are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getRole       = GetRole
	getConfirm    = GetConfirm
	getOptional   = GetOptional
)

// Signup collects a registration form and creates the account. On success
// the new user is logged in for this run only.
func (a *App) Signup(ctx context.Context) error {
	var req models.SignupRequest
	var err error

	if req.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if req.FullName, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	if req.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}
	if req.Role, err = getRole(a.reader, a.out); err != nil {
		return err
	}
	if req.Role.Clinical() {
		if req.LicenseNumber, err = getOptional(a.reader, "Enter license number", a.out); err != nil {
			return err
		}
		if req.Specialization, err = getOptional(a.reader, "Enter specialization", a.out); err != nil {
			return err
		}
	}
	if req.Role != models.RolePatient {
		if req.Institution, err = getOptional(a.reader, "Enter institution", a.out); err != nil {
			return err
		}
	}

	user, err := a.session.Signup(ctx, req)
	if err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", displayName(user))
	return nil
}

// Login prompts for credentials, role and whether to remember the session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	role, err := getRole(a.reader, a.out)
	if err != nil {
		return err
	}
	remember, err := getConfirm(a.reader, "Remember me on this device?", a.out)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, email, password, role, session.WithRemember(remember))
	if err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(user))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the signed-in user and what is known about the token.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.State()
	if !st.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	u := st.User
	fmt.Fprintf(a.out, "%s <%s>\n", displayName(u), u.Email)
	fmt.Fprintf(a.out, "  role:           %s\n", u.Role)
	if u.LicenseNumber != nil {
		fmt.Fprintf(a.out, "  license:        %s\n", *u.LicenseNumber)
	}
	if u.Institution != nil {
		fmt.Fprintf(a.out, "  institution:    %s\n", *u.Institution)
	}
	if u.Specialization != nil {
		fmt.Fprintf(a.out, "  specialization: %s\n", *u.Specialization)
	}
	if !st.Verified {
		fmt.Fprintln(a.out, "  (not yet confirmed by the server)")
	}

	if c, ok := a.session.Claims(); ok && !c.ExpiresAt.IsZero() {
		if c.Expired(time.Now()) {
			fmt.Fprintf(a.out, "  token expired:  %s\n", c.ExpiresAt.Local().Format(time.DateTime))
		} else {
			fmt.Fprintf(a.out, "  token expires:  %s\n", c.ExpiresAt.Local().Format(time.DateTime))
		}
	}
	return nil
}

func displayName(u *models.User) string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Email
}

// report prints err in a form fit for the user.
func (a *App) report(err error) {
	var authErr *session.AuthenticationError
	switch {
	case errors.As(err, &authErr):
		fmt.Fprintln(a.out, "Error:", authErr.Message)
	case errors.Is(err, session.ErrLoginIncomplete):
		fmt.Fprintln(a.out, "Logged in, but your profile could not be loaded. Please try again.")
	default:
		fmt.Fprintln(a.out, "Error:", describe(err))
	}
}
