package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medquery/internal/client/services"
)

func (a *App) getStatus() string {
	st := a.session.State()
	if !st.Authenticated() || st.User == nil {
		return ""
	}
	parts := []string{st.User.Email, string(st.User.Role)}
	if !st.Verified {
		parts = append(parts, "unverified")
	}
	return fmt.Sprintf("(%s) ", strings.Join(parts, " "))
}

func (a *App) capabilities() []services.Capability {
	st := a.session.State()
	if st.User == nil {
		return nil
	}
	return services.Capabilities(st.User.Role)
}

// Root prints the greeting and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to MedQuery CLI (type 'help' for commands)")
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You are not logged in. Type 'login' or 'signup'.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
