package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medquery/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	capabilities() []services.Capability
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Ask(ctx context.Context, question string) error
	History(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Documents(ctx context.Context) error
	Download(ctx context.Context, id, dest string) error
	Search(ctx context.Context, query string) error
	PubMed(ctx context.Context, query string) error
	Paper(ctx context.Context, pmid string) error
}

// commandFor maps each capability to the REPL command that exercises it.
var commandFor = map[services.Capability]string{
	services.CapAsk:       "ask",
	services.CapHistory:   "history",
	services.CapUpload:    "upload <path>",
	services.CapDocuments: "docs",
	services.CapSearch:    "search <query>",
	services.CapDownload:  "download <id> [dest]",
	services.CapPubMed:    "pubmed <query>, paper <pmid>",
}

func helpText(a execIface) string {
	if !a.isLoggedIn() {
		return "Available commands: signup, login, exit"
	}
	cmds := []string{"whoami"}
	for _, c := range a.capabilities() {
		cmds = append(cmds, commandFor[c])
	}
	cmds = append(cmds, "logout", "exit")
	return "Available commands: " + strings.Join(cmds, ", ")
}

// runREPL starts a simple read–eval–print loop for the MedQuery CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. The rest of the line is the
// command's argument. Prompts issued by handlers read from the same reader.
// Unknown commands are reported back to the user. The
// loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                   show available commands
//	  - signup                 create an account
//	  - login                  authenticate
//	  - exit | quit            leave the program
//
//	Logged in (subject to role):
//	  - whoami                 show the current user
//	  - ask [question]         ask the assistant
//	  - history                recent questions
//	  - upload <path>          upload a document
//	  - docs                   list documents
//	  - download <id> [dest]   save a document
//	  - search <query>         search documents
//	  - pubmed <query>         search PubMed
//	  - paper <pmid>           show a PubMed paper
//	  - logout                 log out
//	  - exit | quit            leave the program
//
// Errors returned by command handlers are ignored here; handlers report their
// own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mq %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]
		rest := strings.Join(args, " ")

		if needsLogin(cmd) && !a.isLoggedIn() {
			printlnFn("Please log in first (type 'login' or 'signup').")
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpText(a))

		case "signup", "register":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "ask":
			_ = a.Ask(ctx, rest)

		case "history":
			_ = a.History(ctx)

		case "upload":
			_ = a.Upload(ctx, rest)

		case "docs", "documents":
			_ = a.Documents(ctx)

		case "download":
			if len(args) == 0 || len(args) > 2 {
				printlnFn("Usage: download <id> [dest]")
				continue
			}
			dest := ""
			if len(args) == 2 {
				dest = args[1]
			}
			_ = a.Download(ctx, args[0], dest)

		case "search":
			_ = a.Search(ctx, rest)

		case "pubmed":
			_ = a.PubMed(ctx, rest)

		case "paper":
			if len(args) != 1 {
				printlnFn("Usage: paper <pmid>")
				continue
			}
			_ = a.Paper(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func needsLogin(cmd string) bool {
	switch cmd {
	case "help", "signup", "register", "login", "exit", "quit":
		return false
	}
	return true
}
