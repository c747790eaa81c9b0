package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/medquery/internal/client/client"
	"github.com/dmitrijs2005/medquery/internal/client/services"
	"github.com/dmitrijs2005/medquery/internal/filex"
)

const (
	historyLimit    = 10
	searchTopK      = 5
	pubmedLimit     = 10
	snippetMaxRunes = 160
)

// describe turns service and transport errors into short messages.
func describe(err error) string {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return "please log in first"
	case errors.Is(err, services.ErrForbiddenRole):
		return "this command is not available for your role"
	case errors.Is(err, client.ErrUnauthorized):
		if msg := client.Message(err); msg != "" {
			return "not authorized: " + msg
		}
		return "not authorized"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	}
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}

func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", describe(err))
	return err
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func (a *App) Ask(ctx context.Context, question string) error {
	if question == "" {
		var err error
		if question, err = getSimpleText(a.reader, "Ask a medical question", a.out); err != nil {
			return err
		}
	}

	ans, err := a.assistant.Ask(ctx, question)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, ans.Answer)
	if len(ans.Sources) > 0 {
		fmt.Fprintln(a.out, "\nSources:")
		for i, s := range ans.Sources {
			fmt.Fprintf(a.out, "  [%d] %s: %s\n", i+1, s.Filename, truncate(s.Snippet, snippetMaxRunes))
		}
	}
	return nil
}

func (a *App) History(ctx context.Context) error {
	h, err := a.assistant.History(ctx, historyLimit)
	if err != nil {
		return a.fail(err)
	}
	if len(h.Queries) == 0 {
		fmt.Fprintln(a.out, "No questions yet.")
		return nil
	}
	for _, q := range h.Queries {
		when := ""
		if !q.CreatedAt.IsZero() {
			when = q.CreatedAt.Local().Format(time.DateTime) + "  "
		}
		fmt.Fprintf(a.out, "%sQ: %s\n", when, q.Question)
		fmt.Fprintf(a.out, "  A: %s\n", truncate(q.Answer, snippetMaxRunes))
	}
	return nil
}

func (a *App) Upload(ctx context.Context, path string) error {
	if path == "" {
		fmt.Fprintln(a.out, "Usage: upload <path>")
		return nil
	}
	up, err := a.assistant.Upload(ctx, path)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Uploaded %s (id %s). It will be searchable once processed.\n", up.Filename, up.ID)
	return nil
}

func (a *App) Documents(ctx context.Context) error {
	docs, err := a.assistant.Documents(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No documents.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILENAME\tSTATUS\tUPLOADED")
	for _, d := range docs {
		status := "processing"
		if d.Processed {
			status = "ready"
		}
		uploaded := ""
		if !d.CreatedAt.IsZero() {
			uploaded = d.CreatedAt.Local().Format(time.DateOnly)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Filename, status, uploaded)
	}
	return tw.Flush()
}

// Download saves document id to dest. When dest is empty or a directory the
// server's filename is used. Existing files are never overwritten.
func (a *App) Download(ctx context.Context, id, dest string) error {
	if id == "" {
		fmt.Fprintln(a.out, "Usage: download <id> [dest]")
		return nil
	}

	var buf bytes.Buffer
	name, err := a.assistant.Download(ctx, id, &buf)
	if err != nil {
		return a.fail(err)
	}

	target := dest
	if fi, statErr := os.Stat(dest); dest == "" || (statErr == nil && fi.IsDir()) {
		if name == "" {
			name = id
		}
		target = filepath.Join(dest, filepath.Base(name))
	}

	f, err := filex.CreateExclusive(target)
	if err != nil {
		return a.fail(err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return a.fail(err)
	}
	if err := f.Close(); err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Saved %s\n", f.Name())
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	if query == "" {
		fmt.Fprintln(a.out, "Usage: search <query>")
		return nil
	}
	res, err := a.assistant.SearchDocuments(ctx, query, searchTopK)
	if err != nil {
		return a.fail(err)
	}
	if len(res.Results) == 0 {
		fmt.Fprintln(a.out, "No matches.")
		return nil
	}
	for i, r := range res.Results {
		fmt.Fprintf(a.out, "[%d] %s (%s)\n    %s\n", i+1, r.Filename, r.DocID, truncate(r.Text, snippetMaxRunes))
	}
	return nil
}

func (a *App) PubMed(ctx context.Context, query string) error {
	if query == "" {
		fmt.Fprintln(a.out, "Usage: pubmed <query>")
		return nil
	}
	res, err := a.assistant.SearchPubMed(ctx, query, pubmedLimit)
	if err != nil {
		return a.fail(err)
	}
	if len(res.Papers) == 0 {
		fmt.Fprintln(a.out, "No papers found.")
		return nil
	}
	for _, p := range res.Papers {
		fmt.Fprintf(a.out, "%-10s %s", p.PMID, p.Title)
		if p.Year != "" {
			fmt.Fprintf(a.out, " (%s)", p.Year)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *App) Paper(ctx context.Context, pmid string) error {
	if pmid == "" {
		fmt.Fprintln(a.out, "Usage: paper <pmid>")
		return nil
	}
	p, err := a.assistant.Paper(ctx, pmid)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, p.Title)
	if len(p.Authors) > 0 {
		fmt.Fprintln(a.out, strings.Join(p.Authors, ", "))
	}
	var meta []string
	for _, s := range []string{p.Journal, p.Year} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if p.DOI != "" {
		meta = append(meta, "doi:"+p.DOI)
	}
	if len(meta) > 0 {
		fmt.Fprintln(a.out, strings.Join(meta, " | "))
	}
	if p.Abstract != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, p.Abstract)
	}
	return nil
}
