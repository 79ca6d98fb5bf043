package ui

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ryo246912/gh-merge-ready/internal/analyzer"
)

const htmlTitleRunes = 80

//go:embed templates/report.html.tmpl
var reportTemplate string

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

type htmlRow struct {
	Repo          string
	Number        int
	URL           string
	Title         string
	State         badge
	CI            badge
	FailedChecks  []string
	PendingChecks []string
	Review        badge
	Comments      badge
	CommentURLs   []string
	Conflicts     badge
}

type htmlPage struct {
	Username    string
	GeneratedAt string
	Summary     Summary
	Rows        []htmlRow
}

// WriteHTML renders a self-contained HTML report. All values are escaped by html/template.
func WriteHTML(w io.Writer, username string, generatedAt time.Time, analyses []*analyzer.Analysis) error {
	page := htmlPage{
		Username:    username,
		GeneratedAt: generatedAt.Format("2006-01-02 15:04:05"),
		Summary:     Summarize(analyses),
		Rows:        make([]htmlRow, 0, len(analyses)),
	}
	for _, a := range analyses {
		row := htmlRow{
			Repo:      a.Repo,
			Number:    a.Number,
			URL:       a.URL,
			Title:     TruncateRunes(a.Title, htmlTitleRunes),
			State:     stateBadge(a.State),
			CI:        ciBadge(a.CIStatus),
			Review:    reviewBadge(a.ReviewStatus),
			Comments:  commentsBadge(a),
			Conflicts: conflictsBadge(a.ConflictsStatus),
		}
		if a.CIStatus != analyzer.CIPassing {
			row.FailedChecks = a.FailedCheckNames
			row.PendingChecks = a.PendingCheckNames
		}
		if a.CommentsStatus == analyzer.CommentsUnresolved {
			row.CommentURLs = a.UnresolvedCommentURLs
		}
		page.Rows = append(page.Rows, row)
	}

	if err := reportTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
