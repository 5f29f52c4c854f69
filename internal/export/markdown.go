package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownRenderer renders the document as GitHub-flavored Markdown:
// a metadata table, the formatted report in a code block and, when language
// statistics exist, a mermaid pie chart of them.
type MarkdownRenderer struct {
	chart bool
}

// MarkdownOption configures a MarkdownRenderer.
type MarkdownOption func(*MarkdownRenderer)

// WithLanguageChart toggles the language pie chart. It is on by default.
func WithLanguageChart(enabled bool) MarkdownOption {
	return func(r *MarkdownRenderer) {
		r.chart = enabled
	}
}

// NewMarkdownRenderer returns a Markdown renderer.
func NewMarkdownRenderer(opts ...MarkdownOption) *MarkdownRenderer {
	r := &MarkdownRenderer{chart: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extension implements DocumentRenderer.
func (r *MarkdownRenderer) Extension() string { return "md" }

// ContentType implements DocumentRenderer.
func (r *MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

// Render implements DocumentRenderer.
func (r *MarkdownRenderer) Render(f Fields) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Scan Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Username", tableCell(f.Username)},
			{"Project", tableCell(f.Project)},
			{"Timestamp", tableCell(f.Timestamp)},
		},
	})
	md.PlainText("")

	md.H2("Report")
	md.PlainText("")
	if f.Body == "" {
		md.PlainText("No report data.")
	} else {
		md.PlainText(fencedBlock(markdown.SyntaxHighlightText, f.Body))
	}
	md.PlainText("")

	if r.chart && f.Report != nil && len(f.Report.Stats) > 0 {
		r.writeLanguageChart(md, f)
	}

	if err := md.Build(); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *MarkdownRenderer) writeLanguageChart(md *markdown.Markdown, f Fields) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Language Distribution"),
		piechart.WithShowData(true),
	)
	for _, stat := range f.Report.Stats {
		chart.LabelAndFloatValue(stat.Language, stat.Percentage)
	}

	md.H2("Languages")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

var cellEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\r\n", "<br>", "\n", "<br>")

// tableCell escapes s so it stays inside one GFM table cell.
func tableCell(s string) string {
	return cellEscaper.Replace(s)
}

// fencedBlock wraps text in a code fence longer than any backtick run in
// text, so the report body cannot close the block early.
func fencedBlock(lang markdown.SyntaxHighlight, text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	fence := strings.Repeat("`", max(3, longest+1))
	return fence + string(lang) + "\n" + text + "\n" + fence
}
