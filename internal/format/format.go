package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/reportscope/internal/model"
)

const (
	vulnerabilitiesHeader = "Vulnerabilities:\n"
	statsHeader           = "Language Statistics:\n"
	instanceSeparator     = ", "
)

// Format renders the report as text. A nil report renders as the empty string.
//
// A section the service did not send is omitted entirely, header included.
// A section sent as an empty object keeps its header.
func Format(rd *model.ReportData) string {
	if rd == nil {
		return ""
	}

	var b strings.Builder
	if rd.ScanDetails != nil {
		writeVulnerabilities(&b, rd.ScanDetails)
	}
	if rd.Stats != nil {
		writeStats(&b, rd.Stats)
	}
	return b.String()
}

func writeVulnerabilities(b *strings.Builder, details model.VulnerabilityDetails) {
	upper := cases.Upper(language.Und)

	b.WriteString(vulnerabilitiesHeader)
	for _, vuln := range details {
		b.WriteString(upper.String(vuln.Type))
		b.WriteString(":\n")
		for _, f := range vuln.Files {
			b.WriteString("  Path: ")
			b.WriteString(f.Path)
			b.WriteString("\n  Instances: ")
			b.WriteString(strings.Join(f.Instances, instanceSeparator))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

func writeStats(b *strings.Builder, stats model.LanguageStats) {
	b.WriteString(statsHeader)
	for _, stat := range stats {
		b.WriteString(stat.Language)
		b.WriteString(": ")
		b.WriteString(Percent(stat.Percentage))
		b.WriteString("\n")
	}
}

// Percent renders a percentage with exactly two decimals and a trailing "%".
func Percent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}
