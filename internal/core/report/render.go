package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codesleeps/leanConstruction-sub002/internal/core"
	"github.com/codesleeps/leanConstruction-sub002/pkg/models"
)

// Render encodes an assembled report into the requested format. Rendering
// is a pure function of the report value: no analytical values are
// re-derived or mutated. Unknown formats are a configuration error.
func Render(r models.Report, format models.OutputFormat) ([]byte, error) {
	switch format {
	case models.FormatStructured:
		return json.MarshalIndent(r, "", "  ")
	case models.FormatMarkdown:
		return []byte(renderMarkdown(r)), nil
	case models.FormatPlainText:
		return []byte(renderPlainText(r)), nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", core.ErrConfiguration, format)
	}
}

func renderMarkdown(r models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s - %s report\n\n", r.Metadata.ProjectName, r.Metadata.Type)
	fmt.Fprintf(&b, "_Generated %s_\n\n", r.Metadata.GeneratedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "**Status:** %s\n\n%s\n\n", r.ExecutiveSummary.OverallStatus, r.ExecutiveSummary.Narrative)

	for _, s := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		if !s.Available {
			fmt.Fprintf(&b, "> %s\n\n", s.Body)
			continue
		}
		fmt.Fprintf(&b, "%s\n\n", s.Body)
	}

	return b.String()
}

func renderPlainText(r models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s report (generated %s)\n",
		r.Metadata.ProjectName, r.Metadata.Type, r.Metadata.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Status: %s\n%s\n", r.ExecutiveSummary.OverallStatus, r.ExecutiveSummary.Narrative)

	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n[%s]\n%s\n", s.Title, s.Body)
	}

	return b.String()
}
