package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportType selects which sections a report includes.
type ReportType string

const (
	ReportDaily         ReportType = "daily"
	ReportWeekly        ReportType = "weekly"
	ReportMonthly       ReportType = "monthly"
	ReportExecutive     ReportType = "executive"
	ReportComprehensive ReportType = "comprehensive"
)

var validReportTypes = map[ReportType]bool{
	ReportDaily:         true,
	ReportWeekly:        true,
	ReportMonthly:       true,
	ReportExecutive:     true,
	ReportComprehensive: true,
}

// Valid reports whether t is a known report type.
func (t ReportType) Valid() bool { return validReportTypes[t] }

// ParseReportType converts a string into a ReportType, rejecting unknown
// values.
func ParseReportType(v string) (ReportType, error) {
	t := ReportType(v)
	if !t.Valid() {
		return "", fmt.Errorf("unknown report type %q", v)
	}
	return t, nil
}

// OutputFormat selects a rendering of an assembled report. Every format is
// a pure function of the same Report value.
type OutputFormat string

const (
	FormatStructured OutputFormat = "structured"
	FormatMarkdown   OutputFormat = "markdown"
	FormatPlainText  OutputFormat = "plain_text"
)

var validFormats = map[OutputFormat]bool{
	FormatStructured: true,
	FormatMarkdown:   true,
	FormatPlainText:  true,
}

// Valid reports whether f is a known output format.
func (f OutputFormat) Valid() bool { return validFormats[f] }

// SectionKind identifies the upstream source of a report section.
type SectionKind string

const (
	SectionProgress     SectionKind = "progress"
	SectionWaste        SectionKind = "waste"
	SectionSafety       SectionKind = "safety"
	SectionHousekeeping SectionKind = "housekeeping"
	SectionForecast     SectionKind = "forecast"
)

// ReportSection is one typed section payload. When the upstream result the
// section needs was not supplied, Available is false and Body carries a
// placeholder note instead of analytical content.
type ReportSection struct {
	Kind      SectionKind    `json:"kind"`
	Title     string         `json:"title"`
	Available bool           `json:"available"`
	Body      string         `json:"body"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

// ExecutiveSummary is the report's top-line narrative.
type ExecutiveSummary struct {
	OverallStatus string `json:"overall_status"`
	Narrative     string `json:"narrative"`
}

// ReportMetadata identifies a generated report.
type ReportMetadata struct {
	ID          uuid.UUID  `db:"id"           json:"id"`
	ProjectID   uuid.UUID  `db:"project_id"   json:"project_id"`
	ProjectName string     `db:"project_name" json:"project_name"`
	Type        ReportType `db:"type"         json:"type"`
	GeneratedAt time.Time  `db:"generated_at" json:"generated_at"`
}

// Report is the assembled multi-section report. Never mutated after
// creation; renderings are derived on demand.
type Report struct {
	Metadata         ReportMetadata   `json:"metadata"`
	ExecutiveSummary ExecutiveSummary `json:"executive_summary"`
	Sections         []ReportSection  `json:"sections"`
}
