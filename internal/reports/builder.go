package reports

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/compare"
	"github.com/tmpllc001/focusmetrics/internal/domain"
)

// SectionType is the closed set of buildable report sections.
type SectionType string

const (
	SectionSummary         SectionType = "summary"
	SectionProductivity    SectionType = "productivity_analysis"
	SectionComparison      SectionType = "comparison"
	SectionVisualization   SectionType = "visualization"
	SectionTrendAnalysis   SectionType = "trend_analysis"
	SectionRecommendations SectionType = "recommendations"
	SectionRawData         SectionType = "raw_data"
)

func (t SectionType) valid() bool {
	switch t {
	case SectionSummary, SectionProductivity, SectionComparison,
		SectionVisualization, SectionTrendAnalysis, SectionRecommendations, SectionRawData:
		return true
	}
	return false
}

// Range presets for report configs.
const (
	RangeLast7Days  = "last_7_days"
	RangeLast30Days = "last_30_days"
	RangeCustom     = "custom"
)

// SectionConfig describes one requested section.
type SectionConfig struct {
	Name       string            `json:"name" yaml:"name"`
	Type       SectionType       `json:"type" yaml:"type"`
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Config describes a custom report to assemble.
type Config struct {
	Name        string          `json:"name" yaml:"name"`
	RangePreset string          `json:"range_preset" yaml:"range_preset"`
	Start       time.Time       `json:"start,omitempty" yaml:"start,omitempty"`
	End         time.Time       `json:"end,omitempty" yaml:"end,omitempty"`
	Sections    []SectionConfig `json:"sections" yaml:"sections"`
}

// Validate rejects configs the builder cannot assemble.
func (c Config) Validate() error {
	if c.Name == "" {
		return domain.Validationf("name", "report name is required")
	}
	if len(c.Sections) == 0 {
		return domain.Validationf("sections", "at least one section is required")
	}
	switch c.RangePreset {
	case RangeLast7Days, RangeLast30Days:
	case RangeCustom:
		if r := (compare.DateRange{Start: c.Start, End: c.End}); r.Validate() != nil {
			return domain.Validationf("range", "custom preset needs start before end")
		}
	default:
		return domain.Validationf("range_preset", "unknown preset %q", c.RangePreset)
	}
	for i, s := range c.Sections {
		if !s.Type.valid() {
			return domain.Validationf("sections", "section %d has unknown type %q", i, s.Type)
		}
	}
	return nil
}

func (c Config) resolveRange(now time.Time) compare.DateRange {
	switch c.RangePreset {
	case RangeLast7Days:
		return compare.LastDays(now, 7)
	case RangeLast30Days:
		return compare.LastDays(now, 30)
	default:
		return compare.DateRange{Start: c.Start, End: c.End}
	}
}

// Section is one assembled section. Data holds the section-specific
// payload and is nil when the section failed.
type Section struct {
	Name string      `json:"name"`
	Type SectionType `json:"type"`
	Data any         `json:"data,omitempty"`
}

// CustomReport is the assembled output of a Config.
type CustomReport struct {
	Name        string            `json:"name"`
	GeneratedAt time.Time         `json:"generated_at"`
	Range       compare.DateRange `json:"range"`
	Sections    []Section         `json:"sections"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// Build assembles a custom report section by section. A failing section
// becomes a warning instead of sinking the whole report.
func (e *Engine) Build(cfg Config) (CustomReport, error) {
	if err := cfg.Validate(); err != nil {
		return CustomReport{}, err
	}

	r := cfg.resolveRange(e.clock())
	out := CustomReport{
		Name:        cfg.Name,
		GeneratedAt: e.clock(),
		Range:       r,
	}
	for _, sc := range cfg.Sections {
		data, err := e.buildSection(sc, r)
		if err != nil {
			e.logger.Error(fmt.Sprintf("report section %s failed: %v", sc.Name, err))
			out.Warnings = append(out.Warnings, fmt.Sprintf("section %q skipped: %v", sc.Name, err))
			continue
		}
		out.Sections = append(out.Sections, Section{Name: sc.Name, Type: sc.Type, Data: data})
	}
	return out, nil
}

func (e *Engine) buildSection(sc SectionConfig, r compare.DateRange) (any, error) {
	switch sc.Type {
	case SectionSummary:
		return compare.ComputeMetrics(e.history.HistoryRange(r.Start, r.End)), nil
	case SectionProductivity:
		records := e.history.HistoryRange(r.Start, r.End)
		if len(records) == 0 {
			return nil, fmt.Errorf("no sessions in range")
		}
		return analyzeProductivity(records), nil
	case SectionComparison:
		switch sc.Parameters["mode"] {
		case "time_periods":
			return e.compare.CompareTimePeriods(r)
		case "", "weekday_weekend":
			return e.compare.CompareWeekdaysVsWeekends(r)
		default:
			return nil, fmt.Errorf("unknown comparison mode %q", sc.Parameters["mode"])
		}
	case SectionVisualization:
		return focusSeries(e.history.HistoryRange(r.Start, r.End)), nil
	case SectionTrendAnalysis:
		return e.compare.AnalyzeProgressTrends(r, paramInt(sc.Parameters, "window_days"))
	case SectionRecommendations:
		report, err := e.Generate(r)
		if err != nil {
			return nil, err
		}
		return report.Recommendations, nil
	case SectionRawData:
		return e.history.HistoryRange(r.Start, r.End), nil
	}
	return nil, fmt.Errorf("unknown section type %q", sc.Type)
}

// paramInt reads an optional integer section parameter, 0 when absent
// or malformed.
func paramInt(params map[string]string, name string) int {
	n, err := strconv.Atoi(params[name])
	if err != nil {
		return 0
	}
	return n
}

// VisualizationPoint is one plottable session score.
type VisualizationPoint struct {
	Date       string  `json:"date"`
	FocusScore float64 `json:"focus_score"`
}

func focusSeries(records []domain.SessionRecord) []VisualizationPoint {
	out := make([]VisualizationPoint, 0, len(records))
	for i := range records {
		out = append(out, VisualizationPoint{
			Date:       records[i].StartTime.Format("2006-01-02 15:04"),
			FocusScore: records[i].FocusScore,
		})
	}
	return out
}
