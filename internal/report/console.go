package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// ConsoleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and priority indicators.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type ConsoleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with recommendation descriptions
// and further-reading links.
func WithVerbose(verbose bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.verbose = verbose
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *ConsoleWriter) Write(result *Result) (int, error) {
	var sb strings.Builder

	// Header
	w.writeHeader(&sb, result)

	// Scores
	w.writeScores(&sb, result)

	// Penalty breakdown
	w.writePenalties(&sb, result)

	// Recommendations by priority
	w.writeRecommendations(&sb, result)

	// Footer
	w.writeFooter(&sb)

	// Write to output
	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *ConsoleWriter) writeHeader(sb *strings.Builder, result *Result) {
	rec := result.Record

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       PRIVACY ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Scan Date:  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Location:   %s\n", locationText(rec)))
	sb.WriteString(fmt.Sprintf("Browser:    %s on %s\n", rec.Fingerprint.BrowserInfo, rec.Fingerprint.OSInfo))
	sb.WriteString(fmt.Sprintf("Network:    %s\n", networkText(rec)))

	sb.WriteString("\n")
}

// writeScores writes the score summary section.
func (w *ConsoleWriter) writeScores(sb *strings.Builder, result *Result) {
	rec := result.Record

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SCORES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  ANONYMITY:  %3d/100  (%s risk)\n", rec.Score.Score, rec.RiskLevel))
	if result.Legitimacy != nil {
		sb.WriteString(fmt.Sprintf("  LEGITIMACY: %3d/100  (%s)\n", result.Legitimacy.Score, result.Legitimacy.Level))
	}
	sb.WriteString("\n")

	if total := rec.Score.TotalPenalty(); total > 0 {
		sb.WriteString(fmt.Sprintf("  TOTAL PENALTY: -%d points across %d findings\n", total, len(rec.Score.Penalties)))
		sb.WriteString("\n")
	}
}

// writePenalties writes the penalty breakdown section.
func (w *ConsoleWriter) writePenalties(sb *strings.Builder, result *Result) {
	penalties := result.Record.Score.Penalties
	if len(penalties) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PENALTIES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(penalties) == 0 {
		sb.WriteString("  No penalties applied\n")
	} else {
		for _, p := range penalties {
			sb.WriteString(fmt.Sprintf("  [-%2d] %s\n", p.Weight, p.Reason))
		}
	}
	sb.WriteString("\n")
}

// writeRecommendations writes all recommendations grouped by priority.
func (w *ConsoleWriter) writeRecommendations(sb *strings.Builder, result *Result) {
	if len(result.Recommendations) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RECOMMENDATIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	// Write recommendations in order of priority (high first)
	priorities := []model.Priority{
		model.PriorityHigh,
		model.PriorityMedium,
		model.PriorityLow,
	}

	for _, priority := range priorities {
		recs := result.RecommendationsByPriority(priority)
		if len(recs) == 0 && !w.showEmpty {
			continue
		}

		w.writeRecommendationsForPriority(sb, priority, recs)
	}
}

// writeRecommendationsForPriority writes recommendations of one priority level.
func (w *ConsoleWriter) writeRecommendationsForPriority(sb *strings.Builder, priority model.Priority, recs []model.Recommendation) {
	// Priority header with visual indicator
	indicator := w.getPriorityIndicator(priority)
	sb.WriteString(fmt.Sprintf("[%s] %s PRIORITY\n", indicator, strings.ToUpper(string(priority))))

	if len(recs) == 0 {
		sb.WriteString("  No recommendations\n\n")
		return
	}

	for _, rec := range recs {
		sb.WriteString(fmt.Sprintf("  * %s\n", rec.Title))
		sb.WriteString(fmt.Sprintf("    Category: %s\n", rec.Category.DisplayName()))
		if w.verbose && rec.Description != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", rec.Description))
		}
		if w.verbose {
			for _, link := range rec.Links {
				sb.WriteString(fmt.Sprintf("    -> %s: %s\n", link.Text, link.URL))
			}
		}
	}
	sb.WriteString("\n")
}

// getPriorityIndicator returns a visual indicator for the priority level.
func (w *ConsoleWriter) getPriorityIndicator(priority model.Priority) string {
	switch priority {
	case model.PriorityHigh:
		return "!!!"
	case model.PriorityMedium:
		return "!!"
	case model.PriorityLow:
		return "!"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *ConsoleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by prvcsh\n")
	sb.WriteString("https://github.com/hydro414e13/prvcsh\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// locationText formats the resolved location for display.
func locationText(rec *model.ScanRecord) string {
	city := rec.Geo.City
	country := rec.Geo.Country

	switch {
	case city != model.Unknown && country != model.Unknown:
		return city + ", " + country
	case country != model.Unknown:
		return country
	default:
		return model.Unknown
	}
}

// networkText summarizes the detected anonymization layer.
func networkText(rec *model.ScanRecord) string {
	switch {
	case rec.VPNProxy.IsTor:
		return "Tor exit node"
	case rec.VPNProxy.IsVPN:
		return "VPN detected"
	case rec.VPNProxy.IsProxy:
		return "Proxy detected (" + rec.VPNProxy.ProxyType + ")"
	default:
		return "Direct connection"
	}
}
