package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// MarkdownWriter renders a result as a Markdown document suitable for
// sharing or archiving. It builds the document through nao1215/markdown,
// which covers the tables, GitHub-style alerts, and the risk pie chart
// without hand-assembled strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the report: header, scores, penalty breakdown,
// recommendations grouped by priority, then the footer.
func (w *MarkdownWriter) Write(result *Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeScores(md, result)
	w.writePenalties(md, result)
	w.writeRecommendations(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the scan context table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *Result) {
	rec := result.Record

	md.H1("Privacy Analysis Report")
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Scan Date", rec.CreatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Location", locationText(rec)},
			{"Browser", rec.Fingerprint.BrowserInfo + " on " + rec.Fingerprint.OSInfo},
			{"Network", networkText(rec)},
		},
	})
	md.PlainText("")
}

// writeScores writes the score summary section with a risk alert.
func (w *MarkdownWriter) writeScores(md *markdown.Markdown, result *Result) {
	rec := result.Record

	md.H2("Scores")
	md.PlainText("")

	rows := [][]string{
		{"Anonymity Score", strconv.Itoa(rec.Score.Score) + "/100"},
		{"Risk Level", w.getRiskText(rec.RiskLevel)},
	}
	if result.Legitimacy != nil {
		rows = append(rows,
			[]string{"Legitimacy Score", strconv.Itoa(result.Legitimacy.Score) + "/100"},
			[]string{"Legitimacy Level", result.Legitimacy.Level.String()},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	// Add alert based on risk level
	w.writeAlert(md, rec)
}

// getRiskText returns the risk level with a visual indicator.
func (w *MarkdownWriter) getRiskText(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return "🔴 High"
	case model.RiskMedium:
		return "🟡 Medium"
	case model.RiskLow:
		return "🟢 Low"
	default:
		return level.String()
	}
}

// writeAlert writes an appropriate alert based on the risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, rec *model.ScanRecord) {
	switch rec.RiskLevel {
	case model.RiskHigh:
		md.Cautionf(
			"High tracking risk. The anonymity score of %d means this browser profile is easy to identify and follow across sites.",
			rec.Score.Score,
		)
	case model.RiskMedium:
		md.Warningf(
			"Meaningful exposure remains. %d point(s) of penalties were applied; the recommendations below address them.",
			rec.Score.TotalPenalty(),
		)
	default:
		md.Tip("Strong privacy posture. Keep the current protections enabled.")
	}
	md.PlainText("")
}

// writePenalties writes the penalty breakdown table.
func (w *MarkdownWriter) writePenalties(md *markdown.Markdown, result *Result) {
	md.H2("Penalty Breakdown")
	md.PlainText("")

	penalties := result.Record.Score.Penalties
	if len(penalties) == 0 {
		md.PlainText("No penalties applied.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(penalties)+1)
	for _, p := range penalties {
		rows = append(rows, []string{
			truncateString(p.Reason, 60),
			"-" + strconv.Itoa(p.Weight),
		})
	}
	rows = append(rows, []string{
		"**Total**",
		"**-" + strconv.Itoa(result.Record.Score.TotalPenalty()) + "**",
	})

	md.Table(markdown.TableSet{
		Header: []string{"Finding", "Points"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRecommendations writes all recommendations grouped by priority.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, result *Result) {
	md.H2("Recommendations")
	md.PlainText("")

	if len(result.Recommendations) == 0 {
		md.PlainText("No recommendations. This profile is already well protected.")
		md.PlainText("")
		return
	}

	// Add priority distribution chart
	w.writePieChart(md, result)

	priorities := []struct {
		level  model.Priority
		header string
	}{
		{model.PriorityHigh, "### 🔴 High Priority"},
		{model.PriorityMedium, "### 🟡 Medium Priority"},
		{model.PriorityLow, "### 🔵 Low Priority"},
	}

	for _, p := range priorities {
		recs := result.RecommendationsByPriority(p.level)
		if len(recs) == 0 {
			continue
		}

		md.PlainText(p.header)
		md.PlainText("")
		w.writeRecommendationsTable(md, recs)
	}
}

// writePieChart writes a mermaid pie chart of the priority distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *Result) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Recommendation Priorities"),
		piechart.WithShowData(true),
	)

	high := len(result.RecommendationsByPriority(model.PriorityHigh))
	medium := len(result.RecommendationsByPriority(model.PriorityMedium))
	low := len(result.RecommendationsByPriority(model.PriorityLow))

	if high > 0 {
		chart.LabelAndIntValue("High", uint64(high))
	}
	if medium > 0 {
		chart.LabelAndIntValue("Medium", uint64(medium))
	}
	if low > 0 {
		chart.LabelAndIntValue("Low", uint64(low))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRecommendationsTable writes a table of recommendations with details.
func (w *MarkdownWriter) writeRecommendationsTable(md *markdown.Markdown, recs []model.Recommendation) {
	headers := []string{"Recommendation", "Category", "Description"}

	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = []string{
			rec.Title,
			rec.Category.DisplayName(),
			truncateString(rec.Description, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")

	// Add collapsible details with the full description and links
	for _, rec := range recs {
		if rec.Description == "" && len(rec.Links) == 0 {
			continue
		}
		md.Details(rec.Title, recommendationDetail(rec))
	}
	md.PlainText("")
}

// recommendationDetail renders the full description plus reading links.
func recommendationDetail(rec model.Recommendation) string {
	var sb strings.Builder
	sb.WriteString(rec.Description)
	for _, link := range rec.Links {
		sb.WriteString("\n")
		sb.WriteString("- [" + link.Text + "](" + link.URL + ")")
	}
	return sb.String()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [prvcsh](https://github.com/hydro414e13/prvcsh)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
