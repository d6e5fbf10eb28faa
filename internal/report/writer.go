package report

import (
	"io"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// Result bundles everything a written report needs: the scan record with
// its anonymity score, the legitimacy assessment derived from it, and the
// generated recommendations. Legitimacy and recommendations are computed
// on demand rather than stored, so the caller assembles the bundle.
type Result struct {
	// Record is the scored scan record.
	Record *model.ScanRecord `json:"record"`

	// Legitimacy is the legitimacy assessment for the same record.
	Legitimacy *model.LegitimacyResult `json:"legitimacy"`

	// Recommendations are the remediation entries derived from the
	// record's penalty list, ordered by priority.
	Recommendations []model.Recommendation `json:"recommendations"`
}

// RecommendationsByPriority returns the recommendations matching the given
// priority, preserving their generated order.
func (r *Result) RecommendationsByPriority(p model.Priority) []model.Recommendation {
	var matched []model.Recommendation
	for _, rec := range r.Recommendations {
		if rec.Priority == p {
			matched = append(matched, rec)
		}
	}
	return matched
}

// Writer renders a Result to some destination. Each implementation owns
// one output format; the destination is whatever io.Writer it was built
// on. Write reports the bytes written and the first error hit.
type Writer interface {
	Write(result *Result) (int, error)
}

// MultiWriter fans a Result out to several Writers, typically a terminal
// writer plus a file writer. It cannot be io.MultiWriter since Writers
// consume results, not bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the result through every configured writer in order,
// stopping at the first error. The returned count sums all writers.
func (m *MultiWriter) Write(result *Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
