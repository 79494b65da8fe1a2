package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"gradus/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (19 columns).
var columns = []string{
	"Topic ID",
	"Title",
	"Description",
	"Problem Statement",
	"Expected Outcome",
	"Keywords",
	"Status",
	"Used As Thesis",
	"Agenda Type",
	"Department",
	"Agenda Path",
	"ESG Pillar",
	"SDG Goal",
	"Last Review Stage",
	"Last Review Status",
	"Last Review Notes",
	"Last Reviewed At",
	"Proposed At",
	"Updated At",
}

// Writer wraps csv.Writer for exporting proposal sets as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 19-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteSet converts the set's topics to CSV rows, ordered by proposal
// time. The review columns carry each topic's most recent decision and
// stay empty for topics never reviewed.
func (w *Writer) WriteSet(set *domain.ProposalSet) error {
	topics := make([]*domain.TopicProposal, 0, len(set.Topics))
	for _, t := range set.Topics {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].CreatedAt.Equal(topics[j].CreatedAt) {
			return topics[i].ID < topics[j].ID
		}
		return topics[i].CreatedAt.Before(topics[j].CreatedAt)
	})

	// Reviews are appended in decision order, so the final record per
	// topic is its latest.
	last := make(map[string]*domain.ReviewRecord, len(set.Reviews))
	for i := range set.Reviews {
		rec := &set.Reviews[i]
		last[rec.TopicID] = rec
	}

	for _, t := range topics {
		if err := w.csv.Write(topicToRow(t, last[t.ID])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// topicToRow converts a single topic to a 19-element string slice. The
// review columns are filled from the topic's latest decision when one
// exists.
func topicToRow(t *domain.TopicProposal, last *domain.ReviewRecord) []string {
	row := make([]string, len(columns))

	row[0] = t.ID
	row[1] = t.Title
	row[2] = t.Description
	row[3] = t.ProblemStatement
	row[4] = t.ExpectedOutcome
	row[5] = strings.Join(t.Keywords, "; ")
	row[6] = string(t.Status)
	row[7] = formatBool(t.UsedAsThesis)
	row[8] = string(t.Classification.AgendaType)
	row[9] = t.Classification.Department
	row[10] = strings.Join(t.Classification.AgendaPath, " > ")
	row[11] = string(t.ESG)
	row[12] = string(t.SDG)
	if last != nil {
		row[13] = string(last.Stage)
		row[14] = string(last.Status)
		row[15] = last.Notes
		row[16] = last.ReviewedAt.Format(time.RFC3339)
	}
	row[17] = t.CreatedAt.Format(time.RFC3339)
	row[18] = t.UpdatedAt.Format(time.RFC3339)

	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a group code for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_group_code}_set{n}_{YYYY-MM-DD}.csv
func BuildFilename(groupCode string, setNumber int) string {
	sanitized := SanitizeFilename(groupCode)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_set%d_%s.csv", sanitized, setNumber, date)
}
