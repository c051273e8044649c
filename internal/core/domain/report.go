package domain

import (
	"encoding/json"
	"math"
)

// IndexRecord is one row of the Energy Policy Index report.
// JSON field names match the published table format.
type IndexRecord struct {
	BillID      string  `json:"Bill ID"`
	Description string  `json:"Description"`
	Chamber     string  `json:"Chamber"`
	CreatedDate string  `json:"Created date"`
	Score       float64 `json:"Energy Policy Index"`
	URL         string  `json:"url"`
}

// ReportStats summarizes an index build
type ReportStats struct {
	DocumentsScored  int     `json:"documents_scored"`
	DocumentsSkipped int     `json:"documents_skipped"` // no text field
	EmptyDocuments   int     `json:"empty_documents"`   // text yielded no tokens
	MeanScore        float64 `json:"mean_score"`
	MaxScore         float64 `json:"max_score"`
}

// PolicyIndexReport is the per-document index of one corpus, in corpus order
type PolicyIndexReport struct {
	Corpus  string        `json:"corpus"`
	Records []IndexRecord `json:"records"`
	Stats   ReportStats   `json:"stats"`
}

// NewPolicyIndexReport creates a report and computes its score statistics
func NewPolicyIndexReport(corpus string, records []IndexRecord, skipped, empty int) *PolicyIndexReport {
	if records == nil {
		records = []IndexRecord{}
	}
	stats := ReportStats{
		DocumentsScored:  len(records),
		DocumentsSkipped: skipped,
		EmptyDocuments:   empty,
	}
	if len(records) > 0 {
		var sum float64
		for _, r := range records {
			sum += r.Score
			stats.MaxScore = math.Max(stats.MaxScore, r.Score)
		}
		stats.MeanScore = sum / float64(len(records))
	}
	return &PolicyIndexReport{Corpus: corpus, Records: records, Stats: stats}
}

// MarshalTable encodes the records as the bare JSON array written to disk
func (r *PolicyIndexReport) MarshalTable() ([]byte, error) {
	return json.Marshal(r.Records)
}

// NewIndexRecord builds a record from a bill and its score
func NewIndexRecord(b *Bill, score float64) IndexRecord {
	return IndexRecord{
		BillID:      b.ID,
		Description: b.Title,
		Chamber:     b.Chamber,
		CreatedDate: b.CreatedDate,
		Score:       score,
		URL:         b.Link,
	}
}
