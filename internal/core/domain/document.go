package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultMimeType is assumed for bills that do not declare a content type
const DefaultMimeType = "text/plain"

// Bill is a legislative document as stored in the corpus JSON
type Bill struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Chamber     string `json:"chamber"`
	CreatedDate string `json:"created_date"`
	Text        string `json:"text,omitempty"`
	Link        string `json:"link"`
	MimeType    string `json:"mime_type,omitempty"`
}

// UnmarshalJSON accepts a string or numeric "id". Numbers keep their JSON
// spelling, so {"id": 123} becomes "123".
func (b *Bill) UnmarshalJSON(data []byte) error {
	type plain Bill
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := decodeBillID(raw.ID)
	if err != nil {
		return err
	}
	*b = Bill(raw.plain)
	b.ID = id
	return nil
}

func decodeBillID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("bill id must be a string or number, got %s", raw)
		}
		return n.String(), nil
	}
}

// HasText reports whether the bill carries a non-empty text field.
// Bills without text are skipped by every aggregation. Whitespace-only
// text still counts: it is scored and yields an empty token sequence.
func (b *Bill) HasText() bool {
	return b != nil && b.Text != ""
}

// ContentType returns the bill MIME type, falling back to plain text
func (b *Bill) ContentType() string {
	if b.MimeType == "" {
		return DefaultMimeType
	}
	return b.MimeType
}

// Corpus is the set of bills for one jurisdiction.
// Bills keep the order in which they appeared in the source.
type Corpus struct {
	Name  string  `json:"name"`
	Bills []*Bill `json:"bills"`
}

// NewCorpus creates a corpus from bills in source order
func NewCorpus(name string, bills []*Bill) *Corpus {
	return &Corpus{Name: name, Bills: bills}
}

// Get returns the bill with the given ID
func (c *Corpus) Get(id string) (*Bill, error) {
	for _, b := range c.Bills {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

// Len returns the number of bills, including those without text
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Bills)
}

// WithText returns the bills that have text, in corpus order
func (c *Corpus) WithText() []*Bill {
	if c == nil {
		return nil
	}
	bills := make([]*Bill, 0, len(c.Bills))
	for _, b := range c.Bills {
		if b.HasText() {
			bills = append(bills, b)
		}
	}
	return bills
}
