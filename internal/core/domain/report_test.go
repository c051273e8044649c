package domain

import (
	"encoding/json"
	"testing"
)

func TestNewPolicyIndexReport_Stats(t *testing.T) {
	records := []IndexRecord{
		{BillID: "HB1", Score: 40},
		{BillID: "HB2", Score: 0},
		{BillID: "HB3", Score: 20},
	}

	r := NewPolicyIndexReport("texas", records, 2, 1)

	if r.Stats.DocumentsScored != 3 {
		t.Errorf("expected 3 scored, got %d", r.Stats.DocumentsScored)
	}
	if r.Stats.DocumentsSkipped != 2 {
		t.Errorf("expected 2 skipped, got %d", r.Stats.DocumentsSkipped)
	}
	if r.Stats.EmptyDocuments != 1 {
		t.Errorf("expected 1 empty, got %d", r.Stats.EmptyDocuments)
	}
	if r.Stats.MeanScore != 20 {
		t.Errorf("expected mean 20, got %f", r.Stats.MeanScore)
	}
	if r.Stats.MaxScore != 40 {
		t.Errorf("expected max 40, got %f", r.Stats.MaxScore)
	}
}

func TestNewPolicyIndexReport_Empty(t *testing.T) {
	r := NewPolicyIndexReport("texas", nil, 0, 0)
	if r.Records == nil {
		t.Fatal("expected non-nil records")
	}

	data, err := r.MarshalTable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty JSON array, got %s", data)
	}
}

func TestIndexRecord_JSONFieldNames(t *testing.T) {
	b := &Bill{
		ID:          "HB 1",
		Title:       "Relating to the electric grid",
		Chamber:     "House",
		CreatedDate: "2021-02-01",
		Link:        "https://example.org/hb1",
	}
	rec := NewIndexRecord(b, 12.5)

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]interface{}{
		"Bill ID":             "HB 1",
		"Description":         "Relating to the electric grid",
		"Chamber":             "House",
		"Created date":        "2021-02-01",
		"Energy Policy Index": 12.5,
		"url":                 "https://example.org/hb1",
	}
	if len(fields) != len(expected) {
		t.Fatalf("expected %d fields, got %d: %v", len(expected), len(fields), fields)
	}
	for k, v := range expected {
		if fields[k] != v {
			t.Errorf("field %q: expected %v, got %v", k, v, fields[k])
		}
	}
}
