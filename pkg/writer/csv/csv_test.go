package csv

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
)

func TestWrite_RecordsAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(Config{FilePath: path, BatchSize: 1, FlushInterval: time.Hour}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	merchant := "SWIGGY"
	in := make(chan *api.Candidate, 1)
	acks := make(chan string, 1)
	in <- &api.Candidate{
		Kind:        api.Expense,
		Amount:      450,
		Description: "UPI Payment to SWIGGY",
		Category:    "food",
		Merchant:    &merchant,
		Source:      api.SourceSMS,
		MessageID:   "m1",
	}
	close(in)

	if err := w.Write(context.Background(), in, acks); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus 1 record", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][1] != "Type" {
		t.Errorf("header: got %v", rows[0])
	}
	rec := rows[1]
	if rec[1] != "expense" || rec[2] != "450.00" || rec[3] != "food" || rec[5] != "SWIGGY" {
		t.Errorf("record: got %v", rec)
	}
	if rec[6] != "" {
		t.Errorf("account column: got %q, want empty", rec[6])
	}
}

func TestWrite_SurfacesCloseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(Config{FilePath: path, BatchSize: 1, FlushInterval: time.Hour}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	in := make(chan *api.Candidate)
	close(in)
	if err := w.Write(context.Background(), in, nil); err == nil {
		t.Fatal("expected Write to return the close error for an already-closed file")
	}
}

func TestNew_AppendDoesNotRepeatHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	for i := 0; i < 2; i++ {
		w, err := New(Config{FilePath: path, BatchSize: 1, FlushInterval: time.Hour}, nil)
		if err != nil {
			t.Fatalf("New (pass %d): %v", i, err)
		}

		in := make(chan *api.Candidate, 1)
		in <- &api.Candidate{Kind: api.Income, Amount: 100, Description: "Credit", Category: "other-income", Source: api.SourceSMS}
		close(in)
		if err := w.Write(context.Background(), in, nil); err != nil {
			t.Fatalf("Write (pass %d): %v", i, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 1 header plus 2 records", len(rows))
	}
	if rows[1][0] == "Date" || rows[2][0] == "Date" {
		t.Error("header row repeated on append")
	}
}
