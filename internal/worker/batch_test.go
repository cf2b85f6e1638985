package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
)

// mockAnalyzer implements Analyzer and checks that every request carries
// the shared base fields.
type mockAnalyzer struct {
	shouldError bool
	wrongBase   int32 // atomic
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req track.AnalyzeRequest) (*model.TermRecord, error) {
	time.Sleep(10 * time.Millisecond)
	if req.Domain != "technology" {
		atomic.AddInt32(&m.wrongBase, 1)
	}
	if m.shouldError {
		return nil, errors.New("analysis error")
	}
	return &model.TermRecord{
		Term:   req.Term,
		Domain: req.Domain,
		Snapshots: []model.TermSnapshot{
			{Term: req.Term, Period: "2000-2010"},
		},
	}, nil
}

func baseRequest() track.AnalyzeRequest {
	return track.AnalyzeRequest{Domain: "technology", Bilingual: true}
}

func writeTermFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terms.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessTerms(t *testing.T) {
	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, 0, 0)

	terms := []string{"computer", "laptop", "smartphone"}
	results := processor.ProcessTerms(context.Background(), terms, baseRequest())

	if len(results) != len(terms) {
		t.Fatalf("Expected %d results, got %d", len(terms), len(results))
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("Unexpected error for %s: %v", res.Term, res.Error)
			continue
		}
		if res.Record == nil {
			t.Errorf("Expected a record for %s", res.Term)
		} else if res.Record.Term != res.Term {
			t.Errorf("Record for %s carries term %s", res.Term, res.Record.Term)
		}
	}
	if atomic.LoadInt32(&analyzer.wrongBase) != 0 {
		t.Error("Expected every job to inherit the base request fields")
	}
}

func TestBatchProcessor_ProcessTerms_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{shouldError: true}, 2, 0, 0)

	results := processor.ProcessTerms(context.Background(), []string{"computer"}, baseRequest())
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("Expected error, got nil")
	}
	if results[0].Record != nil {
		t.Error("Expected nil record on error")
	}
}

func TestBatchProcessor_ProcessTerms_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0)

	if results := processor.ProcessTerms(context.Background(), nil, baseRequest()); len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Paced(t *testing.T) {
	// A generous rate exercises the limiter path without slowing the test
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 1000, 5)

	results := processor.ProcessTerms(context.Background(), []string{"computer", "laptop"}, baseRequest())
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("Unexpected error for %s: %v", res.Term, res.Error)
		}
	}
}

func TestReadTermsFromFile(t *testing.T) {
	path := writeTermFile(t, "computer\n# comment\nlaptop\n\nsmartphone   \n")

	terms, err := ReadTermsFromFile(path)
	if err != nil {
		t.Fatalf("ReadTermsFromFile failed: %v", err)
	}

	expected := []string{"computer", "laptop", "smartphone"}
	if len(terms) != len(expected) {
		t.Fatalf("Expected %d terms, got %d", len(expected), len(terms))
	}
	for i, term := range terms {
		if term != expected[i] {
			t.Errorf("Expected %s at index %d, got %s", expected[i], i, term)
		}
	}
}

func TestReadTermsFromFile_Deduplication(t *testing.T) {
	path := writeTermFile(t, "Virus\nvirus\nVIRUS\ncloud\n")

	terms, err := ReadTermsFromFile(path)
	if err != nil {
		t.Fatalf("ReadTermsFromFile failed: %v", err)
	}

	if len(terms) != 2 {
		t.Fatalf("Expected 2 terms after case-insensitive dedup, got %d", len(terms))
	}
	if terms[0] != "Virus" {
		t.Errorf("Expected first spelling kept, got %s", terms[0])
	}
}

func TestReadTermsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadTermsFromFile("no_such_terms.txt"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestAnalyzeResult_GetError(t *testing.T) {
	ok := &AnalyzeResult{Term: "computer"}
	if ok.GetError() != nil {
		t.Errorf("Expected nil error, got %v", ok.GetError())
	}

	boom := errors.New("analysis failed")
	failed := &AnalyzeResult{Term: "computer", Error: boom}
	if failed.GetError() != boom {
		t.Errorf("Expected %v, got %v", boom, failed.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTermFile(t, "computer\nlaptop\n# comment\n\nsmartphone\n")
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0)

	results, err := processor.ProcessFile(context.Background(), path, baseRequest())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0)

	if _, err := processor.ProcessFile(context.Background(), "no_such_terms.txt", baseRequest()); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeTermFile(t, "")
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0)

	results, err := processor.ProcessFile(context.Background(), path, baseRequest())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results for empty file, got %d", len(results))
	}
}
