package ingest

import (
	"reflect"
	"testing"
)

func TestSplitSpan(t *testing.T) {
	got, err := SplitSpan(100, 105, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockSpan{
		{From: 100, To: 101},
		{From: 102, To: 103},
		{From: 104, To: 105},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("spans mismatch: %+v != %+v", got, want)
	}
}

func TestSplitSpanSingle(t *testing.T) {
	got, err := SplitSpan(5, 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockSpan{{From: 5, To: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("spans mismatch: %+v != %+v", got, want)
	}
}

func TestSplitSpanUneven(t *testing.T) {
	got, err := SplitSpan(0, 10, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockSpan{
		{From: 0, To: 3},
		{From: 4, To: 7},
		{From: 8, To: 10},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("spans mismatch: %+v != %+v", got, want)
	}
}

func TestSplitSpanInvalid(t *testing.T) {
	if _, err := SplitSpan(10, 9, 1); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := SplitSpan(1, 10, 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
}
