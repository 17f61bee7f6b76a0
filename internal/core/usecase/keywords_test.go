package usecase

import (
	"reflect"
	"testing"
)

func TestFilterKeywordsDropsStopWordsAndShortTerms(t *testing.T) {
	got := filterKeywords([]string{"What", "is", "the", "Negligence", "test", "negligence", "law"}, 5)
	want := []string{"negligence", "test"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterKeywords() = %v, want %v", got, want)
	}
}

func TestFilterKeywordsHonorsLimit(t *testing.T) {
	got := filterKeywords([]string{"estoppel", "damages", "causation", "remoteness"}, 2)
	if len(got) != 2 || got[0] != "estoppel" || got[1] != "damages" {
		t.Fatalf("expected first two terms kept, got %v", got)
	}
}

func TestConceptsInDetectsMultiWordDoctrines(t *testing.T) {
	got := conceptsIn("Does a Duty of Care arise in contributory negligence claims?")
	if len(got) != 3 {
		t.Fatalf("expected 3 concepts, got %v", got)
	}
	found := map[string]bool{}
	for _, c := range got {
		found[c] = true
	}
	for _, want := range []string{"negligence", "duty of care", "contributory negligence"} {
		if !found[want] {
			t.Fatalf("expected concept %q in %v", want, got)
		}
	}
}

func TestQueryWordsSplitsOnPunctuation(t *testing.T) {
	got := queryWords("breach-of-contract: damages?")
	want := []string{"breach", "of", "contract", "damages"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("queryWords() = %v, want %v", got, want)
	}
}
