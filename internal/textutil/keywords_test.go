package textutil

import (
	"reflect"
	"testing"
)

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"sand, ocean", []string{"sand", "ocean"}},
		{" sand ,, ocean ,", []string{"sand", "ocean"}},
		{"", []string{}},
		{"one", []string{"one"}},
	}
	for _, tt := range tests {
		got := SplitKeywords(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitKeywords(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestJoinKeywords(t *testing.T) {
	if got := JoinKeywords([]string{"_ai_generated", "sand", "ocean"}); got != "_ai_generated, sand, ocean" {
		t.Fatalf("JoinKeywords = %q", got)
	}
}

func TestFoldComparisons(t *testing.T) {
	if Fold("_AI_Generated") != Fold("_ai_generated") {
		t.Fatal("expected case-folded equality")
	}
	if Fold("ÉTÉ") != Fold("été") {
		t.Fatal("expected non-ASCII case folding")
	}
	if !ContainsFold([]string{"sand", "Ocean"}, "ocean") {
		t.Fatal("expected ContainsFold match")
	}
	if ContainsFold([]string{"sand"}, "sea") {
		t.Fatal("unexpected ContainsFold match")
	}
}
