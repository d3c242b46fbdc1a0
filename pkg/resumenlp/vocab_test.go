package resumenlp

import "testing"

func TestVocabularyCanonical(t *testing.T) {
	v := NewVocabulary([]string{"Python", "Machine Learning", "SQL"})

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"python", "Python", true},
		{"PYTHON", "Python", true},
		{"  sql ", "SQL", true},
		{"machine learning", "Machine Learning", true},
		{"cobol", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := v.Canonical(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Canonical(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestVocabularyDedup(t *testing.T) {
	v := NewVocabulary([]string{"Python", "python", "PYTHON", ""})
	if v.Len() != 1 {
		t.Fatalf("Len = %d, want 1", v.Len())
	}
	if got, _ := v.Canonical("python"); got != "Python" {
		t.Errorf("first casing not kept: %q", got)
	}
}

func TestVocabularyMatchAll(t *testing.T) {
	v := NewVocabulary([]string{"Python", "Java", "Docker"})
	got := v.MatchAll("we use PYTHON and docker in production")
	if len(got) != 2 || got[0] != "Python" || got[1] != "Docker" {
		t.Errorf("MatchAll = %v, want [Python Docker]", got)
	}
	if v.MatchAll("") != nil {
		t.Error("MatchAll(\"\") should be nil")
	}
}
