package match

import (
	"reflect"
	"testing"

	"talentscout/internal/types"
)

func TestScoreResumeFallbackText(t *testing.T) {
	score, reasoning := ScoreResume("I know Python and React", nil, "python java")
	if score != 50 {
		t.Errorf("score = %d, want 50", score)
	}
	if reasoning != "Matched 1 of 2 JD terms." {
		t.Errorf("reasoning = %q", reasoning)
	}
}

func TestScoreResumeAgainstRecord(t *testing.T) {
	record := &types.StructuredJobRecord{
		JobTitle:       types.StrPtr("Backend Engineer"),
		Location:       types.StrPtr("Bangalore"),
		SkillsRequired: []string{"Python", "Docker"},
	}
	// Job tokens: backend, engineer, bangalore, python, docker.
	score, reasoning := ScoreResume("Python backend developer based in Bangalore", record, "")
	if score != 60 {
		t.Errorf("score = %d, want 60", score)
	}
	if reasoning != "Matched 3 of 5 JD terms." {
		t.Errorf("reasoning = %q", reasoning)
	}
}

func TestScoreResumeSparseRecordUsesFallback(t *testing.T) {
	record := &types.StructuredJobRecord{JobDescription: "python java"}
	score, reasoning := ScoreResume("I know Python and React", record, "python java")
	if score != 50 {
		t.Errorf("score = %d, want 50", score)
	}
	if reasoning != "Matched 1 of 2 JD terms." {
		t.Errorf("reasoning = %q", reasoning)
	}
}

func TestScoreResumeFullOverlap(t *testing.T) {
	score, reasoning := ScoreResume("python java go", nil, "python java go")
	if score != 100 {
		t.Errorf("score = %d, want 100", score)
	}
	if reasoning != "Matched 3 of 3 JD terms." {
		t.Errorf("reasoning = %q", reasoning)
	}
}

func TestScoreResumeInsufficientData(t *testing.T) {
	tests := []struct {
		name     string
		resume   string
		record   *types.StructuredJobRecord
		fallback string
	}{
		{"empty resume", "", nil, "python java"},
		{"empty job", "I know Python", nil, ""},
		{"stop words only", "the and of", nil, "python"},
		{"empty record no fallback", "I know Python", &types.StructuredJobRecord{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasoning := ScoreResume(tt.resume, tt.record, tt.fallback)
			if score != 0 {
				t.Errorf("score = %d, want 0", score)
			}
			if reasoning != "Insufficient data to compute score" {
				t.Errorf("reasoning = %q", reasoning)
			}
		})
	}
}

func TestScoreResumeRounding(t *testing.T) {
	// 1 of 3 terms: 33.33 rounds to 33; 2 of 3: 66.67 rounds to 67.
	score, _ := ScoreResume("python", nil, "python java rust")
	if score != 33 {
		t.Errorf("score = %d, want 33", score)
	}
	score, _ = ScoreResume("python java", nil, "python java rust")
	if score != 67 {
		t.Errorf("score = %d, want 67", score)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"C++ and C# developers", []string{"c++", "c#", "developers"}},
		{"Node.js, React!", []string{"node.js", "react"}},
		{"The quick brown fox", []string{"quick", "brown", "fox"}},
		{"5+ years", []string{"5+", "years"}},
		{"", nil},
		{"the and of to", nil},
	}

	for _, tt := range tests {
		got := Tokenize(tt.input)
		want := map[string]struct{}{}
		for _, token := range tt.want {
			want[token] = struct{}{}
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, want)
		}
	}
}

func TestTokenizeDeduplicates(t *testing.T) {
	got := Tokenize("python Python PYTHON")
	if len(got) != 1 {
		t.Errorf("want a single unique token, got %v", got)
	}
}
