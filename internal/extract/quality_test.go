package extract

import (
	"strings"
	"testing"

	"talentscout/internal/types"
)

func TestValidateQualityComplete(t *testing.T) {
	record := &types.StructuredJobRecord{
		JobTitle:           types.StrPtr("Senior Backend Engineer"),
		Location:           types.StrPtr("Bangalore"),
		ExperienceRequired: types.StrPtr("5+"),
		SkillsRequired:     []string{"Python", "Aws"},
		Requirements:       []string{"Strong knowledge of distributed systems"},
		Responsibilities:   []string{"Design and build backend services"},
		RawText:            strings.Repeat("backend systems at scale ", 10),
	}

	report := ValidateQuality(record)
	if report.Score != 100 {
		t.Errorf("score = %d, want 100", report.Score)
	}
	if report.Level != "Excellent" {
		t.Errorf("level = %q, want Excellent", report.Level)
	}
	if len(report.Issues) != 0 {
		t.Errorf("unexpected issues: %v", report.Issues)
	}
	if len(report.Recommendations) != 0 {
		t.Errorf("unexpected recommendations: %v", report.Recommendations)
	}
}

func TestValidateQualityEmpty(t *testing.T) {
	report := ValidateQuality(&types.StructuredJobRecord{})
	if report.Score != 0 {
		t.Errorf("score = %d, want 0", report.Score)
	}
	if report.Level != "Poor" {
		t.Errorf("level = %q, want Poor", report.Level)
	}

	wantIssues := []string{
		"Missing job title",
		"No skills identified",
		"No requirements identified",
		"No responsibilities identified",
		"Very short job description",
	}
	if len(report.Issues) != len(wantIssues) {
		t.Fatalf("issues = %v, want %v", report.Issues, wantIssues)
	}
	for i, issue := range wantIssues {
		if report.Issues[i] != issue {
			t.Errorf("issue[%d] = %q, want %q", i, report.Issues[i], issue)
		}
	}
	if len(report.Recommendations) != len(wantIssues) {
		t.Errorf("expected one recommendation per issue, got %d", len(report.Recommendations))
	}
}

func TestValidateQualityCappedAt100(t *testing.T) {
	// All field weights sum to 100 already; the raw-text bonus must not push past it.
	record := &types.StructuredJobRecord{
		JobTitle:           types.StrPtr("Engineer"),
		Location:           types.StrPtr("Pune"),
		ExperienceRequired: types.StrPtr("3"),
		SkillsRequired:     []string{"Go"},
		Requirements:       []string{"x"},
		Responsibilities:   []string{"y"},
		RawText:            strings.Repeat("a", 150),
	}
	if got := ValidateQuality(record).Score; got != 100 {
		t.Errorf("score = %d, want capped 100", got)
	}
}

func TestValidateQualityLevels(t *testing.T) {
	tests := []struct {
		name   string
		record *types.StructuredJobRecord
		score  int
		level  string
	}{
		{
			name: "good",
			record: &types.StructuredJobRecord{
				JobTitle:       types.StrPtr("Engineer"),
				SkillsRequired: []string{"Go"},
				RawText:        strings.Repeat("a", 150),
			},
			score: 60,
			level: "Good",
		},
		{
			name: "fair",
			record: &types.StructuredJobRecord{
				SkillsRequired: []string{"Go"},
				RawText:        strings.Repeat("a", 150),
			},
			score: 40,
			level: "Fair",
		},
		{
			name: "poor",
			record: &types.StructuredJobRecord{
				JobTitle: types.StrPtr("Engineer"),
				RawText:  strings.Repeat("a", 80),
			},
			score: 20,
			level: "Poor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateQuality(tt.record)
			if report.Score != tt.score {
				t.Errorf("score = %d, want %d", report.Score, tt.score)
			}
			if report.Level != tt.level {
				t.Errorf("level = %q, want %q", report.Level, tt.level)
			}
		})
	}
}

func TestValidateQualityShortTextIssue(t *testing.T) {
	record := &types.StructuredJobRecord{
		JobTitle: types.StrPtr("Engineer"),
		RawText:  "short",
	}
	report := ValidateQuality(record)

	found := false
	for _, issue := range report.Issues {
		if issue == "Very short job description" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected short-text issue, got %v", report.Issues)
	}
	// 50..100 chars earns neither the bonus nor the issue.
	record.RawText = strings.Repeat("a", 75)
	for _, issue := range ValidateQuality(record).Issues {
		if issue == "Very short job description" {
			t.Error("mid-length raw text should not be flagged as very short")
		}
	}
}
