package extract

import (
	"reflect"
	"strings"
	"testing"

	"talentscout/internal/types"
)

func TestExtractIsTotal(t *testing.T) {
	inputs := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t\n  "},
		{"single char", "x"},
		{"only punctuation", "---\n***\n..."},
		{"unicode", "• ◦ – 日本語テキスト"},
		{"very long line", strings.Repeat("word ", 500)},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			record := Extract(tt.text)
			if record.SkillsRequired == nil {
				t.Error("SkillsRequired should never be nil")
			}
			if record.Requirements == nil {
				t.Error("Requirements should never be nil")
			}
			if record.Responsibilities == nil {
				t.Error("Responsibilities should never be nil")
			}
			if record.JobDescription != tt.text {
				t.Errorf("JobDescription should echo input, got %q", record.JobDescription)
			}
			if !record.FallbackUsed {
				t.Error("FallbackUsed should be set by rule-based extraction")
			}
		})
	}
}

func TestExtractSeniorBackendEngineer(t *testing.T) {
	raw := "Senior Backend Engineer\n\nRequirements:\n- 5+ years experience\n- Strong in Python and AWS\n\nResponsibilities:\n- Build scalable services"

	record := Extract(raw)

	if got := types.StrVal(record.JobTitle); !strings.Contains(got, "Senior Backend Engineer") {
		t.Errorf("JobTitle = %q, want it to contain 'Senior Backend Engineer'", got)
	}
	if got := types.StrVal(record.ExperienceRequired); got != "5+" {
		t.Errorf("ExperienceRequired = %q, want '5+'", got)
	}

	wantSkills := []string{"Python", "Aws"}
	for _, skill := range wantSkills {
		found := false
		for _, s := range record.SkillsRequired {
			if s == skill {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("SkillsRequired = %v, want it to contain %q", record.SkillsRequired, skill)
		}
	}

	wantReqs := []string{"5+ years experience", "Strong in Python and AWS"}
	if !reflect.DeepEqual(record.Requirements, wantReqs) {
		t.Errorf("Requirements = %v, want %v", record.Requirements, wantReqs)
	}

	wantResps := []string{"Build scalable services"}
	if !reflect.DeepEqual(record.Responsibilities, wantResps) {
		t.Errorf("Responsibilities = %v, want %v", record.Responsibilities, wantResps)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "role keyword match",
			text: "Some intro line here that is long\nData Analyst wanted",
			want: "Data Analyst wanted",
		},
		{
			name: "label prefix stripped",
			text: "Job Title: Software Engineer",
			want: "Software Engineer",
		},
		{
			name: "header lines skipped",
			text: "Job Description\nOverview of the position\nBackend Developer",
			want: "Backend Developer",
		},
		{
			name: "short top line heuristic",
			text: "Head of Growth\nWe are a fast-growing startup looking for talented people.",
			want: "Head of Growth",
		},
		{
			name: "no title found",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Extract(tt.text)
			if got := types.StrVal(record.JobTitle); got != tt.want {
				t.Errorf("JobTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractCompany(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "explicit label",
			text: "Software Engineer\nCompany: Acme Corp",
			want: "Acme Corp",
		},
		{
			name: "legal suffix",
			text: "Software Engineer\nGlobex Technologies",
			want: "Globex Technologies",
		},
		{
			name: "long suffix line rejected",
			text: "Software Engineer\nWe build cutting edge solutions for enterprise clients across many industries worldwide",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Extract(tt.text)
			if got := types.StrVal(record.Company); got != tt.want {
				t.Errorf("Company = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "explicit label wins",
			text: "Software Engineer\nLocation: Bangalore, India",
			want: "Bangalore, India",
		},
		{
			name: "gazetteer city match",
			text: "Software Engineer\nOur office is in Pune",
			want: "Our office is in Pune",
		},
		{
			name: "long line window",
			text: "Software Engineer\nWe are a large multinational firm with our headquarters located in Mumbai and offices around the globe",
			want: "headquarters located in Mumbai and",
		},
		{
			name: "first match wins over later label",
			text: "Software Engineer\nOur remote work policy is flexible\nLocation: Delhi",
			want: "Our remote work policy is flexible",
		},
		{
			name: "remote keyword",
			text: "Software Engineer\nThis role is remote",
			want: "This role is remote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Extract(tt.text)
			if got := types.StrVal(record.Location); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractExperience(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plus range", "We need 5+ years of experience", "5+"},
		{"numeric range", "Candidates with 3-5 years experience preferred", "3-5"},
		{"minimum phrase", "minimum 3 years in backend work", "3"},
		{"qualitative phrase", "This is an entry level position", "Entry Level"},
		{"fresher", "Freshers are welcome to apply", "Fresher"},
		{"none", "No mention of tenure here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Extract(tt.text)
			if got := types.StrVal(record.ExperienceRequired); got != tt.want {
				t.Errorf("ExperienceRequired = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSkills(t *testing.T) {
	t.Run("vocabulary order preserved", func(t *testing.T) {
		record := Extract("Looking for AWS, React and Python developers")
		want := []string{"Python", "React", "Aws"}
		if !reflect.DeepEqual(record.SkillsRequired, want) {
			t.Errorf("SkillsRequired = %v, want %v", record.SkillsRequired, want)
		}
	})

	t.Run("title cased hits", func(t *testing.T) {
		record := Extract("Need power bi and ci/cd expertise")
		want := []string{"Ci/Cd", "Power Bi"}
		if !reflect.DeepEqual(record.SkillsRequired, want) {
			t.Errorf("SkillsRequired = %v, want %v", record.SkillsRequired, want)
		}
	})

	t.Run("capped at fifteen", func(t *testing.T) {
		text := "python java javascript typescript c++ c# php ruby go rust swift kotlin react angular vue node express django"
		record := Extract(text)
		if len(record.SkillsRequired) != 15 {
			t.Errorf("skills count = %d, want 15", len(record.SkillsRequired))
		}
	})
}

func TestExtractSections(t *testing.T) {
	t.Run("section state machine", func(t *testing.T) {
		raw := strings.Join([]string{
			"Platform Engineer",
			"Requirements:",
			"- Experience building distributed systems",
			"* Solid grounding in Linux internals",
			"Responsibilities:",
			"1. Design and operate the deployment pipeline",
			"2) Mentor junior team members daily",
		}, "\n")

		record := Extract(raw)

		wantReqs := []string{
			"Experience building distributed systems",
			"Solid grounding in Linux internals",
		}
		if !reflect.DeepEqual(record.Requirements, wantReqs) {
			t.Errorf("Requirements = %v, want %v", record.Requirements, wantReqs)
		}

		wantResps := []string{
			"Design and operate the deployment pipeline",
			"Mentor junior team members daily",
		}
		if !reflect.DeepEqual(record.Responsibilities, wantResps) {
			t.Errorf("Responsibilities = %v, want %v", record.Responsibilities, wantResps)
		}
	})

	t.Run("plural and singular headers", func(t *testing.T) {
		for _, raw := range []string{
			"Responsibilities:\n- Own the ingestion pipeline end to end",
			"Responsibility:\n- Own the ingestion pipeline end to end",
		} {
			record := Extract(raw)
			want := []string{"Own the ingestion pipeline end to end"}
			if !reflect.DeepEqual(record.Responsibilities, want) {
				t.Errorf("Extract(%q).Responsibilities = %v, want %v", raw, record.Responsibilities, want)
			}
		}
	})

	t.Run("bullets outside any section dropped", func(t *testing.T) {
		record := Extract("Intro\n- A floating bullet with enough text")
		if len(record.Requirements) != 0 || len(record.Responsibilities) != 0 {
			t.Errorf("expected no section items, got reqs=%v resps=%v",
				record.Requirements, record.Responsibilities)
		}
	})

	t.Run("short items dropped", func(t *testing.T) {
		record := Extract("Requirements:\n- tiny\n- This item is long enough to keep")
		want := []string{"This item is long enough to keep"}
		if !reflect.DeepEqual(record.Requirements, want) {
			t.Errorf("Requirements = %v, want %v", record.Requirements, want)
		}
	})

	t.Run("capped at ten", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("Requirements:\n")
		for i := 0; i < 12; i++ {
			sb.WriteString("- A sufficiently long requirement line\n")
		}
		record := Extract(sb.String())
		if len(record.Requirements) != 10 {
			t.Errorf("requirements count = %d, want 10", len(record.Requirements))
		}
	})
}

func TestStripBullet(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"- dash item", "dash item", true},
		{"* star item", "star item", true},
		{"• unicode bullet", "unicode bullet", true},
		{"◦ hollow bullet", "hollow bullet", true},
		{"1. numbered", "numbered", true},
		{"2) parenthesised", "parenthesised", true},
		{"plain text line", "", false},
		{"xy", "", false},
		{"1.", "", false},
		{"9x not a list", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := stripBullet(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("stripBullet(%q) = (%q, %v), want (%q, %v)",
					tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aws", "Aws"},
		{"power bi", "Power Bi"},
		{"ci/cd", "Ci/Cd"},
		{"entry level", "Entry Level"},
		{"c++", "C++"},
		{"scikit-learn", "Scikit-Learn"},
	}

	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
