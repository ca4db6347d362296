package extract

import (
	"regexp"
	"strings"

	"talentscout/internal/types"
)

// Closed keyword sets used by the rule-based extractor. Order matters for
// skillVocabulary and experiencePatterns: first match wins.
var (
	titleKeywords = []string{
		"engineer", "developer", "manager", "analyst", "specialist", "lead",
		"senior", "junior", "intern", "associate", "director", "coordinator",
		"consultant", "architect", "designer", "administrator", "officer",
	}

	titleSkipWords = []string{"job description", "overview", "about", "requirements"}

	titlePrefixes = []string{"job title:", "position:", "role:", "title:"}

	companyLabels = []string{"company:", "organization:", "employer:"}

	companySuffixes = []string{"inc.", "ltd.", "corp.", "llc", "pvt", "technologies", "solutions"}

	locationLabels = []string{"location:", "based in:", "office:", "city:", "address:"}

	locationKeywords = []string{
		// Indian cities
		"bangalore", "mumbai", "delhi", "pune", "hyderabad", "chennai", "kolkata",
		"ahmedabad", "surat", "jaipur", "lucknow", "kanpur", "nagpur", "indore",
		"gurgaon", "gurugram", "noida", "faridabad", "ghaziabad",
		// International
		"new york", "san francisco", "london", "singapore", "dubai", "toronto",
		"sydney", "berlin", "paris", "tokyo", "remote", "work from home", "wfh",
		// Countries
		"india", "usa", "uk", "canada", "australia", "germany", "france",
	}

	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+[+\-\s]*(?:to|-|–)\s*\d+|\d+\+?)\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`),
		regexp.MustCompile(`(?:experience|exp)[\s:]*(\d+[+\-\s]*(?:to|-|–)\s*\d+|\d+\+?)\s*(?:years?|yrs?)`),
		regexp.MustCompile(`(\d+[+\-\s]*(?:to|-|–)\s*\d+|\d+\+?)\s*(?:years?|yrs?)`),
		regexp.MustCompile(`(?:minimum|min|at least)\s*(\d+)\s*(?:years?|yrs?)`),
		regexp.MustCompile(`(\d+)\s*(?:years?|yrs?)\s*(?:minimum|min|experience|exp)`),
	}

	experiencePhrases = []string{
		"entry level", "fresher", "fresh graduate", "no experience",
		"junior level", "mid level", "senior level", "experienced",
	}

	skillVocabulary = []string{
		// Programming languages
		"python", "java", "javascript", "typescript", "c++", "c#", "php", "ruby", "go", "rust", "swift", "kotlin",
		// Web technologies
		"react", "angular", "vue", "node", "express", "django", "flask", "fastapi", "spring", "laravel",
		// Databases
		"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch", "oracle", "sqlite",
		// Cloud and DevOps
		"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git", "github", "gitlab", "ci/cd",
		// Data and analytics
		"pandas", "numpy", "tensorflow", "pytorch", "scikit-learn", "tableau", "power bi", "excel",
		// Other technologies
		"api", "rest", "graphql", "microservices", "agile", "scrum", "jira", "confluence",
		// Business skills
		"project management", "business analysis", "requirements gathering", "stakeholder management",
	}

	requirementKeywords = []string{
		"requirement", "qualification", "must have", "should have", "skills", "competenc", "prerequisite",
	}

	responsibilityKeywords = []string{
		"responsibilit", "duties", "role", "will be", "tasks", "job duties", "what you will do",
	}
)

const (
	maxSkills       = 15
	maxSectionItems = 10
)

// Extract structures raw job description text with rule-based heuristics.
// It is total: it never fails and always returns a record with non-nil
// slices, job_description echoing the input and fallback_used set.
func Extract(rawText string) types.StructuredJobRecord {
	textLower := strings.ToLower(rawText)
	lines := nonEmptyLines(rawText)

	record := types.StructuredJobRecord{
		JobTitle:           extractTitle(lines),
		Company:            extractCompany(lines),
		Location:           extractLocation(lines),
		ExperienceRequired: extractExperience(textLower),
		SkillsRequired:     extractSkills(textLower),
		JobDescription:     rawText,
		FallbackUsed:       true,
	}
	record.Requirements, record.Responsibilities = extractSections(lines)
	record.NormalizeSlices()

	stripLabel(record.Company, "company:", "organization:")
	stripLabel(record.Location, "location:", "based in:")

	return record
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func extractTitle(lines []string) *string {
	for i, line := range lines {
		if i >= 10 {
			break
		}
		lower := strings.ToLower(line)

		skip := false
		for _, word := range titleSkipWords {
			if strings.Contains(lower, word) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		for _, keyword := range titleKeywords {
			if strings.Contains(lower, keyword) {
				title := line
				for _, prefix := range titlePrefixes {
					if strings.HasPrefix(strings.ToLower(title), prefix) {
						title = strings.TrimSpace(title[len(prefix):])
						break
					}
				}
				return &title
			}
		}

		// Short standalone line near the top reads like a title
		if i < 3 && len(strings.Fields(line)) <= 6 && len(line) > 5 {
			return &line
		}
	}
	return nil
}

func extractCompany(lines []string) *string {
	for i, line := range lines {
		if i >= 15 {
			break
		}
		lower := strings.ToLower(line)

		for _, label := range companyLabels {
			if idx := strings.Index(lower, label); idx >= 0 {
				company := strings.TrimSpace(line[idx+len(label):])
				if company != "" {
					return &company
				}
			}
		}

		for _, suffix := range companySuffixes {
			// Long lines are descriptions, not company names
			if strings.Contains(lower, suffix) && len(strings.Fields(line)) <= 8 {
				return &line
			}
		}
	}
	return nil
}

func extractLocation(lines []string) *string {
	for _, line := range lines {
		lower := strings.ToLower(line)

		for _, label := range locationLabels {
			if idx := strings.Index(lower, label); idx >= 0 {
				loc := strings.TrimSpace(line[idx+len(label):])
				if loc != "" {
					return &loc
				}
			}
		}

		for _, keyword := range locationKeywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			words := strings.Fields(line)
			if len(words) <= 10 {
				return &line
			}
			// Keep a five word window around the match inside long lines
			for i, word := range words {
				if strings.Contains(strings.ToLower(word), keyword) {
					start := max(0, i-2)
					end := min(len(words), i+3)
					window := strings.Join(words[start:end], " ")
					return &window
				}
			}
			return &line
		}
	}
	return nil
}

func extractExperience(textLower string) *string {
	for _, pattern := range experiencePatterns {
		if match := pattern.FindStringSubmatch(textLower); match != nil {
			exp := strings.TrimSpace(match[1])
			return &exp
		}
	}
	for _, phrase := range experiencePhrases {
		if strings.Contains(textLower, phrase) {
			titled := titleCase(phrase)
			return &titled
		}
	}
	return nil
}

func extractSkills(textLower string) []string {
	skills := make([]string, 0, maxSkills)
	seen := make(map[string]bool)
	for _, skill := range skillVocabulary {
		if len(skills) >= maxSkills {
			break
		}
		if strings.Contains(textLower, skill) && !seen[skill] {
			seen[skill] = true
			skills = append(skills, titleCase(skill))
		}
	}
	return skills
}

func extractSections(lines []string) (requirements, responsibilities []string) {
	const (
		sectionNone = iota
		sectionRequirements
		sectionResponsibilities
	)
	current := sectionNone

	for _, line := range lines {
		if len(line) < 3 {
			continue
		}
		lower := strings.ToLower(line)

		if len(strings.Fields(line)) <= 8 {
			if containsAny(lower, requirementKeywords) {
				current = sectionRequirements
			} else if containsAny(lower, responsibilityKeywords) {
				current = sectionResponsibilities
			}
		}

		item, ok := stripBullet(line)
		if !ok || len(item) <= 10 {
			continue
		}
		switch current {
		case sectionRequirements:
			if len(requirements) < maxSectionItems {
				requirements = append(requirements, item)
			}
		case sectionResponsibilities:
			if len(responsibilities) < maxSectionItems {
				responsibilities = append(responsibilities, item)
			}
		}
	}
	return requirements, responsibilities
}

// stripBullet removes a leading bullet or numbered-list marker. Lines shorter
// than 3 characters never qualify, so marker detection stays in bounds.
func stripBullet(line string) (string, bool) {
	if len(line) < 3 {
		return "", false
	}
	switch line[0] {
	case '-', '*':
		return strings.TrimSpace(line[1:]), true
	}
	if r := []rune(line); r[0] == '•' || r[0] == '◦' {
		return strings.TrimSpace(string(r[1:])), true
	}
	if line[0] >= '0' && line[0] <= '9' && (line[1:3] == ". " || line[1:3] == ") ") {
		return strings.TrimSpace(line[2:]), true
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func stripLabel(field *string, labels ...string) {
	if field == nil {
		return
	}
	value := *field
	for _, label := range labels {
		lower := strings.ToLower(value)
		if strings.HasPrefix(lower, label) {
			value = strings.TrimSpace(value[len(label):])
		}
	}
	*field = value
}

// titleCase upper-cases the first letter of every alphabetic run, so
// "power bi" becomes "Power Bi" and "ci/cd" becomes "Ci/Cd".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if isLetter && !prevLetter && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		prevLetter = isLetter
	}
	return b.String()
}
