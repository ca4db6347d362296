package extract

import (
	"talentscout/internal/types"
)

// ValidateQuality scores how complete a structured record is. Field presence
// is weighted: title 20, skills 30, requirements 20, responsibilities 15,
// location 10, experience 5, plus 10 for substantial raw text, capped at 100.
func ValidateQuality(record *types.StructuredJobRecord) types.QualityReport {
	score := 0
	issues := []string{}

	if types.StrVal(record.JobTitle) != "" {
		score += 20
	} else {
		issues = append(issues, "Missing job title")
	}

	if len(record.SkillsRequired) > 0 {
		score += 30
	} else {
		issues = append(issues, "No skills identified")
	}

	if len(record.Requirements) > 0 {
		score += 20
	} else {
		issues = append(issues, "No requirements identified")
	}

	if len(record.Responsibilities) > 0 {
		score += 15
	} else {
		issues = append(issues, "No responsibilities identified")
	}

	if types.StrVal(record.Location) != "" {
		score += 10
	}

	if types.StrVal(record.ExperienceRequired) != "" {
		score += 5
	}

	if len(record.RawText) > 100 {
		score = min(100, score+10)
	} else if len(record.RawText) < 50 {
		issues = append(issues, "Very short job description")
	}

	return types.QualityReport{
		Score:           score,
		Level:           qualityLevel(score),
		Issues:          issues,
		Recommendations: qualityRecommendations(issues),
	}
}

func qualityLevel(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Poor"
	}
}

func qualityRecommendations(issues []string) []string {
	recommendations := []string{}

	for _, issue := range issues {
		switch issue {
		case "Missing job title":
			recommendations = append(recommendations, "Ensure the job description includes a clear job title")
		case "No skills identified":
			recommendations = append(recommendations, "Add specific technical and soft skills required for the role")
		case "No requirements identified":
			recommendations = append(recommendations, "Include clear requirements and qualifications")
		case "No responsibilities identified":
			recommendations = append(recommendations, "Add detailed job responsibilities and duties")
		case "Very short job description":
			recommendations = append(recommendations, "Provide a more detailed job description with comprehensive information")
		}
	}

	return recommendations
}
