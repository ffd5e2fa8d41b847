package feature

import (
	"regexp"
	"strconv"
	"strings"
)

var experiencePattern = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:year|yr)s?\s*(?:of\s*)?experience`)

// educationKeywords is scanned in order; the first keyword found wins.
var educationKeywords = []struct {
	keyword string
	level   string
}{
	{"bachelor", EducationBachelor},
	{"master", EducationMaster},
	{"phd", EducationPhD},
	{"doctorate", EducationPhD},
	{"high school", EducationHighSchool},
	{"associate", EducationAssociate},
}

// ExtractExperience returns the years in the first "N+ years of experience"
// phrase of the description, or 0.
func ExtractExperience(description string) float64 {
	m := experiencePattern.FindStringSubmatch(description)
	if m == nil {
		return 0
	}
	years, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return years
}

// ExtractEducation returns the education level implied by the description,
// or Unknown.
func ExtractEducation(description string) string {
	lower := strings.ToLower(description)
	for _, k := range educationKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.level
		}
	}
	return Unknown
}

// Extract builds a Posting from a free-text description and the structured
// title and location fields.
func Extract(description, title, location string) Posting {
	return NewPosting(
		ExtractExperience(description),
		ExtractEducation(description),
		location,
		title,
	)
}
