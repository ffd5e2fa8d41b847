// Package feature turns job postings into numeric feature vectors.
package feature

import "strings"

// Unknown is the value used for any missing categorical field.
const Unknown = "Unknown"

// Education levels recognised by the extractor.
const (
	EducationBachelor   = "Bachelor's Degree"
	EducationMaster     = "Master's Degree"
	EducationPhD        = "PhD"
	EducationHighSchool = "High School"
	EducationAssociate  = "Associate's Degree"
)

// Posting holds the four normalised attributes salary estimation works on.
type Posting struct {
	experience float64
	education  string
	location   string
	title      string
}

// NewPosting creates a Posting. Blank categorical values become Unknown and
// negative experience is treated as zero.
func NewPosting(experience float64, education, location, title string) Posting {
	if experience < 0 {
		experience = 0
	}
	return Posting{
		experience: experience,
		education:  orUnknown(education),
		location:   orUnknown(location),
		title:      orUnknown(title),
	}
}

// Experience returns the years of experience.
func (p Posting) Experience() float64 { return p.experience }

// Education returns the education level.
func (p Posting) Education() string { return p.education }

// Location returns the normalised location.
func (p Posting) Location() string { return p.location }

// Title returns the job title.
func (p Posting) Title() string { return p.title }

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}

// Vector is an encoded Posting. Codes are only meaningful relative to the
// Encoders that produced them.
type Vector struct {
	Experience    float64 `json:"experience"`
	EducationCode int     `json:"education_code"`
	LocationCode  int     `json:"location_code"`
	TitleCode     int     `json:"title_code"`
}

// Row returns the vector as a feature row in the column order the model
// is trained on.
func (v Vector) Row() []float64 {
	return []float64{
		v.Experience,
		float64(v.EducationCode),
		float64(v.LocationCode),
		float64(v.TitleCode),
	}
}

// Columns names the feature row entries in order.
var Columns = []string{"experience", "education", "location", "title"}
