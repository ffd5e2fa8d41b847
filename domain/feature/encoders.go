package feature

import "fmt"

// Encoders holds one fitted encoder per categorical column. It is persisted
// together with the model that was trained on its codes.
type Encoders struct {
	education *Encoder
	location  *Encoder
	title     *Encoder
}

// Vocabularies is the serialisable form of Encoders.
type Vocabularies struct {
	Education []string `json:"education"`
	Location  []string `json:"location"`
	Title     []string `json:"title"`
}

// FitEncoders fits fresh encoders on postings and returns them with the
// encoded vectors, in input order.
func FitEncoders(postings []Posting) (Encoders, []Vector) {
	n := len(postings)
	educations := make([]string, n)
	locations := make([]string, n)
	titles := make([]string, n)
	for i, p := range postings {
		educations[i] = p.education
		locations[i] = p.location
		titles[i] = p.title
	}

	enc := Encoders{
		education: NewEncoder("education"),
		location:  NewEncoder("location"),
		title:     NewEncoder("title"),
	}
	eduCodes := enc.education.FitTransform(educations)
	locCodes := enc.location.FitTransform(locations)
	titleCodes := enc.title.FitTransform(titles)

	vectors := make([]Vector, n)
	for i, p := range postings {
		vectors[i] = Vector{
			Experience:    p.experience,
			EducationCode: eduCodes[i],
			LocationCode:  locCodes[i],
			TitleCode:     titleCodes[i],
		}
	}
	return enc, vectors
}

// RestoreEncoders rebuilds Encoders from persisted vocabularies.
func RestoreEncoders(v Vocabularies) (Encoders, error) {
	edu, err := RestoreEncoder("education", v.Education)
	if err != nil {
		return Encoders{}, err
	}
	loc, err := RestoreEncoder("location", v.Location)
	if err != nil {
		return Encoders{}, err
	}
	title, err := RestoreEncoder("title", v.Title)
	if err != nil {
		return Encoders{}, err
	}
	return Encoders{education: edu, location: loc, title: title}, nil
}

// Vocabularies returns the fitted vocabularies.
func (e Encoders) Vocabularies() Vocabularies {
	return Vocabularies{
		Education: e.education.Vocabulary(),
		Location:  e.location.Vocabulary(),
		Title:     e.title.Vocabulary(),
	}
}

// Education returns the education encoder.
func (e Encoders) Education() *Encoder { return e.education }

// Location returns the location encoder.
func (e Encoders) Location() *Encoder { return e.location }

// Title returns the title encoder.
func (e Encoders) Title() *Encoder { return e.title }

// Transform encodes a posting with the fitted vocabularies.
func (e Encoders) Transform(p Posting, policy UnseenPolicy) (Vector, error) {
	if e.education == nil {
		return Vector{}, fmt.Errorf("encoders are not fitted")
	}
	edu, err := e.education.Transform(p.education, policy)
	if err != nil {
		return Vector{}, err
	}
	loc, err := e.location.Transform(p.location, policy)
	if err != nil {
		return Vector{}, err
	}
	title, err := e.title.Transform(p.title, policy)
	if err != nil {
		return Vector{}, err
	}
	return Vector{
		Experience:    p.experience,
		EducationCode: edu,
		LocationCode:  loc,
		TitleCode:     title,
	}, nil
}
