package resumes

import "github.com/google/uuid"

// ResumeDocument is the complete resume held for one session. It is mutated
// only through the editor operations in this package; everything handed to
// the renderer or staged for an AI suggestion is a deep copy.
type ResumeDocument struct {
	Personal   PersonalInfo `json:"personal"`
	Summary    string       `json:"summary"`
	Experience []WorkEntry  `json:"experience"`
	Education  []EduEntry   `json:"education"`
	Skills     []SkillEntry `json:"skills"`
}

// PersonalInfo carries the fixed header fields. Image is empty or an
// embedded data URL.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	Image    string `json:"image"`
}

// WorkEntry is one work-experience item. The ID keys the entry for removal
// and rendering; it carries no meaning outside the document's lifetime.
type WorkEntry struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// EduEntry is one education item.
type EduEntry struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// SkillEntry is one skill item.
type SkillEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewDocument returns a placeholder-populated document for a fresh session.
func NewDocument() ResumeDocument {
	return ResumeDocument{
		Personal: PersonalInfo{
			Name:     "Your Name",
			Title:    "Your Title (e.g., Software Engineer)",
			Email:    "your.email@example.com",
			Phone:    "(123) 456-7890",
			Location: "Your City, State",
			LinkedIn: "linkedin.com/in/yourprofile",
			Website:  "yourportfolio.com",
			Image:    "",
		},
		Summary: "A brief summary about your professional background, skills, and career goals. Tailor this to the job you are applying for.",
		Experience: []WorkEntry{
			{
				ID:          uuid.NewString(),
				Company:     "Sample Company Inc.",
				Role:        "Software Engineer",
				StartDate:   "Jan 2022",
				EndDate:     "Present",
				Description: "- Developed and maintained web applications using Go and TypeScript.\n- Collaborated with cross-functional teams to define, design, and ship new features.\n- Improved application performance by 20% through code optimization.",
			},
		},
		Education: []EduEntry{
			{
				ID:          uuid.NewString(),
				Institution: "University of Technology",
				Degree:      "B.S. in Computer Science",
				StartDate:   "Sep 2018",
				EndDate:     "May 2022",
				Description: "- Graduated with honors.\n- Member of the coding club.",
			},
		},
		Skills: []SkillEntry{
			{ID: uuid.NewString(), Name: "Go"},
			{ID: uuid.NewString(), Name: "TypeScript"},
			{ID: uuid.NewString(), Name: "PostgreSQL"},
			{ID: uuid.NewString(), Name: "Docker"},
			{ID: uuid.NewString(), Name: "Kubernetes"},
		},
	}
}

// Clone returns a deep copy. Slices are reallocated so a snapshot never
// aliases the live document.
func (d ResumeDocument) Clone() ResumeDocument {
	out := d
	out.Experience = append([]WorkEntry(nil), d.Experience...)
	out.Education = append([]EduEntry(nil), d.Education...)
	out.Skills = append([]SkillEntry(nil), d.Skills...)
	return out
}
