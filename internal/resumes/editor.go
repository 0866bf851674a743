package resumes

import (
	"fmt"

	"github.com/google/uuid"
)

// List-valued sections of the document.
const (
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
)

// IsListSection reports whether name is a list-valued section.
func IsListSection(name string) bool {
	switch name {
	case SectionExperience, SectionEducation, SectionSkills:
		return true
	}
	return false
}

// SetPersonalField replaces one personal field. Unknown field names are
// rejected; no other data changes.
func SetPersonalField(doc *ResumeDocument, field, value string) error {
	switch field {
	case "name":
		doc.Personal.Name = value
	case "title":
		doc.Personal.Title = value
	case "email":
		doc.Personal.Email = value
	case "phone":
		doc.Personal.Phone = value
	case "location":
		doc.Personal.Location = value
	case "linkedin":
		doc.Personal.LinkedIn = value
	case "website":
		doc.Personal.Website = value
	case "image":
		doc.Personal.Image = value
	default:
		return fmt.Errorf("%w: personal.%s", ErrUnknownField, field)
	}
	return nil
}

// SetSummary replaces the summary text.
func SetSummary(doc *ResumeDocument, value string) {
	doc.Summary = value
}

// SetListField replaces one field of the entry at index within a list
// section. Unknown fields are rejected. An out-of-range index is a contract
// violation: indices are always derived from the current document, so a
// stale one means the caller and the document are out of sync, and the
// editor panics rather than guessing.
func SetListField(doc *ResumeDocument, section string, index int, field, value string) error {
	switch section {
	case SectionExperience:
		if index < 0 || index >= len(doc.Experience) {
			panic(fmt.Sprintf("resumes: experience index %d out of range [0,%d)", index, len(doc.Experience)))
		}
		entry := &doc.Experience[index]
		switch field {
		case "company":
			entry.Company = value
		case "role":
			entry.Role = value
		case "startDate":
			entry.StartDate = value
		case "endDate":
			entry.EndDate = value
		case "description":
			entry.Description = value
		default:
			return fmt.Errorf("%w: experience.%s", ErrUnknownField, field)
		}
	case SectionEducation:
		if index < 0 || index >= len(doc.Education) {
			panic(fmt.Sprintf("resumes: education index %d out of range [0,%d)", index, len(doc.Education)))
		}
		entry := &doc.Education[index]
		switch field {
		case "institution":
			entry.Institution = value
		case "degree":
			entry.Degree = value
		case "startDate":
			entry.StartDate = value
		case "endDate":
			entry.EndDate = value
		case "description":
			entry.Description = value
		default:
			return fmt.Errorf("%w: education.%s", ErrUnknownField, field)
		}
	case SectionSkills:
		if index < 0 || index >= len(doc.Skills) {
			panic(fmt.Sprintf("resumes: skills index %d out of range [0,%d)", index, len(doc.Skills)))
		}
		if field != "name" {
			return fmt.Errorf("%w: skills.%s", ErrUnknownField, field)
		}
		doc.Skills[index].Name = value
	default:
		return fmt.Errorf("%w: section %s", ErrInvalidInput, section)
	}
	return nil
}

// AddEntry appends a new entry with empty fields to the given section and
// returns its identifier. The identifier is guaranteed distinct from every
// existing identifier in that list.
func AddEntry(doc *ResumeDocument, section string) (string, error) {
	switch section {
	case SectionExperience:
		id := freshID(experienceIDs(doc))
		doc.Experience = append(doc.Experience, WorkEntry{ID: id})
		return id, nil
	case SectionEducation:
		id := freshID(educationIDs(doc))
		doc.Education = append(doc.Education, EduEntry{ID: id})
		return id, nil
	case SectionSkills:
		id := freshID(skillIDs(doc))
		doc.Skills = append(doc.Skills, SkillEntry{ID: id})
		return id, nil
	}
	return "", fmt.Errorf("%w: section %s", ErrInvalidInput, section)
}

// RemoveEntry removes the entry with the given identifier from the section.
// Removing an absent identifier is a no-op; list order is preserved.
func RemoveEntry(doc *ResumeDocument, section, id string) error {
	switch section {
	case SectionExperience:
		for i := range doc.Experience {
			if doc.Experience[i].ID == id {
				doc.Experience = append(doc.Experience[:i], doc.Experience[i+1:]...)
				return nil
			}
		}
	case SectionEducation:
		for i := range doc.Education {
			if doc.Education[i].ID == id {
				doc.Education = append(doc.Education[:i], doc.Education[i+1:]...)
				return nil
			}
		}
	case SectionSkills:
		for i := range doc.Skills {
			if doc.Skills[i].ID == id {
				doc.Skills = append(doc.Skills[:i], doc.Skills[i+1:]...)
				return nil
			}
		}
	default:
		return fmt.Errorf("%w: section %s", ErrInvalidInput, section)
	}
	return nil
}

// freshID generates a UUID not present in taken. UUID collisions are
// effectively impossible, but the entry-ID uniqueness guarantee is absolute,
// so check anyway.
func freshID(taken map[string]struct{}) string {
	for {
		id := uuid.NewString()
		if _, exists := taken[id]; !exists {
			return id
		}
	}
}

func experienceIDs(doc *ResumeDocument) map[string]struct{} {
	out := make(map[string]struct{}, len(doc.Experience))
	for i := range doc.Experience {
		out[doc.Experience[i].ID] = struct{}{}
	}
	return out
}

func educationIDs(doc *ResumeDocument) map[string]struct{} {
	out := make(map[string]struct{}, len(doc.Education))
	for i := range doc.Education {
		out[doc.Education[i].ID] = struct{}{}
	}
	return out
}

func skillIDs(doc *ResumeDocument) map[string]struct{} {
	out := make(map[string]struct{}, len(doc.Skills))
	for i := range doc.Skills {
		out[doc.Skills[i].ID] = struct{}{}
	}
	return out
}
