package profileService

import (
	"portal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrUnknownSection  = errors.New("unknown profile section")
	ErrSectionNotFound = errors.New("profile entry not found")
)

// Entry is a row of one of the one-to-many profile sections.
type Entry interface {
	SetOwner(userID uint)
}

// Sections are the resume-style lists shown on a profile.
type Sections struct {
	Experiences  []models.Experience  `json:"experiences"`
	Educations   []models.Education   `json:"educations"`
	Skills       []models.Skill       `json:"skills"`
	Projects     []models.Project     `json:"projects"`
	Languages    []models.Language    `json:"languages"`
	Certificates []models.Certificate `json:"certificates"`
}

// NewEntry returns an empty row for the named section.
func NewEntry(section string) (Entry, error) {
	switch section {
	case models.SectionExperience:
		return &models.Experience{}, nil
	case models.SectionEducation:
		return &models.Education{}, nil
	case models.SectionSkill:
		return &models.Skill{}, nil
	case models.SectionProject:
		return &models.Project{}, nil
	case models.SectionLanguage:
		return &models.Language{}, nil
	case models.SectionCertificate:
		return &models.Certificate{}, nil
	}
	return nil, ErrUnknownSection
}

// LoadSections returns every section of userID. Dated sections are newest
// first, skills are strongest first and languages keep insertion order.
func LoadSections(db *gorm.DB, userID uint) (*Sections, error) {
	s := &Sections{
		Experiences:  []models.Experience{},
		Educations:   []models.Education{},
		Skills:       []models.Skill{},
		Projects:     []models.Project{},
		Languages:    []models.Language{},
		Certificates: []models.Certificate{},
	}

	lists := []struct {
		what  string
		order string
		dest  interface{}
	}{
		{"experiences", "start_date DESC, id DESC", &s.Experiences},
		{"educations", "start_date DESC, id DESC", &s.Educations},
		{"skills", "percentage DESC, id ASC", &s.Skills},
		{"projects", "start_date DESC, id DESC", &s.Projects},
		{"languages", "id ASC", &s.Languages},
		{"certificates", "issue_date DESC, id DESC", &s.Certificates},
	}
	for _, l := range lists {
		if err := db.Where("user_id = ?", userID).Order(l.order).Find(l.dest).Error; err != nil {
			return nil, errors.Wrapf(err, "load %s", l.what)
		}
	}
	return s, nil
}

// AddEntry stores entry as owned by userID.
func AddEntry(db *gorm.DB, userID uint, entry Entry) error {
	entry.SetOwner(userID)
	return errors.Wrap(db.Create(entry).Error, "create profile entry")
}

// DeleteEntry removes one of userID's own rows from section.
func DeleteEntry(db *gorm.DB, userID uint, section string, id uint) error {
	entry, err := NewEntry(section)
	if err != nil {
		return err
	}
	res := db.Unscoped().Where("id = ? AND user_id = ?", id, userID).Delete(entry)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete profile entry")
	}
	if res.RowsAffected == 0 {
		return ErrSectionNotFound
	}
	return nil
}
