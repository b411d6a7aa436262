package userValidator

import (
	"strings"
	"time"

	"portal/middleware"
	"portal/models"
	profileService "portal/services/profile"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

type ExperienceRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Company     string `json:"company" validate:"required,max=120"`
	Location    string `json:"location" validate:"max=120"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent   bool   `json:"is_current"`
	Description string `json:"description"`
}

type EducationRequest struct {
	Institution  string `json:"institution" validate:"required,max=150"`
	Degree       string `json:"degree" validate:"required,max=120"`
	FieldOfStudy string `json:"field_of_study" validate:"max=120"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Grade        string `json:"grade" validate:"max=30"`
	Description  string `json:"description"`
}

type SkillRequest struct {
	Name       string `json:"name" validate:"required,max=80"`
	Percentage int    `json:"percentage" validate:"gte=0,lte=100"`
}

type ProjectRequest struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description"`
	URL         string `json:"url" validate:"omitempty,url"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type LanguageRequest struct {
	Name        string `json:"name" validate:"required,max=60"`
	Proficiency string `json:"proficiency" validate:"required,oneof=basic conversational fluent native"`
}

type CertificateRequest struct {
	Name          string `json:"name" validate:"required,max=150"`
	Issuer        string `json:"issuer" validate:"required,max=150"`
	IssueDate     string `json:"issue_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate    string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	CredentialURL string `json:"credential_url" validate:"omitempty,url"`
}

// date expects a value already checked by the datetime tag.
func date(s string) datatypes.Date {
	t, _ := time.Parse(dateLayout, s)
	return datatypes.Date(t)
}

func optionalDate(s string) *datatypes.Date {
	if s == "" {
		return nil
	}
	d := date(s)
	return &d
}

// sectionRequest decodes the body for section and converts it to its row.
func sectionRequest(c *fiber.Ctx, section string) (profileService.Entry, map[string]string, error) {
	var req interface{}
	switch section {
	case models.SectionExperience:
		req = new(ExperienceRequest)
	case models.SectionEducation:
		req = new(EducationRequest)
	case models.SectionSkill:
		req = new(SkillRequest)
	case models.SectionProject:
		req = new(ProjectRequest)
	case models.SectionLanguage:
		req = new(LanguageRequest)
	case models.SectionCertificate:
		req = new(CertificateRequest)
	default:
		return nil, nil, profileService.ErrUnknownSection
	}
	if err := c.BodyParser(req); err != nil {
		return nil, nil, err
	}
	if errors := middleware.ValidateStruct(req); errors != nil {
		return nil, errors, nil
	}

	switch r := req.(type) {
	case *ExperienceRequest:
		if r.IsCurrent {
			r.EndDate = ""
		}
		return &models.Experience{
			Title: strings.TrimSpace(r.Title), Company: strings.TrimSpace(r.Company), Location: r.Location,
			StartDate: date(r.StartDate), EndDate: optionalDate(r.EndDate), IsCurrent: r.IsCurrent, Description: r.Description,
		}, nil, nil
	case *EducationRequest:
		return &models.Education{
			Institution: strings.TrimSpace(r.Institution), Degree: strings.TrimSpace(r.Degree), FieldOfStudy: r.FieldOfStudy,
			StartDate: date(r.StartDate), EndDate: optionalDate(r.EndDate), Grade: r.Grade, Description: r.Description,
		}, nil, nil
	case *SkillRequest:
		return &models.Skill{Name: strings.TrimSpace(r.Name), Percentage: r.Percentage}, nil, nil
	case *ProjectRequest:
		return &models.Project{
			Title: strings.TrimSpace(r.Title), Description: r.Description, URL: r.URL,
			StartDate: date(r.StartDate), EndDate: optionalDate(r.EndDate),
		}, nil, nil
	case *LanguageRequest:
		return &models.Language{Name: strings.TrimSpace(r.Name), Proficiency: r.Proficiency}, nil, nil
	case *CertificateRequest:
		return &models.Certificate{
			Name: strings.TrimSpace(r.Name), Issuer: strings.TrimSpace(r.Issuer),
			IssueDate: date(r.IssueDate), ExpiryDate: optionalDate(r.ExpiryDate), CredentialURL: r.CredentialURL,
		}, nil, nil
	}
	return nil, nil, profileService.ErrUnknownSection
}

// AddSectionEntry validates a new row for the :section route parameter.
func AddSectionEntry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry, errors, err := sectionRequest(c, c.Params("section"))
		if err == profileService.ErrUnknownSection {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown profile section!", nil)
		}
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEntry", entry)
		return c.Next()
	}
}
