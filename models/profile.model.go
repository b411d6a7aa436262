package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProfile carries the public, editable part of an account.
type UserProfile struct {
	gorm.Model
	UserID         uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title          string `gorm:"size:120;default:''" json:"title"`
	Bio            string `gorm:"type:text" json:"bio"`
	Location       string `gorm:"size:120;default:''" json:"location"`
	Phone          string `gorm:"size:30;default:''" json:"phone"`
	Website        string `gorm:"default:''" json:"website"`
	Linkedin       string `gorm:"default:''" json:"linkedin"`
	Github         string `gorm:"default:''" json:"github"`
	ProfilePicture string `gorm:"default:''" json:"profile_picture"`
	Resume         string `gorm:"default:''" json:"-"`
}

const (
	SectionExperience  = "experience"
	SectionEducation   = "education"
	SectionSkill       = "skill"
	SectionProject     = "project"
	SectionLanguage    = "language"
	SectionCertificate = "certificate"
)

type Experience struct {
	gorm.Model
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Title       string          `gorm:"size:120;not null" json:"title"`
	Company     string          `gorm:"size:120;not null" json:"company"`
	Location    string          `gorm:"size:120;default:''" json:"location"`
	StartDate   datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate     *datatypes.Date `json:"end_date"`
	IsCurrent   bool            `gorm:"default:false" json:"is_current"`
	Description string          `gorm:"type:text" json:"description"`
}

type Education struct {
	gorm.Model
	UserID       uint            `gorm:"index;not null" json:"user_id"`
	Institution  string          `gorm:"size:150;not null" json:"institution"`
	Degree       string          `gorm:"size:120;not null" json:"degree"`
	FieldOfStudy string          `gorm:"size:120;default:''" json:"field_of_study"`
	StartDate    datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate      *datatypes.Date `json:"end_date"`
	Grade        string          `gorm:"size:30;default:''" json:"grade"`
	Description  string          `gorm:"type:text" json:"description"`
}

// Skill percentage is a self-rating between 0 and 100.
type Skill struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null" json:"user_id"`
	Name       string `gorm:"size:80;not null" json:"name"`
	Percentage int    `gorm:"not null;default:0" json:"percentage"`
}

type Project struct {
	gorm.Model
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Title       string          `gorm:"size:150;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	URL         string          `gorm:"default:''" json:"url"`
	StartDate   datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate     *datatypes.Date `json:"end_date"`
}

type Language struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Name        string `gorm:"size:60;not null" json:"name"`
	Proficiency string `gorm:"size:20;not null" json:"proficiency"`
}

type Certificate struct {
	gorm.Model
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	Name          string          `gorm:"size:150;not null" json:"name"`
	Issuer        string          `gorm:"size:150;not null" json:"issuer"`
	IssueDate     datatypes.Date  `gorm:"not null" json:"issue_date"`
	ExpiryDate    *datatypes.Date `json:"expiry_date"`
	CredentialURL string          `gorm:"default:''" json:"credential_url"`
}

func (e *Experience) SetOwner(userID uint)  { e.UserID = userID }
func (e *Education) SetOwner(userID uint)   { e.UserID = userID }
func (s *Skill) SetOwner(userID uint)       { s.UserID = userID }
func (p *Project) SetOwner(userID uint)     { p.UserID = userID }
func (l *Language) SetOwner(userID uint)    { l.UserID = userID }
func (c *Certificate) SetOwner(userID uint) { c.UserID = userID }
