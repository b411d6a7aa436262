package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

var DifficultyLevels = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

func (Category) TableName() string { return "course_categories" }

// Course represents a learning course
type Course struct {
	gorm.Model
	Title            string         `gorm:"size:200;not null" json:"title"`
	CategoryID       *uint          `gorm:"index" json:"category_id"`
	Category         *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Instructor       string         `gorm:"size:120;index" json:"instructor"`
	Description      string         `gorm:"type:text" json:"description"`
	ShortDescription string         `gorm:"size:300" json:"short_description"`
	Difficulty       string         `gorm:"size:20" json:"difficulty"`
	Price            float64        `gorm:"default:0" json:"price"`
	DurationWeeks    int            `gorm:"default:0" json:"duration_weeks"`
	SkillsCovered    datatypes.JSON `json:"skills_covered"`
	ThumbnailURL     string         `json:"thumbnail_url"`
	IsActive         bool           `gorm:"default:true;index" json:"is_active"`
	CreatedBy        uint           `json:"created_by"`
	Lessons          []Lesson       `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}
