package models

import (
	"time"

	"gorm.io/gorm"
)

type TestStatus string

const (
	TestDraft    TestStatus = "draft"
	TestActive   TestStatus = "active"
	TestArchived TestStatus = "archived"
)

// Test is an assembled, timed exam paper.
type Test struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string    `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Duration    int        `json:"duration" gorm:"not null" validate:"required,min=1"` // minutes
	Status      TestStatus `json:"status" gorm:"default:draft;index" validate:"omitempty,oneof=draft active archived"`

	// Fullscreen lockdown is enforced for desktop takers when set.
	RequireFullScreen bool `json:"require_full_screen" gorm:"default:true"`

	CreatedBy string         `json:"created_by" gorm:"size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []TestQuestion `json:"questions" gorm:"foreignKey:TestID"`

	// Computed (not stored)
	Subjects []string `json:"subjects" gorm:"-"`
}

// TestQuestion pins a question into a test at a fixed position. Question
// order is the order students see and the order reviews replay.
type TestQuestion struct {
	TestID     uint `json:"test_id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"primaryKey"`
	Position   int  `json:"position" gorm:"not null;index"`

	Question Question `json:"question" gorm:"foreignKey:QuestionID"`
}

func (Test) TableName() string {
	return "tests"
}

func (TestQuestion) TableName() string {
	return "test_questions"
}

// OrderedQuestions flattens the join rows into the question list in
// position order. Rows whose question failed to preload are skipped.
func (t *Test) OrderedQuestions() []*Question {
	questions := make([]*Question, 0, len(t.Questions))
	for i := range t.Questions {
		if t.Questions[i].Question.ID == 0 {
			continue
		}
		questions = append(questions, &t.Questions[i].Question)
	}
	return questions
}

// SubjectList returns the distinct subjects in first-appearance order.
func (t *Test) SubjectList() []string {
	seen := make(map[string]bool)
	var subjects []string
	for _, q := range t.OrderedQuestions() {
		if !seen[q.Subject] {
			seen[q.Subject] = true
			subjects = append(subjects, q.Subject)
		}
	}
	return subjects
}
