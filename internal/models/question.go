package models

import (
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	SingleChoice    QuestionType = "single_choice"
	MultiSelect     QuestionType = "multi_select"
	AssertionReason QuestionType = "assertion_reason"
	FillBlank       QuestionType = "fill_blank"
	Matching        QuestionType = "matching"
)

// RequiresOptions reports whether the question type is answered by picking
// from the option list. Fill-in-the-blank is the only type answered with
// free text.
func (t QuestionType) RequiresOptions() bool {
	return t != FillBlank
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Question struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Subject    string          `json:"subject" gorm:"not null;size:100;index" validate:"required,max=100"`
	Difficulty DifficultyLevel `json:"difficulty" gorm:"size:20" validate:"omitempty,difficulty_level"`
	Type       QuestionType    `json:"type" gorm:"not null;size:30;index" validate:"required,question_type"`

	// For the matching type QuestionText holds a JSON document with the
	// instruction and table headers, see MatchingContent.
	QuestionText string  `json:"question_text" gorm:"not null;type:text" validate:"required"`
	ImageURL     *string `json:"image_url"`

	Marks        float64  `json:"marks" gorm:"not null;default:1"`
	NegativeMark *float64 `json:"negative_mark"`
	Solution     *string  `json:"solution" gorm:"type:text"`

	// Denormalized answer key, used when no option carries IsCorrect.
	// For fill_blank it holds the expected text.
	CorrectAnswer *string `json:"correct_answer" gorm:"size:500"`

	CreatedBy string         `json:"created_by" gorm:"size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Options       []QuestionOption `json:"options" gorm:"foreignKey:QuestionID"`
	MatchingPairs []MatchingPair   `json:"matching_pairs" gorm:"foreignKey:QuestionID"`
}

type QuestionOption struct {
	ID         string  `json:"id" gorm:"primaryKey;size:36"`
	QuestionID uint    `json:"question_id" gorm:"not null;index"`
	Text       string  `json:"text" gorm:"not null;type:text"`
	ImageURL   *string `json:"image_url"`
	IsCorrect  bool    `json:"is_correct" gorm:"default:false"`
	Order      int     `json:"order" gorm:"default:0"`
}

// MatchingPair is static reference data rendered as a two column table.
// The matching question is still answered by selecting one option over a
// derived answer key, not by assigning pairs.
type MatchingPair struct {
	ID         string  `json:"id" gorm:"primaryKey;size:36"`
	QuestionID uint    `json:"question_id" gorm:"not null;index"`
	LeftText   string  `json:"left_text" gorm:"not null;type:text"`
	LeftImage  *string `json:"left_image"`
	RightText  string  `json:"right_text" gorm:"not null;type:text"`
	RightImage *string `json:"right_image"`
	Order      int     `json:"order" gorm:"default:0"`
}

// MatchingContent is the parsed form of a matching question's QuestionText.
type MatchingContent struct {
	Instruction string          `json:"instruction"`
	Headers     MatchingHeaders `json:"headers"`
}

type MatchingHeaders struct {
	Left     string `json:"left"`
	Right    string `json:"right"`
	LeftSub  string `json:"leftSub,omitempty"`
	RightSub string `json:"rightSub,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

func (QuestionOption) TableName() string {
	return "question_options"
}

func (MatchingPair) TableName() string {
	return "matching_pairs"
}

// CorrectOptionIDs returns the ids of the options flagged correct, falling
// back to the denormalized CorrectAnswer key when no option is flagged.
func (q *Question) CorrectOptionIDs() []string {
	var ids []string
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	if len(ids) == 0 && q.CorrectAnswer != nil && *q.CorrectAnswer != "" {
		ids = append(ids, *q.CorrectAnswer)
	}
	return ids
}
