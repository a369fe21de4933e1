// Package entity defines the road-rule catalogue and quiz entities.
package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Languages are the translation languages the catalogue is authored in.
var Languages = []string{"en", "fr", "nl", "de"}

// RuleCategory groups road rules, e.g. "Traffic Signs and Signals".
type RuleCategory struct {
	ID           string                `gorm:"primaryKey;size:36" json:"id"`
	Icon         string                `gorm:"size:64;not null" json:"icon"`
	OrderIndex   int                   `gorm:"not null;index" json:"orderIndex"`
	Translations []CategoryTranslation `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"translations"`
	Rules        []RoadRule            `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time             `json:"-"`
	UpdatedAt    time.Time             `json:"-"`
}

// CategoryTranslation is the copy of a category in one language.
type CategoryTranslation struct {
	ID          string `gorm:"primaryKey;size:36" json:"-"`
	CategoryID  string `gorm:"size:36;not null;uniqueIndex:idx_category_language" json:"-"`
	Language    string `gorm:"size:8;not null;uniqueIndex:idx_category_language" json:"language"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"not null" json:"description"`
}

// RoadRule is one rule of the Belgian highway code.
type RoadRule struct {
	ID           string            `gorm:"primaryKey;size:36" json:"id"`
	CategoryID   string            `gorm:"size:36;not null;index" json:"categoryId"`
	OrderIndex   int               `gorm:"not null" json:"orderIndex"`
	MediaURL     *string           `json:"mediaUrl,omitempty"`
	ValidFrom    *time.Time        `json:"validFrom,omitempty"`
	ValidUntil   *time.Time        `json:"validUntil,omitempty"`
	Translations []RuleTranslation `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE" json:"translations"`
	Questions    []QuizQuestion    `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time         `json:"-"`
	UpdatedAt    time.Time         `json:"-"`
}

// ActiveAt reports whether the rule is in force at t.
func (r *RoadRule) ActiveAt(t time.Time) bool {
	if r.ValidFrom != nil && t.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && !t.Before(*r.ValidUntil) {
		return false
	}
	return true
}

// RuleTranslation is the copy of a rule in one language.
type RuleTranslation struct {
	ID       string `gorm:"primaryKey;size:36" json:"-"`
	RuleID   string `gorm:"size:36;not null;uniqueIndex:idx_rule_language" json:"-"`
	Language string `gorm:"size:8;not null;uniqueIndex:idx_rule_language" json:"language"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"not null" json:"content"`
}

// QuizQuestion is a multiple-choice question about a rule.
// CorrectOption is a zero-based index into the options of every translation.
type QuizQuestion struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	RuleID        string            `gorm:"size:36;not null;index" json:"ruleId"`
	CorrectOption int               `gorm:"not null" json:"correctOption"`
	Translations  []QuizTranslation `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"translations"`
	CreatedAt     time.Time         `json:"-"`
	UpdatedAt     time.Time         `json:"-"`
}

// OptionCount returns the number of options, taken from the first translation.
func (q *QuizQuestion) OptionCount() int {
	if len(q.Translations) == 0 {
		return 0
	}
	return len(q.Translations[0].Options)
}

// QuizTranslation is the copy of a question in one language.
type QuizTranslation struct {
	ID          string                      `gorm:"primaryKey;size:36" json:"-"`
	QuestionID  string                      `gorm:"size:36;not null;uniqueIndex:idx_question_language" json:"-"`
	Language    string                      `gorm:"size:8;not null;uniqueIndex:idx_question_language" json:"language"`
	Question    string                      `gorm:"not null" json:"question"`
	Options     datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	Explanation string                      `gorm:"not null" json:"explanation"`
}

// QuizResult records one answer a user gave.
type QuizResult struct {
	ID             string    `gorm:"primaryKey;size:36"`
	UserID         string    `gorm:"size:36;not null;index"`
	QuestionID     string    `gorm:"size:36;not null;index"`
	SelectedOption int       `gorm:"not null"`
	IsCorrect      bool      `gorm:"not null"`
	CompletedAt    time.Time `gorm:"not null"`
}
