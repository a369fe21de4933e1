// Package dto defines the request and response bodies of the rules API.
package dto

import (
	"time"

	"drive_backend/internal/feature/rules/domain/entity"
)

// CategoryText is the copy of a category in one language.
type CategoryText struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse is the public view of a rule category. Translations are keyed by language.
type CategoryResponse struct {
	ID           string                  `json:"id"`
	Icon         string                  `json:"icon"`
	OrderIndex   int                     `json:"orderIndex"`
	Translations map[string]CategoryText `json:"translations"`
}

// RuleText is the copy of a rule in one language.
type RuleText struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RuleResponse is the public view of a road rule.
type RuleResponse struct {
	ID           string              `json:"id"`
	CategoryID   string              `json:"categoryId"`
	OrderIndex   int                 `json:"orderIndex"`
	MediaURL     *string             `json:"mediaUrl"`
	ValidFrom    *time.Time          `json:"validFrom"`
	ValidUntil   *time.Time          `json:"validUntil"`
	Active       bool                `json:"active"`
	Translations map[string]RuleText `json:"translations"`
}

// QuestionText is the copy of a quiz question in one language.
type QuestionText struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation"`
}

// QuizQuestionResponse is the public view of a quiz question.
type QuizQuestionResponse struct {
	ID            string                  `json:"id"`
	RuleID        string                  `json:"ruleId"`
	CorrectOption int                     `json:"correctOption"`
	Translations  map[string]QuestionText `json:"translations"`
}

// NewCategoryResponses converts categories to their response form. The result is never nil.
func NewCategoryResponses(list []entity.RuleCategory) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for _, c := range list {
		tr := make(map[string]CategoryText, len(c.Translations))
		for _, t := range c.Translations {
			tr[t.Language] = CategoryText{Name: t.Name, Description: t.Description}
		}
		out = append(out, CategoryResponse{ID: c.ID, Icon: c.Icon, OrderIndex: c.OrderIndex, Translations: tr})
	}
	return out
}

// NewRuleResponses converts rules to their response form, marking whether each is in force at now.
func NewRuleResponses(list []entity.RoadRule, now time.Time) []RuleResponse {
	out := make([]RuleResponse, 0, len(list))
	for _, r := range list {
		tr := make(map[string]RuleText, len(r.Translations))
		for _, t := range r.Translations {
			tr[t.Language] = RuleText{Title: t.Title, Content: t.Content}
		}
		out = append(out, RuleResponse{
			ID:           r.ID,
			CategoryID:   r.CategoryID,
			OrderIndex:   r.OrderIndex,
			MediaURL:     r.MediaURL,
			ValidFrom:    r.ValidFrom,
			ValidUntil:   r.ValidUntil,
			Active:       r.ActiveAt(now),
			Translations: tr,
		})
	}
	return out
}

// NewQuizQuestionResponses converts questions to their response form, keeping their order.
func NewQuizQuestionResponses(list []entity.QuizQuestion) []QuizQuestionResponse {
	out := make([]QuizQuestionResponse, 0, len(list))
	for _, q := range list {
		tr := make(map[string]QuestionText, len(q.Translations))
		for _, t := range q.Translations {
			opts := []string(t.Options)
			if opts == nil {
				opts = []string{}
			}
			tr[t.Language] = QuestionText{Question: t.Question, Options: opts, Explanation: t.Explanation}
		}
		out = append(out, QuizQuestionResponse{ID: q.ID, RuleID: q.RuleID, CorrectOption: q.CorrectOption, Translations: tr})
	}
	return out
}
