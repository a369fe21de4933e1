package adapters

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"drive_backend/internal/feature/rules/domain/entity"
	"drive_backend/internal/platform/db"
)

//go:embed seed/catalogue.json
var catalogueJSON []byte

// seedDateLayout is the layout of validFrom / validUntil in the catalogue file.
const seedDateLayout = "2006-01-02"

type seedCategory struct {
	ID           string `json:"id"`
	Icon         string `json:"icon"`
	OrderIndex   int    `json:"orderIndex"`
	Translations map[string]struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"translations"`
	Rules []seedRule `json:"rules"`
}

type seedRule struct {
	ID           string  `json:"id"`
	OrderIndex   int     `json:"orderIndex"`
	MediaURL     *string `json:"mediaUrl"`
	ValidFrom    string  `json:"validFrom"`
	ValidUntil   string  `json:"validUntil"`
	Translations map[string]struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"translations"`
	Quiz []seedQuestion `json:"quiz"`
}

type seedQuestion struct {
	ID            string `json:"id"`
	CorrectOption int    `json:"correctOption"`
	Translations  map[string]struct {
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Explanation string   `json:"explanation"`
	} `json:"translations"`
}

// LoadCatalogue decodes the embedded catalogue into entities with their
// translations, rules and questions attached.
func LoadCatalogue() ([]entity.RuleCategory, error) {
	return decodeCatalogue(catalogueJSON)
}

func decodeCatalogue(raw []byte) ([]entity.RuleCategory, error) {
	var seeds []seedCategory
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	out := make([]entity.RuleCategory, 0, len(seeds))
	for _, sc := range seeds {
		c := entity.RuleCategory{ID: sc.ID, Icon: sc.Icon, OrderIndex: sc.OrderIndex}
		for _, lang := range sortedKeys(sc.Translations) {
			tr := sc.Translations[lang]
			c.Translations = append(c.Translations, entity.CategoryTranslation{
				ID: uuid.NewString(), CategoryID: sc.ID, Language: lang, Name: tr.Name, Description: tr.Description,
			})
		}
		for _, sr := range sc.Rules {
			rule, err := sr.toEntity(sc.ID)
			if err != nil {
				return nil, err
			}
			c.Rules = append(c.Rules, rule)
		}
		out = append(out, c)
	}
	return out, nil
}

func (sr seedRule) toEntity(categoryID string) (entity.RoadRule, error) {
	rule := entity.RoadRule{ID: sr.ID, CategoryID: categoryID, OrderIndex: sr.OrderIndex, MediaURL: sr.MediaURL}

	var err error
	if rule.ValidFrom, err = parseSeedDate(sr.ValidFrom); err != nil {
		return rule, fmt.Errorf("rule %s validFrom: %w", sr.ID, err)
	}
	if rule.ValidUntil, err = parseSeedDate(sr.ValidUntil); err != nil {
		return rule, fmt.Errorf("rule %s validUntil: %w", sr.ID, err)
	}

	for _, lang := range sortedKeys(sr.Translations) {
		tr := sr.Translations[lang]
		rule.Translations = append(rule.Translations, entity.RuleTranslation{
			ID: uuid.NewString(), RuleID: sr.ID, Language: lang, Title: tr.Title, Content: tr.Content,
		})
	}

	for _, sq := range sr.Quiz {
		q := entity.QuizQuestion{ID: sq.ID, RuleID: sr.ID, CorrectOption: sq.CorrectOption}
		for _, lang := range sortedKeys(sq.Translations) {
			tr := sq.Translations[lang]
			if sq.CorrectOption < 0 || sq.CorrectOption >= len(tr.Options) {
				return rule, fmt.Errorf("question %s (%s): correct option %d out of range", sq.ID, lang, sq.CorrectOption)
			}
			q.Translations = append(q.Translations, entity.QuizTranslation{
				ID: uuid.NewString(), QuestionID: sq.ID, Language: lang,
				Question: tr.Question, Options: tr.Options, Explanation: tr.Explanation,
			})
		}
		rule.Questions = append(rule.Questions, q)
	}
	return rule, nil
}

func parseSeedDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(seedDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SeedCatalogue はカテゴリテーブルが空の場合に組み込みカタログを1トランザクションで投入します。
// 投入した場合はtrueを返します。
func SeedCatalogue(ctx context.Context, tx *db.Transactor, gdb *gorm.DB) (bool, error) {
	categories, err := LoadCatalogue()
	if err != nil {
		return false, err
	}

	seeded := false
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var count int64
		if err := db.Conn(ctx, gdb).Model(&entity.RuleCategory{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := db.Conn(ctx, gdb).Create(&categories).Error; err != nil {
			return fmt.Errorf("insert catalogue: %w", err)
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		slog.Info("rules catalogue seeded", "categories", len(categories))
	}
	return seeded, nil
}
