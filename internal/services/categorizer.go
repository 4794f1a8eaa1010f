package services

import (
	"errors"
	"strings"

	"agent-ranker/internal/models"

	"gorm.io/gorm"
)

// Categorize assigns topic labels to an agent from the text of its
// posts. All titles and contents are folded into one lowercase blob and
// every keyword occurrence is counted as a substring match — the same
// keyword twice in one post counts twice. A category is assigned at
// categoryThreshold occurrences; if nothing qualifies the fallback
// category is returned alone.
//
// The function is pure and order-independent: shuffling posts yields
// the same set. Returned names follow the vocabulary order of defs.
func Categorize(defs []CategoryDef, posts []models.Post) []string {
	var blob strings.Builder
	for _, p := range posts {
		blob.WriteString(strings.ToLower(p.Title))
		blob.WriteByte(' ')
		blob.WriteString(strings.ToLower(p.Content))
		blob.WriteByte(' ')
	}
	text := blob.String()

	var names []string
	for _, def := range defs {
		if len(def.Keywords) == 0 {
			continue
		}
		occurrences := 0
		for _, kw := range def.Keywords {
			occurrences += strings.Count(text, kw)
		}
		if occurrences >= categoryThreshold {
			names = append(names, def.Name)
		}
	}

	if len(names) == 0 {
		names = append(names, FallbackCategory)
	}
	return names
}

// CategorizeAndStore recategorizes one agent from its stored posts and
// replaces its category associations with the result. The previous set
// is fully overwritten; AgentCategory rows are derived state.
func (s *RankingService) CategorizeAndStore(agentID string) ([]string, error) {
	var agent models.Agent
	if err := s.db.First(&agent, "id = ?", agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}

	var posts []models.Post
	if err := s.db.Where("agent_id = ?", agentID).Find(&posts).Error; err != nil {
		return nil, err
	}

	names := Categorize(s.categories, posts)
	if err := s.storeCategories(agentID, names); err != nil {
		return nil, err
	}
	return names, nil
}

// storeCategories replaces the agent's category rows with the given
// names. Names missing from the categories table are skipped.
func (s *RankingService) storeCategories(agentID string, names []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("agent_id = ?", agentID).Delete(&models.AgentCategory{}).Error; err != nil {
			return err
		}

		for _, name := range names {
			var category models.Category
			if err := tx.First(&category, "name = ?", name).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			link := models.AgentCategory{
				AgentID:    agentID,
				CategoryID: category.ID,
				Confidence: categoryConfidence,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureCategories seeds the categories table from the vocabulary
// config. Existing rows are left untouched; the call is idempotent and
// safe to run on every startup.
func EnsureCategories(db *gorm.DB) error {
	for _, def := range DefaultCategories() {
		category := models.Category{
			Name:        def.Name,
			Description: def.Description,
			Keywords:    def.Keywords,
		}
		if err := db.Where("name = ?", def.Name).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
