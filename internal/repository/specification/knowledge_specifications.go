package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// ChunkMatchesAnyTerm keeps chunks whose content contains at least one of the
// query terms, case-insensitively. Ranking happens in the retriever, not here.
type ChunkMatchesAnyTerm struct {
	Terms []string
}

func (s ChunkMatchesAnyTerm) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Terms) == 0 {
		return db
	}
	conditions := make([]string, 0, len(s.Terms))
	args := make([]interface{}, 0, len(s.Terms))
	for _, term := range s.Terms {
		conditions = append(conditions, "content ILIKE ?")
		args = append(args, "%"+term+"%")
	}
	return db.Where(strings.Join(conditions, " OR "), args...)
}
