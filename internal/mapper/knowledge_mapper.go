package mapper

import (
	"medichat/internal/entity"
	"medichat/internal/model"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) DocumentToEntity(d *model.KnowledgeDocument) *entity.KnowledgeDocument {
	if d == nil {
		return nil
	}

	e := &entity.KnowledgeDocument{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		Source:    d.Source,
		Category:  d.Category,
		CreatedAt: d.CreatedAt,
	}
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		e.UpdatedAt = &t
	}
	return e
}

func (m *KnowledgeMapper) DocumentToModel(d *entity.KnowledgeDocument) *model.KnowledgeDocument {
	if d == nil {
		return nil
	}

	mm := &model.KnowledgeDocument{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		Source:    d.Source,
		Category:  d.Category,
		CreatedAt: d.CreatedAt,
	}
	if d.UpdatedAt != nil {
		mm.UpdatedAt = *d.UpdatedAt
	}
	return mm
}

func (m *KnowledgeMapper) ChunkToEntity(c *model.KnowledgeChunk) *entity.KnowledgeChunk {
	if c == nil {
		return nil
	}
	return &entity.KnowledgeChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		Content:    c.Content,
		ChunkIndex: c.ChunkIndex,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *KnowledgeMapper) ChunkToModel(c *entity.KnowledgeChunk) *model.KnowledgeChunk {
	if c == nil {
		return nil
	}
	return &model.KnowledgeChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		Content:    c.Content,
		ChunkIndex: c.ChunkIndex,
		CreatedAt:  c.CreatedAt,
	}
}
