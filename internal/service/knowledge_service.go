package service

import (
	"context"
	"encoding/json"
	"time"

	"medichat/internal/dto"
	"medichat/internal/entity"
	"medichat/internal/pkg/logger"
	"medichat/internal/pkg/serverutils"
	"medichat/internal/repository/specification"
	"medichat/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IKnowledgeService interface {
	Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	List(ctx context.Context) ([]*dto.KnowledgeDocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// Ingest stores the document and hands chunking off to the consumer via the
// pub/sub topic. The endpoint stays fast; indexing happens asynchronously.
func (s *knowledgeService) Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document := &entity.KnowledgeDocument{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		Source:    req.Source,
		Category:  req.Category,
		CreatedAt: time.Now(),
	}
	if err := uow.KnowledgeRepository().CreateDocument(ctx, document); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishIngestDocumentMessage{DocumentId: document.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	s.logger.Info("KnowledgeService", "document ingested", map[string]interface{}{
		"document_id": document.Id.String(),
		"title":       document.Title,
	})

	return &dto.IngestDocumentResponse{Id: document.Id}, nil
}

func (s *knowledgeService) List(ctx context.Context) ([]*dto.KnowledgeDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.KnowledgeRepository().FindAllDocuments(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.KnowledgeDocumentResponse, 0, len(documents))
	for _, doc := range documents {
		chunkCount, err := uow.KnowledgeRepository().CountChunks(ctx, specification.ByDocumentID{DocumentID: doc.Id})
		if err != nil {
			return nil, err
		}
		result = append(result, &dto.KnowledgeDocumentResponse{
			Id:         doc.Id,
			Title:      doc.Title,
			Source:     doc.Source,
			Category:   doc.Category,
			ChunkCount: chunkCount,
			CreatedAt:  doc.CreatedAt,
			UpdatedAt:  doc.UpdatedAt,
		})
	}
	return result, nil
}

func (s *knowledgeService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.KnowledgeRepository().FindOneDocument(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return serverutils.ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.KnowledgeRepository().DeleteChunksByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.KnowledgeRepository().DeleteDocument(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}
