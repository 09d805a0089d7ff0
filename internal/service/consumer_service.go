package service

import (
	"context"
	"encoding/json"
	"time"

	"medichat/internal/dto"
	"medichat/internal/entity"
	"medichat/internal/pkg/logger"
	"medichat/internal/repository/specification"
	"medichat/internal/repository/unitofwork"
	"medichat/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService turns ingested documents into searchable chunks. It
// subscribes to the ingest topic and reindexes one document per message.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "failed to unmarshal message", map[string]interface{}{"error": err})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ConsumerService", "processing document", map[string]interface{}{
		"document_id": payload.DocumentId.String(),
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.KnowledgeRepository().FindOneDocument(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("ConsumerService", "failed to load document", map[string]interface{}{"error": err})
		msg.Nack() // Nack for retriable errors
		return
	}
	if document == nil {
		cs.logger.Warn("ConsumerService", "document not found, skipping", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
		})
		msg.Ack() // Document deleted? Ack.
		return
	}

	// ChunkSize 1200 chars with 150 overlap keeps chunks self-contained while
	// preserving context at boundaries.
	pieces := utils.SplitText(document.Title+"\n\n"+document.Content, 1200, 150)

	chunks := make([]*entity.KnowledgeChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, &entity.KnowledgeChunk{
			Id:         uuid.New(),
			DocumentId: document.Id,
			Content:    piece,
			ChunkIndex: i,
			CreatedAt:  time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("ConsumerService", "failed to begin transaction", map[string]interface{}{"error": err})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.KnowledgeRepository().DeleteChunksByDocumentId(ctx, document.Id); err != nil {
		cs.logger.Error("ConsumerService", "failed to delete old chunks", map[string]interface{}{"error": err})
		msg.Nack()
		return
	}

	if err := uow.KnowledgeRepository().CreateChunks(ctx, chunks); err != nil {
		cs.logger.Error("ConsumerService", "failed to create chunks", map[string]interface{}{"error": err})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("ConsumerService", "failed to commit transaction", map[string]interface{}{"error": err})
		msg.Nack()
		return
	}

	cs.logger.Info("ConsumerService", "document indexed", map[string]interface{}{
		"document_id": document.Id.String(),
		"chunks":      len(chunks),
	})
	msg.Ack()
}
