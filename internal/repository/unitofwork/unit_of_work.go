package unitofwork

import (
	"context"

	"medichat/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	ChatMessageRepository() contract.ChatMessageRepository
	FeedbackRepository() contract.FeedbackRepository
	KnowledgeRepository() contract.KnowledgeRepository
}
