package service

import (
	"context"
	"strings"
	"time"

	"medichat/internal/analysis/confidence"
	"medichat/internal/analysis/emergency"
	"medichat/internal/analysis/emotion"
	"medichat/internal/analysis/textproc"
	"medichat/internal/constant"
	"medichat/internal/dto"
	"medichat/internal/entity"
	"medichat/internal/pkg/logger"
	"medichat/internal/pkg/serverutils"
	"medichat/internal/repository/memory"
	"medichat/internal/repository/specification"
	"medichat/internal/repository/unitofwork"
	"medichat/internal/retrieval"
	"medichat/pkg/events"
	pkgNats "medichat/pkg/nats"
	"medichat/pkg/responder"

	"github.com/google/uuid"
)

type ChatInput struct {
	Text           string
	ConversationId uuid.UUID
	UserId         string
	SessionId      string
	Language       string
	InputKind      string
}

type IChatService interface {
	ProcessMessage(ctx context.Context, input ChatInput) (*dto.ChatResponse, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*dto.ConversationHistoryResponse, error)
	GetMessages(ctx context.Context, conversationId uuid.UUID, limit, offset int) ([]dto.MessageResponse, error)
	ListConversations(ctx context.Context, userId string) ([]*dto.ConversationSummaryResponse, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) error
	SubmitFeedback(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	Languages() *dto.LanguagesResponse
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	retriever         retrieval.Retriever
	responder         responder.Responder
	emergencyDetector *emergency.Detector
	emotionAnalyzer   *emotion.Analyzer
	confidenceScorer  *confidence.Scorer
	processor         *textproc.Processor
	conversationCache *memory.ConversationCache
	eventPublisher    *pkgNats.Publisher
	logger            logger.ILogger
	defaultLanguage   string
	retrievalTopK     int
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever retrieval.Retriever,
	resp responder.Responder,
	conversationCache *memory.ConversationCache,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
	defaultLanguage string,
	retrievalTopK int,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		retriever:         retriever,
		responder:         resp,
		emergencyDetector: emergency.NewDetector(),
		emotionAnalyzer:   emotion.NewAnalyzer(),
		confidenceScorer:  confidence.NewScorer(),
		processor:         textproc.NewProcessor(),
		conversationCache: conversationCache,
		eventPublisher:    eventPublisher,
		logger:            log,
		defaultLanguage:   defaultLanguage,
		retrievalTopK:     retrievalTopK,
	}
}

// ProcessMessage runs the full pipeline for one user message: normalize,
// extract entities, retrieve evidence, analyze for emergency and emotion,
// compose the answer, score it, then persist both messages atomically.
func (c *chatService) ProcessMessage(ctx context.Context, input ChatInput) (*dto.ChatResponse, error) {
	language := input.Language
	if language == "" {
		language = c.defaultLanguage
	}
	if input.InputKind == "" {
		input.InputKind = constant.InputKindText
	}

	cleaned := c.processor.CleanText(input.Text)
	medicalEntities := c.processor.ExtractMedicalEntities(cleaned)

	results, err := c.retriever.Retrieve(ctx, cleaned, c.retrievalTopK)
	if err != nil {
		c.logger.Error("ChatService", "retrieval failed", map[string]interface{}{"error": err})
		// Degrade to an unsourced answer rather than failing the message.
		results = nil
	}

	sources := make([]entity.SourceRef, 0, len(results))
	retrievalScores := make([]float64, 0, len(results))
	for _, r := range results {
		sources = append(sources, entity.SourceRef{
			Content: r.Chunk.Content,
			Score:   r.Score,
		})
		retrievalScores = append(retrievalScores, r.Score)
	}

	detection := c.emergencyDetector.Detect(cleaned)
	emotionAnalysis := c.emotionAnalyzer.Analyze(cleaned, "")

	emergencyAnnotation := &entity.EmergencyAnnotation{
		IsEmergency:        detection.IsEmergency,
		Level:              string(detection.Level),
		Confidence:         detection.Confidence,
		RecommendedActions: detection.RecommendedActions,
	}
	emotionAnnotation := &entity.EmotionAnnotation{
		PrimaryEmotion:  emotionAnalysis.PrimaryEmotion,
		Intensity:       emotionAnalysis.Intensity,
		Recommendations: emotionAnalysis.Recommendations,
	}

	answer, err := c.responder.Respond(ctx, responder.Request{
		Query:     cleaned,
		Language:  language,
		Sources:   sources,
		Emergency: emergencyAnnotation,
		Emotion:   emotionAnnotation,
	})
	if err != nil {
		return nil, err
	}

	score := c.confidenceScorer.Calculate(retrievalScores, answer, cleaned, sources, medicalEntities)
	confidenceAnnotation := &entity.ConfidenceAnnotation{
		Score:          score.Score,
		Level:          score.Level,
		Recommendation: score.Recommendation,
	}

	now := time.Now()
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	conversation, err := c.resolveConversation(ctx, uow, input, cleaned, now)
	if err != nil {
		return nil, err
	}

	userMessage := &entity.ChatMessage{
		Id:              uuid.New(),
		ConversationId:  conversation.Id,
		Role:            constant.ChatMessageRoleUser,
		Content:         input.Text,
		InputKind:       input.InputKind,
		Language:        language,
		Emergency:       emergencyAnnotation,
		Emotion:         emotionAnnotation,
		MedicalEntities: medicalEntities,
		CreatedAt:       now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	assistantMessage := &entity.ChatMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.ChatMessageRoleAssistant,
		Content:        answer,
		InputKind:      constant.InputKindText,
		Language:       language,
		Confidence:     confidenceAnnotation,
		Emergency:      emergencyAnnotation,
		Sources:        sources,
		CreatedAt:      now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.conversationCache.Save(conversation)

	if detection.IsEmergency && (detection.Level == emergency.LevelHigh || detection.Level == emergency.LevelCritical) {
		c.publishEmergencyEvent(ctx, conversation.Id, userMessage.Id, input.UserId, detection)
	}

	c.logger.Info("ChatService", "message processed", map[string]interface{}{
		"conversation_id": conversation.Id.String(),
		"emergency_level": string(detection.Level),
		"confidence":      score.Score,
	})

	return &dto.ChatResponse{
		ConversationId: conversation.Id,
		MessageId:      assistantMessage.Id,
		Response:       answer,
		Confidence: &dto.ConfidenceInfo{
			Score:          score.Score,
			Level:          score.Level,
			Recommendation: score.Recommendation,
		},
		Emergency: &dto.EmergencyInfo{
			IsEmergency:        detection.IsEmergency,
			Level:              string(detection.Level),
			Confidence:         detection.Confidence,
			RecommendedActions: detection.RecommendedActions,
		},
		Emotion: &dto.EmotionInfo{
			PrimaryEmotion:  emotionAnalysis.PrimaryEmotion,
			Intensity:       emotionAnalysis.Intensity,
			Recommendations: emotionAnalysis.Recommendations,
		},
		MedicalEntities: medicalEntities,
		Sources:         sourcesToDto(sources),
		Language:        language,
		Timestamp:       now,
	}, nil
}

func (c *chatService) resolveConversation(ctx context.Context, uow unitofwork.UnitOfWork, input ChatInput, cleaned string, now time.Time) (*entity.Conversation, error) {
	if input.ConversationId != uuid.Nil {
		conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: input.ConversationId})
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, serverutils.ErrNotFound
		}
		return conversation, nil
	}

	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    input.UserId,
		SessionId: input.SessionId,
		Title:     conversationTitle(cleaned),
		CreatedAt: now,
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// conversationTitle derives a title from the first user message.
func conversationTitle(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return constant.DefaultConversationTitle
	}
	words := strings.Fields(text)
	if len(words) > 8 {
		return strings.Join(words[:8], " ") + "..."
	}
	return strings.Join(words, " ")
}

func (c *chatService) publishEmergencyEvent(ctx context.Context, conversationId, messageId uuid.UUID, userId string, detection emergency.Detection) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.NewEmergencyDetectedEvent(
		conversationId, messageId, userId,
		string(detection.Level), detection.Confidence, detection.Indicators,
	)
	// Alerting is auxiliary; log the failure but keep the response flowing.
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.logger.Error("ChatService", "failed to publish emergency event", map[string]interface{}{"error": err})
	}
}

func (c *chatService) GetConversation(ctx context.Context, id uuid.UUID) (*dto.ConversationHistoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	conversation, err := c.findConversation(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConversationHistoryResponse{
		Id:       conversation.Id,
		Title:    conversation.Title,
		Messages: make([]dto.MessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, messageToDto(m))
	}
	return resp, nil
}

func (c *chatService) GetMessages(ctx context.Context, conversationId uuid.UUID, limit, offset int) ([]dto.MessageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if _, err := c.findConversation(ctx, uow, conversationId); err != nil {
		return nil, err
	}

	specs := []specification.Specification{
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, messageToDto(m))
	}
	return result, nil
}

func (c *chatService) ListConversations(ctx context.Context, userId string) ([]*dto.ConversationSummaryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ConversationSummaryResponse, 0, len(conversations))
	for _, conv := range conversations {
		count, err := uow.ChatMessageRepository().Count(ctx, specification.ByConversationID{ConversationID: conv.Id})
		if err != nil {
			return nil, err
		}
		result = append(result, &dto.ConversationSummaryResponse{
			Id:           conv.Id,
			Title:        conv.Title,
			MessageCount: count,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
		})
	}
	return result, nil
}

func (c *chatService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if _, err := c.findConversation(ctx, uow, id); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByConversationId(ctx, id); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	c.conversationCache.Delete(id)
	return nil
}

func (c *chatService) SubmitFeedback(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if _, err := c.findConversation(ctx, uow, req.ConversationId); err != nil {
		return nil, err
	}

	message, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: req.MessageId})
	if err != nil {
		return nil, err
	}
	if message == nil || message.ConversationId != req.ConversationId {
		return nil, serverutils.ErrNotFound
	}

	feedback := &entity.Feedback{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		MessageId:      req.MessageId,
		FeedbackType:   req.FeedbackType,
		Rating:         req.Rating,
		Comments:       req.Comments,
		CreatedAt:      time.Now(),
	}
	if err := uow.FeedbackRepository().Create(ctx, feedback); err != nil {
		return nil, err
	}

	return &dto.FeedbackResponse{Id: feedback.Id}, nil
}

func (c *chatService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	language := req.Language
	if language == "" {
		language = c.defaultLanguage
	}
	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = "all"
	}

	cleaned := c.processor.CleanText(req.Text)
	resp := &dto.AnalyzeResponse{Language: language}

	if analysisType == "all" || analysisType == "emergency" {
		detection := c.emergencyDetector.Detect(cleaned)
		resp.Emergency = &dto.EmergencyInfo{
			IsEmergency:        detection.IsEmergency,
			Level:              string(detection.Level),
			Confidence:         detection.Confidence,
			RecommendedActions: detection.RecommendedActions,
		}
	}
	if analysisType == "all" || analysisType == "emotion" {
		emotionAnalysis := c.emotionAnalyzer.Analyze(cleaned, "")
		resp.Emotion = &dto.EmotionInfo{
			PrimaryEmotion:  emotionAnalysis.PrimaryEmotion,
			Intensity:       emotionAnalysis.Intensity,
			Recommendations: emotionAnalysis.Recommendations,
		}
	}
	if analysisType == "all" || analysisType == "medical_entities" {
		resp.MedicalEntities = c.processor.ExtractMedicalEntities(cleaned)
	}

	return resp, nil
}

func (c *chatService) Languages() *dto.LanguagesResponse {
	return &dto.LanguagesResponse{
		Languages: constant.SupportedLanguages,
		Default:   c.defaultLanguage,
	}
}

// findConversation checks the memory cache before hitting the database.
func (c *chatService) findConversation(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Conversation, error) {
	if cached, found := c.conversationCache.Get(id); found {
		return cached, nil
	}

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, serverutils.ErrNotFound
	}
	c.conversationCache.Save(conversation)
	return conversation, nil
}

func messageToDto(m *entity.ChatMessage) dto.MessageResponse {
	resp := dto.MessageResponse{
		Id:        m.Id,
		Role:      m.Role,
		Content:   m.Content,
		InputKind: m.InputKind,
		Language:  m.Language,
		IsError:   m.IsError,
		Sources:   sourcesToDto(m.Sources),
		CreatedAt: m.CreatedAt,
	}
	if m.Confidence != nil {
		resp.Confidence = &dto.ConfidenceInfo{
			Score:          m.Confidence.Score,
			Level:          m.Confidence.Level,
			Recommendation: m.Confidence.Recommendation,
		}
	}
	if m.Emergency != nil {
		resp.Emergency = &dto.EmergencyInfo{
			IsEmergency:        m.Emergency.IsEmergency,
			Level:              m.Emergency.Level,
			Confidence:         m.Emergency.Confidence,
			RecommendedActions: m.Emergency.RecommendedActions,
		}
	}
	if m.Emotion != nil {
		resp.Emotion = &dto.EmotionInfo{
			PrimaryEmotion:  m.Emotion.PrimaryEmotion,
			Intensity:       m.Emotion.Intensity,
			Recommendations: m.Emotion.Recommendations,
		}
	}
	return resp
}

func sourcesToDto(sources []entity.SourceRef) []dto.SourceInfo {
	if len(sources) == 0 {
		return nil
	}
	result := make([]dto.SourceInfo, 0, len(sources))
	for _, s := range sources {
		result = append(result, dto.SourceInfo{
			Content: s.Content,
			Score:   s.Score,
			Url:     s.Url,
		})
	}
	return result
}
