package controller

import (
	"io"

	"medichat/internal/constant"
	"medichat/internal/dto"
	"medichat/internal/pkg/serverutils"
	"medichat/internal/service"
	"medichat/pkg/transcribe"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendText(ctx *fiber.Ctx) error
	SendAudio(ctx *fiber.Ctx) error
	SendImage(ctx *fiber.Ctx) error
	GetConversation(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	ListConversations(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
	SubmitFeedback(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	Languages(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService        service.IChatService
	transcribeProvider transcribe.Provider
}

func NewChatController(chatService service.IChatService, transcribeProvider transcribe.Provider) IChatController {
	return &chatController{
		chatService:        chatService,
		transcribeProvider: transcribeProvider,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/text", c.SendText)
	h.Post("/audio", c.SendAudio)
	h.Post("/image", c.SendImage)
	h.Get("/conversations", c.ListConversations)
	h.Get("/conversation/:id", c.GetConversation)
	h.Get("/conversation/:id/messages", c.GetMessages)
	h.Delete("/conversation/:id", c.DeleteConversation)
	h.Post("/feedback", c.SubmitFeedback)
	h.Post("/analyze", c.Analyze)
	h.Get("/languages", c.Languages)
}

func (c *chatController) SendText(ctx *fiber.Ctx) error {
	var req dto.SendTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	conversationId, _ := uuid.Parse(req.ConversationId)

	res, err := c.chatService.ProcessMessage(ctx.Context(), service.ChatInput{
		Text:           req.Message,
		ConversationId: conversationId,
		UserId:         req.UserId,
		SessionId:      req.SessionId,
		Language:       req.Language,
		InputKind:      constant.InputKindText,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process message", res))
}

func (c *chatController) SendAudio(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("audio_file")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "missing audio file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	language := ctx.FormValue("language")
	transcription, err := c.transcribeProvider.Transcribe(ctx.Context(), audio, fileHeader.Header.Get("Content-Type"), language)
	if err != nil {
		return err
	}
	if transcription.Text == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "could not transcribe audio")
	}

	conversationId, _ := uuid.Parse(ctx.FormValue("conversation_id"))

	res, err := c.chatService.ProcessMessage(ctx.Context(), service.ChatInput{
		Text:           transcription.Text,
		ConversationId: conversationId,
		UserId:         ctx.FormValue("user_id"),
		SessionId:      ctx.FormValue("session_id"),
		Language:       transcription.Language,
		InputKind:      constant.InputKindAudio,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process audio message", res))
}

func (c *chatController) SendImage(ctx *fiber.Ctx) error {
	// The image itself is stored client-side; analysis runs on the caption the
	// user supplies alongside it.
	if _, err := ctx.FormFile("image_file"); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "missing image file")
	}

	text := ctx.FormValue("message")
	if text == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "image messages require a text description")
	}

	conversationId, _ := uuid.Parse(ctx.FormValue("conversation_id"))

	res, err := c.chatService.ProcessMessage(ctx.Context(), service.ChatInput{
		Text:           text,
		ConversationId: conversationId,
		UserId:         ctx.FormValue("user_id"),
		SessionId:      ctx.FormValue("session_id"),
		Language:       ctx.FormValue("language"),
		InputKind:      constant.InputKindImage,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process image message", res))
}

func (c *chatController) GetConversation(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	res, err := c.chatService.GetConversation(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.chatService.GetMessages(ctx.Context(), id, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *chatController) ListConversations(ctx *fiber.Ctx) error {
	userId := ctx.Query("user_id")
	if userId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id query parameter is required")
	}

	res, err := c.chatService.ListConversations(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

func (c *chatController) DeleteConversation(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	if err := c.chatService.DeleteConversation(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete conversation", nil))
}

func (c *chatController) SubmitFeedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SubmitFeedback(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit feedback", res))
}

func (c *chatController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Analyze(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze text", res))
}

func (c *chatController) Languages(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get languages", c.chatService.Languages()))
}
