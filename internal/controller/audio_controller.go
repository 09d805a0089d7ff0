package controller

import (
	"io"

	"medichat/internal/dto"
	"medichat/internal/pkg/serverutils"
	"medichat/pkg/transcribe"

	"github.com/gofiber/fiber/v2"
)

type IAudioController interface {
	RegisterRoutes(r fiber.Router)
	Transcribe(ctx *fiber.Ctx) error
}

type audioController struct {
	transcribeProvider transcribe.Provider
}

func NewAudioController(transcribeProvider transcribe.Provider) IAudioController {
	return &audioController{
		transcribeProvider: transcribeProvider,
	}
}

func (c *audioController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/audio")
	h.Post("/transcribe", c.Transcribe)
}

func (c *audioController) Transcribe(ctx *fiber.Ctx) error {
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

	transcription, err := c.transcribeProvider.Transcribe(ctx.Context(), audio, fileHeader.Header.Get("Content-Type"), ctx.FormValue("language"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", dto.TranscribeResponse{
		Text:     transcription.Text,
		Language: transcription.Language,
		Duration: transcription.Duration,
	}))
}
