package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// WhisperHTTPProvider talks to a Whisper-compatible transcription server
// (e.g. a local faster-whisper deployment exposing the OpenAI audio API).
type WhisperHTTPProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewWhisperHTTPProvider(baseURL, model string, client *http.Client) *WhisperHTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &WhisperHTTPProvider{
		baseURL: baseURL,
		model:   model,
		client:  client,
	}
}

func (p *WhisperHTTPProvider) Transcribe(ctx context.Context, audio []byte, contentType, language string) (*Transcription, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := writer.WriteField("model", p.model); err != nil {
		return nil, err
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("transcription server returned %d: %s", resp.StatusCode, string(data))
	}

	var payload struct {
		Text     string  `json:"text"`
		Language string  `json:"language"`
		Duration float64 `json:"duration"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode transcription response: %w", err)
	}

	lang := payload.Language
	if lang == "" {
		lang = language
	}

	return &Transcription{
		Text:     payload.Text,
		Language: lang,
		Duration: payload.Duration,
	}, nil
}
