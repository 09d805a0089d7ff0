package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// TransportError is returned for any non-2xx status or network-level failure.
// There is no automatic retry; callers decide whether to resubmit.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport: status %d: %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transport issues the chat API round trips. One method per request kind,
// no retries, no timeout of its own; cancellation comes from the caller's
// context or the supplied http.Client.
type Transport struct {
	baseURL    string
	userId     string
	sessionId  string
	httpClient *http.Client
}

func NewTransport(baseURL, userId, sessionId string, httpClient *http.Client) *Transport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userId:     userId,
		sessionId:  sessionId,
		httpClient: httpClient,
	}
}

type filePart struct {
	field    string
	filename string
	data     []byte
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (t *Transport) SendText(ctx context.Context, conversationId, message, language string) (*Response, error) {
	fields := t.commonFields(conversationId, language)
	fields["message"] = message

	var res Response
	if err := t.postMultipart(ctx, "/api/v1/chat/text", fields, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (t *Transport) SendAudio(ctx context.Context, conversationId string, audio []byte, filename, language string) (*Response, error) {
	fields := t.commonFields(conversationId, language)
	file := &filePart{field: "audio_file", filename: filename, data: audio}

	var res Response
	if err := t.postMultipart(ctx, "/api/v1/chat/audio", fields, file, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (t *Transport) SendImage(ctx context.Context, conversationId string, image []byte, filename, message, language string) (*Response, error) {
	fields := t.commonFields(conversationId, language)
	fields["message"] = message
	file := &filePart{field: "image_file", filename: filename, data: image}

	var res Response
	if err := t.postMultipart(ctx, "/api/v1/chat/image", fields, file, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (t *Transport) Transcribe(ctx context.Context, audio []byte, filename, language string) (*Transcription, error) {
	fields := map[string]string{}
	if language != "" {
		fields["language"] = language
	}
	file := &filePart{field: "audio_file", filename: filename, data: audio}

	var res Transcription
	if err := t.postMultipart(ctx, "/api/v1/audio/transcribe", fields, file, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (t *Transport) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/api/v1/chat/conversation/"+id, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var rec conversationRecord
	if err := t.do(req, &rec); err != nil {
		return nil, err
	}
	return rec.toConversation(), nil
}

func (t *Transport) DeleteConversation(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.baseURL+"/api/v1/chat/conversation/"+id, nil)
	if err != nil {
		return &TransportError{Err: err}
	}
	return t.do(req, nil)
}

func (t *Transport) SendFeedback(ctx context.Context, fb Feedback) error {
	body, err := json.Marshal(fb)
	if err != nil {
		return &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/v1/chat/feedback", bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req, nil)
}

func (t *Transport) commonFields(conversationId, language string) map[string]string {
	fields := map[string]string{
		"user_id":    t.userId,
		"session_id": t.sessionId,
	}
	if conversationId != "" {
		fields["conversation_id"] = conversationId
	}
	if language != "" {
		fields["language"] = language
	}
	return fields
}

func (t *Transport) postMultipart(ctx context.Context, path string, fields map[string]string, file *filePart, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return &TransportError{Err: err}
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return &TransportError{Err: err}
		}
		if _, err := part.Write(file.data); err != nil {
			return &TransportError{Err: err}
		}
	}
	if err := writer.Close(); err != nil {
		return &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, &buf)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return t.do(req, out)
}

func (t *Transport) do(req *http.Request, out interface{}) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Message != "" {
			msg = env.Message
		}
		return &TransportError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// Wire shapes for the conversation history endpoint; stored messages carry
// created_at rather than timestamp.
type conversationRecord struct {
	Id       string          `json:"id"`
	Title    string          `json:"title"`
	Messages []messageRecord `json:"messages"`
}

type messageRecord struct {
	Id         string      `json:"id"`
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	InputKind  string      `json:"input_kind"`
	Language   string      `json:"language"`
	IsError    bool        `json:"is_error"`
	Confidence *Confidence `json:"confidence,omitempty"`
	Emergency  *Emergency  `json:"emergency,omitempty"`
	Emotion    *Emotion    `json:"emotion,omitempty"`
	Sources    []Source    `json:"sources,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (r conversationRecord) toConversation() *Conversation {
	conv := &Conversation{
		Id:       r.Id,
		Title:    r.Title,
		Messages: make([]Message, 0, len(r.Messages)),
	}
	for _, m := range r.Messages {
		conv.Messages = append(conv.Messages, Message{
			Id:         m.Id,
			Role:       m.Role,
			Content:    m.Content,
			Timestamp:  m.CreatedAt,
			InputKind:  m.InputKind,
			Language:   m.Language,
			Confidence: m.Confidence,
			Emergency:  m.Emergency,
			Emotion:    m.Emotion,
			Sources:    m.Sources,
			IsError:    m.IsError,
		})
	}
	return conv
}
