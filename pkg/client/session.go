package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission has not settled yet. Overlapping submissions are rejected
// rather than queued so the message log stays in call order.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// ErrMissingAttachment is returned for audio/image submissions without a
// payload. No state changes when it is returned.
var ErrMissingAttachment = errors.New("audio and image submissions require an attachment")

// errorReplyText is the fixed bubble appended when a submission fails.
const errorReplyText = "Sorry, I could not process your message right now. Please try again."

const defaultTitle = "New conversation"

// Notifier surfaces transient notifications to the embedding UI. Level is
// "info", "success" or "error".
type Notifier func(level, message string)

// ChatTransport is the remote boundary the session depends on. *Transport
// implements it.
type ChatTransport interface {
	SendText(ctx context.Context, conversationId, message, language string) (*Response, error)
	SendAudio(ctx context.Context, conversationId string, audio []byte, filename, language string) (*Response, error)
	SendImage(ctx context.Context, conversationId string, image []byte, filename, message, language string) (*Response, error)
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	SendFeedback(ctx context.Context, fb Feedback) error
}

// SubmitInput carries one user turn. InputKind defaults to the session's
// current input mode; Attachment is required for audio and image kinds.
type SubmitInput struct {
	Content    string
	InputKind  string
	Attachment []byte
	Filename   string
}

// Session owns one conversation's ordered message log and its ephemeral UI
// flags. All methods are safe for concurrent use; at most one Submit is in
// flight at a time.
type Session struct {
	mu sync.Mutex

	id             string
	conversationId string
	title          string
	createdAt      time.Time
	messages       []Message

	isTyping         bool
	isRecording      bool
	isConnected      bool
	inputMode        string
	selectedLanguage string

	knownConversations []string

	transport       ChatTransport
	notify          Notifier
	defaultLanguage string
}

func NewSession(transport ChatTransport, defaultLanguage string, notify Notifier) *Session {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Session{
		id:               uuid.NewString(),
		title:            defaultTitle,
		createdAt:        time.Now(),
		isConnected:      true,
		inputMode:        KindText,
		selectedLanguage: defaultLanguage,
		transport:        transport,
		notify:           notify,
		defaultLanguage:  defaultLanguage,
	}
}

// Submit appends the user message, performs the round trip for its input
// kind, and appends the assistant reply (or an error bubble on failure).
// The user message is appended strictly before the network call is issued
// and the typing flag is cleared strictly after the call settles.
//
// Empty text submissions are dropped without any state change. A Submit
// while another is in flight returns ErrSubmitInFlight.
func (s *Session) Submit(ctx context.Context, in SubmitInput) (*Message, error) {
	kind := in.InputKind
	if kind == "" {
		s.mu.Lock()
		kind = s.inputMode
		s.mu.Unlock()
	}

	if kind == KindText && strings.TrimSpace(in.Content) == "" {
		return nil, nil
	}
	if kind != KindText && len(in.Attachment) == 0 {
		return nil, ErrMissingAttachment
	}

	s.mu.Lock()
	if s.isTyping {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	language := s.selectedLanguage
	conversationId := s.conversationId

	s.messages = append(s.messages, Message{
		Id:        uuid.NewString(),
		Role:      RoleUser,
		Content:   in.Content,
		Timestamp: time.Now(),
		InputKind: kind,
		Language:  language,
	})
	s.isTyping = true
	s.mu.Unlock()

	var (
		res *Response
		err error
	)
	switch kind {
	case KindAudio:
		res, err = s.transport.SendAudio(ctx, conversationId, in.Attachment, in.Filename, language)
	case KindImage:
		res, err = s.transport.SendImage(ctx, conversationId, in.Attachment, in.Filename, in.Content, language)
	default:
		res, err = s.transport.SendText(ctx, conversationId, in.Content, language)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.messages = append(s.messages, Message{
			Id:        uuid.NewString(),
			Role:      RoleAssistant,
			Content:   errorReplyText,
			Timestamp: time.Now(),
			InputKind: kind,
			Language:  language,
			IsError:   true,
		})
		s.isTyping = false
		s.notify("error", "Failed to send message")
		return nil, err
	}

	reply := Message{
		Id:              res.MessageId,
		Role:            RoleAssistant,
		Content:         res.Response,
		Timestamp:       res.Timestamp,
		InputKind:       kind,
		Language:        res.Language,
		Confidence:      res.Confidence,
		Emergency:       res.Emergency,
		Emotion:         res.Emotion,
		Sources:         res.Sources,
		MedicalEntities: res.MedicalEntities,
	}
	if reply.Id == "" {
		reply.Id = uuid.NewString()
	}
	if reply.Timestamp.IsZero() {
		reply.Timestamp = time.Now()
	}
	s.messages = append(s.messages, reply)
	s.isTyping = false

	if res.ConversationId != "" && res.ConversationId != s.conversationId {
		s.conversationId = res.ConversationId
		s.rememberConversation(res.ConversationId)
	}

	return &reply, nil
}

// StartNewConversation discards the current session state and resets the UI
// flags to their defaults. Returns the fresh session id.
func (s *Session) StartNewConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = uuid.NewString()
	s.conversationId = ""
	s.title = defaultTitle
	s.createdAt = time.Now()
	s.messages = nil

	s.isTyping = false
	s.isRecording = false
	s.inputMode = KindText
	s.selectedLanguage = s.defaultLanguage

	s.notify("info", "Started a new conversation")
	return s.id
}

// LoadConversation replaces the current session with a stored one. On
// failure the session is left exactly as it was.
func (s *Session) LoadConversation(ctx context.Context, id string) error {
	conv, err := s.transport.GetConversation(ctx, id)
	if err != nil {
		s.notify("error", "Failed to load conversation")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = conv.Id
	s.conversationId = conv.Id
	s.title = conv.Title
	s.messages = append([]Message(nil), conv.Messages...)
	s.isTyping = false
	s.rememberConversation(conv.Id)
	return nil
}

// DeleteConversation asks the backend to delete a conversation and only
// then mutates local state. If the deleted conversation is the active one
// the session is cleared.
func (s *Session) DeleteConversation(ctx context.Context, id string) error {
	if err := s.transport.DeleteConversation(ctx, id); err != nil {
		s.notify("error", "Failed to delete conversation")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, known := range s.knownConversations {
		if known == id {
			s.knownConversations = append(s.knownConversations[:i], s.knownConversations[i+1:]...)
			break
		}
	}

	if s.conversationId == id {
		s.id = uuid.NewString()
		s.conversationId = ""
		s.title = defaultTitle
		s.messages = nil
	}

	s.notify("success", "Conversation deleted")
	return nil
}

// SubmitFeedback is a fire-and-forget side channel; it never mutates the
// message log.
func (s *Session) SubmitFeedback(ctx context.Context, messageId, feedbackType string, rating int, comments string) error {
	s.mu.Lock()
	conversationId := s.conversationId
	s.mu.Unlock()

	err := s.transport.SendFeedback(ctx, Feedback{
		ConversationId: conversationId,
		MessageId:      messageId,
		FeedbackType:   feedbackType,
		Rating:         rating,
		Comments:       comments,
	})
	if err != nil {
		s.notify("error", "Failed to submit feedback")
		return err
	}
	s.notify("success", "Thanks for your feedback")
	return nil
}

// Flag setters. Pure state updates, no side effects.

func (s *Session) SetInputMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputMode = mode
}

func (s *Session) SetLanguage(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedLanguage = tag
}

func (s *Session) SetRecording(recording bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRecording = recording
}

func (s *Session) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isConnected = connected
}

// Accessors.

func (s *Session) Id() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) ConversationId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationId
}

func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Messages returns a copy of the ordered message log.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

func (s *Session) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isTyping
}

func (s *Session) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRecording
}

func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isConnected
}

func (s *Session) InputMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputMode
}

func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLanguage
}

// KnownConversations lists conversation ids this session has seen, in the
// order they were first observed.
func (s *Session) KnownConversations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.knownConversations...)
}

// rememberConversation appends id if unseen. Caller holds the lock.
func (s *Session) rememberConversation(id string) {
	for _, known := range s.knownConversations {
		if known == id {
			return
		}
	}
	s.knownConversations = append(s.knownConversations, id)
}
