package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	InputKindText  = "text"
	InputKindAudio = "audio"
	InputKindImage = "image"

	// Published on the alert bus when the detector flags a message.
	EventEmergencyDetected = "emergency_detected"

	DefaultConversationTitle = "New conversation"
)

// SupportedLanguages is the fixed set served by GET /chat/languages.
var SupportedLanguages = []string{"en", "es", "fr", "de", "hi", "ar", "zh", "pt"}
