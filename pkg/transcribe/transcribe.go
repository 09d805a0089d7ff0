package transcribe

import "context"

// Transcription is the result of converting speech audio to text.
type Transcription struct {
	Text     string
	Language string
	Duration float64
}

// Provider defines the contract for any speech-to-text backend.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, contentType, language string) (*Transcription, error)
}
