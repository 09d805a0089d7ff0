package client

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message Message
		want    Variant
	}{
		{
			name:    "user role wins over everything",
			message: Message{Role: RoleUser, Emergency: &Emergency{IsEmergency: true, Level: "critical"}},
			want:    VariantUser,
		},
		{
			name:    "emergency beats confidence",
			message: Message{Role: RoleAssistant, Emergency: &Emergency{IsEmergency: true}, Confidence: &Confidence{Level: "high"}},
			want:    VariantEmergency,
		},
		{
			name:    "emergency flag false falls through",
			message: Message{Role: RoleAssistant, Emergency: &Emergency{IsEmergency: false}, Confidence: &Confidence{Level: "high"}},
			want:    VariantAssistantHigh,
		},
		{
			name:    "high confidence",
			message: Message{Role: RoleAssistant, Confidence: &Confidence{Level: "high"}},
			want:    VariantAssistantHigh,
		},
		{
			name:    "medium confidence",
			message: Message{Role: RoleAssistant, Confidence: &Confidence{Level: "medium"}},
			want:    VariantAssistantMedium,
		},
		{
			name:    "low confidence",
			message: Message{Role: RoleAssistant, Confidence: &Confidence{Level: "low"}},
			want:    VariantAssistantLow,
		},
		{
			name:    "unknown confidence level",
			message: Message{Role: RoleAssistant, Confidence: &Confidence{Level: "weird"}},
			want:    VariantAssistantDefault,
		},
		{
			name:    "bare assistant message",
			message: Message{Role: RoleAssistant},
			want:    VariantAssistantDefault,
		},
		{
			name:    "zero value message",
			message: Message{},
			want:    VariantAssistantDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.message); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
			// Deterministic: a second call agrees with the first.
			if got := Classify(tt.message); got != tt.want {
				t.Errorf("Classify() second call = %q, want %q", got, tt.want)
			}
		})
	}
}
