package client

// Variant is the presentation classification of a message. It is derived,
// never stored on the message itself.
type Variant string

const (
	VariantUser             Variant = "user"
	VariantEmergency        Variant = "emergency"
	VariantAssistantHigh    Variant = "assistant-high"
	VariantAssistantMedium  Variant = "assistant-medium"
	VariantAssistantLow     Variant = "assistant-low"
	VariantAssistantDefault Variant = "assistant-default"
)

// Classify maps a message to its rendering variant. Total and deterministic:
// user role wins over everything, then the emergency flag, then the
// confidence level.
func Classify(m Message) Variant {
	if m.Role == RoleUser {
		return VariantUser
	}
	if m.Emergency != nil && m.Emergency.IsEmergency {
		return VariantEmergency
	}
	if m.Confidence != nil {
		switch m.Confidence.Level {
		case "high":
			return VariantAssistantHigh
		case "medium":
			return VariantAssistantMedium
		case "low":
			return VariantAssistantLow
		}
	}
	return VariantAssistantDefault
}
