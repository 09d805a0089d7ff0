package responder

import (
	"context"
	"strings"
)

const (
	disclaimer = "This information is educational and not a substitute for professional medical advice. Please consult a healthcare provider for diagnosis and treatment."

	noEvidenceAnswer = "I don't have enough reliable information to answer that confidently. Please consult a healthcare professional who can assess your situation directly."
)

// TemplateResponder composes answers deterministically from retrieved
// evidence. Emergency guidance always leads the answer; the evidence summary
// and the safety disclaimer follow.
type TemplateResponder struct {
	maxExcerptLen int
}

func NewTemplateResponder() *TemplateResponder {
	return &TemplateResponder{
		maxExcerptLen: 400,
	}
}

func (r *TemplateResponder) Respond(ctx context.Context, req Request) (string, error) {
	var b strings.Builder

	if req.Emergency != nil && (req.Emergency.Level == "critical" || req.Emergency.Level == "high") {
		b.WriteString("This may be a medical emergency.")
		if len(req.Emergency.RecommendedActions) > 0 {
			b.WriteString(" ")
			b.WriteString(req.Emergency.RecommendedActions[0])
			b.WriteString(".")
		}
		b.WriteString("\n\n")
	}

	if len(req.Sources) == 0 {
		b.WriteString(noEvidenceAnswer)
		b.WriteString("\n\n")
		b.WriteString(disclaimer)
		return b.String(), nil
	}

	b.WriteString("Based on the available medical information:\n\n")
	for i, source := range req.Sources {
		if i >= 3 {
			break
		}
		b.WriteString("- ")
		b.WriteString(r.excerpt(source.Content))
		b.WriteString("\n")
	}

	if req.Emotion != nil && req.Emotion.PrimaryEmotion == "anxiety" {
		b.WriteString("\nIt is understandable to feel worried. Discussing these symptoms with a doctor is the best way to get clarity.\n")
	}

	b.WriteString("\n")
	b.WriteString(disclaimer)
	return b.String(), nil
}

func (r *TemplateResponder) excerpt(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= r.maxExcerptLen {
		return content
	}
	cut := content[:r.maxExcerptLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
