// Package emotion infers the dominant emotion of a message from a
// medical-focused lexicon. Scores are deterministic so annotations stay
// reproducible across replays of the same conversation.
package emotion

import "strings"

type Analysis struct {
	PrimaryEmotion  string
	EmotionScores   map[string]float64
	Intensity       float64
	Confidence      float64
	Indicators      []string
	Recommendations []string
}

type indicatorSet struct {
	keywords           []string
	phrases            []string
	intensityModifiers []string
}

// emotionOrder fixes iteration order; ties on equal scores resolve to the
// earlier entry.
var emotionOrder = []string{
	"anxiety", "frustration", "sadness", "confusion",
	"relief", "urgency", "pain", "hope",
}

type Analyzer struct {
	indicators      map[string]indicatorSet
	contextModifier map[string]float64
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		indicators: map[string]indicatorSet{
			"anxiety": {
				keywords:           []string{"worried", "anxious", "nervous", "scared", "fearful", "panic", "concerned"},
				phrases:            []string{"what if", "afraid", "terrified", "worried about", "scared of"},
				intensityModifiers: []string{"very", "extremely", "really", "so", "quite"},
			},
			"frustration": {
				keywords:           []string{"frustrated", "annoyed", "irritated", "angry", "mad", "upset"},
				phrases:            []string{"fed up", "can't stand", "so annoying", "this is ridiculous"},
				intensityModifiers: []string{"very", "extremely", "really", "so", "quite"},
			},
			"sadness": {
				keywords:           []string{"sad", "depressed", "down", "blue", "miserable", "hopeless"},
				phrases:            []string{"feeling down", "not myself", "can't cope", "overwhelmed"},
				intensityModifiers: []string{"very", "extremely", "really", "so", "quite"},
			},
			"confusion": {
				keywords:           []string{"confused", "unclear", "don't understand", "puzzled", "lost"},
				phrases:            []string{"not sure", "don't know", "unclear about", "can't figure out"},
				intensityModifiers: []string{"very", "extremely", "really", "so", "quite"},
			},
			"relief": {
				keywords:           []string{"relieved", "better", "good news", "thankful", "grateful"},
				phrases:            []string{"that's good", "feeling better", "much better", "so relieved"},
				intensityModifiers: []string{"very", "extremely", "really", "so", "quite"},
			},
			"urgency": {
				keywords:           []string{"urgent", "immediate", "asap", "quickly", "fast", "emergency"},
				phrases:            []string{"right now", "immediately", "can't wait", "need help now"},
				intensityModifiers: []string{"very", "extremely", "really", "so", "quite"},
			},
			"pain": {
				keywords:           []string{"pain", "hurt", "ache", "sore", "uncomfortable", "agony"},
				phrases:            []string{"in pain", "hurts so much", "can't bear", "excruciating"},
				intensityModifiers: []string{"severe", "intense", "sharp", "throbbing", "burning"},
			},
			"hope": {
				keywords:           []string{"hopeful", "optimistic", "positive", "encouraged", "confident"},
				phrases:            []string{"feeling hopeful", "good outlook", "positive attitude", "encouraged"},
				intensityModifiers: []string{"very", "extremely", "really", "so", "quite"},
			},
		},
		contextModifier: map[string]float64{
			"diagnosis":  1.2,
			"treatment":  1.1,
			"symptoms":   1.3,
			"medication": 1.1,
			"surgery":    1.4,
			"cancer":     1.5,
			"chronic":    1.2,
			"acute":      1.3,
		},
	}
}

// Analyze scores a message against the emotion lexicon. Context is optional
// prior conversation text used to weight medically loaded topics.
func (a *Analyzer) Analyze(text, context string) Analysis {
	lower := strings.ToLower(text)

	scores := a.calculateScores(lower)
	if context != "" {
		a.applyContextModifiers(scores, context)
	}

	primary, maxScore := primaryEmotion(scores)
	intensity := a.calculateIntensity(maxScore, text, lower)
	confidence := a.calculateConfidence(scores, lower)
	indicators := a.extractIndicators(lower, primary)

	return Analysis{
		PrimaryEmotion:  primary,
		EmotionScores:   scores,
		Intensity:       intensity,
		Confidence:      confidence,
		Indicators:      indicators,
		Recommendations: recommendations(primary, intensity),
	}
}

func countMatches(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}

func (a *Analyzer) calculateScores(text string) map[string]float64 {
	scores := make(map[string]float64, len(emotionOrder))
	wordCount := len(strings.Fields(text))

	for _, emotion := range emotionOrder {
		set := a.indicators[emotion]
		base := float64(countMatches(text, set.keywords))*0.3 +
			float64(countMatches(text, set.phrases))*0.5 +
			float64(countMatches(text, set.intensityModifiers))*0.2

		// Normalize by text length so short outbursts don't dwarf long messages.
		if wordCount > 0 {
			scores[emotion] = clamp01(base / (float64(wordCount) / 10.0))
		} else {
			scores[emotion] = 0
		}
	}
	return scores
}

func (a *Analyzer) applyContextModifiers(scores map[string]float64, context string) {
	contextLower := strings.ToLower(context)
	modifier := 1.0
	for term, multiplier := range a.contextModifier {
		if strings.Contains(contextLower, term) {
			modifier *= multiplier
		}
	}
	if modifier == 1.0 {
		return
	}
	for emotion, score := range scores {
		scores[emotion] = clamp01(score * modifier)
	}
}

func primaryEmotion(scores map[string]float64) (string, float64) {
	best := ""
	max := 0.0
	for _, emotion := range emotionOrder {
		if scores[emotion] > max {
			best = emotion
			max = scores[emotion]
		}
	}
	if best == "" {
		return "neutral", 0
	}
	return best, max
}

func (a *Analyzer) calculateIntensity(maxScore float64, original, lower string) float64 {
	intensityWords := []string{"very", "extremely", "really", "so", "quite", "incredibly", "absolutely"}
	intensityCount := countMatches(lower, intensityWords)

	exclamations := strings.Count(original, "!")

	capsRatio := 0.0
	if len(original) > 0 {
		caps := 0
		for _, c := range original {
			if c >= 'A' && c <= 'Z' {
				caps++
			}
		}
		capsRatio = float64(caps) / float64(len(original))
	}

	return clamp01(maxScore + float64(intensityCount)*0.1 + float64(exclamations)*0.05 + capsRatio*0.2)
}

func (a *Analyzer) calculateConfidence(scores map[string]float64, text string) float64 {
	first, second := 0.0, 0.0
	for _, s := range scores {
		if s > first {
			first, second = s, first
		} else if s > second {
			second = s
		}
	}

	confidence := clamp01((first - second) * 2)

	if len(strings.Fields(text)) > 5 {
		confidence += 0.1
	}

	for _, emotion := range emotionOrder {
		if countMatches(text, a.indicators[emotion].keywords) > 0 {
			confidence += 0.2
			break
		}
	}

	return clamp01(confidence)
}

func (a *Analyzer) extractIndicators(text, primary string) []string {
	set, ok := a.indicators[primary]
	if !ok {
		return nil
	}

	var indicators []string
	for _, keyword := range set.keywords {
		if strings.Contains(text, keyword) {
			indicators = append(indicators, "Keyword: '"+keyword+"'")
		}
	}
	for _, phrase := range set.phrases {
		if strings.Contains(text, phrase) {
			indicators = append(indicators, "Phrase: '"+phrase+"'")
		}
	}
	for _, modifier := range set.intensityModifiers {
		if strings.Contains(text, modifier) {
			indicators = append(indicators, "Intensity: '"+modifier+"'")
		}
	}
	return indicators
}

func recommendations(primary string, intensity float64) []string {
	var recs []string

	switch primary {
	case "anxiety":
		if intensity > 0.7 {
			recs = append(recs,
				"Consider suggesting relaxation techniques or breathing exercises",
				"Recommend speaking with a mental health professional",
			)
		} else {
			recs = append(recs,
				"Provide reassurance and clear information",
				"Suggest discussing concerns with a healthcare provider",
			)
		}
	case "frustration":
		recs = append(recs,
			"Acknowledge the frustration and validate feelings",
			"Provide clear, step-by-step guidance",
		)
		if intensity > 0.6 {
			recs = append(recs, "Suggest taking a break and returning when calmer")
		}
	case "sadness":
		if intensity > 0.7 {
			recs = append(recs,
				"Strongly recommend mental health support",
				"Provide crisis resources if needed",
			)
		} else {
			recs = append(recs,
				"Offer emotional support and understanding",
				"Suggest discussing feelings with a healthcare provider",
			)
		}
	case "confusion":
		recs = append(recs,
			"Provide clear, simple explanations",
			"Break down complex information into smaller parts",
			"Encourage asking follow-up questions",
		)
	case "urgency":
		if intensity > 0.6 {
			recs = append(recs,
				"Prioritize immediate medical attention",
				"Provide emergency contact information",
			)
		} else {
			recs = append(recs, "Schedule prompt medical consultation")
		}
	case "pain":
		if intensity > 0.7 {
			recs = append(recs,
				"Recommend immediate medical evaluation",
				"Suggest pain management strategies",
			)
		} else {
			recs = append(recs,
				"Provide pain assessment guidance",
				"Suggest discussing pain with healthcare provider",
			)
		}
	case "hope":
		recs = append(recs,
			"Encourage maintaining positive outlook",
			"Provide supportive information",
		)
	}

	if intensity > 0.8 {
		recs = append(recs, "Consider escalating to human healthcare provider")
	}

	return recs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
