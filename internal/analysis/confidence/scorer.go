// Package confidence grades assistant responses so the client can tell the
// user how much to trust an answer. The score is a weighted blend of
// retrieval quality, source quality and response heuristics.
package confidence

import (
	"fmt"
	"math"
	"strings"

	"medichat/internal/entity"
)

type Score struct {
	Score          float64
	Level          string // "low", "medium", "high"
	Factors        map[string]float64
	Recommendation string
}

type Scorer struct {
	weights map[string]float64
}

func NewScorer() *Scorer {
	return &Scorer{
		weights: map[string]float64{
			"retrieval_similarity": 0.3,
			"source_quality":       0.2,
			"response_coherence":   0.2,
			"medical_term_match":   0.15,
			"context_relevance":    0.1,
			"response_length":      0.05,
		},
	}
}

// Calculate scores a generated response against its retrieval evidence.
func (s *Scorer) Calculate(retrievalScores []float64, responseText, queryText string,
	sources []entity.SourceRef, medicalEntities map[string][]string) Score {

	factors := map[string]float64{
		"retrieval_similarity": retrievalConfidence(retrievalScores),
		"source_quality":       sourceQuality(sources),
		"response_coherence":   responseCoherence(responseText),
		"medical_term_match":   medicalTermMatch(responseText, medicalEntities),
		"context_relevance":    contextRelevance(queryText, responseText, sources),
		"response_length":      responseLengthFactor(responseText),
	}

	overall := 0.0
	for factor, value := range factors {
		overall += value * s.weights[factor]
	}

	return Score{
		Score:          overall,
		Level:          confidenceLevel(overall),
		Factors:        factors,
		Recommendation: recommendation(overall, factors),
	}
}

func retrievalConfidence(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	max := scores[0]
	for _, v := range scores[1:] {
		if v > max {
			max = v
		}
	}

	consistency := 1.0
	if len(scores) > 1 {
		mean := 0.0
		for _, v := range scores {
			mean += v
		}
		mean /= float64(len(scores))

		variance := 0.0
		for _, v := range scores {
			variance += (v - mean) * (v - mean)
		}
		std := math.Sqrt(variance / float64(len(scores)))
		consistency = math.Max(0.5, 1.0-std)
	}

	return clamp01(max * consistency)
}

func sourceQuality(sources []entity.SourceRef) float64 {
	if len(sources) == 0 {
		return 0.0
	}

	total := 0.0
	for _, source := range sources {
		score := 0.5

		switch source.Metadata["source_type"] {
		case "medical_journal":
			score += 0.3
		case "medical_textbook":
			score += 0.25
		case "medical_website":
			score += 0.2
		case "general_web":
			score += 0.1
		}

		switch source.Metadata["author_credentials"] {
		case "medical_professional":
			score += 0.2
		case "researcher":
			score += 0.15
		}

		if _, ok := source.Metadata["publication_date"]; ok {
			score += 0.1
		}

		if len(source.Content) > 500 {
			score += 0.1
		} else if len(source.Content) < 100 {
			score -= 0.1
		}

		total += clamp01(score)
	}
	return total / float64(len(sources))
}

func responseCoherence(responseText string) float64 {
	if strings.TrimSpace(responseText) == "" {
		return 0.0
	}

	score := 0.5
	wordCount := len(strings.Fields(responseText))

	switch {
	case wordCount >= 20 && wordCount <= 200:
		score += 0.2
	case wordCount < 10:
		score -= 0.3
	case wordCount > 500:
		score -= 0.1
	}

	medicalTerms := []string{
		"symptom", "diagnosis", "treatment", "condition", "patient",
		"medical", "health", "doctor", "physician", "clinical",
	}
	lower := strings.ToLower(responseText)
	termCount := 0
	for _, term := range medicalTerms {
		if strings.Contains(lower, term) {
			termCount++
		}
	}
	if termCount > 0 {
		score += math.Min(0.2, float64(termCount)*0.05)
	}

	sentences := strings.Split(responseText, ".")
	if len(sentences) > 1 {
		avgLen := float64(wordCount) / float64(len(sentences))
		if avgLen >= 10 && avgLen <= 25 {
			score += 0.1
		}
	}

	uncertaintyWords := []string{"maybe", "possibly", "might", "could", "perhaps", "unclear"}
	uncertainty := 0
	for _, word := range uncertaintyWords {
		if strings.Contains(lower, word) {
			uncertainty++
		}
	}
	if uncertainty > 2 {
		score -= 0.2
	}

	return clamp01(score)
}

func medicalTermMatch(responseText string, entities map[string][]string) float64 {
	if len(entities) == 0 {
		return 0.5
	}

	queryTerms := make(map[string]bool)
	for _, terms := range entities {
		for _, term := range terms {
			queryTerms[strings.ToLower(term)] = true
		}
	}
	if len(queryTerms) == 0 {
		return 0.5
	}

	responseLower := strings.ToLower(responseText)
	matched := 0
	for term := range queryTerms {
		if strings.Contains(responseLower, term) {
			matched++
		}
	}

	return clamp01(float64(matched) / float64(len(queryTerms)))
}

func contextRelevance(queryText, responseText string, sources []entity.SourceRef) float64 {
	if len(sources) == 0 {
		return 0.5
	}

	queryWords := wordSet(queryText)
	responseWords := wordSet(responseText)

	wordRelevance := 0.0
	if len(queryWords) > 0 {
		wordRelevance = float64(intersectionSize(queryWords, responseWords)) / float64(len(queryWords))
	}

	var sourceContent strings.Builder
	for _, source := range sources {
		sourceContent.WriteString(source.Content)
		sourceContent.WriteString(" ")
	}
	sourceWords := wordSet(sourceContent.String())

	sourceRelevance := 0.0
	if len(sourceWords) > 0 {
		sourceRelevance = float64(intersectionSize(responseWords, sourceWords)) / float64(len(sourceWords))
	}

	return clamp01(0.6*wordRelevance + 0.4*sourceRelevance)
}

func responseLengthFactor(responseText string) float64 {
	wordCount := len(strings.Fields(responseText))

	// 50-150 words is the sweet spot for a medical answer.
	switch {
	case wordCount >= 50 && wordCount <= 150:
		return 1.0
	case (wordCount >= 30 && wordCount < 50) || (wordCount > 150 && wordCount <= 200):
		return 0.8
	case (wordCount >= 20 && wordCount < 30) || (wordCount > 200 && wordCount <= 300):
		return 0.6
	default:
		return 0.4
	}
}

func confidenceLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "high"
	case score >= 0.6:
		return "medium"
	default:
		return "low"
	}
}

func recommendation(score float64, factors map[string]float64) string {
	if score >= 0.8 {
		return "High confidence response. Information appears reliable and comprehensive."
	}
	if score >= 0.6 {
		return "Medium confidence response. Consider consulting additional sources for verification."
	}

	var issues []string
	if factors["retrieval_similarity"] < 0.5 {
		issues = append(issues, "limited relevant information found")
	}
	if factors["source_quality"] < 0.5 {
		issues = append(issues, "source quality concerns")
	}
	if factors["response_coherence"] < 0.5 {
		issues = append(issues, "response clarity issues")
	}
	if factors["medical_term_match"] < 0.5 {
		issues = append(issues, "limited medical terminology coverage")
	}

	if len(issues) > 0 {
		return fmt.Sprintf("Low confidence response due to %s. Please consult a healthcare professional for accurate medical advice.", strings.Join(issues, ", "))
	}
	return "Low confidence response. Please consult a healthcare professional for accurate medical advice."
}

func wordSet(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		words[w] = true
	}
	return words
}

func intersectionSize(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
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
