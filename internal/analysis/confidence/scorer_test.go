package confidence

import (
	"strings"
	"testing"

	"medichat/internal/entity"
)

func TestCalculateWithStrongEvidence(t *testing.T) {
	s := NewScorer()

	response := strings.Repeat("Chest pain can signal a heart condition and needs medical evaluation by a doctor. ", 5)
	sources := []entity.SourceRef{
		{
			Content: strings.Repeat("chest pain cardiology guidance ", 20),
			Metadata: map[string]string{
				"source_type":        "medical_journal",
				"author_credentials": "medical_professional",
				"publication_date":   "2023-01-01",
			},
		},
	}

	score := s.Calculate([]float64{0.9, 0.85}, response, "chest pain", sources,
		map[string][]string{"symptoms": {"chest pain"}})

	if score.Score <= 0 || score.Score > 1 {
		t.Fatalf("Score = %v, want within (0, 1]", score.Score)
	}
	if score.Level == "low" {
		t.Errorf("Level = %q with strong evidence, factors %v", score.Level, score.Factors)
	}
	if score.Recommendation == "" {
		t.Error("expected a recommendation string")
	}
	if len(score.Factors) != 6 {
		t.Errorf("expected 6 factors, got %v", score.Factors)
	}
}

func TestCalculateWithNoEvidence(t *testing.T) {
	s := NewScorer()

	score := s.Calculate(nil, "Ask a doctor.", "strange symptom", nil, nil)

	if score.Level != "low" {
		t.Errorf("Level = %q, want low (score %v)", score.Level, score.Score)
	}
	if score.Factors["retrieval_similarity"] != 0 {
		t.Errorf("retrieval_similarity = %v, want 0 without retrieval scores", score.Factors["retrieval_similarity"])
	}
	if score.Factors["source_quality"] != 0 {
		t.Errorf("source_quality = %v, want 0 without sources", score.Factors["source_quality"])
	}
	if !strings.Contains(score.Recommendation, "healthcare professional") {
		t.Errorf("low confidence recommendation should defer to a professional, got %q", score.Recommendation)
	}
}

func TestConfidenceLevels(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.85, "high"},
		{0.8, "high"},
		{0.7, "medium"},
		{0.6, "medium"},
		{0.59, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		if got := confidenceLevel(tt.score); got != tt.want {
			t.Errorf("confidenceLevel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRetrievalConfidencePenalizesSpread(t *testing.T) {
	tight := retrievalConfidence([]float64{0.8, 0.78, 0.79})
	spread := retrievalConfidence([]float64{0.8, 0.1, 0.2})

	if spread >= tight {
		t.Errorf("inconsistent scores should lower confidence: spread %v >= tight %v", spread, tight)
	}
	if retrievalConfidence(nil) != 0 {
		t.Error("no retrieval scores should yield zero confidence")
	}
}

func TestSourceQualityPrefersCredentialedSources(t *testing.T) {
	journal := sourceQuality([]entity.SourceRef{{
		Content:  strings.Repeat("x", 600),
		Metadata: map[string]string{"source_type": "medical_journal", "author_credentials": "medical_professional", "publication_date": "2023"},
	}})
	anonymous := sourceQuality([]entity.SourceRef{{
		Content:  "short",
		Metadata: map[string]string{},
	}})

	if journal <= anonymous {
		t.Errorf("journal source %v should outrank anonymous snippet %v", journal, anonymous)
	}
}

func TestMedicalTermMatch(t *testing.T) {
	entities := map[string][]string{"symptoms": {"headache", "nausea"}}

	full := medicalTermMatch("The headache and nausea should be evaluated.", entities)
	if full != 1 {
		t.Errorf("full match = %v, want 1", full)
	}

	half := medicalTermMatch("The headache should be evaluated.", entities)
	if half != 0.5 {
		t.Errorf("half match = %v, want 0.5", half)
	}

	if medicalTermMatch("anything", nil) != 0.5 {
		t.Error("no entities should yield the neutral 0.5")
	}
}

func TestRecommendationListsIssues(t *testing.T) {
	factors := map[string]float64{
		"retrieval_similarity": 0.1,
		"source_quality":       0.2,
		"response_coherence":   0.9,
		"medical_term_match":   0.9,
	}

	rec := recommendation(0.3, factors)
	if !strings.Contains(rec, "limited relevant information found") {
		t.Errorf("recommendation should name the retrieval issue, got %q", rec)
	}
	if !strings.Contains(rec, "source quality concerns") {
		t.Errorf("recommendation should name the source issue, got %q", rec)
	}
}
