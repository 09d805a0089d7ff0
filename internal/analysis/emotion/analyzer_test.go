package emotion

import (
	"testing"
)

func TestAnalyzeAnxiety(t *testing.T) {
	a := NewAnalyzer()

	analysis := a.Analyze("I am so worried and scared about these test results", "")

	if analysis.PrimaryEmotion != "anxiety" {
		t.Fatalf("PrimaryEmotion = %q, want anxiety (scores %v)", analysis.PrimaryEmotion, analysis.EmotionScores)
	}
	if analysis.Intensity <= 0 || analysis.Intensity > 1 {
		t.Errorf("Intensity = %v, want within (0, 1]", analysis.Intensity)
	}
	if analysis.Confidence <= 0 || analysis.Confidence > 1 {
		t.Errorf("Confidence = %v, want within (0, 1]", analysis.Confidence)
	}
	if len(analysis.Indicators) == 0 {
		t.Error("expected matched indicators for an anxious message")
	}
	if len(analysis.Recommendations) == 0 {
		t.Error("expected recommendations for a recognized emotion")
	}
}

func TestAnalyzeNeutralDefault(t *testing.T) {
	a := NewAnalyzer()

	analysis := a.Analyze("The appointment is on Tuesday at three.", "")

	if analysis.PrimaryEmotion != "neutral" {
		t.Errorf("PrimaryEmotion = %q, want neutral (scores %v)", analysis.PrimaryEmotion, analysis.EmotionScores)
	}
	if len(analysis.Recommendations) != 0 {
		t.Errorf("neutral messages should carry no recommendations, got %v", analysis.Recommendations)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := NewAnalyzer()

	analysis := a.Analyze("", "")

	if analysis.PrimaryEmotion != "neutral" {
		t.Errorf("PrimaryEmotion = %q, want neutral", analysis.PrimaryEmotion)
	}
	if analysis.Intensity != 0 {
		t.Errorf("Intensity = %v, want 0", analysis.Intensity)
	}
}

func TestAnalyzePrimaryEmotions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"pain", "the pain is excruciating, it hurts so much", "pain"},
		{"frustration", "I am fed up and frustrated with this treatment", "frustration"},
		{"confusion", "I am confused, not sure what the dosage means", "confusion"},
		{"relief", "so relieved, feeling better after the new medication", "relief"},
		{"urgency", "I need help now, this is urgent", "urgency"},
	}

	a := NewAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := a.Analyze(tt.text, "")
			if analysis.PrimaryEmotion != tt.want {
				t.Errorf("PrimaryEmotion = %q, want %q (scores %v)",
					analysis.PrimaryEmotion, tt.want, analysis.EmotionScores)
			}
		})
	}
}

func TestAnalyzeContextRaisesScores(t *testing.T) {
	a := NewAnalyzer()
	text := "I am a little worried about what comes next after everything I heard today"

	plain := a.Analyze(text, "")
	weighted := a.Analyze(text, "we discussed the cancer diagnosis and surgery options")

	if weighted.EmotionScores["anxiety"] < plain.EmotionScores["anxiety"] {
		t.Errorf("medical context should not lower scores: %v < %v",
			weighted.EmotionScores["anxiety"], plain.EmotionScores["anxiety"])
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := NewAnalyzer()
	text := "I am worried and in pain"

	first := a.Analyze(text, "")
	second := a.Analyze(text, "")

	if first.PrimaryEmotion != second.PrimaryEmotion {
		t.Errorf("primary emotion diverged: %q vs %q", first.PrimaryEmotion, second.PrimaryEmotion)
	}
	if first.Intensity != second.Intensity || first.Confidence != second.Confidence {
		t.Errorf("scores diverged: %+v vs %+v", first, second)
	}
}

func TestHighIntensityEscalates(t *testing.T) {
	a := NewAnalyzer()

	analysis := a.Analyze("I AM SO SCARED!!! extremely worried, really terrified, what if it spreads!!", "")

	if analysis.Intensity <= 0.8 {
		t.Skipf("intensity %v, escalation path needs > 0.8", analysis.Intensity)
	}
	found := false
	for _, rec := range analysis.Recommendations {
		if rec == "Consider escalating to human healthcare provider" {
			found = true
		}
	}
	if !found {
		t.Errorf("high intensity should escalate, got %v", analysis.Recommendations)
	}
}
