package emergency

import (
	"strings"
	"testing"
)

func TestDetectCardiacEmergency(t *testing.T) {
	d := NewDetector()

	detection := d.Detect("I am having a heart attack, severe crushing chest pain, the worst pain ever in my chest, can't breathe, call 911 right now")

	if !detection.IsEmergency {
		t.Fatal("expected an emergency detection")
	}
	if detection.Level != LevelCritical && detection.Level != LevelHigh {
		t.Errorf("Level = %q, want critical or high", detection.Level)
	}
	if detection.Confidence <= 0 || detection.Confidence > 1 {
		t.Errorf("Confidence = %v, want within (0, 1]", detection.Confidence)
	}
	if len(detection.RecommendedActions) == 0 {
		t.Error("expected recommended actions for an emergency")
	}
	if len(detection.Indicators) == 0 {
		t.Error("expected at least one indicator")
	}

	joined := strings.ToLower(strings.Join(detection.RecommendedActions, " "))
	if !strings.Contains(joined, "911") && !strings.Contains(joined, "emergency") {
		t.Errorf("actions should point to emergency services, got %v", detection.RecommendedActions)
	}
	if !strings.Contains(joined, "chest pain") {
		t.Errorf("chest pain indicators should add chest-specific guidance, got %v", detection.RecommendedActions)
	}
}

func TestDetectBenignText(t *testing.T) {
	d := NewDetector()

	detection := d.Detect("What foods are rich in vitamin C?")

	if detection.IsEmergency {
		t.Errorf("benign question flagged as emergency: %+v", detection)
	}
	if detection.Level != LevelNone {
		t.Errorf("Level = %q, want none", detection.Level)
	}
	if detection.MedicalPriority != "non_urgent" {
		t.Errorf("MedicalPriority = %q, want non_urgent", detection.MedicalPriority)
	}
}

func TestDetectScenarios(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		emergency bool
	}{
		{
			name:      "cardiac symptoms",
			text:      "severe crushing chest pain and can't breathe",
			emergency: true,
		},
		{
			name:      "stroke symptoms",
			text:      "sudden weakness, slurred speech and face drooping",
			emergency: true,
		},
		{
			name:      "heavy bleeding",
			text:      "the wound is bleeding heavily and won't stop",
			emergency: true,
		},
		{
			name:      "mental health crisis",
			text:      "I feel suicidal and in crisis, I am hopeless and can't cope, help me",
			emergency: true,
		},
		{
			name:      "mild symptom",
			text:      "I have a slight runny nose",
			emergency: false,
		},
		{
			name:      "empty text",
			text:      "",
			emergency: false,
		},
	}

	d := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detection := d.Detect(tt.text)
			if detection.IsEmergency != tt.emergency {
				t.Errorf("IsEmergency = %v, want %v (level %q, confidence %v)",
					detection.IsEmergency, tt.emergency, detection.Level, detection.Confidence)
			}
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	d := NewDetector()
	text := "severe chest pain and difficulty breathing"

	first := d.Detect(text)
	second := d.Detect(text)

	if first.Level != second.Level || first.Confidence != second.Confidence {
		t.Errorf("repeated detection diverged: %+v vs %+v", first, second)
	}
	if first.UrgencyScore != second.UrgencyScore {
		t.Errorf("urgency score diverged: %v vs %v", first.UrgencyScore, second.UrgencyScore)
	}
}

func TestMedicalPriorityTracksLevel(t *testing.T) {
	want := map[Level]string{
		LevelCritical: "immediate",
		LevelHigh:     "urgent",
		LevelMedium:   "priority",
		LevelLow:      "routine",
		LevelNone:     "non_urgent",
	}
	for level, priority := range want {
		if got := medicalPriority(level); got != priority {
			t.Errorf("medicalPriority(%q) = %q, want %q", level, got, priority)
		}
	}
}

func TestDetermineLevelThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0.95, LevelCritical},
		{0.9, LevelCritical},
		{0.75, LevelHigh},
		{0.5, LevelMedium},
		{0.3, LevelLow},
		{0.29, LevelNone},
		{0, LevelNone},
	}
	for _, tt := range tests {
		if got := determineLevel(tt.score); got != tt.want {
			t.Errorf("determineLevel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
