// Package emergency scores user messages for medical emergency signals using
// weighted keyword pattern matching. It is deliberately rule-based: triage
// hints must be explainable and must not depend on a model call.
package emergency

import "strings"

type Level string

const (
	LevelNone     Level = "none"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Detection is the result of analyzing a single message.
type Detection struct {
	IsEmergency        bool
	Level              Level
	Confidence         float64
	Indicators         []string
	RecommendedActions []string
	UrgencyScore       float64
	MedicalPriority    string
}

type criticalPattern struct {
	keywords           []string
	phrases            []string
	symptoms           []string
	severityIndicators []string
}

type priorityCondition struct {
	keywords   []string
	indicators []string
	bodyParts  []string
	severity   float64
}

type Detector struct {
	criticalPatterns   map[string]criticalPattern
	priorityConditions map[string]priorityCondition
	urgencyModifiers   map[string][]string
}

func NewDetector() *Detector {
	return &Detector{
		criticalPatterns: map[string]criticalPattern{
			"cardiac_emergency": {
				keywords:           []string{"chest pain", "heart attack", "cardiac arrest", "heart failure"},
				phrases:            []string{"crushing chest pain", "severe chest pain", "can't breathe", "heart racing"},
				symptoms:           []string{"chest pressure", "chest tightness", "chest discomfort", "arm pain"},
				severityIndicators: []string{"severe", "intense", "crushing", "unbearable", "worst pain ever"},
			},
			"stroke_indicators": {
				keywords:           []string{"stroke", "paralysis", "numbness", "weakness", "speech problems"},
				phrases:            []string{"can't move", "face drooping", "slurred speech", "confusion", "severe headache"},
				symptoms:           []string{"sudden weakness", "vision problems", "balance issues", "dizziness"},
				severityIndicators: []string{"sudden", "severe", "can't speak", "can't move"},
			},
			"respiratory_emergency": {
				keywords:           []string{"can't breathe", "shortness of breath", "choking", "suffocating"},
				phrases:            []string{"struggling to breathe", "gasping for air", "turning blue", "chest tightness"},
				symptoms:           []string{"wheezing", "coughing blood", "severe cough", "chest pain"},
				severityIndicators: []string{"severe", "extreme", "can't catch breath", "emergency"},
			},
			"trauma_emergency": {
				keywords:           []string{"bleeding", "blood", "injury", "accident", "fall", "hit"},
				phrases:            []string{"lots of blood", "bleeding heavily", "severe injury", "head injury"},
				symptoms:           []string{"unconscious", "confusion", "severe pain", "broken bone"},
				severityIndicators: []string{"severe", "heavy", "unconscious", "can't move"},
			},
			"allergic_reaction": {
				keywords:           []string{"allergic reaction", "anaphylaxis", "swelling", "hives", "rash"},
				phrases:            []string{"throat swelling", "can't swallow", "difficulty breathing", "severe rash"},
				symptoms:           []string{"face swelling", "tongue swelling", "wheezing", "dizziness"},
				severityIndicators: []string{"severe", "throat closing", "can't breathe", "emergency"},
			},
			"poisoning_overdose": {
				keywords:           []string{"overdose", "poisoning", "took too much", "accidental ingestion"},
				phrases:            []string{"unconscious", "not responding", "seizures", "vomiting blood"},
				symptoms:           []string{"confusion", "drowsiness", "difficulty breathing", "irregular heartbeat"},
				severityIndicators: []string{"unconscious", "not breathing", "seizures", "emergency"},
			},
		},
		priorityConditions: map[string]priorityCondition{
			"severe_pain": {
				keywords:  []string{"severe pain", "excruciating", "unbearable", "worst pain"},
				bodyParts: []string{"chest", "head", "abdomen", "back"},
				severity:  0.8,
			},
			"high_fever": {
				keywords:   []string{"high fever", "very hot", "burning up", "temperature"},
				indicators: []string{"over 103", "104", "105", "severe fever"},
				severity:   0.7,
			},
			"severe_nausea": {
				keywords:   []string{"severe nausea", "can't stop vomiting", "vomiting blood"},
				indicators: []string{"dehydrated", "can't keep down", "blood in vomit"},
				severity:   0.6,
			},
			"mental_health_crisis": {
				keywords:   []string{"suicidal", "want to die", "self harm", "crisis"},
				indicators: []string{"hopeless", "can't cope", "emergency", "help me"},
				severity:   0.9,
			},
		},
		urgencyModifiers: map[string][]string{
			"time_indicators":      {"now", "immediately", "asap", "right now", "urgent"},
			"intensity_indicators": {"severe", "extreme", "worst", "unbearable", "critical"},
			"action_indicators":    {"call 911", "emergency room", "ambulance", "help me"},
			"symptom_combinations": {"chest pain and shortness of breath", "headache and fever"},
		},
	}
}

// Detect analyzes a message for emergency signals.
func (d *Detector) Detect(text string) Detection {
	lower := strings.ToLower(text)

	criticalScores := d.analyzeCriticalPatterns(lower)
	priorityScores := d.analyzePriorityConditions(lower)
	urgency := d.calculateUrgencyModifiers(lower)

	score := combineScores(criticalScores, priorityScores, urgency)
	level := determineLevel(score)
	confidence := calculateConfidence(criticalScores, priorityScores, urgency)
	indicators := d.extractIndicators(lower, criticalScores, priorityScores)

	return Detection{
		IsEmergency:        level != LevelNone,
		Level:              level,
		Confidence:         confidence,
		Indicators:         indicators,
		RecommendedActions: recommendedActions(level, indicators),
		UrgencyScore:       urgencyScore(score, urgency),
		MedicalPriority:    medicalPriority(level),
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

func (d *Detector) analyzeCriticalPatterns(text string) map[string]float64 {
	scores := make(map[string]float64, len(d.criticalPatterns))
	for name, p := range d.criticalPatterns {
		score := float64(countMatches(text, p.keywords))*0.3 +
			float64(countMatches(text, p.phrases))*0.4 +
			float64(countMatches(text, p.symptoms))*0.2 +
			float64(countMatches(text, p.severityIndicators))*0.1
		scores[name] = clamp01(score)
	}
	return scores
}

func (d *Detector) analyzePriorityConditions(text string) map[string]float64 {
	scores := make(map[string]float64, len(d.priorityConditions))
	for name, c := range d.priorityConditions {
		score := float64(countMatches(text, c.keywords)) * 0.4
		score += float64(countMatches(text, c.indicators)) * 0.3
		score += float64(countMatches(text, c.bodyParts)) * 0.2
		score *= c.severity
		scores[name] = clamp01(score)
	}
	return scores
}

func (d *Detector) calculateUrgencyModifiers(text string) map[string]float64 {
	return map[string]float64{
		"time_urgency":      clamp01(float64(countMatches(text, d.urgencyModifiers["time_indicators"])) * 0.3),
		"intensity_urgency": clamp01(float64(countMatches(text, d.urgencyModifiers["intensity_indicators"])) * 0.3),
		"action_urgency":    clamp01(float64(countMatches(text, d.urgencyModifiers["action_indicators"])) * 0.4),
		"combo_urgency":     clamp01(float64(countMatches(text, d.urgencyModifiers["symptom_combinations"])) * 0.5),
	}
}

func combineScores(critical, priority, urgency map[string]float64) float64 {
	score := 0.5*maxValue(critical) + 0.3*maxValue(priority) + 0.2*meanValue(urgency)
	return clamp01(score)
}

func determineLevel(score float64) Level {
	switch {
	case score >= 0.9:
		return LevelCritical
	case score >= 0.7:
		return LevelHigh
	case score >= 0.5:
		return LevelMedium
	case score >= 0.3:
		return LevelLow
	default:
		return LevelNone
	}
}

func calculateConfidence(critical, priority, urgency map[string]float64) float64 {
	confidence := maxValue(critical)
	if p := maxValue(priority); p > confidence {
		confidence = p
	}

	indicatorCount := 0
	for _, s := range critical {
		if s > 0.3 {
			indicatorCount++
		}
	}
	for _, s := range priority {
		if s > 0.3 {
			indicatorCount++
		}
	}
	if indicatorCount > 1 {
		confidence += 0.2
	}

	for _, v := range urgency {
		confidence += v * 0.1
	}
	return clamp01(confidence)
}

func (d *Detector) extractIndicators(text string, critical, priority map[string]float64) []string {
	var indicators []string

	for name, score := range critical {
		if score <= 0.3 {
			continue
		}
		p := d.criticalPatterns[name]
		for _, keyword := range p.keywords {
			if strings.Contains(text, keyword) {
				indicators = append(indicators, "Critical: "+keyword)
			}
		}
		for _, phrase := range p.phrases {
			if strings.Contains(text, phrase) {
				indicators = append(indicators, "Critical phrase: "+phrase)
			}
		}
	}

	for name, score := range priority {
		if score <= 0.3 {
			continue
		}
		c := d.priorityConditions[name]
		for _, keyword := range c.keywords {
			if strings.Contains(text, keyword) {
				indicators = append(indicators, "Priority: "+keyword)
			}
		}
	}

	if len(indicators) > 10 {
		indicators = indicators[:10]
	}
	return indicators
}

func recommendedActions(level Level, indicators []string) []string {
	var actions []string

	switch level {
	case LevelCritical:
		actions = append(actions,
			"Call 911 immediately",
			"Do not delay seeking emergency medical care",
			"If unconscious, check for breathing and pulse",
			"Stay with the person until help arrives",
		)
	case LevelHigh:
		actions = append(actions,
			"Seek immediate medical attention",
			"Go to the nearest emergency room",
			"Call emergency services if symptoms worsen",
			"Do not drive yourself if experiencing severe symptoms",
		)
	case LevelMedium:
		actions = append(actions,
			"Schedule urgent medical consultation",
			"Contact your healthcare provider immediately",
			"Monitor symptoms closely",
			"Go to urgent care if symptoms persist or worsen",
		)
	case LevelLow:
		actions = append(actions,
			"Monitor symptoms",
			"Contact healthcare provider if symptoms worsen",
			"Consider urgent care if symptoms persist",
		)
	}

	if indicatorsContain(indicators, "chest pain") {
		actions = append(actions,
			"If chest pain, sit down and rest",
			"Take prescribed heart medication if available",
		)
	}
	if indicatorsContain(indicators, "breathing") {
		actions = append(actions,
			"Try to stay calm and breathe slowly",
			"Sit upright if possible",
		)
	}
	if indicatorsContain(indicators, "bleeding") {
		actions = append(actions,
			"Apply direct pressure to stop bleeding",
			"Elevate the injured area if possible",
		)
	}

	return actions
}

func indicatorsContain(indicators []string, substr string) bool {
	for _, ind := range indicators {
		if strings.Contains(strings.ToLower(ind), substr) {
			return true
		}
	}
	return false
}

func urgencyScore(emergencyScore float64, urgency map[string]float64) float64 {
	return clamp01(0.7*emergencyScore + 0.3*meanValue(urgency))
}

func medicalPriority(level Level) string {
	switch level {
	case LevelCritical:
		return "immediate"
	case LevelHigh:
		return "urgent"
	case LevelMedium:
		return "priority"
	case LevelLow:
		return "routine"
	default:
		return "non_urgent"
	}
}

func maxValue(m map[string]float64) float64 {
	max := 0.0
	for _, v := range m {
		if v > max {
			max = v
		}
	}
	return max
}

func meanValue(m map[string]float64) float64 {
	if len(m) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range m {
		sum += v
	}
	return sum / float64(len(m))
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
