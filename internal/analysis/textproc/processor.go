// Package textproc normalizes user input and extracts medical entities with
// compiled regex patterns.
package textproc

import (
	"regexp"
	"sort"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialRe    = regexp.MustCompile(`[^\w\s\-\.\,\!\?\(\)]`)
)

type Processor struct {
	patterns map[string][]*regexp.Regexp
}

func NewProcessor() *Processor {
	raw := map[string][]string{
		"symptoms": {
			`\b(?:pain|ache|hurt|sore|tender)\b`,
			`\b(?:fever|temperature|hot|cold|chills)\b`,
			`\b(?:cough|sneeze|breath|breathing|shortness)\b`,
			`\b(?:headache|migraine|head pain)\b`,
			`\b(?:nausea|vomit|dizzy|dizziness|vertigo)\b`,
			`\b(?:rash|skin|itch|itching|redness)\b`,
			`\b(?:fatigue|tired|weak|weakness)\b`,
			`\b(?:swelling|inflammation|inflamed)\b`,
		},
		"body_parts": {
			`\b(?:head|neck|shoulder|arm|hand|finger)\b`,
			`\b(?:chest|heart|lung|breast)\b`,
			`\b(?:stomach|abdomen|belly|gut)\b`,
			`\b(?:back|spine|vertebrae)\b`,
			`\b(?:leg|thigh|knee|ankle|foot|toe)\b`,
			`\b(?:eye|ear|nose|mouth|throat)\b`,
		},
		"conditions": {
			`\b(?:diabetes|hypertension|high blood pressure)\b`,
			`\b(?:cancer|tumor|malignancy)\b`,
			`\b(?:infection|bacterial|viral|fungal)\b`,
			`\b(?:inflammation|arthritis|rheumatoid)\b`,
			`\b(?:allergy|allergic|hypersensitivity)\b`,
			`\b(?:depression|anxiety|mental health)\b`,
		},
		"medications": {
			`\b(?:aspirin|ibuprofen|acetaminophen|tylenol)\b`,
			`\b(?:antibiotic|penicillin|amoxicillin)\b`,
			`\b(?:insulin|metformin|glucose)\b`,
			`\b(?:antihistamine|benadryl|claritin)\b`,
			`\b(?:antidepressant|prozac|zoloft)\b`,
		},
	}

	compiled := make(map[string][]*regexp.Regexp, len(raw))
	for category, patterns := range raw {
		for _, p := range patterns {
			compiled[category] = append(compiled[category], regexp.MustCompile(`(?i)`+p))
		}
	}
	return &Processor{patterns: compiled}
}

// CleanText collapses whitespace and strips characters outside the small set
// punctuation medical text actually uses.
func (p *Processor) CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractMedicalEntities returns deduplicated matches per category. Categories
// with no matches are omitted.
func (p *Processor) ExtractMedicalEntities(text string) map[string][]string {
	entities := make(map[string][]string)

	for category, patterns := range p.patterns {
		seen := make(map[string]bool)
		for _, pattern := range patterns {
			for _, match := range pattern.FindAllString(text, -1) {
				normalized := strings.ToLower(strings.TrimSpace(match))
				if normalized != "" && !seen[normalized] {
					seen[normalized] = true
					entities[category] = append(entities[category], normalized)
				}
			}
		}
		sort.Strings(entities[category])
	}

	for category, matches := range entities {
		if len(matches) == 0 {
			delete(entities, category)
		}
	}
	return entities
}

// ExtractKeyTerms tokenizes a query into lowercase terms usable for keyword
// retrieval, dropping stopwords and very short tokens.
func (p *Processor) ExtractKeyTerms(text string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(p.CleanText(text))) {
		term := strings.Trim(field, ".,!?()-")
		if len(term) < 3 || stopwords[term] || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "what": true, "when": true, "where": true,
	"which": true, "with": true, "this": true, "that": true, "from": true,
	"they": true, "been": true, "will": true, "would": true, "there": true,
	"their": true, "about": true, "should": true, "could": true, "them": true,
	"than": true, "then": true, "some": true, "very": true, "your": true,
	"does": true, "just": true, "also": true, "like": true, "into": true,
	"over": true, "such": true, "only": true, "other": true, "how": true,
	"who": true, "why": true, "its": true, "his": true, "she": true,
}
