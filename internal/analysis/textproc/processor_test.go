package textproc

import (
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "I  have   a\theadache\n\nand fever", "I have a headache and fever"},
		{"strips odd characters", "@chest pain# right now!", "chest pain right now!"},
		{"keeps sentence punctuation", "Is this serious? Yes, maybe.", "Is this serious? Yes, maybe."},
		{"trims edges", "  hello  ", "hello"},
		{"empty input", "", ""},
	}

	p := NewProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractMedicalEntities(t *testing.T) {
	p := NewProcessor()

	entities := p.ExtractMedicalEntities("I have chest pain, a headache and took aspirin for the fever")

	if !reflect.DeepEqual(entities["body_parts"], []string{"chest"}) {
		t.Errorf("body_parts = %v, want [chest]", entities["body_parts"])
	}
	if !reflect.DeepEqual(entities["medications"], []string{"aspirin"}) {
		t.Errorf("medications = %v, want [aspirin]", entities["medications"])
	}

	wantSymptoms := []string{"fever", "headache", "pain"}
	if !reflect.DeepEqual(entities["symptoms"], wantSymptoms) {
		t.Errorf("symptoms = %v, want %v", entities["symptoms"], wantSymptoms)
	}
	if _, ok := entities["conditions"]; ok {
		t.Errorf("conditions should be absent, got %v", entities["conditions"])
	}
}

func TestExtractMedicalEntitiesDeduplicates(t *testing.T) {
	p := NewProcessor()

	entities := p.ExtractMedicalEntities("Pain pain PAIN everywhere")

	if !reflect.DeepEqual(entities["symptoms"], []string{"pain"}) {
		t.Errorf("symptoms = %v, want [pain]", entities["symptoms"])
	}
}

func TestExtractMedicalEntitiesCaseInsensitive(t *testing.T) {
	p := NewProcessor()

	entities := p.ExtractMedicalEntities("DIABETES and Hypertension")

	want := []string{"diabetes", "hypertension"}
	if !reflect.DeepEqual(entities["conditions"], want) {
		t.Errorf("conditions = %v, want %v", entities["conditions"], want)
	}
}

func TestExtractKeyTerms(t *testing.T) {
	p := NewProcessor()

	terms := p.ExtractKeyTerms("What are the symptoms of high blood pressure?")

	want := []string{"symptoms", "high", "blood", "pressure"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("ExtractKeyTerms = %v, want %v", terms, want)
	}
}

func TestExtractKeyTermsDropsShortAndDuplicateTokens(t *testing.T) {
	p := NewProcessor()

	terms := p.ExtractKeyTerms("my leg, my leg, it is my leg!")

	if !reflect.DeepEqual(terms, []string{"leg"}) {
		t.Errorf("ExtractKeyTerms = %v, want [leg]", terms)
	}
}

func TestExtractKeyTermsEmpty(t *testing.T) {
	p := NewProcessor()

	if terms := p.ExtractKeyTerms("is it of a"); len(terms) != 0 {
		t.Errorf("ExtractKeyTerms = %v, want empty", terms)
	}
}
