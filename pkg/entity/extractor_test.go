package entity

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeTagger returns pre-tagged sentences written as "Word/TAG" or
// "Word/TAG/HINT", one string per sentence.
type fakeTagger struct {
	sentences []string
}

func (f fakeTagger) Tag(string) ([]TaggedSentence, error) {
	out := make([]TaggedSentence, 0, len(f.sentences))
	for _, s := range f.sentences {
		out = append(out, TaggedSentence{Text: s, Tokens: tokens(s)})
	}
	return out, nil
}

func tokens(s string) []Token {
	var toks []Token
	for _, field := range strings.Fields(s) {
		parts := strings.Split(field, "/")
		tok := Token{Text: parts[0], Tag: parts[1]}
		if len(parts) > 2 {
			tok.Label = parts[2]
		}
		toks = append(toks, tok)
	}
	return toks
}

func extract(t *testing.T, cfg *Config, raw string, sentences ...string) *Result {
	t.Helper()
	e := NewExtractor(cfg, WithTagger(fakeTagger{sentences: sentences}))
	result, err := e.Extract(context.Background(), raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	return result
}

func find(entities []Entity, text string) (Entity, bool) {
	for _, e := range entities {
		if e.Text == text {
			return e, true
		}
	}
	return Entity{}, false
}

func TestExtract_PersonOrganizationLocation(t *testing.T) {
	raw := "John Smith met with the United Nations in Geneva."
	result := extract(t, nil, raw,
		"John/NNP Smith/NNP met/VBD with/IN the/DT United/NNP Nations/NNPS in/IN Geneva/NNP ./.")

	want := []Entity{
		{Text: "John Smith", Category: Person, Type: LabelPerson, Confidence: 0.85},
		{Text: "United Nations", Category: Organization, Type: LabelOrganization, Confidence: 0.85},
		{Text: "Geneva", Category: Location, Type: LabelGPE, Confidence: 0.85},
	}
	if len(result.Entities) != len(want) {
		t.Fatalf("Entities = %+v, want %+v", result.Entities, want)
	}
	for i := range want {
		if result.Entities[i] != want[i] {
			t.Errorf("Entities[%d] = %+v, want %+v", i, result.Entities[i], want[i])
		}
	}
	if result.Sentences != 1 {
		t.Errorf("Sentences = %d, want 1", result.Sentences)
	}
	if result.TextLength != len(raw) {
		t.Errorf("TextLength = %d, want %d", result.TextLength, len(raw))
	}
}

func TestExtract_Labels(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		text     string
		category Category
		label    string
	}{
		{"title prefix", "Yesterday/NN Mr/NNP Brown/NNP resigned/VBD", "Brown", Person, LabelPerson},
		{"title before chunk", "She/PRP met/VBD President/NN Okafor/NNP", "Okafor", Person, LabelPerson},
		{"head noun facility", "Patients/NNS at/IN Geneva/NNP University/NNP Hospital/NNP waited/VBD", "Geneva University Hospital", Property, LabelFacility},
		{"connector", "The/DT Bank/NNP of/IN England/NNP raised/VBD rates/NNS", "Bank of England", Organization, LabelOrganization},
		{"event", "Fans/NNS watched/VBD the/DT World/NNP Cup/NNP final/JJ", "World Cup", Event, LabelEvent},
		{"product", "He/PRP drove/VBD a/DT Ford/NNP Mustang/NNP home/NN", "Ford Mustang", Vehicle, LabelProduct},
		{"preposition context", "They/PRP live/VBP in/IN Springfield/NNP", "Springfield", Location, LabelGPE},
		{"acronym", "Members/NNS of/IN NATO/NNP met/VBD", "NATO", Organization, LabelOrganization},
		{"two unknown words", "The/DT essay/NN by/IN Ada/NNP Lovelace/NNP survives/VBZ", "Ada Lovelace", Person, LabelPerson},
		{"tagger hint", "The/DT envoy/NN visited/VBD Zorblax/NNP/GPE", "Zorblax", Location, LabelGPE},
		{"accent folding", "Banks/NNS in/IN Zürich/NNP closed/VBD", "Zürich", Location, LabelGPE},
		{"capitalized adjective in run", "Delegates/NNS of/IN the/DT United/VBN Nations/NNS arrived/VBD", "United Nations", Organization, LabelOrganization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extract(t, nil, "", tt.sentence)
			got, ok := find(result.Entities, tt.text)
			if !ok {
				t.Fatalf("entity %q not found in %+v", tt.text, result.Entities)
			}
			if got.Category != tt.category || got.Type != tt.label {
				t.Errorf("entity %q = %s/%s, want %s/%s", tt.text, got.Category, got.Type, tt.category, tt.label)
			}
		})
	}
}

func TestExtract_Dropped(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
	}{
		{"sentence initial common word", "The/DT vote/NN passed/VBD"},
		{"lone unknown name", "It/PRP rained/VBD on/IN Monday/NNP"},
		{"bare title", "The/DT Minister/NNP spoke/VBD"},
		{"numbers", "It/PRP cost/VBD 2024/CD dollars/NNS"},
		{"single letter", "Plan/NN B/NNP/PERSON failed/VBD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extract(t, nil, "", tt.sentence)
			if len(result.Entities) != 0 {
				t.Errorf("expected no entities, got %+v", result.Entities)
			}
		})
	}
}

func TestExtract_AllowSingle(t *testing.T) {
	result := extract(t, nil, "", "Agent/NN Q/NNP/PERSON smiled/VBD")
	if _, ok := find(result.Entities, "Q"); !ok {
		t.Errorf("expected allow-listed single letter, got %+v", result.Entities)
	}
}

func TestExtract_Dedupe(t *testing.T) {
	result := extract(t, nil, "",
		"Talks/NNS in/IN Geneva/NNP ended/VBD",
		"Delegates/NNS left/VBD GENEVA/NNP today/NN",
		"John/NNP Smith/NNP flew/VBD home/NN",
		"John/NNP Smith/NNP rested/VBD",
	)

	seen := make(map[string]bool)
	for _, e := range result.Entities {
		key := strings.ToLower(e.Text) + "|" + string(e.Category)
		if seen[key] {
			t.Errorf("duplicate entity %+v", e)
		}
		seen[key] = true
	}
	if len(result.Entities) != 2 {
		t.Errorf("expected 2 entities, got %+v", result.Entities)
	}
	if result.Sentences != 4 {
		t.Errorf("Sentences = %d, want 4", result.Sentences)
	}
}

func TestExtract_CategoryClosure(t *testing.T) {
	result := extract(t, nil, "",
		"John/NNP Smith/NNP met/VBD the/DT United/NNP Nations/NNPS in/IN Geneva/NNP",
		"The/DT Olympic/NNP Games/NNPS at/IN Wembley/NNP Stadium/NNP drew/VBD NASA/NNP and/CC Tesla/NNP Model/NNP 3/CD",
		"Zed/NNP/MONEY was/VBD here/RB",
	)

	valid := make(map[Category]bool)
	for _, c := range Categories() {
		valid[c] = true
	}
	for _, e := range result.Entities {
		if !valid[e.Category] {
			t.Errorf("entity %+v has category outside the taxonomy", e)
		}
	}
}

func TestExtract_VerifyInSource(t *testing.T) {
	raw := "The talks were held in geneva last week."
	sentence := "Talks/NNS in/IN Geneva/NNP and/CC Paris/NNP"

	loose := extract(t, nil, raw, sentence)
	if len(loose.Entities) != 2 {
		t.Fatalf("expected 2 entities without verification, got %+v", loose.Entities)
	}

	cfg := DefaultConfig()
	cfg.VerifyInSource = true
	strict := extract(t, cfg, raw, sentence)
	if len(strict.Entities) != 1 || strict.Entities[0].Text != "Geneva" {
		t.Errorf("expected only Geneva after verification, got %+v", strict.Entities)
	}
}

func TestExtract_Confidence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Confidence = 0.5
	result := extract(t, cfg, "", "Talks/NNS in/IN Geneva/NNP")
	if len(result.Entities) != 1 || result.Entities[0].Confidence != 0.5 {
		t.Errorf("expected configured confidence, got %+v", result.Entities)
	}
}

func TestExtract_InitRetry(t *testing.T) {
	calls := 0
	e := NewExtractor(nil, WithTaggerFactory(func() (Tagger, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("model missing")
		}
		return fakeTagger{sentences: []string{"Talks/NNS in/IN Geneva/NNP"}}, nil
	}))

	if _, err := e.Extract(context.Background(), "x"); err == nil {
		t.Fatal("expected initialization error")
	}
	result, err := e.Extract(context.Background(), "x")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(result.Entities) != 1 {
		t.Errorf("expected 1 entity, got %+v", result.Entities)
	}
	if _, err := e.Extract(context.Background(), "x"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("tagger factory called %d times, want 2", calls)
	}
}

func TestExtract_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExtractor(nil, WithTagger(fakeTagger{}))
	if _, err := e.Extract(ctx, "text"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExtract_EmptyResultIsNotNil(t *testing.T) {
	result := extract(t, nil, "", "nothing/NN here/RB")
	if result.Entities == nil {
		t.Error("expected empty, non-nil entity slice")
	}
}

func TestProseTagger(t *testing.T) {
	if testing.Short() {
		t.Skip("loads tagger models")
	}

	tagger, err := NewProseTagger()
	if err != nil {
		t.Fatalf("NewProseTagger() error = %v", err)
	}
	sentences, err := tagger.Tag("John Smith met with the United Nations in Geneva. He flew home on Monday.")
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}

	has := func(s TaggedSentence, word string) bool {
		for _, tok := range s.Tokens {
			if tok.Text == word {
				return true
			}
		}
		return false
	}
	if !has(sentences[0], "Geneva") || has(sentences[0], "Monday") {
		t.Errorf("unexpected first sentence tokens: %+v", sentences[0].Tokens)
	}
	if !has(sentences[1], "Monday") {
		t.Errorf("unexpected second sentence tokens: %+v", sentences[1].Tokens)
	}
}

func TestExtract_ProseEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("loads tagger models")
	}

	e := NewExtractor(nil)
	result, err := e.Extract(context.Background(), "John Smith met with the United Nations in Geneva.")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := map[string]Category{
		"John Smith":     Person,
		"United Nations": Organization,
		"Geneva":         Location,
	}
	for text, category := range want {
		got, ok := find(result.Entities, text)
		if !ok {
			t.Errorf("entity %q not found in %+v", text, result.Entities)
			continue
		}
		if got.Category != category {
			t.Errorf("entity %q category = %s, want %s", text, got.Category, category)
		}
	}
}

func TestNerLabel(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"O":        "",
		"B-PERSON": "PERSON",
		"I-GPE":    "GPE",
		"GPE":      "GPE",
	}
	for in, want := range tests {
		if got := nerLabel(in); got != want {
			t.Errorf("nerLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsAcronym(t *testing.T) {
	tests := map[string]bool{
		"NASA": true,
		"U.S.": true,
		"G7":   false,
		"G20X": true,
		"I":    false,
		"Nasa": false,
		"AT&T": true,
	}
	for in, want := range tests {
		if got := isAcronym(in); got != want {
			t.Errorf("isAcronym(%q) = %v, want %v", in, got, want)
		}
	}
}
