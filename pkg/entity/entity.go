// Package entity extracts named entities from raw page text and maps them to
// a small closed taxonomy.
//
// The pipeline is: split into sentences, tokenize, part-of-speech tag, group
// tagged tokens into proper-noun chunks, label each chunk (PERSON, GPE,
// ORGANIZATION, ...), map the label to a Category, filter and deduplicate.
package entity

// Category is the domain taxonomy an entity is mapped into.
type Category string

// Categories. Entities with labels that map to none of these are dropped.
const (
	Person       Category = "person"
	Organization Category = "organization"
	Location     Category = "address/location"
	Property     Category = "property"
	Vehicle      Category = "vehicle"
	Event        Category = "event"
)

// Chunk labels, as produced by the chunker or the tagger's NER hints.
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORGANIZATION"
	LabelGPE          = "GPE"
	LabelLocation     = "LOCATION"
	LabelFacility     = "FACILITY"
	LabelFac          = "FAC"
	LabelProduct      = "PRODUCT"
	LabelEvent        = "EVENT"
)

var categoryMap = map[string]Category{
	LabelPerson:       Person,
	LabelOrganization: Organization,
	LabelGPE:          Location,
	LabelLocation:     Location,
	LabelFacility:     Property,
	LabelFac:          Property,
	LabelProduct:      Vehicle,
	LabelEvent:        Event,
}

// CategoryFor maps a chunk label to its category.
func CategoryFor(label string) (Category, bool) {
	c, ok := categoryMap[label]
	return c, ok
}

// Categories returns every category in taxonomy order.
func Categories() []Category {
	return []Category{Person, Organization, Location, Property, Vehicle, Event}
}

// Entity is a categorized named entity. Type is the raw chunk label.
type Entity struct {
	Text       string   `json:"text"`
	Category   Category `json:"category"`
	Type       string   `json:"type"`
	Confidence float64  `json:"confidence"`
}

// Result is the output of an extraction.
type Result struct {
	Entities []Entity `json:"entities"`
	// Sentences is the number of sentences the text was split into.
	Sentences int `json:"sentences"`
	// TextLength is the raw text length in characters.
	TextLength int `json:"text_length"`
}

// Config controls filtering and scoring.
type Config struct {
	// Confidence is attached to every entity. The tagger has no native
	// confidence signal, so this is a fixed placeholder.
	Confidence float64 `json:"confidence" yaml:"confidence" validate:"gte=0,lte=1"`

	// VerifyInSource drops entities whose text does not occur in the raw
	// input as a whole word (case-insensitive).
	VerifyInSource bool `json:"verify_in_source" yaml:"verify_in_source"`

	// AllowSingle lists single-character entities that are kept.
	AllowSingle []string `json:"allow_single" yaml:"allow_single"`
}

// DefaultConfig returns the default extraction settings.
func DefaultConfig() *Config {
	return &Config{
		Confidence:  0.85,
		AllowSingle: []string{"q"},
	}
}
