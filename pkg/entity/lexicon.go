package entity

import (
	"strings"
	"sync"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Head words that mark a chunk as an organization, facility, event or product.
var cueWords = map[string][]string{
	LabelOrganization: {
		"nations", "inc", "corp", "corporation", "company", "co", "ltd", "llc", "plc",
		"group", "university", "college", "institute", "association", "council",
		"committee", "ministry", "department", "agency", "bank", "party", "union",
		"foundation", "society", "federation", "commission", "court", "police",
		"army", "navy", "school", "board", "authority", "organization",
		"organisation", "league", "club", "fc", "times", "news", "press", "reuters",
		"parliament", "congress", "senate", "government", "office", "service",
		"airlines", "airways", "motors", "systems", "technologies", "labs",
	},
	LabelFacility: {
		"airport", "station", "stadium", "hospital", "bridge", "tower", "building",
		"center", "centre", "hall", "museum", "library", "palace", "cathedral",
		"church", "mosque", "temple", "castle", "arena", "theatre", "theater",
		"hotel", "harbour", "harbor", "mall", "plaza", "square", "prison", "dam",
	},
	LabelEvent: {
		"war", "olympics", "cup", "championship", "championships", "festival",
		"summit", "conference", "election", "games", "expo", "marathon",
		"tournament", "revolution", "crisis", "convention", "awards", "open",
	},
	LabelProduct: {
		"iphone", "ipad", "galaxy", "pixel", "model", "mustang", "corolla", "civic",
		"prius", "camry", "cybertruck", "beetle", "dreamliner", "747", "737", "a380",
	},
}

// Places matched against the whole chunk.
var placeNames = []string{
	// countries and regions
	"afghanistan", "africa", "america", "argentina", "asia", "australia", "austria",
	"bangladesh", "belgium", "brazil", "britain", "canada", "chile", "china",
	"colombia", "cuba", "denmark", "egypt", "england", "ethiopia", "europe",
	"finland", "france", "germany", "greece", "india", "indonesia", "iran", "iraq",
	"ireland", "israel", "italy", "japan", "kenya", "korea", "lebanon", "mexico",
	"morocco", "netherlands", "new zealand", "nigeria", "north korea", "norway",
	"pakistan", "palestine", "peru", "philippines", "poland", "portugal", "qatar",
	"russia", "saudi arabia", "scotland", "singapore", "south africa", "south korea",
	"spain", "sweden", "switzerland", "syria", "taiwan", "thailand", "turkey",
	"uk", "ukraine", "united kingdom", "united states", "us", "usa", "venezuela",
	"vietnam", "wales", "yemen",
	// cities
	"amsterdam", "athens", "bangkok", "barcelona", "beijing", "berlin", "boston",
	"brussels", "buenos aires", "cairo", "chicago", "delhi", "dubai", "dublin",
	"edinburgh", "geneva", "hong kong", "istanbul", "jakarta", "jerusalem", "kabul",
	"kyiv", "kiev", "lagos", "lisbon", "london", "los angeles", "madrid", "manchester",
	"melbourne", "mexico city", "miami", "milan", "moscow", "mumbai", "munich",
	"nairobi", "new delhi", "new york", "oslo", "ottawa", "paris", "prague", "rome",
	"san francisco", "seoul", "shanghai", "stockholm", "sydney", "tehran",
	"tokyo", "toronto", "vancouver", "vienna", "warsaw", "washington", "zurich",
	// states and provinces
	"california", "florida", "ontario", "quebec", "texas",
}

// Words that introduce a person's name.
var titleWords = []string{
	"mr", "mrs", "ms", "miss", "dr", "prof", "professor", "president", "minister",
	"senator", "sir", "dame", "lady", "lord", "king", "queen", "prince", "princess",
	"pope", "chancellor", "governor", "mayor", "judge", "captain", "ceo",
	"chairman", "chairwoman", "secretary", "ambassador", "rep", "sen", "gov",
}

var firstNames = []string{
	"adam", "alex", "alice", "amy", "andrew", "anna", "anne", "ben", "boris",
	"charles", "chris", "daniel", "david", "donald", "elizabeth", "emily", "emma",
	"emmanuel", "george", "hannah", "harry", "helen", "jack", "james", "jane",
	"jennifer", "jessica", "joe", "john", "jonathan", "joseph", "kamala", "kate",
	"keir", "laura", "linda", "lisa", "maria", "mark", "mary", "matthew", "michael",
	"mohammed", "muhammad", "nancy", "olivia", "paul", "peter", "rachel", "richard",
	"rishi", "robert", "sarah", "steven", "susan", "thomas", "tim", "tom",
	"vladimir", "william", "xi",
}

// Prepositions that put the following chunk in a place.
var placePrepositions = []string{"in", "at", "from", "near"}

// lexicon holds the word lists used to label chunks. Build it once with
// newLexicon; lookups are safe for concurrent use.
type lexicon struct {
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	keywords []string
	labels   []string

	places map[string]bool
	titles map[string]bool
	names  map[string]bool
	preps  map[string]bool
}

func newLexicon() *lexicon {
	l := &lexicon{
		places: make(map[string]bool, len(placeNames)),
		titles: make(map[string]bool, len(titleWords)),
		names:  make(map[string]bool, len(firstNames)),
		preps:  make(map[string]bool, len(placePrepositions)),
	}

	for _, label := range []string{LabelOrganization, LabelFacility, LabelEvent, LabelProduct} {
		for _, w := range cueWords[label] {
			// Padding makes substring hits whole-word hits.
			l.keywords = append(l.keywords, " "+w+" ")
			l.labels = append(l.labels, label)
		}
	}
	l.matcher = ahocorasick.NewStringMatcher(l.keywords)

	for _, p := range placeNames {
		l.places[p] = true
	}
	for _, t := range titleWords {
		l.titles[t] = true
	}
	for _, n := range firstNames {
		l.names[n] = true
	}
	for _, p := range placePrepositions {
		l.preps[p] = true
	}
	return l
}

// cueLabel returns the label of the right-most cue word in words. In English
// names the head noun comes last ("Geneva University Hospital" is a facility).
func (l *lexicon) cueLabel(words []string) (string, bool) {
	padded := " " + l.fold(strings.Join(words, " ")) + " "

	l.mu.Lock()
	hits := l.matcher.Match([]byte(padded))
	l.mu.Unlock()

	best, bestPos := "", -1
	for _, hit := range hits {
		if hit >= len(l.keywords) {
			continue
		}
		if pos := strings.LastIndex(padded, l.keywords[hit]); pos > bestPos {
			best, bestPos = l.labels[hit], pos
		}
	}
	return best, bestPos >= 0
}

func (l *lexicon) isPlace(words []string) bool {
	return l.places[l.fold(strings.Join(words, " "))]
}

func (l *lexicon) isTitle(word string) bool {
	return l.titles[l.fold(strings.TrimSuffix(word, "."))]
}

func (l *lexicon) isFirstName(word string) bool {
	return l.names[l.fold(word)]
}

func (l *lexicon) isPlacePreposition(word string) bool {
	return l.preps[strings.ToLower(word)]
}

// fold lowercases s and strips diacritics so "Zürich" matches "zurich".
func (l *lexicon) fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
