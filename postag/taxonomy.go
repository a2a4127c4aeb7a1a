package postag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/pcfgguess/terminal"
)

// Sentinel errors for the postag package.
var (
	// ErrUnknownCategory indicates a category name outside Categories.
	ErrUnknownCategory = errors.New("postag: unknown part-of-speech category")

	// ErrUnboundCategory indicates a grammar row referencing a category
	// with no bound word chain.
	ErrUnboundCategory = errors.New("postag: category has no bound dictionary")

	// ErrMalformedRow indicates a passphrase grammar line that is not
	// "<probability>\t<TAG>\t<TAG>...".
	ErrMalformedRow = errors.New("postag: malformed passphrase grammar row")

	// ErrZeroProbability indicates a zero base or joint probability.
	ErrZeroProbability = errors.New("postag: zero-probability base structure")
)

// Categories are the grammatical word classes this variant distinguishes.
// Multiple Brown tags collapse onto one category: separate dictionaries
// for, say, possessive versus nominal pronouns are not worth maintaining.
var Categories = []string{
	"noun",
	"properNoun",
	"verb",
	"adjective",
	"adverb",
	"pronoun",
	"determiner",
	"preposition",
	"conjunction",
	"number",
	"interjection",
}

// brownTags maps (cleaned, upper-cased) Brown corpus tags to a category.
var brownTags = map[string]string{
	// Nouns.
	"NN": "noun", "NNS": "noun", "NR": "noun", "NRS": "noun",
	// Proper nouns.
	"NP": "properNoun", "NPS": "properNoun",
	// Verbs, including be/do/have forms.
	"VB": "verb", "VBD": "verb", "VBG": "verb", "VBN": "verb", "VBZ": "verb",
	"BE": "verb", "BED": "verb", "BEDZ": "verb", "BEG": "verb", "BEM": "verb",
	"BEN": "verb", "BER": "verb", "BEZ": "verb",
	"DO": "verb", "DOD": "verb", "DOZ": "verb",
	"HV": "verb", "HVD": "verb", "HVG": "verb", "HVN": "verb", "HVZ": "verb",
	"MD": "verb",
	// Adjectives.
	"JJ": "adjective", "JJR": "adjective", "JJS": "adjective", "JJT": "adjective",
	"OD": "adjective",
	// Adverbs.
	"RB": "adverb", "RBR": "adverb", "RBT": "adverb", "RN": "adverb",
	"RP": "adverb", "QL": "adverb", "QLP": "adverb",
	// Pronouns.
	"PN": "pronoun", "PP": "pronoun", "PPL": "pronoun", "PPLS": "pronoun",
	"PPO": "pronoun", "PPS": "pronoun", "PPSS": "pronoun", "PRP": "pronoun",
	"WP": "pronoun", "WPO": "pronoun", "WPS": "pronoun",
	// Determiners and articles.
	"AT": "determiner", "DT": "determiner", "DTI": "determiner",
	"DTS": "determiner", "DTX": "determiner", "AP": "determiner",
	"ABL": "determiner", "ABN": "determiner", "ABX": "determiner",
	"WDT": "determiner",
	// Prepositions.
	"IN": "preposition", "TO": "preposition",
	// Conjunctions.
	"CC": "conjunction", "CS": "conjunction",
	// Numbers.
	"CD": "number",
	// Interjections.
	"UH": "interjection",
	// Existential there and wh-adverbs lean on the adverb dictionary.
	"EX": "adverb", "WRB": "adverb", "WQL": "adverb",
}

// CleanTag normalizes a raw Brown tag: everything from the first
// hyphenation/fitting marker on is dropped (so "NN-TL", "FW-NN*", and
// "JJ+JJ" reduce to their leading tag), and the result is upper-cased.
func CleanTag(raw string) string {
	if i := strings.IndexAny(raw, "-,*+():"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToUpper(raw)
}

// Taxonomy binds part-of-speech categories to word chains. Chains are
// installed once during setup and read-only afterward, like a
// terminal.Table.
type Taxonomy struct {
	chains map[string]*terminal.Chain
	index  map[string]int
}

// NewTaxonomy returns a Taxonomy with every category known but no
// dictionaries bound yet.
func NewTaxonomy() *Taxonomy {
	idx := make(map[string]int, len(Categories))
	for i, c := range Categories {
		idx[c] = i
	}
	return &Taxonomy{chains: make(map[string]*terminal.Chain), index: idx}
}

// BindDictionary builds the word chain for one category from (word,
// probability) rows. Each category occupies its own pseudo-length in the
// rainbow space, so fingerprints stay unique across categories even
// though passphrase words share one symbol kind.
func (t *Taxonomy) BindDictionary(category string, rows []terminal.Row) error {
	ord, ok := t.index[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	chain, err := terminal.BuildChain(terminal.KindDictionary, ord+1, rows)
	if err != nil {
		return fmt.Errorf("postag: category %q: %w", category, err)
	}
	t.chains[category] = chain
	return nil
}

// Resolve maps a raw Brown tag to its category's bound chain.
func (t *Taxonomy) Resolve(rawTag string) (*terminal.Chain, error) {
	tag := CleanTag(rawTag)
	category, ok := brownTags[tag]
	if !ok {
		return nil, fmt.Errorf("%w: tag %q", ErrUnknownCategory, rawTag)
	}
	chain, ok := t.chains[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q (tag %q)", ErrUnboundCategory, category, rawTag)
	}
	return chain, nil
}
