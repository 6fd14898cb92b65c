// Package workconfig holds the per-request configuration a transform run
// needs: glyph substitutions and prefix definitions read from the
// document's own teiHeader, plus the fixed citation-label table. A
// WorkConfig is built fresh for every request and passed explicitly through
// every stage; nothing here is process-wide or shared between requests.
package workconfig

// TeaserLength is the default number of characters retained when building
// a teaser passage label from an element's text content.
const TeaserLength = 60

// CitationLabel describes how a structural unit is named in a passagetrail:
// its full label, its abbreviated label, and whether it is normally cited
// by reference (e.g. "q. 3") rather than by position.
type CitationLabel struct {
	Full      string `yaml:"full"`
	Abbr      string `yaml:"abbr"`
	IsCiteRef bool   `yaml:"cite_ref"`
}

// DefaultCitationLabels is the built-in abstract-key to label mapping used
// when the run supplies no citation-label override.
var DefaultCitationLabels = map[string]CitationLabel{
	"chapter":     {Full: "Chapter", Abbr: "cap.", IsCiteRef: true},
	"book":        {Full: "Book", Abbr: "lib.", IsCiteRef: false},
	"article":     {Full: "Article", Abbr: "art.", IsCiteRef: true},
	"part":        {Full: "Part", Abbr: "pt.", IsCiteRef: false},
	"question":    {Full: "Question", Abbr: "q.", IsCiteRef: true},
	"lecture":     {Full: "Lecture", Abbr: "lect.", IsCiteRef: true},
	"section":     {Full: "Section", Abbr: "sect.", IsCiteRef: false},
	"paragraph":   {Full: "Paragraph", Abbr: "para.", IsCiteRef: false},
	"distinction": {Full: "Distinction", Abbr: "dist.", IsCiteRef: true},
	"treatise":    {Full: "Treatise", Abbr: "tr.", IsCiteRef: false},
	"gloss":       {Full: "Gloss", Abbr: "gloss", IsCiteRef: true},
}

// Glyph describes a non-standard character declared in the document's
// charDecl: its standardized Unicode form and, optionally, a mapping table
// entry used when the renderer must choose between a precomposed and a
// composed representation.
type Glyph struct {
	ID            string
	Standardized  string
	Precomposed   string
	Composed      string
}

// PrefixDef describes a prefixDef entry used to expand abbreviated
// cross-reference targets, e.g. "urn:cts:$1" with a matching regex capture.
type PrefixDef struct {
	Ident      string
	MatchRegex string
	Replace    string
}

// WorkConfig carries every piece of per-request state the transform
// pipeline needs, threaded explicitly from stage to stage. None of its
// fields are safe to share across concurrent requests; callers must build
// a new WorkConfig per request.
type WorkConfig struct {
	// WorkID is the caller-supplied identifier for the work being
	// transformed (used in citetrail prefixes and IIIF URL derivation).
	WorkID string

	// Glyphs maps a charDecl @xml:id to its Glyph definition.
	Glyphs map[string]Glyph

	// Prefixes maps a prefixDef @ident to its PrefixDef.
	Prefixes map[string]PrefixDef

	// CitationLabels maps an abstract citation-unit key (typically a
	// div/@type) to its CitationLabel. Defaults to DefaultCitationLabels;
	// the pipeline replaces it with the run's citation-label overrides when
	// any are given. LoadFromHeader does not read it from the teiHeader.
	CitationLabels map[string]CitationLabel

	// TeaserLength is the character budget for generated teasers.
	TeaserLength int

	// MaxCiteDepth caps how many citetrail segments a passage may
	// accumulate before the resolver refuses to descend further.
	MaxCiteDepth int

	// citeDepth is incremented as the resolver descends the tree and
	// decremented on the way back up; it is not exported because callers
	// must go through Descend/Ascend to keep it balanced.
	citeDepth int

	// CitetrailOf and PassagetrailOf are the two identifier maps from
	// xml:id to a node's resolved citetrail/passagetrail, populated
	// strictly parent-before-child by the Resolver.
	CitetrailOf    map[string]string
	PassagetrailOf map[string]string

	// IDServerBaseURL and IIIFBaseURL are the external URL bases the
	// renderer needs to build a citation URI for a cross-work ref and an
	// image URL for a page break. Supplied by the caller from
	// pkg/config's DomainConfig; not derived from the document itself.
	IDServerBaseURL string
	IIIFBaseURL     string

	// SuppressPlaceholders, when set, tells the renderer to drop marginal
	// and page inline placeholders instead of emitting them. Set by the
	// documentation-pipeline variant, which only needs running text and
	// has no use for page/marginalia anchors.
	SuppressPlaceholders bool
}

// New builds a WorkConfig with default citation labels and teaser length,
// ready to be populated from a document's teiHeader.
func New(workID string) *WorkConfig {
	labels := make(map[string]CitationLabel, len(DefaultCitationLabels))
	for k, v := range DefaultCitationLabels {
		labels[k] = v
	}

	return &WorkConfig{
		WorkID:         workID,
		Glyphs:         make(map[string]Glyph),
		Prefixes:       make(map[string]PrefixDef),
		CitationLabels: labels,
		TeaserLength:   TeaserLength,
		MaxCiteDepth:   32,
		CitetrailOf:    make(map[string]string),
		PassagetrailOf: make(map[string]string),
	}
}

// Descend increments the cite-depth counter and reports whether the
// caller may proceed; it must be paired with a deferred call to Ascend.
func (wc *WorkConfig) Descend() bool {
	if wc.citeDepth >= wc.MaxCiteDepth {
		return false
	}

	wc.citeDepth++

	return true
}

// Ascend decrements the cite-depth counter.
func (wc *WorkConfig) Ascend() {
	if wc.citeDepth > 0 {
		wc.citeDepth--
	}
}

// RecordCitetrail stores id's resolved citetrail in the work's identifier
// map, making it available to sibling/descendant concatenation and to the
// renderer's cross-reference resolution.
func (wc *WorkConfig) RecordCitetrail(id, citetrail string) {
	if id == "" {
		return
	}

	wc.CitetrailOf[id] = citetrail
}

// RecordPassagetrail stores id's resolved passagetrail in the work's
// identifier map.
func (wc *WorkConfig) RecordPassagetrail(id, passagetrail string) {
	if id == "" {
		return
	}

	wc.PassagetrailOf[id] = passagetrail
}
