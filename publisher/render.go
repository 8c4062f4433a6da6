package publisher

import (
	"fmt"
	"strings"
	"unicode"

	"citebot/authors"
	"citebot/models"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"mvdan.cc/xurls/v2"
)

// Options are the fixed pieces of the announcement template.
type Options struct {
	// Mention is the project account referenced in every announcement,
	// e.g. "@rOpenSci".
	Mention string
	// TopicTag is the community hashtag, e.g. "#rstats".
	TopicTag string
	// DOIResolver is prefixed to DOIs to build the announcement URL.
	DOIResolver string
	// MaxLength is the platform's maximum post length in runes.
	MaxLength int
}

// Renderer composes the announcement text for one citation record.
type Renderer struct {
	opts   Options
	parser authors.Parser
}

func NewRenderer(opts Options, parser authors.Parser) *Renderer {
	return &Renderer{opts: opts, parser: parser}
}

var (
	urlPattern = xurls.Strict()
	titleCaser = cases.Title(language.Und)
)

// Render builds the announcement for record. handles maps package names to
// social handles for the cc suffix. Fails with a DataError when the citation
// yields no authors.
func (r *Renderer) Render(record models.CitationRecord, handles map[string]string) (string, error) {
	authorship, err := r.authorship(record.Citation)
	if err != nil {
		return "", err
	}

	parts := []string{
		strings.TrimSpace(fmt.Sprintf("New %s citation:", r.opts.Mention)),
		authorship,
		"used",
		r.opts.TopicTag,
		packagePhrase(record.Names()),
		snippet(record.ResearchSnippet),
		r.resolveURL(record),
		ccSuffix(record.Names(), handles),
	}

	text := strings.Join(lo.Compact(parts), " ")
	return truncate(text, r.opts.MaxLength), nil
}

// resolveURL picks the announcement URL: the resolved DOI when present,
// otherwise the first http(s) URL found in the citation text, otherwise
// nothing.
func (r *Renderer) resolveURL(record models.CitationRecord) string {
	if record.DOI != "" {
		doi := strings.NewReplacer(`"`, "", `\`, "").Replace(record.DOI)
		return r.opts.DOIResolver + doi
	}
	if url := urlPattern.FindString(record.Citation); strings.HasPrefix(url, "http") {
		return url
	}
	return ""
}

func (r *Renderer) authorship(citation string) (string, error) {
	extracted, err := r.parser.Parse(citation)
	if err != nil {
		return "", err
	}
	if len(extracted) == 0 {
		return "", &models.DataError{Msg: "no authors extracted from citation"}
	}

	switch len(extracted) {
	case 1:
		return capitalize(extracted[0].Family), nil
	case 2:
		return capitalize(extracted[0].Family) + " & " + capitalize(extracted[1].Family), nil
	default:
		return capitalize(extracted[0].Family) + " et al.", nil
	}
}

func capitalize(family string) string {
	return titleCaser.String(strings.ToLower(family))
}

// packagePhrase renders the subject packages as hashtags, plural-style when
// the record covers more than one package.
func packagePhrase(names []string) string {
	tags := lo.Map(names, func(name string, _ int) string {
		return "#" + name
	})
	if len(tags) > 1 {
		return "📦's " + strings.Join(tags, " ")
	}
	return "📦 " + strings.Join(tags, " ")
}

func snippet(researchSnippet string) string {
	if researchSnippet == "" {
		return "in their research"
	}
	return "in their work on " + researchSnippet
}

// ccSuffix renders "| cc @handle ..." for every package with a known handle,
// or nothing when no package matches.
func ccSuffix(names []string, handles map[string]string) string {
	var mentions []string
	for _, name := range names {
		if handle, ok := handles[name]; ok {
			mentions = append(mentions, "@"+handle)
		}
	}
	if len(mentions) == 0 {
		return ""
	}
	return "| cc " + strings.Join(mentions, " ")
}

// truncate collapses newlines to spaces and hard-truncates to max runes at a
// word boundary, never mid-word.
func truncate(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := max
	if !unicode.IsSpace(runes[cut]) {
		for cut > 0 && !unicode.IsSpace(runes[cut-1]) {
			cut--
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ")
}
