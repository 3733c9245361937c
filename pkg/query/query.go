// Package query turns sparse item attributes into ranked marketplace search
// queries, most specific first.
package query

import (
	"slices"
	"strings"
	"unicode"

	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Candidate priorities. Gaps leave room for refinement rules.
const (
	PriorityBrandModel  = 10
	PriorityBrand       = 20
	PriorityModel       = 30
	PriorityDescriptive = 40
	PriorityRefined     = 45
	PriorityCategory    = 50
)

// Build returns the search candidates for attrs ordered by priority. The
// result is never empty: the broadest candidate is the bare category, or the
// configured fallback query when the category itself is generic. Candidates
// never consist solely of generic tokens.
func Build(attrs *domain.ItemAttributes, t *tables.QueryTables) []domain.SearchQueryCandidate {
	f := newFilter(t)

	category := f.clean(attrs.Category)
	brand := f.clean(attrs.Brand)
	model := f.clean(attrs.Model)

	var out []domain.SearchQueryCandidate
	add := func(kind domain.QueryKind, priority int, parts ...string) {
		text := compose(parts...)
		if text == "" {
			return
		}
		out = append(out, domain.SearchQueryCandidate{
			Text:     text,
			Priority: priority,
			Kind:     kind,
		})
	}

	if brand != "" && model != "" {
		add(domain.QueryBrandModel, PriorityBrandModel, brand, model, category)
	}
	if brand != "" {
		add(domain.QueryBrand, PriorityBrand, brand, category)
	}
	if model != "" && len([]rune(model)) >= t.MinModelLength {
		add(domain.QueryModel, PriorityModel, model, category)
	}
	if category != "" {
		if enhanced := f.enhanced(attrs, category); enhanced != category {
			add(domain.QueryDescriptive, PriorityDescriptive, enhanced)
		}
		if suffix, ok := refinement(attrs, t.Refinements); ok {
			add(domain.QueryCategoryRefined, PriorityRefined, category, f.clean(suffix))
		}
		add(domain.QueryCategoryFallback, PriorityCategory, category)
	} else {
		add(domain.QueryCategoryFallback, PriorityCategory, t.FallbackQuery)
	}

	slices.SortStableFunc(out, func(a, b domain.SearchQueryCandidate) int {
		return a.Priority - b.Priority
	})

	return dedupe(out)
}

// enhanced builds category + first distinctive material + style + first
// non-generic feature, skipping tokens the query already has.
func (f *filter) enhanced(attrs *domain.ItemAttributes, category string) string {
	parts := []string{category}
	have := tokenSet(category)

	if m := f.firstNew(attrs.Materials, have, nil); m != "" {
		parts = append(parts, m)
		addTokens(have, m)
	}
	if s := f.clean(attrs.Style); s != "" {
		parts = append(parts, s)
		addTokens(have, s)
	}
	if kf := f.firstNew(attrs.KeyFeatures, have, f.genericFeatures); kf != "" {
		parts = append(parts, kf)
	}

	return compose(parts...)
}

// firstNew returns the first cleaned value that is not a generic phrase and
// contributes at least one token not already present.
func (f *filter) firstNew(values []string, have map[string]struct{}, skip []string) string {
	for _, v := range values {
		if slices.Contains(skip, tables.Normalize(v)) {
			continue
		}
		c := f.clean(v)
		if c == "" {
			continue
		}
		for _, tok := range strings.Fields(c) {
			if _, ok := have[tok]; !ok {
				return c
			}
		}
	}
	return ""
}

// refinement returns the suffix of the first table row whose category
// keyword matches and whose feature keyword, if any, appears in the item's
// features, materials, style or description.
func refinement(attrs *domain.ItemAttributes, rows []tables.Refinement) (string, bool) {
	category := tables.Normalize(attrs.Category)

	features := strings.Join(attrs.KeyFeatures, " ") + " " +
		strings.Join(attrs.Materials, " ") + " " +
		attrs.Style + " " + attrs.Description
	for _, r := range rows {
		if !strings.Contains(category, tables.Normalize(r.CategoryKeyword)) {
			continue
		}
		if r.FeatureKeyword != "" {
			if _, ok := tables.ContainsAny(features, []string{r.FeatureKeyword}); !ok {
				continue
			}
		}
		return r.Suffix, true
	}
	return "", false
}

// compose joins parts into one query, dropping repeated tokens.
func compose(parts ...string) string {
	seen := make(map[string]struct{})
	var toks []string
	for _, p := range parts {
		for _, tok := range strings.Fields(p) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			toks = append(toks, tok)
		}
	}
	return strings.Join(toks, " ")
}

func dedupe(in []domain.SearchQueryCandidate) []domain.SearchQueryCandidate {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, c := range in {
		if _, ok := seen[c.Text]; ok {
			continue
		}
		seen[c.Text] = struct{}{}
		out = append(out, c)
	}
	return out
}

func tokenSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	addTokens(m, s)
	return m
}

func addTokens(m map[string]struct{}, s string) {
	for _, tok := range strings.Fields(s) {
		m[tok] = struct{}{}
	}
}

// filter strips generic and placeholder tokens.
type filter struct {
	phrases         []string
	words           map[string]struct{}
	genericFeatures []string
}

func newFilter(t *tables.QueryTables) *filter {
	f := &filter{words: make(map[string]struct{})}
	for _, g := range t.GenericTokens {
		g = tables.Normalize(g)
		if strings.Contains(g, " ") {
			f.phrases = append(f.phrases, g)
			continue
		}
		f.words[g] = struct{}{}
	}
	for _, g := range t.GenericFeatures {
		f.genericFeatures = append(f.genericFeatures, tables.Normalize(g))
	}
	return f
}

// clean lowercases s, removes generic phrases and tokens, and strips
// punctuation around words. It returns "" when nothing meaningful remains.
func (f *filter) clean(s string) string {
	s = tables.Normalize(s)
	for _, p := range f.phrases {
		s = strings.ReplaceAll(s, p, " ")
	}

	var toks []string
	for _, tok := range strings.Fields(s) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '/'
		})
		if tok == "" {
			continue
		}
		if _, generic := f.words[tok]; generic {
			continue
		}
		toks = append(toks, tok)
	}
	return strings.Join(toks, " ")
}

// Generic reports whether text consists solely of generic tokens.
func Generic(text string, t *tables.QueryTables) bool {
	return newFilter(t).clean(text) == ""
}
