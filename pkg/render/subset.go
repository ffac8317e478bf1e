package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FieldSubset restricts rendering to fields matching any of the listed
// sections, groups or tags. Matching is case-insensitive. The zero value
// renders everything.
type FieldSubset struct {
	Sections []string
	Groups   []string
	Tags     []string
}

// IsZero reports whether no filter is set.
func (s FieldSubset) IsZero() bool {
	return newSubsetFilter(s).empty()
}

// ApplySubset returns a filtered copy of the section tree. Containers left
// without any field are pruned so renderers do not emit empty wrappers. The
// input is never modified.
func ApplySubset(sections []model.Node, subset FieldSubset) []model.Node {
	filter := newSubsetFilter(subset)
	if filter.empty() {
		return sections
	}

	out := make([]model.Node, 0, len(sections))
	for _, section := range sections {
		if kept, ok := filter.prune(section); ok {
			out = append(out, kept)
		}
	}
	return out
}

type tokenSet map[string]bool

func newTokenSet(values []string) tokenSet {
	set := make(tokenSet, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			set[token] = true
		}
	}
	return set
}

func (s tokenSet) has(value string) bool {
	token := normaliseToken(value)
	return token != "" && s[token]
}

type subsetFilter struct {
	sections tokenSet
	groups   tokenSet
	tags     tokenSet
}

func newSubsetFilter(subset FieldSubset) subsetFilter {
	return subsetFilter{
		sections: newTokenSet(subset.Sections),
		groups:   newTokenSet(subset.Groups),
		tags:     newTokenSet(subset.Tags),
	}
}

func (f subsetFilter) empty() bool {
	return len(f.sections) == 0 && len(f.groups) == 0 && len(f.tags) == 0
}

func (f subsetFilter) prune(node model.Node) (model.Node, bool) {
	kept := node
	kept.Children = nil
	for _, child := range node.Children {
		switch {
		case child.Node != nil:
			if nested, ok := f.prune(*child.Node); ok {
				kept.Children = append(kept.Children, model.Child{Node: &nested})
			}
		case child.Field != nil:
			if f.matches(*child.Field) {
				kept.Children = append(kept.Children, child)
			}
		}
	}
	return kept, len(kept.Children) > 0
}

func (f subsetFilter) matches(field model.FieldSnapshot) bool {
	if f.groups.has(field.GroupID) || f.sections.has(field.SectionID) {
		return true
	}
	for _, tag := range fieldTags(field.Context["tags"]) {
		if f.tags.has(tag) {
			return true
		}
	}
	return false
}

// fieldTags reads a "tags" context entry: a string list, or a string holding
// a comma separated list or a JSON array.
func fieldTags(raw any) []string {
	switch tags := raw.(type) {
	case nil:
		return nil
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			out = append(out, fmt.Sprint(tag))
		}
		return out
	case string:
		tags = strings.TrimSpace(tags)
		if strings.HasPrefix(tags, "[") {
			var parsed []any
			if err := json.Unmarshal([]byte(tags), &parsed); err == nil {
				return fieldTags(parsed)
			}
		}
		return strings.Split(tags, ",")
	default:
		return []string{fmt.Sprint(tags)}
	}
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
