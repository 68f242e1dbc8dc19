package luaudoc

import (
	"strings"

	"github.com/arjunmahishi/luaudoc/types"
)

// applyInheritDocs fills symbols carrying @inheritDoc from their target in
// the same module. Only empty parts are filled.
func applyInheritDocs(symbols []types.Symbol) {
	index := make(map[string]int, len(symbols))
	for i, s := range symbols {
		if _, ok := index[s.QualifiedName]; !ok {
			index[s.QualifiedName] = i
		}
	}

	for i := range symbols {
		symbol := &symbols[i]
		ref := inheritTarget(symbol.Docs.Tags)
		if ref == "" {
			continue
		}
		targetIdx, ok := lookupInheritTarget(index, symbol, ref)
		if !ok || targetIdx == i {
			continue
		}
		target := symbols[targetIdx]

		if symbol.Docs.DescriptionMarkdown == "" && target.Docs.DescriptionMarkdown != "" {
			symbol.Docs.DescriptionMarkdown = target.Docs.DescriptionMarkdown
			symbol.Docs.Summary = target.Docs.Summary
		}
		if onlyInheritTag(symbol.Docs.Tags) && len(target.Docs.Tags) > 0 {
			tags := make([]types.Tag, 0, len(target.Docs.Tags)+1)
			tags = append(tags, target.Docs.Tags...)
			symbol.Docs.Tags = append(tags, symbol.Docs.Tags...)
		}
		if symbol.Types.Structured.IsZero() && !target.Types.Structured.IsZero() {
			symbol.Types = target.Types
		}
	}
}

func inheritTarget(tags []types.Tag) string {
	for _, t := range tags {
		if t.Name != "inheritDoc" {
			continue
		}
		if v, ok := t.Value.(string); ok {
			return v
		}
	}
	return ""
}

func onlyInheritTag(tags []types.Tag) bool {
	for _, t := range tags {
		if t.Name != "inheritDoc" {
			return false
		}
	}
	return true
}

// lookupInheritTarget resolves ref as a qualified name, then relative to the
// owner of symbol.
func lookupInheritTarget(index map[string]int, symbol *types.Symbol, ref string) (int, bool) {
	if i, ok := index[ref]; ok {
		return i, true
	}

	owner := symbol.QualifiedName
	sep := strings.LastIndexAny(owner, ".:")
	if sep == -1 {
		return 0, false
	}
	owner = owner[:sep]
	for _, join := range []string{".", ":"} {
		if i, ok := index[owner+join+ref]; ok {
			return i, true
		}
	}
	return 0, false
}
