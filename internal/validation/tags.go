// Package validation contains input validation and normalization helpers.
package validation

import (
	"strings"
)

// MaxTags is the cap on tags attached to a board request.
const MaxTags = 10

// NormalizeTags turns an arbitrary decoded JSON value into at most MaxTags
// unique, non-empty lowercase slugs. Non-slice input yields an empty
// result; non-string elements are discarded. Each kept element is trimmed,
// stripped of a single leading '#', has internal whitespace runs collapsed
// to single hyphens, and is lowercased. Duplicates keep their first
// occurrence. The function is pure and idempotent.
func NormalizeTags(raw any) []string {
	var elems []string
	switch v := raw.(type) {
	case []string:
		elems = v
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				elems = append(elems, s)
			}
		}
	default:
		return nil
	}

	out := make([]string, 0, len(elems))
	seen := make(map[string]struct{}, len(elems))
	for _, e := range elems {
		slug := slugifyTag(e)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// slugifyTag cleans a single raw tag into its slug form, or "" if nothing
// survives cleaning.
func slugifyTag(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")
	s = strings.Join(strings.Fields(s), "-")
	return strings.ToLower(s)
}
