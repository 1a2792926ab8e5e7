package permissions

import (
	"context"
	"regexp"
	"strings"

	"github.com/inkwell/inkwell/pkg/apperr"
	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/store"
)

// Tag tokens are runs of word characters, Unicode letters and digits
// included; everything else is a separator.
var tagSplit = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// normalizeTagLine turns a freeform tag line into the canonical tag set:
// tokens split on non-word runs, empties dropped, duplicates collapsed
// case-insensitively with the first occurrence winning, names uppercased.
// Order of first appearance is preserved.
func normalizeTagLine(line string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, tok := range tagSplit.Split(line, -1) {
		if tok == "" {
			continue
		}
		name := strings.ToUpper(tok)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// normalizeTagNames applies the same normalization to an already-split list.
func normalizeTagNames(tags []string) []string {
	return normalizeTagLine(strings.Join(tags, " "))
}

// resolveTags maps a tag line to tag rows, reusing existing tags by
// case-insensitive name and creating the rest. Two articles tagged "Go" and
// "GO" end up sharing one row.
func resolveTags(ctx context.Context, s store.Store, line string) ([]*models.Tag, error) {
	names := normalizeTagLine(line)
	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.FindTagByName(ctx, name)
		if err != nil {
			return nil, apperr.Unavailable("tag lookup failed", err)
		}
		if tag == nil {
			tag = &models.Tag{Name: name}
			if err := s.CreateTag(ctx, tag); err != nil {
				return nil, apperr.Unavailable("tag creation failed", err)
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
