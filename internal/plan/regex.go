package plan

import (
	"fmt"
	"regexp"

	"github.com/nerrad567/hub-renamer/internal/registry"
	"github.com/nerrad567/hub-renamer/internal/rename"
)

// Match returns a row for every registry entry whose entity id matches
// the search pattern, with no targets set. Used for listings.
func Match(entries []registry.Entry, search string) ([]rename.Row, error) {
	re, err := regexp.Compile(search)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPattern, err)
	}

	var rows []rename.Row
	for _, e := range entries {
		if !re.MatchString(e.EntityID) {
			continue
		}
		rows = append(rows, rename.Row{
			OldEntityID:     e.EntityID,
			OldFriendlyName: e.FriendlyName,
		})
	}
	return rows, nil
}

// FromRegex derives a rename plan from the registry: every entry whose
// entity id matches the search pattern gets a new_entity_id produced by
// regex substitution ($1-style capture references allowed in replace).
//
// Rows whose derived id equals the current id are still included; the
// resolver classifies them as no-ops, which keeps the preview honest
// about what the pattern matched.
func FromRegex(entries []registry.Entry, search, replace string) ([]rename.Row, error) {
	re, err := regexp.Compile(search)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPattern, err)
	}

	var rows []rename.Row
	for _, e := range entries {
		if !re.MatchString(e.EntityID) {
			continue
		}
		rows = append(rows, rename.Row{
			OldEntityID:     e.EntityID,
			NewEntityID:     re.ReplaceAllString(e.EntityID, replace),
			OldFriendlyName: e.FriendlyName,
		})
	}
	return rows, nil
}
