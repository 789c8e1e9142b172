// Package selection turns the user's sparse dataset toggles into the set of
// datasets an aggregate is computed over.
package selection

import "github.com/justinphan3110cais/cais-ai-dashboard/internal/models"

// Set is an ordered set of dataset ids. Order follows the catalog.
type Set struct {
	ids   []string
	index map[string]bool
}

func newSet(ids []string) Set {
	s := Set{ids: make([]string, 0, len(ids)), index: make(map[string]bool, len(ids))}
	for _, id := range ids {
		if s.index[id] {
			continue
		}
		s.index[id] = true
		s.ids = append(s.ids, id)
	}
	return s
}

// IDs returns the member ids in catalog order.
func (s Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of members.
func (s Set) Len() int { return len(s.ids) }

// Contains reports whether id is a member.
func (s Set) Contains(id string) bool { return s.index[id] }

// Equal reports whether both sets hold the same ids in the same order.
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for i := range s.ids {
		if s.ids[i] != other.ids[i] {
			return false
		}
	}
	return true
}

// Filter returns the datasets that are members, in input order.
func (s Set) Filter(datasets []models.Dataset) []models.Dataset {
	var out []models.Dataset
	for _, d := range datasets {
		if s.index[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

// included returns the catalog ids toggled on, ignoring ids not in the catalog.
func included(sel models.Selection, allIDs []string) []string {
	var ids []string
	for _, id := range allIDs {
		if sel[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// EffectiveSet returns the datasets an aggregate covers. Selecting nothing is
// the same as selecting everything: both yield every catalog id. Any other
// selection yields exactly the toggled-on catalog ids.
func EffectiveSet(sel models.Selection, allIDs []string) Set {
	all := newSet(allIDs)
	inc := included(sel, all.ids)
	if len(inc) == 0 || len(inc) == all.Len() {
		return all
	}
	return newSet(inc)
}

// IsIndexMode reports whether sel is the unfiltered view, i.e. either no
// dataset or every dataset is toggled on.
func IsIndexMode(sel models.Selection, allIDs []string) bool {
	all := newSet(allIDs)
	n := len(included(sel, all.ids))
	return n == 0 || n == all.Len()
}

// Parse builds a Selection from a list of ids as typed on a command line
// or query string.
func Parse(ids []string) models.Selection {
	sel := make(models.Selection, len(ids))
	for _, id := range ids {
		if id != "" {
			sel[id] = true
		}
	}
	return sel
}
