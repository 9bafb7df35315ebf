package recommendation

import (
	"strings"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
)

// ConcernSet is the normalized set of quiz concerns the rules work on.
// Unknown labels are dropped and "nessuna" empties the set.
type ConcernSet map[string]struct{}

func NewConcernSet(concerns []string) ConcernSet {
	set := make(ConcernSet, len(concerns))
	for _, c := range concerns {
		if c == domain.ConcernNone {
			return ConcernSet{}
		}
		if domain.IsConcern(c) {
			set[c] = struct{}{}
		}
	}
	return set
}

func (s ConcernSet) Has(concern string) bool {
	_, ok := s[concern]
	return ok
}

func (s ConcernSet) HasAny(concerns ...string) bool {
	for _, c := range concerns {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// Ordered returns the concerns in quiz vocabulary order.
func (s ConcernSet) Ordered() []string {
	out := make([]string, 0, len(s))
	for _, c := range domain.Concerns {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

var tagReplacer = strings.NewReplacer(
	"à", "a", "è", "e", "é", "e", "ì", "i", "ò", "o", "ù", "u",
	" ", "_", "-", "_",
)

// normalizeTag lets free-text catalog labels like "Pori dilatati" or
// "elasticità" match the quiz vocabulary.
func normalizeTag(s string) string {
	return tagReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// treats reports whether the product lists any of the given tags among its
// concerns_treated.
func treats(p domain.Product, tags []string) bool {
	if len(tags) == 0 {
		return false
	}
	for _, c := range p.ConcernsTreated {
		nc := normalizeTag(c)
		for _, t := range tags {
			if nc == t {
				return true
			}
		}
	}
	return false
}

// suitsSkin reports whether the product can be used on skinType and whether
// it names skinType explicitly. An empty skinType accepts every product.
func suitsSkin(p domain.Product, skinType string) (ok bool, exact bool) {
	if p.SuitsAllSkinTypes() {
		return true, false
	}
	if skinType == "" {
		return true, false
	}
	for _, st := range p.SkinTypes {
		if normalizeTag(st) == skinType {
			return true, true
		}
	}
	return false, false
}
