package app

import (
	"fmt"

	"apt_reviews/internal/domain"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindBool
	kindScore
	kindLabelScore
	kindDuration
)

type fieldSpec struct {
	kind fieldKind
	// subs names the sub-answers of a composite question, in the order
	// the form renders them.
	subs []string
}

/********** field registry (single source of truth) **********/

var fieldRegistry = map[string]fieldSpec{
	"address":          {kind: kindText},
	"apt":              {kind: kindText},
	"price":            {kind: kindInt},
	"lastYear":         {kind: kindInt},
	"duration":         {kind: kindDuration},
	"includes":         {kind: kindBool, subs: []string{"electricity", "internet", "furniture", "heat", "water"}},
	"critters":         {kind: kindBool, subs: []string{"bedbugs", "cockroaches", "ants", "mouses", "rats", "wasps"}},
	"yearSolved":       {kind: kindInt},
	"humidity":         {kind: kindBool, subs: []string{"mold", "moisture", "leak"}},
	"thermal":          {kind: kindBool, subs: []string{"lamination", "frost", "condensation"}},
	"sound":            {kind: kindScore},
	"light":            {kind: kindScore},
	"interior":         {kind: kindScore},
	"inside":           {kind: kindLabelScore, subs: []string{"outdoor", "garden", "common_part"}},
	"noise":            {kind: kindBool},
	"publicTransport":  {kind: kindBool},
	"noiseComment":     {kind: kindText},
	"neighborhoodNote": {kind: kindScore},
	"safety":           {kind: kindScore},
	"accessibility":    {kind: kindScore},
	"parking":          {kind: kindBool},
	"snowRemoval":      {kind: kindBool},
	"owner":            {kind: kindScore, subs: []string{"relationship", "communication", "reactivity"}},
	"globalComment":    {kind: kindText},
}

func init() {
	if err := validateRegistry(fieldRegistry); err != nil {
		panic(err)
	}
}

func validateRegistry(reg map[string]fieldSpec) error {
	for name, spec := range reg {
		seen := make(map[string]struct{}, len(spec.subs))
		for _, sub := range spec.subs {
			if sub == "" {
				return fmt.Errorf("field registry: %s has an empty sub-field name", name)
			}
			if _, dup := seen[sub]; dup {
				return fmt.Errorf("field registry: %s lists %s twice", name, sub)
			}
			seen[sub] = struct{}{}
		}
		if spec.subs != nil && len(spec.subs) == 0 {
			return fmt.Errorf("field registry: composite %s has no sub-fields", name)
		}
		if spec.kind == kindLabelScore && len(spec.subs) == 0 {
			return fmt.Errorf("field registry: label scale %s must be composite", name)
		}
	}
	return nil
}

// subIndex returns the position of sub inside the composite question name.
func subIndex(name, sub string) (int, error) {
	spec, ok := fieldRegistry[name]
	if !ok {
		return 0, fmt.Errorf("field registry: unknown field %q", name)
	}
	for i, s := range spec.subs {
		if s == sub {
			return i, nil
		}
	}
	return 0, fmt.Errorf("field registry: %s has no sub-field %q", name, sub)
}

// FindAnswer scans the answers for the first entry named fieldName.
// A missing field is an error; callers must not default it.
func FindAnswer(answers domain.AnswerSet, fieldName string) (domain.RawAnswer, error) {
	for _, e := range answers {
		if e.Name == fieldName {
			return e.Answer, nil
		}
	}
	return domain.RawAnswer{}, fmt.Errorf("%w: %s", domain.ErrMissingField, fieldName)
}

// AnswerIndex is a name lookup built once per submission. The first entry
// with a given name wins, same as FindAnswer.
type AnswerIndex struct {
	byName map[string]domain.RawAnswer
}

func NewAnswerIndex(answers domain.AnswerSet) AnswerIndex {
	ix := AnswerIndex{byName: make(map[string]domain.RawAnswer, len(answers))}
	for _, e := range answers {
		if _, ok := ix.byName[e.Name]; ok {
			continue
		}
		ix.byName[e.Name] = e.Answer
	}
	return ix
}

func (ix AnswerIndex) Find(fieldName string) (domain.RawAnswer, error) {
	a, ok := ix.byName[fieldName]
	if !ok {
		return domain.RawAnswer{}, fmt.Errorf("%w: %s", domain.ErrMissingField, fieldName)
	}
	return a, nil
}

// composite resolves a composite question and checks it carries every
// sub-answer the registry names. An absent answer passes the check.
func (ix AnswerIndex) composite(name string) (domain.RawAnswer, error) {
	a, err := ix.Find(name)
	if err != nil {
		return a, err
	}
	if !a.Present() {
		return a, nil
	}
	want := len(fieldRegistry[name].subs)
	if !a.IsComposite() || len(a.Subs()) < want {
		return a, fmt.Errorf("%w: %s has %d of %d", domain.ErrShortComposite, name, len(a.Subs()), want)
	}
	return a, nil
}
