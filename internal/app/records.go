package app

import (
	"errors"
	"fmt"

	"apt_reviews/internal/domain"
)

// reviewBuilder resolves fields through the index and remembers every
// failure so one error can name all missing fields of a submission.
type reviewBuilder struct {
	ix       AnswerIndex
	errs     []error
	reported map[string]bool
}

func (b *reviewBuilder) field(name string, kind fieldKind) domain.RawAnswer {
	if spec, ok := fieldRegistry[name]; !ok || spec.kind != kind {
		b.errs = append(b.errs, fmt.Errorf("field registry: %s is not registered with kind %d", name, kind))
		return domain.RawAnswer{}
	}
	a, err := b.ix.Find(name)
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return a
}

// sub resolves one sub-answer of a composite question. The arity check
// runs once per question.
func (b *reviewBuilder) sub(name, sub string, kind fieldKind) (domain.RawAnswer, int) {
	if spec, ok := fieldRegistry[name]; !ok || spec.kind != kind {
		b.errs = append(b.errs, fmt.Errorf("field registry: %s is not registered with kind %d", name, kind))
		return domain.RawAnswer{}, 0
	}
	i, err := subIndex(name, sub)
	if err != nil {
		b.errs = append(b.errs, err)
		return domain.RawAnswer{}, 0
	}
	a, err := b.ix.composite(name)
	if err != nil {
		if !b.reported[name] {
			b.reported[name] = true
			b.errs = append(b.errs, err)
		}
		return domain.RawAnswer{}, i
	}
	return a, i
}

func (b *reviewBuilder) intField(name string) *int { return ToInt(b.field(name, kindInt)) }
func (b *reviewBuilder) boolField(name string) bool { return ToBoolean(b.field(name, kindBool)) }
func (b *reviewBuilder) scoreField(name string) int { return ToScore(b.field(name, kindScore)) }
func (b *reviewBuilder) textField(name string) *string { return SanitizeText(b.field(name, kindText)) }
func (b *reviewBuilder) durationField(name string) int { return ToDurationClass(b.field(name, kindDuration)) }
func (b *reviewBuilder) boolAt(name, sub string) bool { return ToBooleanAt(b.sub(name, sub, kindBool)) }
func (b *reviewBuilder) scoreAt(name, sub string) int { return ToScoreAt(b.sub(name, sub, kindScore)) }
func (b *reviewBuilder) labelAt(name, sub string) int { return ToScoreFromLabel(b.sub(name, sub, kindLabelScore)) }

// critterSolved is the year the pest problem was solved, -1 when blank.
func (b *reviewBuilder) critterSolved() *int {
	a := b.field("yearSolved", kindInt)
	if a.Blank() {
		n := -1
		return &n
	}
	return ToInt(a)
}

// BuildReview maps a submission's answers onto a review row. Ids are left
// for the caller. Every field is evaluated; the returned error joins all
// failures.
func BuildReview(ix AnswerIndex) (domain.Review, error) {
	b := &reviewBuilder{ix: ix, reported: make(map[string]bool)}
	r := domain.Review{
		Price:    b.intField("price"),
		LastYear: b.intField("lastYear"),
		Duration: b.durationField("duration"),

		Electricity: b.boolAt("includes", "electricity"),
		Internet:    b.boolAt("includes", "internet"),
		Furniture:   b.boolAt("includes", "furniture"),
		Heat:        b.boolAt("includes", "heat"),
		Water:       b.boolAt("includes", "water"),

		Bedbugs:       b.boolAt("critters", "bedbugs"),
		Cockroaches:   b.boolAt("critters", "cockroaches"),
		Ants:          b.boolAt("critters", "ants"),
		Mouses:        b.boolAt("critters", "mouses"),
		Rats:          b.boolAt("critters", "rats"),
		Wasps:         b.boolAt("critters", "wasps"),
		CritterSolved: b.critterSolved(),

		Mold:     b.boolAt("humidity", "mold"),
		Moisture: b.boolAt("humidity", "moisture"),
		Leak:     b.boolAt("humidity", "leak"),

		Lamination:   b.boolAt("thermal", "lamination"),
		Frost:        b.boolAt("thermal", "frost"),
		Condensation: b.boolAt("thermal", "condensation"),

		Sound:      b.scoreField("sound"),
		Light:      b.scoreField("light"),
		Interior:   b.scoreField("interior"),
		Outdoor:    b.labelAt("inside", "outdoor"),
		Garden:     b.labelAt("inside", "garden"),
		CommonPart: b.labelAt("inside", "common_part"),

		Noise:               b.boolField("noise"),
		PublicTransport:     b.boolField("publicTransport"),
		NeighborhoodComment: b.textField("noiseComment"),
		NeighborhoodNote:    b.scoreField("neighborhoodNote"),
		NeighborhoodSafety:  b.scoreField("safety"),
		Accessibility:       b.scoreField("accessibility"),
		Parking:             b.boolField("parking"),
		SnowRemoval:         b.boolField("snowRemoval"),

		OwnerRelationship:  b.scoreAt("owner", "relationship"),
		OwnerCommunication: b.scoreAt("owner", "communication"),
		OwnerReactivity:    b.scoreAt("owner", "reactivity"),

		GlobalComment: b.textField("globalComment"),
	}
	if len(b.errs) > 0 {
		return domain.Review{}, errors.Join(b.errs...)
	}
	return r, nil
}

// SuiteDoor returns the unit named by the submission, nil when blank.
func SuiteDoor(ix AnswerIndex) (*string, error) {
	a, err := ix.Find("apt")
	if err != nil {
		return nil, err
	}
	if a.Blank() || a.IsComposite() {
		return nil, nil
	}
	door := a.Text()
	return &door, nil
}

func BuildApartment(addr domain.NormalizedAddress, image string) domain.Apartment {
	return domain.Apartment{
		StreetNumber: addr.StreetNumber,
		Route:        addr.Route,
		City:         addr.City,
		Province:     addr.Province,
		PostalCode:   addr.PostalCode,
		Country:      addr.Country,
		Lat:          addr.Location.Lat,
		Lng:          addr.Location.Lng,
		Image:        image,
	}
}

func BuildSuite(aptID int64, door *string) domain.Suite {
	return domain.Suite{ApartmentID: aptID, Door: door}
}
