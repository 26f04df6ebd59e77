package domain

import "time"

// Review is one processed submission. ApartmentID is always set; SuiteID
// is nil unless the submission named a unit.
type Review struct {
	ID          int64  `json:"id"`
	ApartmentID int64  `json:"apt_id"`
	SuiteID     *int64 `json:"suite_id"`

	Price    *int `json:"price"`
	LastYear *int `json:"last_year"`
	Duration int  `json:"duration"` // 1: < 1 year, 2: 1 to 3 years, 3: > 3 years

	// includes
	Electricity bool `json:"electricity"`
	Internet    bool `json:"internet"`
	Furniture   bool `json:"furniture"`
	Heat        bool `json:"heat"`
	Water       bool `json:"water"`

	// critters
	Bedbugs       bool `json:"bedbugs"`
	Cockroaches   bool `json:"cockroaches"`
	Ants          bool `json:"ants"`
	Mouses        bool `json:"mouses"`
	Rats          bool `json:"rats"`
	Wasps         bool `json:"wasps"`
	CritterSolved *int `json:"critter_solved"` // -1 when the question was left blank

	// humidity
	Mold     bool `json:"mold"`
	Moisture bool `json:"moisture"`
	Leak     bool `json:"leak"`

	// thermal
	Lamination   bool `json:"lamination"`
	Frost        bool `json:"frost"`
	Condensation bool `json:"condensation"`

	Sound      int `json:"sound"`
	Light      int `json:"light"`
	Interior   int `json:"interior"`
	Outdoor    int `json:"outdoor"`
	Garden     int `json:"garden"`
	CommonPart int `json:"common_part"`

	Noise               bool    `json:"noise"`
	PublicTransport     bool    `json:"public_transport"`
	NeighborhoodComment *string `json:"neighborhood_comment"`
	NeighborhoodNote    int     `json:"neighborhood_note"`
	NeighborhoodSafety  int     `json:"neighborhood_safety"`
	Accessibility       int     `json:"accessibility"`
	Parking             bool    `json:"parking"`
	SnowRemoval         bool    `json:"snow_removal"`

	OwnerRelationship  int `json:"owner_relationship"`
	OwnerCommunication int `json:"owner_communication"`
	OwnerReactivity    int `json:"owner_reactivity"`

	GlobalComment *string   `json:"global_comment"`
	CreatedAt     time.Time `json:"created_at"`
}
