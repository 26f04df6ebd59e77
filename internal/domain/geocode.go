package domain

const GeocodeOK = "OK"

type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type Geometry struct {
	Location Coords `json:"location"`
}

type GeocodeCandidate struct {
	AddressComponents []AddressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
	Geometry          Geometry           `json:"geometry"`
}

// GeocodeResult mirrors the geocoding API envelope. A Status other than
// GeocodeOK is a normal answer, not an error.
type GeocodeResult struct {
	Status  string             `json:"status"`
	Results []GeocodeCandidate `json:"results"`
}
