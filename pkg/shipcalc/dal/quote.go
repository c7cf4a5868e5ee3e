package dal

// Coordinates defines a resolved geographic position
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Tier defines the service level of a quote
type Tier string

const (
	TierBasic             Tier = "basic"
	TierFurniture         Tier = "furniture"
	TierFurnitureAssembly Tier = "furniture_assembly"
)

// Tiers lists every known service tier
var Tiers = []Tier{TierBasic, TierFurniture, TierFurnitureAssembly}

// Valid reports whether t is one of the known tiers
func (t Tier) Valid() bool {
	for _, known := range Tiers {
		if t == known {
			return true
		}
	}
	return false
}

// QuoteRequest defines the input of a single price calculation
type QuoteRequest struct {
	DestinationAddress string
	Floors             int
	Extreme            bool
	Transfer           bool
	RemoveOld          bool
	Tier               Tier
}

// QuoteBody defines the HTTP request body.
// Destination, RemoveOld and Service are the field names the old web form
// posted; they are only consulted when the primary field is missing.
type QuoteBody struct {
	Address    *string `json:"address,omitempty"`
	Floors     *int    `json:"floors,omitempty"`
	Extreme    *bool   `json:"extreme,omitempty"`
	Transfer   *bool   `json:"transfer,omitempty"`
	OldRemoval *bool   `json:"oldRemoval,omitempty"`
	Tier       *string `json:"tier,omitempty"`

	Destination *string `json:"destination,omitempty"`
	RemoveOld   *bool   `json:"removeOld,omitempty"`
	Service     *string `json:"service,omitempty"`
}

// Request converts the body into a QuoteRequest, applying defaults
func (b QuoteBody) Request() QuoteRequest {
	return QuoteRequest{
		DestinationAddress: firstString(b.Address, b.Destination),
		Floors:             intOr(b.Floors, 0),
		Extreme:            boolOr(b.Extreme),
		Transfer:           boolOr(b.Transfer),
		RemoveOld:          boolOr(b.OldRemoval, b.RemoveOld),
		Tier:               Tier(firstString(b.Tier, b.Service)),
	}
}

// Breakdown defines the itemized cost of a quote
type Breakdown struct {
	ShipCost     int `json:"shipCost"`
	FloorCost    int `json:"floorCost"`
	ExtremeCost  int `json:"extremeCost"`
	TransferCost int `json:"transferCost"`
	OldCost      int `json:"oldCost"`
	Total        int `json:"total"`
}

// QuoteResult defines an HTTP response struct
type QuoteResult struct {
	KM        float64   `json:"km"`
	Breakdown Breakdown `json:"breakdown"`
}

// ErrorResponse defines the HTTP error body
type ErrorResponse struct {
	Error string `json:"error"`
}

func firstString(vals ...*string) string {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return ""
}

func boolOr(vals ...*bool) bool {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return false
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
