package servicetype

import (
	"strings"
	"unicode"
)

// Code is a closed-set label for the business offering a submission relates to.
type Code string

const (
	ExpressAirFreight    Code = "express_air_freight"
	DeferredAirFreight   Code = "deferred_air_freight"
	LclOceanFreight      Code = "lcl_ocean_freight"
	FclOceanFreight      Code = "fcl_ocean_freight"
	CarAuctionTransport  Code = "car_auction_transport"
	InTransitCargo       Code = "in_transit_cargo"
	SmartStorage         Code = "smart_storage"
	CargoConsolidation   Code = "cargo_consolidation"
	InternationalCourier Code = "international_courier"
	TruckingServices     Code = "trucking_services"
	Warehousing          Code = "warehousing"
	ProcurementSourcing  Code = "procurement_sourcing"
	CustomsClearance     Code = "customs_clearance"
	CargoInsurance       Code = "cargo_insurance"

	// GeneralContact is returned whenever no rule matches.
	GeneralContact Code = "general_contact"
)

// Codes lists every valid code, fallback last.
var Codes = []Code{
	ExpressAirFreight,
	DeferredAirFreight,
	LclOceanFreight,
	FclOceanFreight,
	CarAuctionTransport,
	InTransitCargo,
	SmartStorage,
	CargoConsolidation,
	InternationalCourier,
	TruckingServices,
	Warehousing,
	ProcurementSourcing,
	CustomsClearance,
	CargoInsurance,
	GeneralContact,
}

func (c Code) Valid() bool {
	for _, known := range Codes {
		if c == known {
			return true
		}
	}
	return false
}

func (c Code) String() string {
	return string(c)
}

// Title renders the code the way it shows up in CRM tags and opportunity
// names, ex. "express_air_freight" -> "Express Air Freight".
func (c Code) Title() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Parse returns the code for s and whether s was a known code.
func Parse(s string) (Code, bool) {
	code := Code(strings.ToLower(strings.TrimSpace(s)))
	if !code.Valid() {
		return GeneralContact, false
	}
	return code, true
}
