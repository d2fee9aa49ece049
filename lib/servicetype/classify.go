package servicetype

import (
	"net/url"
	"strings"
)

// Rule maps a set of keyword groups to a code. Every group must have at
// least one of its keywords present in the text for the rule to match.
type Rule struct {
	Code    Code
	Require [][]string
}

func (r Rule) matches(text string) bool {
	if len(r.Require) == 0 {
		return false
	}
	for _, group := range r.Require {
		found := false
		for _, keyword := range group {
			if strings.Contains(text, keyword) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var (
	air   = []string{"air", "aérea", "aerea"}
	ocean = []string{"ocean", "marítima", "maritima"}
)

// Rules is evaluated top to bottom, the first match wins. Compound rules
// must stay above the broad ones they would otherwise be shadowed by.
var Rules = []Rule{
	{ExpressAirFreight, [][]string{{"express"}, air}},
	{DeferredAirFreight, [][]string{{"deferred", "diferid"}, air}},
	{LclOceanFreight, [][]string{{"lcl", "carga parcial"}, ocean}},
	{FclOceanFreight, [][]string{{"fcl", "contenedor completo"}, ocean}},
	{CarAuctionTransport, [][]string{{"car auction", "subasta"}}},
	{InTransitCargo, [][]string{{"in transit", "in-transit", "en tránsito", "en transito"}}},
	{SmartStorage, [][]string{{"smart storage"}}},
	{CargoConsolidation, [][]string{{"consolidation", "consolidado", "consolidación"}}},
	{InternationalCourier, [][]string{{"courier", "paqueteria", "paquetería"}}},
	{TruckingServices, [][]string{{"trucking", "camión", "camion", "terrestre"}}},
	{Warehousing, [][]string{{"warehous", "almacén", "almacen"}}},
	{ProcurementSourcing, [][]string{{"procurement", "sourcing", "compras internacionales"}}},
	{CustomsClearance, [][]string{{"customs", "aduana", "despacho aduanal", "clearance"}}},
	{CargoInsurance, [][]string{{"insurance", "seguro de carga", "seguro"}}},
}

// Match runs the rule list against a single piece of text.
func Match(text string) (Code, bool) {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return GeneralContact, false
	}
	for _, r := range Rules {
		if r.matches(text) {
			return r.Code, true
		}
	}
	return GeneralContact, false
}

// Context is everything known about where a form lives. Any field may be
// empty.
type Context struct {
	FormID        string
	FormClassList []string
	ModalText     string
	PageURL       string
	PageText      string
}

var identifierFolder = strings.NewReplacer("-", " ", "_", " ", "/", " ")

// identifiers (ids, class names, url paths) are written like "express-air"
// or "express_air_freight", folding the separators lets them match the same
// rules as prose.
func foldIdentifier(s string) string {
	return identifierFolder.Replace(strings.ToLower(s))
}

func urlText(raw string) string {
	link, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || link.Host == "" {
		return foldIdentifier(raw)
	}
	// the hostname is left out, "jetcargo.us" would otherwise be searched
	// on every page.
	return foldIdentifier(link.Path + " " + link.RawQuery + " " + link.Fragment)
}

func (c Context) sources() []string {
	return []string{
		foldIdentifier(c.FormID),
		foldIdentifier(strings.Join(c.FormClassList, " ")),
		c.ModalText,
		urlText(c.PageURL),
		c.PageText,
	}
}

// Classify returns the code of the first rule that matches any context
// source. Rule order decides between rules matching different sources, for
// a single rule the sources are checked in order: form id, class list,
// modal text, page url, page text. It never fails, an empty or
// unrecognized context gives GeneralContact.
func Classify(ctx Context) Code {
	var sources []string
	for _, text := range ctx.sources() {
		text = strings.ToLower(text)
		if strings.TrimSpace(text) != "" {
			sources = append(sources, text)
		}
	}
	for _, r := range Rules {
		for _, text := range sources {
			if r.matches(text) {
				return r.Code
			}
		}
	}
	return GeneralContact
}
