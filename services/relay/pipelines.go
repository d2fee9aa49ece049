package relay

import "jetcargo-backend/lib/servicetype"

// DefaultPipeline receives every service type without a dedicated pipeline.
const DefaultPipeline = "zar5aTjIKP8srIK5x0qk"

// DefaultPipelines maps the service types that have a dedicated crm sales
// pipeline, everything else goes to DefaultPipeline.
var DefaultPipelines = map[servicetype.Code]string{
	servicetype.ExpressAirFreight:   "beJ4qtcdPASKoGBoTNqz",
	servicetype.DeferredAirFreight:  "beJ4qtcdPASKoGBoTNqz",
	servicetype.LclOceanFreight:     "whbJC2QacciLQBfk9fHl",
	servicetype.FclOceanFreight:     "whbJC2QacciLQBfk9fHl",
	servicetype.CarAuctionTransport: "irrGZoV35EFiTMvzRhzP",
	servicetype.ProcurementSourcing: "uGs9dWTuLBzYr7cTyHjK",
}

// Pipelines resolves the pipeline of a service type.
type Pipelines struct {
	byCode   map[servicetype.Code]string
	fallback string
}

// NewPipelines layers overrides (keyed by service type code, "default"
// replaces the fallback) on top of DefaultPipelines. Unknown codes are
// ignored.
func NewPipelines(overrides map[string]string) Pipelines {
	p := Pipelines{
		byCode:   map[servicetype.Code]string{},
		fallback: DefaultPipeline,
	}
	for code, id := range DefaultPipelines {
		p.byCode[code] = id
	}
	for key, id := range overrides {
		if id == "" {
			continue
		}
		if key == "default" {
			p.fallback = id
			continue
		}
		code, ok := servicetype.Parse(key)
		if !ok {
			continue
		}
		p.byCode[code] = id
	}
	return p
}

func (p Pipelines) For(code servicetype.Code) string {
	id, ok := p.byCode[code]
	if !ok {
		return p.fallback
	}
	return id
}
