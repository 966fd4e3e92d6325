package domain

// Param is a literal query parameter appended to a GetFeatureInfo request.
// Vendor tolerance parameters are passed through verbatim; servers that do
// not understand them ignore them.
type Param struct {
	Key   string
	Value string
}

// HazardSource describes one upstream WMS endpoint. Instances are catalog
// constants and are never mutated at runtime.
type HazardSource struct {
	BaseURL      string
	Layer        string
	Style        string
	VendorParams []Param
}

// Flood return periods published by the IDEE inundation service.
var (
	FluvialPeriods = []string{"T10", "T100", "T500"}
	MarinePeriods  = []string{"T100", "T500"}
)

// Desertification layer keys used throughout the raw and summary trees.
const (
	DesertificationPotential = "potential"
	DesertificationLaminar   = "laminar"
)

// Catalog enumerates the five hazard sources. Built once at startup and
// passed by reference; there is no global registration.
type Catalog struct {
	Wildfire                 HazardSource
	Flood                    HazardSource
	Seismic                  HazardSource
	DesertificationPotential HazardSource
	DesertificationLaminar   HazardSource
}

// DefaultCatalog returns the production hazard sources.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Wildfire: HazardSource{
			BaseURL: "https://wms.mapama.gob.es/sig/Biodiversidad/Incendios/2006_2015",
			Layer:   "NZ.HazardArea",
		},
		Flood: HazardSource{
			BaseURL: "https://servicios.idee.es/wms-inspire/riesgos-naturales/inundaciones",
			// Layer is period-specific; see FluvialLayer and MarineLayer.
		},
		Seismic: HazardSource{
			BaseURL: "https://www.ign.es/wms-inspire/geofisica",
			Layer:   "HazardArea2002.NCSE-02",
		},
		DesertificationPotential: HazardSource{
			BaseURL: "https://wms.mapama.gob.es/sig/Biodiversidad/Desertificacion",
			Layer:   "PAND.RiesgoDesertificacion",
			VendorParams: []Param{
				{Key: "FI_POINT_TOLERANCE", Value: "16"},
				{Key: "FI_LINE_TOLERANCE", Value: "8"},
				{Key: "FI_POLYGON_TOLERANCE", Value: "4"},
			},
		},
		DesertificationLaminar: HazardSource{
			BaseURL: "https://wms.mapama.gob.es/sig/Biodiversidad/ErosionLaminar",
			Layer:   "INES.ErosionLaminar",
			VendorParams: []Param{
				{Key: "FI_POINT_TOLERANCE", Value: "16"},
				{Key: "FI_LINE_TOLERANCE", Value: "8"},
				{Key: "FI_POLYGON_TOLERANCE", Value: "4"},
			},
		},
	}
}

// FluvialLayer returns the fluvial flood layer for a return period, e.g.
// "NZ.Flood.FluvialT100".
func FluvialLayer(period string) string {
	return "NZ.Flood.Fluvial" + period
}

// MarineLayer returns the coastal flood layer for a return period, e.g.
// "NZ.Flood.MarinaT500".
func MarineLayer(period string) string {
	return "NZ.Flood.Marina" + period
}
