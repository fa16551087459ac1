package models

// Service type constants
const (
	ServiceSwedish      = "swedish"
	ServiceDeepTissue   = "deep_tissue"
	ServiceHotStone     = "hot_stone"
	ServiceSports       = "sports"
	ServicePrenatal     = "prenatal"
	ServiceReflexology  = "reflexology"
	ServiceAromatherapy = "aromatherapy"
	ServiceChairMassage = "chair_massage"
)

// ServiceOffering describes one bookable service in the practice catalog
type ServiceOffering struct {
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

// serviceCatalog is the fixed price table used when booking appointments
// and building invoice line items.
var serviceCatalog = map[string]ServiceOffering{
	ServiceSwedish:      {Type: ServiceSwedish, Name: "Swedish Massage", Price: 80.00, DurationMinutes: 60},
	ServiceDeepTissue:   {Type: ServiceDeepTissue, Name: "Deep Tissue Massage", Price: 95.00, DurationMinutes: 60},
	ServiceHotStone:     {Type: ServiceHotStone, Name: "Hot Stone Massage", Price: 110.00, DurationMinutes: 75},
	ServiceSports:       {Type: ServiceSports, Name: "Sports Massage", Price: 90.00, DurationMinutes: 60},
	ServicePrenatal:     {Type: ServicePrenatal, Name: "Prenatal Massage", Price: 85.00, DurationMinutes: 60},
	ServiceReflexology:  {Type: ServiceReflexology, Name: "Reflexology", Price: 70.00, DurationMinutes: 45},
	ServiceAromatherapy: {Type: ServiceAromatherapy, Name: "Aromatherapy Massage", Price: 90.00, DurationMinutes: 60},
	ServiceChairMassage: {Type: ServiceChairMassage, Name: "Chair Massage", Price: 40.00, DurationMinutes: 20},
}

// LookupService returns the catalog entry for a service type
func LookupService(serviceType string) (ServiceOffering, bool) {
	svc, ok := serviceCatalog[serviceType]
	return svc, ok
}

// ServiceDisplayName returns the human-readable name for a service type,
// falling back to the raw type for unknown values.
func ServiceDisplayName(serviceType string) string {
	if svc, ok := serviceCatalog[serviceType]; ok {
		return svc.Name
	}
	return serviceType
}

// ServiceCatalog returns all offerings in a stable order
func ServiceCatalog() []ServiceOffering {
	ordered := []string{
		ServiceSwedish, ServiceDeepTissue, ServiceHotStone, ServiceSports,
		ServicePrenatal, ServiceReflexology, ServiceAromatherapy, ServiceChairMassage,
	}
	out := make([]ServiceOffering, 0, len(ordered))
	for _, t := range ordered {
		out = append(out, serviceCatalog[t])
	}
	return out
}
