package services

import "github.com/dmitrijs2005/cropcare/internal/server/models"

var governmentSchemes = []models.Scheme{
	{
		Name:        "Pradhan Mantri Fasal Bima Yojana (PMFBY)",
		Description: "Provides crop insurance to farmers against natural calamities, pests, and diseases.",
		Eligibility: "All farmers growing notified crops in notified areas, including sharecroppers and tenant farmers.",
		Link:        "https://pmfby.gov.in/",
	},
	{
		Name:        "Kisan Credit Card (KCC)",
		Description: "Offers short-term credit to farmers for crop production needs at low interest rates.",
		Eligibility: "All farmers (individuals or joint) who own or cultivate land.",
		Link:        "https://www.myscheme.gov.in/schemes/kcc",
	},
	{
		Name:        "Soil Health Card Scheme",
		Description: "Provides soil health cards to farmers with crop-wise recommendations for nutrients and fertilizers.",
		Eligibility: "All farmers across India.",
		Link:        "https://soilhealth.dac.gov.in/",
	},
	{
		Name:        "Paramparagat Krishi Vikas Yojana (PKVY)",
		Description: "Promotes organic farming through cluster-based approach and certification.",
		Eligibility: "Groups of farmers or Farmer Producer Organizations.",
		Link:        "https://pgsindia-ncof.gov.in/",
	},
	{
		Name:        "Pradhan Mantri Krishi Sinchayee Yojana (PMKSY)",
		Description: "Aims to improve irrigation coverage and water efficiency.",
		Eligibility: "All farmers, with priority to small and marginal farmers.",
		Link:        "https://pmksy.gov.in/",
	},
}

// Schemes returns a copy of the static scheme list.
func Schemes() []models.Scheme {
	out := make([]models.Scheme, len(governmentSchemes))
	copy(out, governmentSchemes)
	return out
}
