package models

// Scheme is a government programme shown to farmers.
type Scheme struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Eligibility string `json:"eligibility"`
	Link        string `json:"link"`
}
