package models

// Company is the business profile. Only the first row by ID is treated as
// active; see service.CompanyService.
type Company struct {
	ID int64

	// NameCompany is the business name shown in the application.
	NameCompany string

	// MainColor is the branding color as a hex string (e.g., "#f9a8d4").
	MainColor string

	// LogoURL is a URI to the logo image, or empty.
	LogoURL string
}
