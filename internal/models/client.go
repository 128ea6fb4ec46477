package models

// Client represents a customer of the business.
type Client struct {
	// ID is the store-assigned identifier. It is stable for the life of the row.
	ID int64

	// Name is the display name. Required by the service layer, not by the store.
	Name string

	// Phone is an optional contact number kept as free text.
	Phone string
}
