package models

// DateLayout is the layout of HistoryEntry.Date (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// HistoryEntry represents one service performed for a client.
type HistoryEntry struct {
	// ID is the store-assigned identifier.
	ID int64

	// ClientID references the Client this entry belongs to.
	ClientID int64

	// Description is what was done (e.g., "Corte", "Color").
	Description string

	// Cost is a decimal amount kept as text, exactly as entered.
	Cost string

	// Date is when the service happened, formatted with DateLayout.
	Date string
}
