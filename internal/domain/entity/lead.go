package entity

import "time"

// Lead statuses. New submissions always start as pending.
const (
	LeadStatusPending = "pending"
	LeadStatusActive  = "active"
	LeadStatusClosed  = "closed"
)

// Lead is an advertiser submission ("anuncio") collected through the
// public form. ImagePath follows the same file-store contract as Article.
type Lead struct {
	ID        string
	Name      string
	Company   string
	Contact   string
	Kind      string
	Message   string
	ImagePath string
	Status    string
	CreatedAt time.Time
}
