package model

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// statusLabels maps a stored status to its display label. Anything not in
// the map is shown as-is.
var statusLabels = map[string]string{
	StatusPending:  "En attente",
	StatusAccepted: "Accepté",
	StatusRefused:  "Refusé",
}

// ExpenseTypes are the suggested categories for the submission form.
// The field is free text, so values outside this list are accepted too.
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

type Bill struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Date       string    `json:"date"` // ISO-8601; legacy rows may hold malformed values
	Amount     int       `json:"amount"`
	Pct        int       `json:"pct,omitempty"`
	Commentary string    `json:"commentary,omitempty"`
	Status     string    `json:"status"`
	FileURL    string    `json:"fileUrl,omitempty"`
	FileName   string    `json:"fileName,omitempty"`
	FileKey    string    `json:"fileKey,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BillRow is the display-ready form of a Bill. Date keeps the raw ISO value
// so rows stay sortable after formatting.
type BillRow struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	DateLabel   string `json:"dateLabel"`
	Amount      int    `json:"amount"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
	FileURL     string `json:"fileUrl,omitempty"`
	FileName    string `json:"fileName,omitempty"`
}

// BillSummary aggregates a user's bills per status.
type BillSummary struct {
	Pending  StatusTotal `json:"pending"`
	Accepted StatusTotal `json:"accepted"`
	Refused  StatusTotal `json:"refused"`
}

type StatusTotal struct {
	Count  int `json:"count"`
	Amount int `json:"amount"`
}

// StatusLabel returns the display label for a status, or the raw value when
// the status is not one of the known three.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}
