package model

// Stats summarizes order volumes for the dashboard.
type Stats struct {
	Total     int64
	Pending   int64
	Validated int64
	Rejected  int64
	Clients   int64
}

// AlertKind classifies a pending order that deserves attention.
type AlertKind string

const (
	AlertUrgent         AlertKind = "urgent"
	AlertHighQuantity   AlertKind = "high_quantity"
	AlertPendingTooLong AlertKind = "pending_too_long"
	AlertSuspicious     AlertKind = "suspicious"
	AlertLowConfidence  AlertKind = "low_confidence"
)

// Alert points at a pending order matching one alert rule.
type Alert struct {
	Kind       AlertKind
	OrderID    int64
	Number     string
	ClientName string
	Message    string
}
