package entity

import "time"

// ViewState is the client's cached projection of the two remote sources.
// Pending and Notifications each reflect the latest successful fetch of their
// own source; LastSync is nil until a tick succeeds at least partially.
type ViewState struct {
	Pending       []PendingOrder
	Notifications []Notification
	LastSync      *time.Time
}
