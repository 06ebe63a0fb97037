package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Notification is an opaque event record appended by the notification
// receiver. The raw JSON is kept verbatim; the accessors only read the fields
// the dashboard displays, falling back to the nested payload object.
type Notification struct {
	raw    json.RawMessage
	fields notificationFields
}

type notificationFields struct {
	Evento  string          `json:"evento"`
	Cliente string          `json:"cliente"`
	Total   json.RawMessage `json:"total"`
	Items   []struct {
		Color string `json:"color"`
	} `json:"items"`
	Payload *notificationFields `json:"payload"`
}

// NewNotification builds a Notification from its raw JSON.
func NewNotification(raw json.RawMessage) (Notification, error) {
	var n Notification
	if err := n.UnmarshalJSON(raw); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// UnmarshalJSON keeps the raw record. Records that are valid JSON objects but
// carry unexpected field types still decode; only the typed view is dropped.
func (n *Notification) UnmarshalJSON(b []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	n.raw = append(json.RawMessage(nil), b...)
	n.fields = notificationFields{}
	_ = json.Unmarshal(b, &n.fields)
	return nil
}

func (n Notification) MarshalJSON() ([]byte, error) {
	if len(n.raw) == 0 {
		return []byte("{}"), nil
	}
	return n.raw, nil
}

// Raw returns the record exactly as received.
func (n Notification) Raw() json.RawMessage { return n.raw }

// Evento returns the event name, or "EVENTO" when absent.
func (n Notification) Evento() string {
	if n.fields.Evento != "" {
		return n.fields.Evento
	}
	if p := n.fields.Payload; p != nil && p.Evento != "" {
		return p.Evento
	}
	return "EVENTO"
}

// Cliente returns the customer name, or "—" when absent.
func (n Notification) Cliente() string {
	if n.fields.Cliente != "" {
		return n.fields.Cliente
	}
	if p := n.fields.Payload; p != nil && p.Cliente != "" {
		return p.Cliente
	}
	return "—"
}

// Total returns the order total carried by the event, zero when absent.
func (n Notification) Total() decimal.Decimal {
	if d, ok := parseTotal(n.fields.Total); ok {
		return d
	}
	if p := n.fields.Payload; p != nil {
		if d, ok := parseTotal(p.Total); ok {
			return d
		}
	}
	return decimal.Zero
}

// Color returns the first item's color, preferring the payload, or "—".
func (n Notification) Color() string {
	if p := n.fields.Payload; p != nil && len(p.Items) > 0 && p.Items[0].Color != "" {
		return p.Items[0].Color
	}
	if len(n.fields.Items) > 0 && n.fields.Items[0].Color != "" {
		return n.fields.Items[0].Color
	}
	return "—"
}

func parseTotal(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero, false
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, false
	}
	return d, true
}
