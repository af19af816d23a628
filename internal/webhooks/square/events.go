package squarewebhook

import (
	"encoding/json"
	"time"

	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
)

// Event models the Square webhook envelope, limited to the fields the
// reconciliation path reads.
type Event struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Data      EventData `json:"data"`
}

type EventData struct {
	Type   string      `json:"type"`
	ID     string      `json:"id"`
	Object EventObject `json:"object"`
}

type EventObject struct {
	Payment *PaymentObject `json:"payment,omitempty"`
	Refund  *RefundObject  `json:"refund,omitempty"`
}

type PaymentObject struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type RefundObject struct {
	ID          string `json:"id"`
	PaymentID   string `json:"payment_id"`
	Status      string `json:"status"`
	AmountMoney *Money `json:"amount_money,omitempty"`
}

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ParseEvent decodes a verified webhook body.
func ParseEvent(raw []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload")
	}
	if event.EventID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "webhook event id required")
	}
	return &event, nil
}
