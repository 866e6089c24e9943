package tapev1

import (
	"context"
	"encoding/json"
)

// Publisher publishes fill events to the trade tape.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tapev1_mock
type Publisher interface {
	PublishFill(ctx context.Context, event *FillEvent) error
	Close() error
}

// FillEvent is one match on the tape. Value and Fee are in the venue's
// integer currency unit; Aggressor is the incoming order's side.
type FillEvent struct {
	EventID   string `json:"eventId"`
	Product   string `json:"product"`
	Price     int64  `json:"price"`
	Qty       int64  `json:"qty"`
	Value     int64  `json:"value"`
	Fee       int64  `json:"fee"`
	Aggressor string `json:"aggressor"`
	Buyer     int    `json:"buyer"`
	Seller    int    `json:"seller"`
	MatchedAt int64  `json:"matchedAt"`
}

// ToBytes serializes the event for the wire.
func (e *FillEvent) ToBytes() []byte {
	buf, _ := json.Marshal(e)
	return buf
}
