package orderbookv1

import "container/list"

// Side represents which side of the book an order belongs to.
type Side int

const (
	// SideBuy represents a buy order.
	SideBuy Side = iota
	// SideSell represents a sell order.
	SideSell
)

// String returns the wire spelling of the side.
func (s Side) String() string {
	if s == SideBuy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Order is a single live order. Identity is (Participant, ID); ID is assigned
// by the sender as its count of previously accepted orders. Qty is the
// residual quantity and decreases as the order fills.
type Order struct {
	Participant int
	ID          int
	Product     string
	Side        Side
	Qty         int64
	Price       int64

	elem *list.Element
}

// Ref is a stable key identifying a live order. Amend and cancel carry a Ref
// across the validate and apply phases and re-resolve it at apply time instead
// of stashing a raw node pointer.
type Ref struct {
	Participant int
	OrderID     int
}

// Level is one aggregated price point on a side of the book.
type Level struct {
	Price  int64 `json:"price"`
	Qty    int64 `json:"qty"`
	Orders int   `json:"orders"`
}
