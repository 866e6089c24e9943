package ledgerv1

import (
	"errors"

	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
)

// ErrUnknownProduct is returned when a match references a product that was
// not in the catalog at construction.
var ErrUnknownProduct = errors.New("unknown product")

// Position is the holding of one participant in one product. Qty may go
// negative; short positions are allowed implicitly.
type Position struct {
	Product string `json:"product"`
	Qty     int64  `json:"qty"`
	Profit  int64  `json:"profit"`
}

// Ledger accumulates per-participant positions and the venue's collected
// fees. It trusts caller-supplied deltas and is mutated only as a side effect
// of matches.
type Ledger struct {
	products   []string
	productIdx map[string]int
	positions  map[int][]Position
	fees       int64
}

// NewLedger creates a ledger over the given product catalog.
func NewLedger(products []string) *Ledger {
	idx := make(map[string]int, len(products))
	for i, name := range products {
		idx[name] = i
	}
	return &Ledger{
		products:   append([]string(nil), products...),
		productIdx: idx,
		positions:  make(map[int][]Position),
	}
}

// Register creates zero positions for every product for the participant.
// Registering twice is a no-op.
func (l *Ledger) Register(participant int) {
	if _, ok := l.positions[participant]; ok {
		return
	}
	positions := make([]Position, len(l.products))
	for i, name := range l.products {
		positions[i] = Position{Product: name}
	}
	l.positions[participant] = positions
}

// ApplyMatch applies the economics of one match: the buyer gains qty and the
// seller loses it; the trade value moves between them at the resting price;
// the fee is charged only to the aggressor's side and accumulated into the
// fee pool. Exactly two positions are touched.
func (l *Ledger) ApplyMatch(product string, buyer, seller int, qty, value, fee int64, aggressor orderbookv1.Side) error {
	idx, ok := l.productIdx[product]
	if !ok {
		return ErrUnknownProduct
	}

	buyerPos := &l.positions[buyer][idx]
	sellerPos := &l.positions[seller][idx]

	buyerPos.Qty += qty
	sellerPos.Qty -= qty

	if aggressor == orderbookv1.SideBuy {
		buyerPos.Profit -= value + fee
		sellerPos.Profit += value
	} else {
		sellerPos.Profit += value - fee
		buyerPos.Profit -= value
	}

	l.fees += fee
	return nil
}

// Position returns the participant's position in the product.
func (l *Ledger) Position(participant int, product string) (Position, bool) {
	idx, ok := l.productIdx[product]
	if !ok {
		return Position{}, false
	}
	positions, ok := l.positions[participant]
	if !ok {
		return Position{}, false
	}
	return positions[idx], true
}

// Positions returns a copy of the participant's positions in catalog order.
func (l *Ledger) Positions(participant int) []Position {
	positions, ok := l.positions[participant]
	if !ok {
		return nil
	}
	return append([]Position(nil), positions...)
}

// Fees returns the venue's accumulated fee pool.
func (l *Ledger) Fees() int64 {
	return l.fees
}
