package orderbookv1

import (
	"container/list"
	"errors"
)

var (
	// ErrOrderNotFound is returned when removing an order that is no longer
	// in the book.
	ErrOrderNotFound = errors.New("order not found in book")
	// ErrNilOrder is returned when an operation is given a nil order.
	ErrNilOrder = errors.New("order cannot be nil")
)

// Book holds the live orders for one product: buys sorted by price descending,
// sells ascending, strict arrival order within an equal price. Level counts
// are maintained incrementally on insert and remove.
type Book struct {
	Product string

	buys  *list.List
	sells *list.List

	buyLevels  int
	sellLevels int
}

// NewBook creates an empty book for the given product.
func NewBook(product string) *Book {
	return &Book{
		Product: product,
		buys:    list.New(),
		sells:   list.New(),
	}
}

// Best returns the best-priced order on the given side, or nil when the side
// is empty. For buys that is the highest price, for sells the lowest; among
// equal prices the earliest arrival.
func (b *Book) Best(side Side) *Order {
	front := b.sideList(side).Front()
	if front == nil {
		return nil
	}
	return front.Value.(*Order)
}

// Insert places the order into its side keeping the price sort, after all
// existing orders at the same price. The side's level count is incremented
// only when the price point did not exist yet.
func (b *Book) Insert(o *Order) error {
	if o == nil {
		return ErrNilOrder
	}

	side := b.sideList(o.Side)
	newLevel := true

	var at *list.Element
	for e := side.Front(); e != nil; e = e.Next() {
		resting := e.Value.(*Order)
		if samePricedOrBetter(o.Side, resting.Price, o.Price) {
			if resting.Price == o.Price {
				newLevel = false
			}
			at = e
			continue
		}
		break
	}

	if at == nil {
		o.elem = side.PushFront(o)
	} else {
		o.elem = side.InsertAfter(o, at)
	}

	if newLevel {
		b.addLevels(o.Side, 1)
	}
	return nil
}

// Remove unlinks the exact order from its side. The level count is
// decremented only when no neighboring order at the same price remains.
func (b *Book) Remove(o *Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if o.elem == nil || o.elem.Value != any(o) {
		return ErrOrderNotFound
	}

	side := b.sideList(o.Side)
	lastAtPrice := !neighborSamePrice(o.elem.Prev(), o.Price) &&
		!neighborSamePrice(o.elem.Next(), o.Price)

	side.Remove(o.elem)
	o.elem = nil

	if lastAtPrice {
		b.addLevels(o.Side, -1)
	}
	return nil
}

// Find returns the live order with the given identity, scanning buys before
// sells, or nil when no such order rests in this book.
func (b *Book) Find(participant, orderID int) *Order {
	for _, side := range []*list.List{b.buys, b.sells} {
		for e := side.Front(); e != nil; e = e.Next() {
			o := e.Value.(*Order)
			if o.Participant == participant && o.ID == orderID {
				return o
			}
		}
	}
	return nil
}

// Levels returns the number of distinct price points on the given side.
func (b *Book) Levels(side Side) int {
	if side == SideBuy {
		return b.buyLevels
	}
	return b.sellLevels
}

// OrderCount returns the number of live orders on the given side.
func (b *Book) OrderCount(side Side) int {
	return b.sideList(side).Len()
}

// Depth returns the side aggregated per price point, in the side's sort order
// (buys best-first descending, sells best-first ascending).
func (b *Book) Depth(side Side) []Level {
	var levels []Level
	for e := b.sideList(side).Front(); e != nil; e = e.Next() {
		o := e.Value.(*Order)
		if n := len(levels); n > 0 && levels[n-1].Price == o.Price {
			levels[n-1].Qty += o.Qty
			levels[n-1].Orders++
			continue
		}
		levels = append(levels, Level{Price: o.Price, Qty: o.Qty, Orders: 1})
	}
	return levels
}

func (b *Book) sideList(side Side) *list.List {
	if side == SideBuy {
		return b.buys
	}
	return b.sells
}

func (b *Book) addLevels(side Side, delta int) {
	if side == SideBuy {
		b.buyLevels += delta
	} else {
		b.sellLevels += delta
	}
}

// samePricedOrBetter reports whether a resting price sorts at or before the
// incoming price on the given side.
func samePricedOrBetter(side Side, resting, incoming int64) bool {
	if side == SideBuy {
		return resting >= incoming
	}
	return resting <= incoming
}

func neighborSamePrice(e *list.Element, price int64) bool {
	if e == nil {
		return false
	}
	return e.Value.(*Order).Price == price
}
