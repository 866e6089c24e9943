package matching

import (
	"errors"

	ledgerv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/ledger/v1"
	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
)

// ErrOrderGone is returned when an amend or cancel resolves its reference and
// the order is no longer in any book. Validation and application happen
// within the same atomic command unit, so this indicates a reactor bug rather
// than a race.
var ErrOrderGone = errors.New("referenced order no longer in book")

// Fill is one side's notification of a match.
type Fill struct {
	Participant int
	OrderID     int
	Qty         int64
}

// Trade is the economic record of one match, at the resting order's price.
type Trade struct {
	Product   string
	Price     int64
	Qty       int64
	Value     int64
	Fee       int64
	Buyer     int
	Seller    int
	Aggressor orderbookv1.Side
}

// Result collects the fills and trades produced by applying one command.
// Fills preserve notification order: resting side first, then the incoming
// side, per match.
type Result struct {
	Fills  []Fill
	Trades []Trade
}

// Matcher executes crossing, insertion, amendment and cancellation against
// the books, updating the ledger as a side effect of each match. It is owned
// by the reactor and never called concurrently.
type Matcher struct {
	books      *orderbookv1.BookSet
	ledger     *ledgerv1.Ledger
	feePercent int64
}

// NewMatcher creates a matcher over the given books and ledger.
func NewMatcher(books *orderbookv1.BookSet, ledger *ledgerv1.Ledger, feePercent int64) *Matcher {
	return &Matcher{
		books:      books,
		ledger:     ledger,
		feePercent: feePercent,
	}
}

// Submit matches the incoming order against the opposing side from the best
// price outward, then inserts any residual quantity into its own side in
// price-time order. Each match trades at the resting order's price and
// charges the fee to the incoming order's owner only. An error means the
// books and ledger disagree about the catalog; fills recorded up to that
// point are returned with it.
func (m *Matcher) Submit(o *orderbookv1.Order) (Result, error) {
	book := m.books.Get(o.Product)
	var res Result

	for o.Qty > 0 {
		resting := book.Best(o.Side.Opposite())
		if resting == nil || !crosses(o, resting) {
			// The opposing side is sorted; nothing further can match.
			break
		}

		qty := min(o.Qty, resting.Qty)
		value := qty * resting.Price
		fee := roundFee(value, m.feePercent)

		res.Fills = append(res.Fills,
			Fill{Participant: resting.Participant, OrderID: resting.ID, Qty: qty},
			Fill{Participant: o.Participant, OrderID: o.ID, Qty: qty},
		)

		o.Qty -= qty
		resting.Qty -= qty

		buyer, seller := o.Participant, resting.Participant
		if o.Side == orderbookv1.SideSell {
			buyer, seller = resting.Participant, o.Participant
		}
		if err := m.ledger.ApplyMatch(o.Product, buyer, seller, qty, value, fee, o.Side); err != nil {
			return res, err
		}

		res.Trades = append(res.Trades, Trade{
			Product:   o.Product,
			Price:     resting.Price,
			Qty:       qty,
			Value:     value,
			Fee:       fee,
			Buyer:     buyer,
			Seller:    seller,
			Aggressor: o.Side,
		})

		if resting.Qty == 0 {
			if err := book.Remove(resting); err != nil {
				return res, err
			}
		}
	}

	if o.Qty > 0 {
		if err := book.Insert(o); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Amend removes the referenced order and submits the replacement as if brand
// new: it re-ranks at its new price behind existing orders there and may
// immediately cross. The reference is resolved at apply time.
func (m *Matcher) Amend(ref orderbookv1.Ref, amended *orderbookv1.Order) (Result, error) {
	if err := m.Cancel(ref); err != nil {
		return Result{}, err
	}
	return m.Submit(amended)
}

// Cancel removes the referenced order from its book. Cancellation never
// triggers matching.
func (m *Matcher) Cancel(ref orderbookv1.Ref) error {
	old := m.books.Find(ref.Participant, ref.OrderID)
	if old == nil {
		return ErrOrderGone
	}
	return m.books.Get(old.Product).Remove(old)
}

func crosses(incoming, resting *orderbookv1.Order) bool {
	if incoming.Side == orderbookv1.SideBuy {
		return incoming.Price >= resting.Price
	}
	return incoming.Price <= resting.Price
}

// roundFee computes percent of value rounded half away from zero. Match
// values are never negative, so this is plain half-up integer rounding.
func roundFee(value, percent int64) int64 {
	return (value*percent + 50) / 100
}
