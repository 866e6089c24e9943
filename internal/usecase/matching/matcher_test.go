package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/ledger/v1"
	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
)

func newTestMatcher(participants int) (*Matcher, *orderbookv1.BookSet, *ledgerv1.Ledger) {
	books := orderbookv1.NewBookSet([]string{"GPU", "Router"})
	ledger := ledgerv1.NewLedger([]string{"GPU", "Router"})
	for id := 0; id < participants; id++ {
		ledger.Register(id)
	}
	return NewMatcher(books, ledger, 1), books, ledger
}

func newOrder(participant, id int, side orderbookv1.Side, qty, price int64) *orderbookv1.Order {
	return &orderbookv1.Order{
		Participant: participant,
		ID:          id,
		Product:     "GPU",
		Side:        side,
		Qty:         qty,
		Price:       price,
	}
}

func submit(t *testing.T, m *Matcher, o *orderbookv1.Order) Result {
	t.Helper()
	res, err := m.Submit(o)
	require.NoError(t, err)
	return res
}

func TestMatcher_Submit(t *testing.T) {
	t.Run("no cross rests in book", func(t *testing.T) {
		m, books, _ := newTestMatcher(2)

		res := submit(t, m, newOrder(0, 0, orderbookv1.SideBuy, 10, 100))
		require.Empty(t, res.Fills)
		require.Empty(t, res.Trades)

		res = submit(t, m, newOrder(1, 0, orderbookv1.SideSell, 10, 101))
		require.Empty(t, res.Trades)

		book := books.Get("GPU")
		assert.Equal(t, 1, book.OrderCount(orderbookv1.SideBuy))
		assert.Equal(t, 1, book.OrderCount(orderbookv1.SideSell))
	})

	t.Run("exact cross trades at resting price", func(t *testing.T) {
		m, books, ledger := newTestMatcher(2)

		submit(t, m, newOrder(0, 0, orderbookv1.SideSell, 10, 100))
		res := submit(t, m, newOrder(1, 0, orderbookv1.SideBuy, 10, 105))

		require.Len(t, res.Trades, 1)
		trade := res.Trades[0]
		assert.Equal(t, int64(100), trade.Price)
		assert.Equal(t, int64(10), trade.Qty)
		assert.Equal(t, int64(1000), trade.Value)
		assert.Equal(t, int64(10), trade.Fee)
		assert.Equal(t, 1, trade.Buyer)
		assert.Equal(t, 0, trade.Seller)
		assert.Equal(t, orderbookv1.SideBuy, trade.Aggressor)

		// Resting owner is notified first.
		require.Len(t, res.Fills, 2)
		assert.Equal(t, Fill{Participant: 0, OrderID: 0, Qty: 10}, res.Fills[0])
		assert.Equal(t, Fill{Participant: 1, OrderID: 0, Qty: 10}, res.Fills[1])

		book := books.Get("GPU")
		assert.Equal(t, 0, book.OrderCount(orderbookv1.SideBuy))
		assert.Equal(t, 0, book.OrderCount(orderbookv1.SideSell))
		assert.Equal(t, int64(10), ledger.Fees())
	})

	t.Run("partial fill leaves residual resting", func(t *testing.T) {
		m, books, _ := newTestMatcher(2)

		submit(t, m, newOrder(0, 0, orderbookv1.SideSell, 5, 100))
		res := submit(t, m, newOrder(1, 0, orderbookv1.SideBuy, 8, 100))

		require.Len(t, res.Trades, 1)
		assert.Equal(t, int64(5), res.Trades[0].Qty)

		book := books.Get("GPU")
		assert.Equal(t, 0, book.OrderCount(orderbookv1.SideSell))
		residual := book.Best(orderbookv1.SideBuy)
		require.NotNil(t, residual)
		assert.Equal(t, int64(3), residual.Qty)
		assert.Equal(t, 1, residual.Participant)
	})

	t.Run("sweeps multiple levels best price first", func(t *testing.T) {
		m, _, _ := newTestMatcher(3)

		submit(t, m, newOrder(0, 0, orderbookv1.SideSell, 5, 100))
		submit(t, m, newOrder(1, 0, orderbookv1.SideSell, 5, 110))
		res := submit(t, m, newOrder(2, 0, orderbookv1.SideBuy, 10, 110))

		require.Len(t, res.Trades, 2)
		assert.Equal(t, int64(100), res.Trades[0].Price)
		assert.Equal(t, int64(110), res.Trades[1].Price)
	})

	t.Run("stops at the first non-crossing price", func(t *testing.T) {
		m, books, _ := newTestMatcher(3)

		submit(t, m, newOrder(0, 0, orderbookv1.SideSell, 5, 100))
		submit(t, m, newOrder(1, 0, orderbookv1.SideSell, 5, 120))
		res := submit(t, m, newOrder(2, 0, orderbookv1.SideBuy, 10, 110))

		require.Len(t, res.Trades, 1)
		assert.Equal(t, int64(100), res.Trades[0].Price)

		book := books.Get("GPU")
		residual := book.Best(orderbookv1.SideBuy)
		require.NotNil(t, residual)
		assert.Equal(t, int64(5), residual.Qty)
	})

	t.Run("equal prices fill in arrival order", func(t *testing.T) {
		m, _, _ := newTestMatcher(3)

		submit(t, m, newOrder(0, 0, orderbookv1.SideSell, 5, 100))
		submit(t, m, newOrder(1, 0, orderbookv1.SideSell, 5, 100))
		res := submit(t, m, newOrder(2, 0, orderbookv1.SideBuy, 5, 100))

		require.Len(t, res.Trades, 1)
		assert.Equal(t, 0, res.Trades[0].Seller)
	})

	t.Run("sell aggressor economics", func(t *testing.T) {
		m, _, ledger := newTestMatcher(2)

		submit(t, m, newOrder(0, 0, orderbookv1.SideBuy, 10, 100))
		res := submit(t, m, newOrder(1, 0, orderbookv1.SideSell, 10, 90))

		require.Len(t, res.Trades, 1)
		assert.Equal(t, int64(100), res.Trades[0].Price)
		assert.Equal(t, orderbookv1.SideSell, res.Trades[0].Aggressor)

		buyer, _ := ledger.Position(0, "GPU")
		seller, _ := ledger.Position(1, "GPU")
		assert.Equal(t, int64(10), buyer.Qty)
		assert.Equal(t, int64(-1000), buyer.Profit)
		assert.Equal(t, int64(-10), seller.Qty)
		assert.Equal(t, int64(990), seller.Profit)
	})

	t.Run("fee rounds half up", func(t *testing.T) {
		m, _, _ := newTestMatcher(2)

		// value 3*17=51, one percent is 0.51, rounds to 1
		submit(t, m, newOrder(0, 0, orderbookv1.SideSell, 3, 17))
		res := submit(t, m, newOrder(1, 0, orderbookv1.SideBuy, 3, 17))

		require.Len(t, res.Trades, 1)
		assert.Equal(t, int64(1), res.Trades[0].Fee)

		// value 7*7=49, one percent is 0.49, rounds to 0
		submit(t, m, newOrder(0, 1, orderbookv1.SideSell, 7, 7))
		res = submit(t, m, newOrder(1, 1, orderbookv1.SideBuy, 7, 7))

		require.Len(t, res.Trades, 1)
		assert.Equal(t, int64(0), res.Trades[0].Fee)
	})

	t.Run("ledger mismatch surfaces the error", func(t *testing.T) {
		books := orderbookv1.NewBookSet([]string{"GPU"})
		ledger := ledgerv1.NewLedger(nil)
		ledger.Register(0)
		ledger.Register(1)
		m := NewMatcher(books, ledger, 1)

		_, err := m.Submit(newOrder(0, 0, orderbookv1.SideSell, 10, 100))
		require.NoError(t, err)

		_, err = m.Submit(newOrder(1, 0, orderbookv1.SideBuy, 10, 100))
		assert.ErrorIs(t, err, ledgerv1.ErrUnknownProduct)
	})
}

func TestMatcher_Amend(t *testing.T) {
	t.Run("amend loses time priority", func(t *testing.T) {
		m, _, _ := newTestMatcher(3)

		submit(t, m, newOrder(0, 0, orderbookv1.SideSell, 5, 100))
		submit(t, m, newOrder(1, 0, orderbookv1.SideSell, 5, 100))

		// Participant 0 re-ranks behind participant 1 at the same price.
		_, err := m.Amend(
			orderbookv1.Ref{Participant: 0, OrderID: 0},
			newOrder(0, 0, orderbookv1.SideSell, 5, 100),
		)
		require.NoError(t, err)

		res := submit(t, m, newOrder(2, 0, orderbookv1.SideBuy, 5, 100))
		require.Len(t, res.Trades, 1)
		assert.Equal(t, 1, res.Trades[0].Seller)
	})

	t.Run("amend can cross immediately", func(t *testing.T) {
		m, books, _ := newTestMatcher(2)

		submit(t, m, newOrder(0, 0, orderbookv1.SideSell, 5, 100))
		submit(t, m, newOrder(1, 0, orderbookv1.SideBuy, 5, 90))

		res, err := m.Amend(
			orderbookv1.Ref{Participant: 1, OrderID: 0},
			newOrder(1, 0, orderbookv1.SideBuy, 5, 100),
		)
		require.NoError(t, err)
		require.Len(t, res.Trades, 1)
		assert.Equal(t, int64(100), res.Trades[0].Price)

		book := books.Get("GPU")
		assert.Equal(t, 0, book.OrderCount(orderbookv1.SideBuy))
		assert.Equal(t, 0, book.OrderCount(orderbookv1.SideSell))
	})

	t.Run("amend of a gone order", func(t *testing.T) {
		m, _, _ := newTestMatcher(1)

		_, err := m.Amend(
			orderbookv1.Ref{Participant: 0, OrderID: 0},
			newOrder(0, 0, orderbookv1.SideBuy, 5, 100),
		)
		assert.ErrorIs(t, err, ErrOrderGone)
	})
}

func TestMatcher_Cancel(t *testing.T) {
	t.Run("cancel removes the order", func(t *testing.T) {
		m, books, _ := newTestMatcher(1)

		submit(t, m, newOrder(0, 0, orderbookv1.SideBuy, 5, 100))
		require.NoError(t, m.Cancel(orderbookv1.Ref{Participant: 0, OrderID: 0}))

		assert.Equal(t, 0, books.Get("GPU").OrderCount(orderbookv1.SideBuy))
	})

	t.Run("cancel of a gone order", func(t *testing.T) {
		m, _, _ := newTestMatcher(1)
		assert.ErrorIs(t, m.Cancel(orderbookv1.Ref{Participant: 0, OrderID: 0}), ErrOrderGone)
	})
}

func BenchmarkMatcher_Submit(b *testing.B) {
	m, _, ledger := newTestMatcher(0)
	ledger.Register(0)
	ledger.Register(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Submit(newOrder(0, i*2, orderbookv1.SideSell, 1, 100))
		_, _ = m.Submit(newOrder(1, i*2+1, orderbookv1.SideBuy, 1, 100))
	}
}

func BenchmarkBookSet_Find(b *testing.B) {
	m, books, _ := newTestMatcher(2)
	for i := 0; i < 512; i++ {
		_, _ = m.Submit(newOrder(0, i, orderbookv1.SideBuy, 1, int64(100+i)))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		books.Find(0, i%512)
	}
}

func ExampleMatcher() {
	books := orderbookv1.NewBookSet([]string{"GPU"})
	ledger := ledgerv1.NewLedger([]string{"GPU"})
	ledger.Register(0)
	ledger.Register(1)
	m := NewMatcher(books, ledger, 1)

	_, _ = m.Submit(&orderbookv1.Order{Participant: 0, ID: 0, Product: "GPU", Side: orderbookv1.SideSell, Qty: 10, Price: 100})
	res, _ := m.Submit(&orderbookv1.Order{Participant: 1, ID: 0, Product: "GPU", Side: orderbookv1.SideBuy, Qty: 10, Price: 100})

	fmt.Println(res.Trades[0].Value, res.Trades[0].Fee)
	// Output: 1000 10
}
