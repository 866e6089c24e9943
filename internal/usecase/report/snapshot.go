package report

import (
	"sync"

	ledgerv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/ledger/v1"
	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/logger"
)

// ProductBook is one product's aggregated depth. Sells are listed highest
// price first, then buys highest first, matching the venue's book display.
type ProductBook struct {
	Product    string              `json:"product"`
	BuyLevels  int                 `json:"buyLevels"`
	SellLevels int                 `json:"sellLevels"`
	Sells      []orderbookv1.Level `json:"sells"`
	Buys       []orderbookv1.Level `json:"buys"`
}

// ParticipantPositions is one participant's positions in catalog order.
type ParticipantPositions struct {
	Participant int                 `json:"participant"`
	Positions   []ledgerv1.Position `json:"positions"`
}

// Snapshot is a consistent read-only view of the books and ledger, built
// after a command has been fully applied.
type Snapshot struct {
	Books     []ProductBook          `json:"books"`
	Positions []ParticipantPositions `json:"positions"`
	Fees      int64                  `json:"fees"`
}

// Build captures the current books and the positions of the given
// participants. It must only be called between commands.
func Build(books *orderbookv1.BookSet, ledger *ledgerv1.Ledger, participants []int) Snapshot {
	snap := Snapshot{Fees: ledger.Fees()}

	for _, name := range books.Products() {
		book := books.Get(name)
		sells := book.Depth(orderbookv1.SideSell)
		reverse(sells)

		snap.Books = append(snap.Books, ProductBook{
			Product:    name,
			BuyLevels:  book.Levels(orderbookv1.SideBuy),
			SellLevels: book.Levels(orderbookv1.SideSell),
			Sells:      sells,
			Buys:       book.Depth(orderbookv1.SideBuy),
		})
	}

	for _, id := range participants {
		snap.Positions = append(snap.Positions, ParticipantPositions{
			Participant: id,
			Positions:   ledger.Positions(id),
		})
	}
	return snap
}

// Log writes the book and position summaries through the logger.
func (s Snapshot) Log(log *logger.Logger) {
	for _, book := range s.Books {
		log.Info("orderbook",
			logger.Field{Key: "product", Value: book.Product},
			logger.Field{Key: "buyLevels", Value: book.BuyLevels},
			logger.Field{Key: "sellLevels", Value: book.SellLevels},
			logger.Field{Key: "sells", Value: book.Sells},
			logger.Field{Key: "buys", Value: book.Buys},
		)
	}
	for _, pp := range s.Positions {
		log.Info("positions",
			logger.Field{Key: "participant", Value: pp.Participant},
			logger.Field{Key: "positions", Value: pp.Positions},
		)
	}
}

func reverse(levels []orderbookv1.Level) {
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
}

// Holder publishes the latest snapshot to readers outside the reactor, such
// as the admin HTTP surface. Readers never see a half-applied command.
type Holder struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set replaces the held snapshot.
func (h *Holder) Set(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
}

// Get returns the latest snapshot.
func (h *Holder) Get() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}
