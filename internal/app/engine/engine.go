package engine

import (
	"context"

	ledgerv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/ledger/v1"
	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
	participantv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/participant/v1"
	protocolv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/protocol/v1"
	tapev1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/tape/v1"
	"github.com/hunkyJay/ProgExchange-Platform/internal/usecase/dispatch"
	"github.com/hunkyJay/ProgExchange-Platform/internal/usecase/matching"
	"github.com/hunkyJay/ProgExchange-Platform/internal/usecase/report"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/errors"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/logger"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/util"
)

// Engine is the venue's reactor: a single-consumer event loop that owns the
// books, the ledger and the dispatch queue, and serializes all participant
// activity into one command at a time. The reply, broadcast and apply steps
// for one command form an atomic unit: participant deaths are detected
// asynchronously but only applied between commands, so neither liveness nor
// book contents change underneath an in-flight command.
type Engine struct {
	registry *participantv1.Registry
	books    *orderbookv1.BookSet
	ledger   *ledgerv1.Ledger
	matcher  *matching.Matcher
	queue    *dispatch.Queue
	tape     tapev1.Publisher
	holder   *report.Holder
	logger   *logger.Logger
	options  *Options

	deaths chan int
}

// NewEngine creates a new Engine with the provided dependencies. The tape
// publisher may be nil when the fill tape is disabled.
func NewEngine(
	registry *participantv1.Registry,
	books *orderbookv1.BookSet,
	ledger *ledgerv1.Ledger,
	queue *dispatch.Queue,
	tapePublisher tapev1.Publisher,
	holder *report.Holder,
	log *logger.Logger,
) *Engine {
	return NewEngineWithOptions(registry, books, ledger, queue, tapePublisher, holder, log, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new Engine with custom options.
func NewEngineWithOptions(
	registry *participantv1.Registry,
	books *orderbookv1.BookSet,
	ledger *ledgerv1.Ledger,
	queue *dispatch.Queue,
	tapePublisher tapev1.Publisher,
	holder *report.Holder,
	log *logger.Logger,
	options *Options,
) *Engine {
	return &Engine{
		registry: registry,
		books:    books,
		ledger:   ledger,
		matcher:  matching.NewMatcher(books, ledger, options.FeePercent),
		queue:    queue,
		tape:     tapePublisher,
		holder:   holder,
		logger:   log,
		options:  options,
		deaths:   make(chan int, 4),
	}
}

// NotifyReady marks the participant as having readable input. Non-blocking;
// safe to call from session reader goroutines.
func (e *Engine) NotifyReady(participant int) {
	e.queue.Enqueue(participant)
}

// NotifyDeath reports that the participant's channel has ended. The death is
// applied at the top of the next command cycle, never mid-command.
func (e *Engine) NotifyDeath(participant int) {
	e.deaths <- participant
}

// Run sends MARKET OPEN to every participant, then drains the dispatch queue
// one command at a time until no live participants remain. Entries queued for
// participants that died are discarded, never serviced.
func (e *Engine) Run(ctx context.Context) error {
	e.marketOpen()

	for {
		e.drainDeaths()
		if e.registry.Live() == 0 {
			break
		}

		id, ok := e.queue.Dequeue()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-e.queue.Wake():
			case dead := <-e.deaths:
				e.applyDeath(dead)
			}
			continue
		}

		p, ok := e.registry.Get(id)
		if !ok || !p.Alive {
			continue
		}
		e.serviceOne(ctx, p)
	}

	e.logger.Info("trading completed",
		logger.Field{Key: "feesCollected", Value: e.ledger.Fees()},
	)
	return nil
}

func (e *Engine) marketOpen() {
	e.registry.Each(func(p *participantv1.Participant) {
		if p.Alive {
			e.send(p, protocolv1.MarketOpen)
		}
	})
}

// serviceOne processes exactly one command from the participant: decode,
// reply to the sender, broadcast to the other live participants, then apply
// the match and publish the post-command snapshot.
func (e *Engine) serviceOne(ctx context.Context, p *participantv1.Participant) {
	raw, ok := p.Session.TryRead()
	if !ok {
		// Stale or coalesced wake; nothing buffered yet.
		return
	}

	ctx = util.WithRequestID(util.WithParticipantID(ctx, p.ID), "")
	res := protocolv1.Decode(raw, p.ID, stateView{e})

	var matched matching.Result
	switch res.Verdict {
	case protocolv1.VerdictNoResponse:
		return

	case protocolv1.VerdictInvalid:
		e.logger.InfoContext(ctx, "command rejected",
			logger.Field{Key: "participant", Value: p.ID},
			logger.Field{Key: "command", Value: raw},
		)
		e.send(p, protocolv1.RenderInvalid())
		return

	case protocolv1.VerdictAccepted:
		e.send(p, protocolv1.RenderAccepted(res.Order.ID))
		p.Accepted++
		e.broadcast(p.ID, protocolv1.RenderMarket(res.Order.Side, res.Order.Product, res.Order.Qty, res.Order.Price))
		var err error
		matched, err = e.matcher.Submit(res.Order)
		if err != nil {
			e.logger.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "participant", Value: p.ID},
				logger.Field{Key: "orderId", Value: res.Order.ID},
			)
			return
		}

	case protocolv1.VerdictAmended:
		e.send(p, protocolv1.RenderAmended(res.Order.ID))
		e.broadcast(p.ID, protocolv1.RenderMarket(res.Order.Side, res.Order.Product, res.Order.Qty, res.Order.Price))
		var err error
		matched, err = e.matcher.Amend(res.Ref, res.Order)
		if err != nil {
			e.logger.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "participant", Value: p.ID},
				logger.Field{Key: "orderId", Value: res.Ref.OrderID},
			)
			return
		}

	case protocolv1.VerdictCancelled:
		e.send(p, protocolv1.RenderCancelled(res.Order.ID))
		e.broadcast(p.ID, protocolv1.RenderMarket(res.Order.Side, res.Order.Product, 0, 0))
		if err := e.matcher.Cancel(res.Ref); err != nil {
			e.logger.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "participant", Value: p.ID},
				logger.Field{Key: "orderId", Value: res.Ref.OrderID},
			)
			return
		}
	}

	e.settle(ctx, matched)
	e.publishSnapshot()
}

// settle notifies both counterparties of each fill and publishes trades to
// the tape. Tape failures are logged and never abort the command cycle.
func (e *Engine) settle(ctx context.Context, matched matching.Result) {
	for _, fill := range matched.Fills {
		p, ok := e.registry.Get(fill.Participant)
		if !ok || !p.Alive {
			continue
		}
		e.send(p, protocolv1.RenderFill(fill.OrderID, fill.Qty))
	}

	for _, trade := range matched.Trades {
		e.logger.InfoContext(ctx, "match",
			logger.Field{Key: "product", Value: trade.Product},
			logger.Field{Key: "price", Value: trade.Price},
			logger.Field{Key: "qty", Value: trade.Qty},
			logger.Field{Key: "value", Value: trade.Value},
			logger.Field{Key: "fee", Value: trade.Fee},
			logger.Field{Key: "buyer", Value: trade.Buyer},
			logger.Field{Key: "seller", Value: trade.Seller},
		)
		if e.tape == nil {
			continue
		}
		event := &tapev1.FillEvent{
			Product:   trade.Product,
			Price:     trade.Price,
			Qty:       trade.Qty,
			Value:     trade.Value,
			Fee:       trade.Fee,
			Aggressor: trade.Aggressor.String(),
			Buyer:     trade.Buyer,
			Seller:    trade.Seller,
		}
		if err := e.tape.PublishFill(ctx, event); err != nil {
			e.logger.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "product", Value: trade.Product},
			)
		}
	}
}

func (e *Engine) publishSnapshot() {
	ids := make([]int, 0, e.registry.Len())
	e.registry.Each(func(p *participantv1.Participant) {
		ids = append(ids, p.ID)
	})
	snap := report.Build(e.books, e.ledger, ids)

	if e.holder != nil {
		e.holder.Set(snap)
	}
	if e.options.LogReports {
		snap.Log(e.logger)
	}
}

func (e *Engine) drainDeaths() {
	for {
		select {
		case id := <-e.deaths:
			e.applyDeath(id)
		default:
			return
		}
	}
}

func (e *Engine) applyDeath(id int) {
	if e.registry.MarkDead(id) {
		e.logger.Info("participant disconnected",
			logger.Field{Key: "participant", Value: id},
		)
	}
}

// send writes one message to the participant. A write failure means the peer
// is gone; it is logged and the participant's death arrives through its
// session reader.
func (e *Engine) send(p *participantv1.Participant, msg string) {
	if err := p.Session.Write(msg); err != nil {
		e.logger.Warn("write to participant failed",
			logger.Field{Key: "participant", Value: p.ID},
			logger.Field{Key: "error", Value: err.Error()},
		)
	}
}

// broadcast sends the message to every live participant except the sender.
func (e *Engine) broadcast(except int, msg string) {
	e.registry.Each(func(p *participantv1.Participant) {
		if p.Alive && p.ID != except {
			e.send(p, msg)
		}
	})
}

// stateView exposes the engine's state to the protocol codec.
type stateView struct {
	e *Engine
}

func (v stateView) HasProduct(name string) bool {
	return v.e.books.Has(name)
}

func (v stateView) AcceptedCount(participant int) int {
	p, ok := v.e.registry.Get(participant)
	if !ok {
		return 0
	}
	return p.Accepted
}

func (v stateView) FindOrder(participant, orderID int) *orderbookv1.Order {
	return v.e.books.Find(participant, orderID)
}
