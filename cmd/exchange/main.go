package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hunkyJay/ProgExchange-Platform/internal/app/admin"
	"github.com/hunkyJay/ProgExchange-Platform/internal/app/engine"
	ledgerv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/ledger/v1"
	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
	participantv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/participant/v1"
	tapev1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/tape/v1"
	"github.com/hunkyJay/ProgExchange-Platform/internal/usecase/dispatch"
	"github.com/hunkyJay/ProgExchange-Platform/internal/usecase/products"
	"github.com/hunkyJay/ProgExchange-Platform/internal/usecase/report"
	"github.com/hunkyJay/ProgExchange-Platform/internal/usecase/tape"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/config"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", logger.Field{
			Key:   "signal",
			Value: sig.String(),
		})
		cancel()
	}()

	catalog, err := products.Load(cfg.ProductsFile)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "load_products",
		})
		os.Exit(1)
	}
	log.Info("trading products loaded", logger.Field{
		Key:   "products",
		Value: catalog,
	})

	books := orderbookv1.NewBookSet(catalog)
	ledger := ledgerv1.NewLedger(catalog)
	registry := participantv1.NewRegistry()
	queue := dispatch.NewQueue(cfg.QueueFactor * cfg.Participants)
	holder := report.NewHolder()

	var tapePublisher tapev1.Publisher
	if len(cfg.Tape.Brokers) > 0 {
		publisher := tape.NewPublisher(cfg.Tape, log)
		defer publisher.Close()
		tapePublisher = publisher
	}

	options := engine.DefaultEngineOptions()
	options.FeePercent = cfg.FeePercent
	eng := engine.NewEngineWithOptions(registry, books, ledger, queue, tapePublisher, holder, log, options)

	if cfg.AdminAddr != "" {
		adminServer := admin.NewServer(cfg.AdminAddr, holder, log)
		go func() {
			if err := adminServer.Start(); err != nil {
				log.Error(err, logger.Field{
					Key:   "action",
					Value: "start_admin",
				})
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := adminServer.Shutdown(shutdownCtx); err != nil {
				log.Error(err, logger.Field{
					Key:   "action",
					Value: "stop_admin",
				})
			}
		}()
	}

	sessions, err := acceptParticipants(ctx, eng, registry, ledger)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "accept_participants",
		})
		os.Exit(1)
	}
	defer func() {
		for _, s := range sessions {
			_ = s.Close()
		}
	}()

	if err := eng.Run(ctx); err != nil && err != context.Canceled {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "run_engine",
		})
	}

	_ = log.Sync()
}

// acceptParticipants listens on the configured address until the expected
// number of participants has connected. Participant ids follow connection
// order. Trading does not start until everyone is present.
func acceptParticipants(
	ctx context.Context,
	eng *engine.Engine,
	registry *participantv1.Registry,
	ledger *ledgerv1.Ledger,
) ([]*participantv1.StreamSession, error) {
	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, err
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	log.Info("waiting for participants", logger.Field{
		Key:   "addr",
		Value: cfg.ListenAddr,
	}, logger.Field{
		Key:   "expected",
		Value: cfg.Participants,
	})

	sessions := make([]*participantv1.StreamSession, 0, cfg.Participants)
	for len(sessions) < cfg.Participants {
		conn, err := listener.Accept()
		if err != nil {
			return sessions, err
		}

		session := participantv1.NewStreamSession(conn)
		p := registry.Add(session)
		ledger.Register(p.ID)
		sessions = append(sessions, session)

		log.Info("participant connected", logger.Field{
			Key:   "participant",
			Value: p.ID,
		}, logger.Field{
			Key:   "remote",
			Value: conn.RemoteAddr().String(),
		})
	}

	// Readers start only once the full roster is connected, so no command
	// can be queued before MARKET OPEN goes out.
	registry.Each(func(p *participantv1.Participant) {
		id := p.ID
		p.Session.(*participantv1.StreamSession).Start(
			func() { eng.NotifyReady(id) },
			func() { eng.NotifyDeath(id) },
		)
	})

	return sessions, nil
}
