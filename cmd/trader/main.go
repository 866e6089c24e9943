package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"time"

	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
	protocolv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/protocol/v1"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/config"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/logger"
)

// stopQty is the quantity at which the trader stops trading and disconnects.
const stopQty = 1000

// resendAfter is how long the trader waits for an acknowledgement before
// resending its last order.
const resendAfter = 2 * time.Second

var cfg *config.TraderConfig
var log *logger.Logger

func init() {
	cfg = &config.TraderConfig{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

// The reference auto-trader mirrors every broadcast sell below the stop
// quantity with a buy at the same quantity and price. It exists to exercise
// the venue end to end and as a template for real strategies.
func main() {
	conn, err := net.Dial("tcp", cfg.VenueAddr)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "dial_venue",
		})
		os.Exit(1)
	}
	defer conn.Close()

	log.Info("connected", logger.Field{
		Key:   "venue",
		Value: cfg.VenueAddr,
	})

	if err := run(conn, resendAfter); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "trade",
		})
		os.Exit(1)
	}
	_ = log.Sync()
}

// run drives the strategy until the stop quantity is seen or the venue goes
// away. One order is in flight at a time; an unacknowledged order is resent
// after the resend interval and abandoned once ACCEPTED or INVALID arrives.
func run(conn net.Conn, resendEvery time.Duration) error {
	messages := make(chan string, 16)
	readErr := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(conn)
		for {
			raw, err := reader.ReadString(protocolv1.Terminator)
			if err != nil {
				readErr <- err
				return
			}
			messages <- raw
		}
	}()

	nextID := 0
	pending := ""
	var resend <-chan time.Time

	for {
		var raw string
		select {
		case raw = <-messages:
		case err := <-readErr:
			return err
		case <-resend:
			log.Info("resending order", logger.Field{
				Key:   "order",
				Value: pending,
			})
			if _, err := fmt.Fprint(conn, pending); err != nil {
				return err
			}
			resend = time.After(resendEvery)
			continue
		}

		if pending != "" {
			if id, ok := protocolv1.DecodeAccepted(raw); ok {
				log.Info("order accepted", logger.Field{
					Key:   "orderId",
					Value: id,
				})
				pending = ""
				resend = nil
				nextID++
				continue
			}
			if raw == protocolv1.RenderInvalid() {
				// The venue rejected the order; resending it would only
				// bounce again. The id stays free for the next attempt.
				log.Warn("order rejected", logger.Field{
					Key:   "order",
					Value: pending,
				})
				pending = ""
				resend = nil
				continue
			}
		}

		broadcast, ok := protocolv1.DecodeBroadcast(raw)
		if !ok || broadcast.Side != orderbookv1.SideSell {
			continue
		}
		if broadcast.Qty >= stopQty {
			log.Info("stop quantity reached, disconnecting", logger.Field{
				Key:   "qty",
				Value: broadcast.Qty,
			})
			return nil
		}
		if pending != "" {
			// Still waiting on the last order; one order in flight at a time.
			continue
		}

		pending = fmt.Sprintf("BUY %d %s %d %d;", nextID, broadcast.Product, broadcast.Qty, broadcast.Price)
		log.Info("placing order", logger.Field{
			Key:   "order",
			Value: pending,
		})
		if _, err := fmt.Fprint(conn, pending); err != nil {
			return err
		}
		resend = time.After(resendEvery)
	}
}
