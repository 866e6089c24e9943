package protocolv1

import (
	"fmt"
	"strconv"
	"strings"

	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
)

const (
	// Terminator ends every message on the wire.
	Terminator = ';'
	// MaxMessageLen is the maximum message length in bytes, terminator included.
	MaxMessageLen = 127

	// MinFieldValue and MaxFieldValue bound quantity and price. Order ids
	// share the upper bound but start at zero.
	MinFieldValue = 1
	MaxFieldValue = 999_999

	// MaxProductLen bounds the product token.
	MaxProductLen = 16
)

// MarketOpen is sent to every participant before trading starts.
const MarketOpen = "MARKET OPEN;"

// RenderInvalid is the only reply a participant sees for any protocol error.
func RenderInvalid() string {
	return "INVALID;"
}

// RenderAccepted renders the reply to an accepted buy or sell.
func RenderAccepted(orderID int) string {
	return fmt.Sprintf("ACCEPTED %d;", orderID)
}

// RenderAmended renders the reply to a successful amend.
func RenderAmended(orderID int) string {
	return fmt.Sprintf("AMENDED %d;", orderID)
}

// RenderCancelled renders the reply to a successful cancel.
func RenderCancelled(orderID int) string {
	return fmt.Sprintf("CANCELLED %d;", orderID)
}

// RenderFill renders the fill notification for one side of a match.
func RenderFill(orderID int, qty int64) string {
	return fmt.Sprintf("FILL %d %d;", orderID, qty)
}

// RenderMarket renders the broadcast describing new or updated interest.
// A fully cancelled price level is broadcast with qty and price both zero.
func RenderMarket(side orderbookv1.Side, product string, qty, price int64) string {
	return fmt.Sprintf("MARKET %s %s %d %d;", side, product, qty, price)
}

// Broadcast is a parsed MARKET BUY/SELL message, used by the participant side.
type Broadcast struct {
	Side    orderbookv1.Side
	Product string
	Qty     int64
	Price   int64
}

// DecodeBroadcast parses a MARKET BUY/SELL message. It tolerates only the
// exact rendered form.
func DecodeBroadcast(raw string) (Broadcast, bool) {
	body, ok := strings.CutSuffix(raw, string(Terminator))
	if !ok {
		return Broadcast{}, false
	}
	fields := strings.Split(body, " ")
	if len(fields) != 5 || fields[0] != "MARKET" {
		return Broadcast{}, false
	}

	var side orderbookv1.Side
	switch fields[1] {
	case "BUY":
		side = orderbookv1.SideBuy
	case "SELL":
		side = orderbookv1.SideSell
	default:
		return Broadcast{}, false
	}

	qty, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Broadcast{}, false
	}
	price, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return Broadcast{}, false
	}

	return Broadcast{Side: side, Product: fields[2], Qty: qty, Price: price}, true
}

// DecodeAccepted parses an ACCEPTED reply and returns the acknowledged order id.
func DecodeAccepted(raw string) (int, bool) {
	body, ok := strings.CutSuffix(raw, string(Terminator))
	if !ok {
		return 0, false
	}
	fields := strings.Split(body, " ")
	if len(fields) != 2 || fields[0] != "ACCEPTED" {
		return 0, false
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
