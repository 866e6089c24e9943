package protocolv1

import (
	"fmt"
	"strconv"
	"strings"

	orderbookv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/orderbook/v1"
)

// Verdict classifies the outcome of decoding one inbound command.
type Verdict int

const (
	// VerdictNoResponse means nothing was read; not an error, nothing to do.
	VerdictNoResponse Verdict = iota
	// VerdictInvalid means the command failed validation; the sender gets
	// INVALID; and no state is mutated.
	VerdictInvalid
	// VerdictAccepted means a valid BUY or SELL.
	VerdictAccepted
	// VerdictAmended means a valid AMEND of a live order.
	VerdictAmended
	// VerdictCancelled means a valid CANCEL of a live order.
	VerdictCancelled
)

// Result is the outcome of decoding one command. Order carries the order to
// submit for Accepted and Amended, and a zero-quantity echo of the cancelled
// order for Cancelled (used for the 0 0 level broadcast). Ref identifies the
// resting order an amend or cancel applies to; it is re-resolved at apply
// time within the same atomic command unit.
type Result struct {
	Verdict Verdict
	Order   *orderbookv1.Order
	Ref     orderbookv1.Ref
}

// State is the venue state the codec validates against.
type State interface {
	// HasProduct reports whether the product is in the catalog.
	HasProduct(name string) bool
	// AcceptedCount returns the participant's count of previously accepted
	// orders; a new order id must equal it exactly.
	AcceptedCount(participant int) int
	// FindOrder returns the live order with the given identity, scanning
	// products in catalog order, or nil.
	FindOrder(participant, orderID int) *orderbookv1.Order
}

// Decode parses and validates one raw inbound message from the participant.
// Validation is round-trip: the parsed fields are re-rendered with the exact
// same format and must byte-match the message sans terminator, which rejects
// stray whitespace, sign characters, leading zeros and trailing garbage.
func Decode(raw string, participant int, state State) Result {
	if raw == "" {
		return Result{Verdict: VerdictNoResponse}
	}
	if len(raw) > MaxMessageLen || raw[len(raw)-1] != Terminator {
		return Result{Verdict: VerdictInvalid}
	}

	body := raw[:len(raw)-1]
	fields := strings.Split(body, " ")

	switch fields[0] {
	case "BUY":
		return decodeSubmit(body, fields, participant, orderbookv1.SideBuy, state)
	case "SELL":
		return decodeSubmit(body, fields, participant, orderbookv1.SideSell, state)
	case "AMEND":
		return decodeAmend(body, fields, participant, state)
	case "CANCEL":
		return decodeCancel(body, fields, participant, state)
	default:
		return Result{Verdict: VerdictInvalid}
	}
}

func decodeSubmit(body string, fields []string, participant int, side orderbookv1.Side, state State) Result {
	invalid := Result{Verdict: VerdictInvalid}
	if len(fields) != 5 {
		return invalid
	}

	orderID, ok := parseField(fields[1])
	if !ok {
		return invalid
	}
	product := fields[2]
	qty, okQty := parseField(fields[3])
	price, okPrice := parseField(fields[4])
	if !okQty || !okPrice {
		return invalid
	}

	rendered := fmt.Sprintf("%s %d %s %d %d", side, orderID, product, qty, price)
	if rendered != body {
		return invalid
	}

	if orderID < 0 || orderID > MaxFieldValue {
		return invalid
	}
	if int(orderID) != state.AcceptedCount(participant) {
		return invalid
	}
	if !validProductToken(product) || !state.HasProduct(product) {
		return invalid
	}
	if qty < MinFieldValue || qty > MaxFieldValue {
		return invalid
	}
	if price < MinFieldValue || price > MaxFieldValue {
		return invalid
	}

	return Result{
		Verdict: VerdictAccepted,
		Order: &orderbookv1.Order{
			Participant: participant,
			ID:          int(orderID),
			Product:     product,
			Side:        side,
			Qty:         qty,
			Price:       price,
		},
	}
}

func decodeAmend(body string, fields []string, participant int, state State) Result {
	invalid := Result{Verdict: VerdictInvalid}
	if len(fields) != 4 {
		return invalid
	}

	orderID, okID := parseField(fields[1])
	qty, okQty := parseField(fields[2])
	price, okPrice := parseField(fields[3])
	if !okID || !okQty || !okPrice {
		return invalid
	}

	rendered := fmt.Sprintf("AMEND %d %d %d", orderID, qty, price)
	if rendered != body {
		return invalid
	}

	if orderID < 0 || orderID > MaxFieldValue {
		return invalid
	}
	if int(orderID) >= state.AcceptedCount(participant) {
		return invalid
	}
	if qty < MinFieldValue || qty > MaxFieldValue {
		return invalid
	}
	if price < MinFieldValue || price > MaxFieldValue {
		return invalid
	}

	old := state.FindOrder(participant, int(orderID))
	if old == nil {
		return invalid
	}

	return Result{
		Verdict: VerdictAmended,
		Order: &orderbookv1.Order{
			Participant: participant,
			ID:          int(orderID),
			Product:     old.Product,
			Side:        old.Side,
			Qty:         qty,
			Price:       price,
		},
		Ref: orderbookv1.Ref{Participant: participant, OrderID: int(orderID)},
	}
}

func decodeCancel(body string, fields []string, participant int, state State) Result {
	invalid := Result{Verdict: VerdictInvalid}
	if len(fields) != 2 {
		return invalid
	}

	orderID, ok := parseField(fields[1])
	if !ok {
		return invalid
	}

	rendered := fmt.Sprintf("CANCEL %d", orderID)
	if rendered != body {
		return invalid
	}

	if orderID < 0 || orderID > MaxFieldValue {
		return invalid
	}
	if int(orderID) >= state.AcceptedCount(participant) {
		return invalid
	}

	old := state.FindOrder(participant, int(orderID))
	if old == nil {
		return invalid
	}

	return Result{
		Verdict: VerdictCancelled,
		Order: &orderbookv1.Order{
			Participant: participant,
			ID:          int(orderID),
			Product:     old.Product,
			Side:        old.Side,
		},
		Ref: orderbookv1.Ref{Participant: participant, OrderID: int(orderID)},
	}
}

func parseField(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func validProductToken(s string) bool {
	if len(s) == 0 || len(s) > MaxProductLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
