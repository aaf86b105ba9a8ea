package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EventType string
type EventType string

const (
	EventMarketCreated       EventType = "market_created"
	EventSupplied            EventType = "supplied"
	EventWithdrawn           EventType = "withdrawn"
	EventBorrowed            EventType = "borrowed"
	EventRepaid              EventType = "repaid"
	EventCollateralSupplied  EventType = "collateral_supplied"
	EventCollateralWithdrawn EventType = "collateral_withdrawn"
	EventLiquidated          EventType = "liquidated"
	EventBadDebt             EventType = "bad_debt"
	EventFlashLoan           EventType = "flash_loan"
	EventGrantUpdated        EventType = "grant_updated"
	EventProtocolFeeUpdated  EventType = "protocol_fee_updated"
	EventCreationFeeUpdated  EventType = "creation_fee_updated"
	EventFlashLoanRateSet    EventType = "flash_loan_rate_updated"
	EventFeeRecipientSet     EventType = "fee_recipient_updated"
	EventRateModelAllowed    EventType = "rate_model_allowed"
	EventFeesWithdrawn       EventType = "fees_withdrawn"
)

// Event one structured record per mutating operation.
type Event struct {
	TraceID   string          `json:"trace_id"`
	Type      EventType       `json:"type"`
	MarketID  uint64          `json:"market_id,omitempty"`
	Caller    string          `json:"caller,omitempty"`
	OnBehalf  string          `json:"on_behalf,omitempty"`
	Receiver  string          `json:"receiver,omitempty"`
	Assets    decimal.Decimal `json:"assets,omitempty"`
	Shares    decimal.Decimal `json:"shares,omitempty"`
	Seized    decimal.Decimal `json:"seized,omitempty"`
	Fee       decimal.Decimal `json:"fee,omitempty"`
	BadDebt   decimal.Decimal `json:"bad_debt,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Emit stamps the event and writes it as one structured log line.
func Emit(ctx context.Context, e *Event) *Event {
	if e.TraceID == "" {
		e.TraceID = uuid.Must(uuid.NewV4()).String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"trace":  e.TraceID,
		"market": e.MarketID,
		"caller": e.Caller,
	})
	if e.OnBehalf != "" {
		log = log.WithField("on_behalf", e.OnBehalf)
	}
	if e.Receiver != "" {
		log = log.WithField("receiver", e.Receiver)
	}
	if !e.Assets.IsZero() {
		log = log.WithField("assets", e.Assets)
	}
	if !e.Shares.IsZero() {
		log = log.WithField("shares", e.Shares)
	}
	if !e.Seized.IsZero() {
		log = log.WithField("seized", e.Seized)
	}
	if !e.Fee.IsZero() {
		log = log.WithField("fee", e.Fee)
	}
	if !e.BadDebt.IsZero() {
		log = log.WithField("bad_debt", e.BadDebt)
	}

	log.Infoln(string(e.Type))
	return e
}
