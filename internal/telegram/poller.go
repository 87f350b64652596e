package telegram

import (
	"context"
	"time"

	"github.com/vadiminshakov/chartbot/internal/bot"
	"github.com/vadiminshakov/chartbot/internal/clients"
	"go.uber.org/zap"
)

const (
	defaultPollTimeout  = 30 * time.Second
	defaultErrorBackoff = 3 * time.Second
	maxErrorBackoff     = time.Minute
)

// UpdateSource long-polling update feed.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]clients.Update, error)
}

// EventSink receives converted updates.
type EventSink interface {
	Dispatch(ctx context.Context, ev bot.Event)
}

// Poller pulls updates and forwards them as events.
type Poller struct {
	source  UpdateSource
	sink    EventSink
	logger  *zap.Logger
	timeout time.Duration
	backoff time.Duration

	offset int64
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollTimeout sets the long-poll timeout passed to getUpdates.
func WithPollTimeout(d time.Duration) PollerOption {
	return func(p *Poller) { p.timeout = d }
}

// WithErrorBackoff sets the initial pause after a failed poll.
func WithErrorBackoff(d time.Duration) PollerOption {
	return func(p *Poller) { p.backoff = d }
}

// NewPoller creates a new update poller.
func NewPoller(source UpdateSource, sink EventSink, logger *zap.Logger, opts ...PollerOption) *Poller {
	p := &Poller{
		source:  source,
		sink:    sink,
		logger:  logger,
		timeout: defaultPollTimeout,
		backoff: defaultErrorBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Offset returns the next update id the poller will ask for.
func (p *Poller) Offset() int64 {
	return p.offset
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("Starting update polling", zap.Duration("timeout", p.timeout))

	backoff := p.backoff
	for {
		if ctx.Err() != nil {
			p.logger.Info("Context done, stopping update polling")
			return nil
		}

		updates, err := p.source.GetUpdates(ctx, p.offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("Failed to get updates", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxErrorBackoff)
			continue
		}
		backoff = p.backoff

		for _, upd := range updates {
			if upd.UpdateID >= p.offset {
				p.offset = upd.UpdateID + 1
			}
			ev, ok := ToEvent(upd)
			if !ok {
				p.logger.Debug("Skipping unsupported update", zap.Int64("update_id", upd.UpdateID))
				continue
			}
			p.sink.Dispatch(ctx, ev)
		}
	}
}

// ToEvent converts an update into a controller event. Updates the bot does
// not react to report false.
func ToEvent(upd clients.Update) (bot.Event, bool) {
	switch {
	case upd.PreCheckoutQuery != nil:
		q := upd.PreCheckoutQuery
		return bot.Event{
			ChatID: q.From.ID,
			PreCheckout: &bot.PreCheckout{
				ID:          q.ID,
				Currency:    q.Currency,
				TotalAmount: q.TotalAmount,
				Payload:     q.InvoicePayload,
			},
		}, true

	case upd.CallbackQuery != nil:
		q := upd.CallbackQuery
		ev := bot.Event{ChatID: q.From.ID, CallbackID: q.ID, Data: q.Data}
		if q.Message != nil {
			ev.ChatID = q.Message.Chat.ID
			ev.MessageID = q.Message.MessageID
		}
		return ev, true

	case upd.Message != nil:
		m := upd.Message
		ev := bot.Event{ChatID: m.Chat.ID, MessageID: m.MessageID, Text: m.Text}
		if sp := m.SuccessfulPayment; sp != nil {
			ev.Payment = &bot.Payment{
				Currency:    sp.Currency,
				TotalAmount: sp.TotalAmount,
				Payload:     sp.InvoicePayload,
				ChargeID:    sp.TelegramPaymentChargeID,
			}
			return ev, true
		}
		if m.Text == "" {
			return bot.Event{}, false
		}
		return ev, true
	}

	return bot.Event{}, false
}
