// Package bot implements the conversation flow: language and coin menus,
// chart replies, AI analysis reports and Telegram Stars donations.
package bot

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"github.com/vadiminshakov/chartbot/internal/services/analysis"
	"github.com/vadiminshakov/chartbot/internal/services/chart"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxMessageLength = 4096
	defaultSourceName       = "Binance"
	invoiceStartParameter   = "donate"
)

// DefaultDonationAmounts star amounts offered in the donation menu.
var DefaultDonationAmounts = []int{1, 5, 10, 25, 50, 100}

// MarketData candle and ticker source.
type MarketData interface {
	FetchTimeframe(ctx context.Context, symbol string, tf domain.Timeframe) (domain.CandleSeries, error)
	FetchTicker(ctx context.Context, symbol string) (domain.TickerSnapshot, error)
}

// ChartRenderer turns candles into an image.
type ChartRenderer interface {
	Render(series domain.CandleSeries, coinLabel, timeframeLabel string) (*chart.Artifact, error)
}

// Analyzer sends charts to the analysis model.
type Analyzer interface {
	RequestAnalysis(ctx context.Context, coinLabel, languageName string, charts []*chart.Artifact) (string, error)
}

// Sessions per-chat language state.
type Sessions interface {
	Language(chatID int64) domain.Language
	SetLanguage(chatID int64, lang domain.Language)
}

// DonationJournal records completed payments.
type DonationJournal interface {
	Save(event domain.DonationEvent) error
}

// Dependencies collaborators of the controller. Donations may be nil.
type Dependencies struct {
	Messenger Messenger
	Market    MarketData
	Renderer  ChartRenderer
	Analyzer  Analyzer
	Sessions  Sessions
	Donations DonationJournal
	Coins     *domain.CoinCatalog
}

// Config tunables of the conversation.
type Config struct {
	MaxMessageLength int
	DonationAmounts  []int
	// SourceName is the exchange named in chart captions.
	SourceName string
	// AnalysisTimeframes is the chart order expected by the analyzer.
	AnalysisTimeframes []domain.Timeframe
}

// Controller drives one interaction per inbound event.
type Controller struct {
	deps     Dependencies
	cfg      Config
	coinMenu Keyboard
	logger   *zap.Logger
	now      func() time.Time
}

// NewController creates a conversation controller.
func NewController(deps Dependencies, cfg Config, logger *zap.Logger) (*Controller, error) {
	switch {
	case deps.Messenger == nil:
		return nil, errors.New("messenger is required")
	case deps.Market == nil:
		return nil, errors.New("market data source is required")
	case deps.Renderer == nil:
		return nil, errors.New("chart renderer is required")
	case deps.Analyzer == nil:
		return nil, errors.New("analyzer is required")
	case deps.Sessions == nil:
		return nil, errors.New("session store is required")
	}
	if deps.Coins == nil {
		deps.Coins = domain.DefaultCoinCatalog()
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = DefaultMaxMessageLength
	}
	if len(cfg.DonationAmounts) == 0 {
		cfg.DonationAmounts = DefaultDonationAmounts
	}
	if cfg.SourceName == "" {
		cfg.SourceName = defaultSourceName
	}
	if len(cfg.AnalysisTimeframes) == 0 {
		cfg.AnalysisTimeframes = domain.AnalysisTimeframes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		deps:     deps,
		cfg:      cfg,
		coinMenu: coinKeyboard(deps.Coins.Coins()),
		logger:   logger,
		now:      time.Now,
	}, nil
}

// interaction state of one event being handled.
type interaction struct {
	ev     Event
	intent Intent
	lang   domain.Language
	texts  Texts
	log    *zap.Logger
}

// Handle processes one event. It never panics and never returns errors;
// failures are reported to the user with a localized message.
func (c *Controller) Handle(ctx context.Context, ev Event) {
	intent := ParseIntent(ev)
	lang := c.deps.Sessions.Language(ev.ChatID)
	in := &interaction{
		ev:     ev,
		intent: intent,
		lang:   lang,
		texts:  TextsFor(lang),
		log: c.logger.With(
			zap.String("interaction_id", uuid.NewString()),
			zap.Int64("chat_id", ev.ChatID),
			zap.Stringer("intent", intent.Kind),
		),
	}

	defer func() {
		if r := recover(); r != nil {
			in.log.Error("panic while handling event", zap.Any("panic", r), zap.Stack("stack"))
			c.send(ctx, in, OutgoingMessage{ChatID: ev.ChatID, Text: in.texts.ErrorGeneral, HTML: true})
		}
	}()

	start := time.Now()
	in.log.Debug("handling event", zap.String("data", ev.Data))

	switch intent.Kind {
	case IntentStart:
		c.send(ctx, in, OutgoingMessage{ChatID: ev.ChatID, Text: in.texts.SelectLanguage, ReplyTo: ev.MessageID, Keyboard: languageKeyboard()})
	case IntentCoins:
		c.send(ctx, in, OutgoingMessage{ChatID: ev.ChatID, Text: in.texts.AvailableCoins, ReplyTo: ev.MessageID, Keyboard: c.coinMenu})
	case IntentDonate:
		c.send(ctx, in, OutgoingMessage{ChatID: ev.ChatID, Text: in.texts.DonationThanks, HTML: true, ReplyTo: ev.MessageID, Keyboard: donationKeyboard(c.cfg.DonationAmounts, in.texts)})
	case IntentText:
		c.send(ctx, in, OutgoingMessage{ChatID: ev.ChatID, Text: in.texts.HandleText, ReplyTo: ev.MessageID, Keyboard: c.coinMenu})
	case IntentSelectLanguage:
		c.handleLanguage(ctx, in)
	case IntentSelectCoin:
		c.handleCoin(ctx, in)
	case IntentChart:
		c.handleChart(ctx, in)
	case IntentAnalysis:
		c.handleAnalysis(ctx, in)
	case IntentShowCoins:
		c.answer(ctx, in, "", false)
		c.edit(ctx, in, MessageEdit{ChatID: ev.ChatID, MessageID: ev.MessageID, Text: in.texts.AvailableCoins, Keyboard: c.coinMenu})
	case IntentShowDonation:
		c.answer(ctx, in, "", false)
		c.edit(ctx, in, MessageEdit{ChatID: ev.ChatID, MessageID: ev.MessageID, Text: in.texts.DonationThanks, HTML: true, Keyboard: donationKeyboard(c.cfg.DonationAmounts, in.texts)})
	case IntentDonateAmount:
		c.handleDonateAmount(ctx, in)
	case IntentPreCheckout:
		c.handlePreCheckout(ctx, in)
	case IntentPayment:
		c.handlePayment(ctx, in)
	default:
		in.log.Info("ignoring unknown callback", zap.String("data", ev.Data))
		if ev.CallbackID != "" {
			c.answer(ctx, in, "", false)
		}
	}

	in.log.Debug("event handled", zap.Duration("elapsed", time.Since(start)))
}

func (c *Controller) handleLanguage(ctx context.Context, in *interaction) {
	lang, err := domain.ParseLanguage(in.intent.Language)
	if err != nil {
		in.log.Warn("unsupported language selected", zap.String("code", in.intent.Language))
		c.answer(ctx, in, in.texts.OptionUnavailable, true)
		return
	}

	c.deps.Sessions.SetLanguage(in.ev.ChatID, lang)
	in.lang, in.texts = lang, TextsFor(lang)

	c.answer(ctx, in, fmt.Sprintf(in.texts.LanguageSet, lang.FullName()), false)
	c.edit(ctx, in, MessageEdit{ChatID: in.ev.ChatID, MessageID: in.ev.MessageID, Text: in.texts.Welcome, Keyboard: c.coinMenu})
}

func (c *Controller) handleCoin(ctx context.Context, in *interaction) {
	coin, ok := c.deps.Coins.ByIndex(in.intent.CoinIndex)
	if !ok {
		in.log.Warn("unknown coin index", zap.Int("index", in.intent.CoinIndex))
		c.answer(ctx, in, in.texts.CoinUnavailable, true)
		return
	}

	c.answer(ctx, in, fmt.Sprintf(in.texts.CoinSelectedToast, coin.DisplayName), false)
	c.edit(ctx, in, MessageEdit{
		ChatID:    in.ev.ChatID,
		MessageID: in.ev.MessageID,
		Text:      fmt.Sprintf(in.texts.Selected, html.EscapeString(coin.DisplayName)),
		HTML:      true,
		Keyboard:  timeframeKeyboard(coin.DisplayName, in.texts),
	})
}

func (c *Controller) handleChart(ctx context.Context, in *interaction) {
	coin, ok := c.deps.Coins.ByName(in.intent.CoinName)
	if !ok {
		in.log.Warn("coin not found", zap.String("coin", in.intent.CoinName))
		c.answer(ctx, in, in.texts.CoinUnavailable, true)
		return
	}
	tf, err := domain.ParseTimeframe(in.intent.Timeframe)
	if err != nil {
		in.log.Warn("unsupported timeframe", zap.String("timeframe", in.intent.Timeframe))
		c.answer(ctx, in, in.texts.OptionUnavailable, true)
		return
	}
	c.answer(ctx, in, "", false)

	log := in.log.With(zap.String("symbol", coin.Symbol), zap.String("timeframe", string(tf)))
	name := html.EscapeString(coin.DisplayName)
	processing := in.ev.MessageID

	c.edit(ctx, in, MessageEdit{ChatID: in.ev.ChatID, MessageID: processing, Text: fmt.Sprintf(in.texts.LoadingChart, name, tf.Label()), HTML: true})

	chartError := func(err error) {
		log.Warn("chart request failed", zap.Error(err))
		c.edit(ctx, in, MessageEdit{ChatID: in.ev.ChatID, MessageID: processing, Text: fmt.Sprintf(in.texts.ErrorChart, name, tf.Label()), HTML: true})
	}

	series, err := c.deps.Market.FetchTimeframe(ctx, coin.Symbol, tf)
	if err != nil {
		chartError(err)
		return
	}

	artifact, err := c.deps.Renderer.Render(series, coin.DisplayName, tf.Label())
	if err != nil {
		chartError(errors.Wrap(err, "render chart"))
		return
	}
	defer artifact.Release()

	ticker, err := c.deps.Market.FetchTicker(ctx, coin.Symbol)
	if err != nil {
		chartError(err)
		return
	}

	caption := fmt.Sprintf(in.texts.ChartCaption,
		name,
		tf.Label(),
		ticker.LastPrice.StringFixed(2),
		ticker.PriceChangePercent24h.StringFixed(2),
		c.cfg.SourceName,
	)
	if err := c.deps.Messenger.SendPhoto(ctx, Photo{ChatID: in.ev.ChatID, PNG: artifact.Bytes(), Caption: caption, HTML: true}); err != nil {
		log.Error("failed to send chart", zap.Error(err))
		c.edit(ctx, in, MessageEdit{ChatID: in.ev.ChatID, MessageID: processing, Text: in.texts.ErrorGeneral, HTML: true})
		return
	}

	log.Info("chart sent", zap.Int("candles", len(series)), zap.Bool("sma", artifact.HasSMA))

	c.deleteBestEffort(ctx, in, processing)
	c.send(ctx, in, OutgoingMessage{ChatID: in.ev.ChatID, Text: in.texts.AnotherCoin, Keyboard: c.coinMenu})
}

func (c *Controller) handleAnalysis(ctx context.Context, in *interaction) {
	coin, ok := c.deps.Coins.ByName(in.intent.CoinName)
	if !ok {
		in.log.Warn("coin not found", zap.String("coin", in.intent.CoinName))
		c.answer(ctx, in, in.texts.CoinUnavailable, true)
		return
	}
	c.answer(ctx, in, "", false)

	log := in.log.With(zap.String("symbol", coin.Symbol))
	processing := in.ev.MessageID

	c.edit(ctx, in, MessageEdit{ChatID: in.ev.ChatID, MessageID: processing, Text: fmt.Sprintf(in.texts.LoadingAI, html.EscapeString(coin.DisplayName)), HTML: true})

	aiError := func(err error) {
		log.Warn("analysis failed", zap.Error(err))
		c.edit(ctx, in, MessageEdit{ChatID: in.ev.ChatID, MessageID: processing, Text: in.texts.ErrorAI, HTML: true})
	}

	charts, err := c.renderAnalysisCharts(ctx, coin)
	defer chart.ReleaseAll(charts)
	if err != nil {
		aiError(errors.Wrapf(analysis.ErrChartsUnavailable, "%v", err))
		return
	}

	raw, err := c.deps.Analyzer.RequestAnalysis(ctx, coin.DisplayName, in.lang.FullName(), charts)
	if err != nil {
		aiError(err)
		return
	}

	result := analysis.Parse(raw)
	log.Info("analysis received", zap.Bool("structured", result.Structured()))

	var (
		report   string
		keyboard Keyboard
	)
	if result.Structured() {
		report = c.formatReport(in.texts, *result.Recommendation)
		keyboard = reportKeyboard(CalendarLink(coin.DisplayName, *result.Recommendation), in.texts)
	} else {
		report = fmt.Sprintf(in.texts.RawAnalysis, html.EscapeString(result.Raw))
		keyboard = c.coinMenu
	}

	for _, chunk := range SplitMessage(report, c.cfg.MaxMessageLength) {
		c.send(ctx, in, OutgoingMessage{ChatID: in.ev.ChatID, Text: chunk, HTML: true})
	}
	c.send(ctx, in, OutgoingMessage{ChatID: in.ev.ChatID, Text: in.texts.AnotherCoin, Keyboard: keyboard})
	c.deleteBestEffort(ctx, in, processing)
}

// renderAnalysisCharts fetches and renders every analysis timeframe
// concurrently. The returned slice always has one slot per timeframe so the
// caller can release whatever was rendered.
func (c *Controller) renderAnalysisCharts(ctx context.Context, coin domain.CoinRef) ([]*chart.Artifact, error) {
	charts := make([]*chart.Artifact, len(c.cfg.AnalysisTimeframes))

	g, gctx := errgroup.WithContext(ctx)
	for i, tf := range c.cfg.AnalysisTimeframes {
		g.Go(func() error {
			series, err := c.deps.Market.FetchTimeframe(gctx, coin.Symbol, tf)
			if err != nil {
				return errors.Wrapf(err, "fetch %s candles", tf)
			}
			artifact, err := c.deps.Renderer.Render(series, coin.DisplayName, tf.Label())
			if err != nil {
				return errors.Wrapf(err, "render %s chart", tf)
			}
			charts[i] = artifact
			return nil
		})
	}

	return charts, g.Wait()
}

func (c *Controller) formatReport(texts Texts, rec domain.Recommendation) string {
	var sb strings.Builder
	sb.WriteString(texts.AIHeader)
	sb.WriteString(reportSeparator + "\n")
	sb.WriteString(fmt.Sprintf(texts.AnalysisSection, html.EscapeString(rec.Analysis)))
	sb.WriteString("\n" + reportSeparator)
	sb.WriteString(fmt.Sprintf(texts.RecommendationSection,
		rec.Action.Title(),
		strconv.FormatFloat(rec.TargetPrice, 'f', 2, 64),
		rec.TargetTimeString(),
	))
	sb.WriteString("\n" + reportSeparator)
	return sb.String()
}

func (c *Controller) handleDonateAmount(ctx context.Context, in *interaction) {
	stars := in.intent.Stars
	if !slices.Contains(c.cfg.DonationAmounts, stars) {
		in.log.Warn("unsupported donation amount", zap.Int("stars", stars))
		c.answer(ctx, in, in.texts.InvoiceError, true)
		return
	}

	err := c.deps.Messenger.SendInvoice(ctx, Invoice{
		ChatID:         in.ev.ChatID,
		Title:          in.texts.InvoiceTitle,
		Description:    fmt.Sprintf(in.texts.InvoiceDescription, stars),
		Payload:        domain.DonationPayload(stars),
		Currency:       domain.StarsCurrency,
		Label:          fmt.Sprintf(in.texts.InvoiceLabel, stars),
		Amount:         stars,
		StartParameter: invoiceStartParameter,
	})
	if err != nil {
		in.log.Error("failed to send invoice", zap.Int("stars", stars), zap.Error(err))
		c.answer(ctx, in, in.texts.InvoiceError, true)
		return
	}

	in.log.Info("invoice sent", zap.Int("stars", stars))
	c.answer(ctx, in, fmt.Sprintf(in.texts.InvoiceSent, stars), false)
}

func (c *Controller) handlePreCheckout(ctx context.Context, in *interaction) {
	q := in.ev.PreCheckout
	ok, errorMessage := true, ""
	if err := c.verifyDonation(q.Currency, q.TotalAmount, q.Payload); err != nil {
		in.log.Warn("declining pre-checkout", zap.String("payload", q.Payload), zap.Error(err))
		ok, errorMessage = false, in.texts.PaymentDeclined
	}

	if err := c.deps.Messenger.AnswerPreCheckout(ctx, q.ID, ok, errorMessage); err != nil {
		in.log.Error("failed to answer pre-checkout", zap.Error(err))
	}
}

func (c *Controller) handlePayment(ctx context.Context, in *interaction) {
	p := in.ev.Payment
	verifyErr := c.verifyDonation(p.Currency, p.TotalAmount, p.Payload)
	if verifyErr != nil {
		in.log.Warn("payment does not match an offered donation", zap.String("payload", p.Payload), zap.Error(verifyErr))
	}

	if c.deps.Donations != nil {
		event := domain.DonationEvent{
			Timestamp:        c.now().UTC(),
			ChatID:           in.ev.ChatID,
			Stars:            p.TotalAmount,
			Currency:         p.Currency,
			Payload:          p.Payload,
			TelegramChargeID: p.ChargeID,
			Verified:         verifyErr == nil,
		}
		if err := c.deps.Donations.Save(event); err != nil {
			in.log.Error("failed to journal donation", zap.Error(err))
		}
	}

	in.log.Info("donation received", zap.Int("stars", p.TotalAmount), zap.Bool("verified", verifyErr == nil))
	c.send(ctx, in, OutgoingMessage{ChatID: in.ev.ChatID, Text: in.texts.DonationSuccess, HTML: true, Keyboard: mainMenuKeyboard(in.texts)})
}

// verifyDonation checks a payment against the invoices this bot issues.
func (c *Controller) verifyDonation(currency string, amount int, payload string) error {
	stars, err := domain.ParseDonationPayload(payload)
	if err != nil {
		return err
	}
	if currency != domain.StarsCurrency {
		return errors.Errorf("unexpected currency %q", currency)
	}
	if amount != stars {
		return errors.Errorf("amount %d does not match payload %d", amount, stars)
	}
	if !slices.Contains(c.cfg.DonationAmounts, stars) {
		return errors.Errorf("amount %d is not offered", stars)
	}
	return nil
}

func (c *Controller) send(ctx context.Context, in *interaction, msg OutgoingMessage) {
	if _, err := c.deps.Messenger.SendMessage(ctx, msg); err != nil {
		in.log.Error("failed to send message", zap.Error(err))
	}
}

func (c *Controller) edit(ctx context.Context, in *interaction, edit MessageEdit) {
	if err := c.deps.Messenger.EditMessage(ctx, edit); err != nil {
		in.log.Warn("failed to edit message", zap.Int64("message_id", edit.MessageID), zap.Error(err))
	}
}

func (c *Controller) answer(ctx context.Context, in *interaction, text string, alert bool) {
	if in.ev.CallbackID == "" {
		return
	}
	err := c.deps.Messenger.AnswerCallback(ctx, CallbackAnswer{CallbackID: in.ev.CallbackID, Text: text, Alert: alert})
	if err != nil {
		in.log.Debug("failed to answer callback", zap.Error(err))
	}
}

func (c *Controller) deleteBestEffort(ctx context.Context, in *interaction, messageID int64) {
	if err := c.deps.Messenger.DeleteMessage(ctx, in.ev.ChatID, messageID); err != nil {
		in.log.Debug("failed to delete processing message", zap.Int64("message_id", messageID), zap.Error(err))
	}
}
