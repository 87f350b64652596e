package bot

import (
	"strconv"
	"strings"
)

// Event inbound update reduced to what the controller needs.
type Event struct {
	ChatID int64
	// MessageID is the user's message for commands and text, or the message
	// carrying the pressed keyboard for callbacks.
	MessageID  int64
	CallbackID string
	Text       string
	Data       string

	PreCheckout *PreCheckout
	Payment     *Payment
}

// PreCheckout payment confirmation request.
type PreCheckout struct {
	ID          string
	Currency    string
	TotalAmount int
	Payload     string
}

// Payment completed payment notice.
type Payment struct {
	Currency    string
	TotalAmount int
	Payload     string
	ChargeID    string
}

// IntentKind normalized user action.
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentStart
	IntentCoins
	IntentDonate
	IntentText
	IntentSelectLanguage
	IntentSelectCoin
	IntentChart
	IntentAnalysis
	IntentShowCoins
	IntentShowDonation
	IntentDonateAmount
	IntentPreCheckout
	IntentPayment
)

var intentNames = map[IntentKind]string{
	IntentUnknown:        "unknown",
	IntentStart:          "start",
	IntentCoins:          "coins",
	IntentDonate:         "donate",
	IntentText:           "text",
	IntentSelectLanguage: "select_language",
	IntentSelectCoin:     "select_coin",
	IntentChart:          "chart",
	IntentAnalysis:       "analysis",
	IntentShowCoins:      "show_coins",
	IntentShowDonation:   "show_donation",
	IntentDonateAmount:   "donate_amount",
	IntentPreCheckout:    "pre_checkout",
	IntentPayment:        "payment",
}

func (k IntentKind) String() string {
	if name, ok := intentNames[k]; ok {
		return name
	}
	return "unknown"
}

// Callback data prefixes and values.
const (
	callbackLanguage     = "lang_"
	callbackCoin         = "coin_"
	callbackTimeframe    = "timeframe_"
	callbackAnalysis     = "ai_"
	callbackDonate       = "donate_"
	callbackShowCoins    = "show_coins"
	callbackShowDonation = "show_donation"
)

// Intent parsed event. Only the fields relevant to Kind are set; a selector
// that cannot be parsed is left empty (or -1 for numbers) so the handler can
// reject it.
type Intent struct {
	Kind      IntentKind
	Language  string
	CoinIndex int
	CoinName  string
	Timeframe string
	Stars     int
}

// ParseIntent maps an event to an intent.
func ParseIntent(ev Event) Intent {
	switch {
	case ev.PreCheckout != nil:
		return Intent{Kind: IntentPreCheckout}
	case ev.Payment != nil:
		return Intent{Kind: IntentPayment}
	case ev.CallbackID != "":
		return parseCallback(ev.Data)
	default:
		return parseText(ev.Text)
	}
}

func parseText(text string) Intent {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Intent{Kind: IntentText}
	}

	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	switch cmd {
	case "/start":
		return Intent{Kind: IntentStart}
	case "/coins":
		return Intent{Kind: IntentCoins}
	case "/donate":
		return Intent{Kind: IntentDonate}
	default:
		return Intent{Kind: IntentText}
	}
}

func parseCallback(data string) Intent {
	switch {
	case data == callbackShowCoins:
		return Intent{Kind: IntentShowCoins}
	case data == callbackShowDonation:
		return Intent{Kind: IntentShowDonation}
	case strings.HasPrefix(data, callbackLanguage):
		return Intent{Kind: IntentSelectLanguage, Language: strings.TrimPrefix(data, callbackLanguage)}
	case strings.HasPrefix(data, callbackCoin):
		return Intent{Kind: IntentSelectCoin, CoinIndex: parseNumber(strings.TrimPrefix(data, callbackCoin))}
	case strings.HasPrefix(data, callbackTimeframe):
		// coin names may contain underscores, the timeframe never does
		rest := strings.TrimPrefix(data, callbackTimeframe)
		i := strings.LastIndex(rest, "_")
		if i <= 0 {
			return Intent{Kind: IntentChart}
		}
		return Intent{Kind: IntentChart, CoinName: rest[:i], Timeframe: rest[i+1:]}
	case strings.HasPrefix(data, callbackAnalysis):
		return Intent{Kind: IntentAnalysis, CoinName: strings.TrimPrefix(data, callbackAnalysis)}
	case strings.HasPrefix(data, callbackDonate):
		return Intent{Kind: IntentDonateAmount, Stars: parseNumber(strings.TrimPrefix(data, callbackDonate))}
	default:
		return Intent{Kind: IntentUnknown}
	}
}

func parseNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func coinCallback(index int) string {
	return callbackCoin + strconv.Itoa(index)
}

func timeframeCallback(coinName, timeframe string) string {
	return callbackTimeframe + coinName + "_" + timeframe
}

func analysisCallback(coinName string) string {
	return callbackAnalysis + coinName
}

func donateCallback(stars int) string {
	return callbackDonate + strconv.Itoa(stars)
}

func languageCallback(code string) string {
	return callbackLanguage + code
}
