package bot

import (
	"html"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/chartbot/internal/domain"
)

func TestSplitMessage(t *testing.T) {
	const max = 4096

	text := strings.Repeat("a", 3*max+10)
	chunks := SplitMessage(text, max)

	require.Len(t, chunks, 4)
	for _, c := range chunks[:3] {
		assert.Len(t, c, max)
	}
	assert.Len(t, chunks[3], 10)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitMessage_Runes(t *testing.T) {
	text := strings.Repeat("تحلیل ", 7)
	chunks := SplitMessage(text, 5)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 5)
	}
}

func TestSplitMessage_Edges(t *testing.T) {
	assert.Nil(t, SplitMessage("", 10))
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))
	assert.Equal(t, []string{"exact"}, SplitMessage("exact", 5))
	assert.Equal(t, []string{"ab", "cd"}, SplitMessage("abcd", 2))
}

func TestSplitMessage_KeepsEntitiesWhole(t *testing.T) {
	report := "<b>AI Analysis:</b>\n\n" + html.EscapeString(strings.Repeat("x", 78)+"& more")
	chunks := SplitMessage(report, 100)

	require.Len(t, chunks, 2)
	assert.Equal(t, report, strings.Join(chunks, ""))
	assert.True(t, strings.HasSuffix(chunks[0], "xx"))
	assert.Equal(t, "&amp; more", chunks[1])
}

func TestSplitMessage_KeepsElementsWhole(t *testing.T) {
	chunks := SplitMessage("hello <b>bold</b> world", 12)
	assert.Equal(t, []string{"hello ", "<b>bold</b> ", "world"}, chunks)
}

func TestSplitMessage_EscapedReport(t *testing.T) {
	const max = 50
	report := "<b>AI Analysis:</b>\n\n" + html.EscapeString(strings.Repeat("R&D <up> \"a\" & 'b' ", 40))
	chunks := SplitMessage(report, max)

	assert.Equal(t, report, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), max)
		amp := strings.LastIndex(c, "&")
		if amp >= 0 {
			assert.Contains(t, c[amp:], ";", "chunk ends inside an entity: %q", c)
		}
		assert.Equal(t, strings.Count(c, "<b>"), strings.Count(c, "</b>"), "unbalanced chunk: %q", c)
	}
}

func TestCalendarLink(t *testing.T) {
	rec := domain.Recommendation{
		Analysis:    strings.Repeat("é", 250),
		Action:      domain.ActionBuy,
		TargetPrice: 45000.5,
		TargetTime:  time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC),
	}

	link := CalendarLink("Bitcoin (BTC)", rec)

	require.True(t, strings.HasPrefix(link, "https://calendar.google.com/calendar/render?action=TEMPLATE&text="))
	assert.True(t, strings.HasSuffix(link, "&sf=true&output=xml"))
	assert.Contains(t, link, "&dates=20240501T233000/20240502T003000&")
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "BUY Bitcoin (BTC) at $45000.5", q.Get("text"))

	details := q.Get("details")
	assert.True(t, strings.HasPrefix(details, "AI Trading Recommendation\n\nAction: BUY\nTarget Price: $45000.5\n\nAnalysis Summary: "))
	assert.True(t, strings.HasSuffix(details, strings.Repeat("é", 200)+"..."))
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected Intent
	}{
		{name: "start", event: Event{Text: "/start"}, expected: Intent{Kind: IntentStart}},
		{name: "start with bot name", event: Event{Text: "/start@ChartBot"}, expected: Intent{Kind: IntentStart}},
		{name: "coins", event: Event{Text: "/coins"}, expected: Intent{Kind: IntentCoins}},
		{name: "donate", event: Event{Text: " /donate now"}, expected: Intent{Kind: IntentDonate}},
		{name: "unknown command", event: Event{Text: "/help"}, expected: Intent{Kind: IntentText}},
		{name: "free text", event: Event{Text: "hi there"}, expected: Intent{Kind: IntentText}},
		{name: "language", event: Event{CallbackID: "1", Data: "lang_ar"}, expected: Intent{Kind: IntentSelectLanguage, Language: "ar"}},
		{name: "coin", event: Event{CallbackID: "1", Data: "coin_12"}, expected: Intent{Kind: IntentSelectCoin, CoinIndex: 12}},
		{name: "bad coin", event: Event{CallbackID: "1", Data: "coin_"}, expected: Intent{Kind: IntentSelectCoin, CoinIndex: -1}},
		{
			name:     "timeframe",
			event:    Event{CallbackID: "1", Data: "timeframe_Bitcoin (BTC)_1w"},
			expected: Intent{Kind: IntentChart, CoinName: "Bitcoin (BTC)", Timeframe: "1w"},
		},
		{
			name:     "timeframe with underscore in name",
			event:    Event{CallbackID: "1", Data: "timeframe_My_Coin_1m"},
			expected: Intent{Kind: IntentChart, CoinName: "My_Coin", Timeframe: "1m"},
		},
		{name: "timeframe without parts", event: Event{CallbackID: "1", Data: "timeframe_"}, expected: Intent{Kind: IntentChart}},
		{name: "analysis", event: Event{CallbackID: "1", Data: "ai_Solana (SOL)"}, expected: Intent{Kind: IntentAnalysis, CoinName: "Solana (SOL)"}},
		{name: "show coins", event: Event{CallbackID: "1", Data: "show_coins"}, expected: Intent{Kind: IntentShowCoins}},
		{name: "show donation", event: Event{CallbackID: "1", Data: "show_donation"}, expected: Intent{Kind: IntentShowDonation}},
		{name: "donate amount", event: Event{CallbackID: "1", Data: "donate_25"}, expected: Intent{Kind: IntentDonateAmount, Stars: 25}},
		{name: "unknown callback", event: Event{CallbackID: "1", Data: "noop"}, expected: Intent{Kind: IntentUnknown}},
		{name: "pre-checkout", event: Event{PreCheckout: &PreCheckout{ID: "x"}}, expected: Intent{Kind: IntentPreCheckout}},
		{name: "payment", event: Event{Payment: &Payment{}}, expected: Intent{Kind: IntentPayment}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseIntent(tt.event))
		})
	}
}

func TestKeyboards(t *testing.T) {
	kb := donationKeyboard(DefaultDonationAmounts, TextsFor(domain.LanguageEnglish))
	require.Len(t, kb, 3)
	assert.Equal(t, Button{Text: "⭐ 1 Star", Data: "donate_1"}, kb[0][0])
	assert.Equal(t, Button{Text: "⭐ 100 Stars", Data: "donate_100"}, kb[2][1])

	coins := []domain.CoinRef{
		domain.NewCoinRef("₿ Bitcoin (BTC)", "BTCUSDT"),
		domain.NewCoinRef("⧫ Ethereum (ETH)", "ETHUSDT"),
		domain.NewCoinRef("◎ Solana (SOL)", "SOLUSDT"),
	}
	menu := coinKeyboard(coins)
	require.Len(t, menu, 2)
	assert.Equal(t, Button{Text: "◎ Solana (SOL)", Data: "coin_2"}, menu[1][0])
	assert.Len(t, menu[1], 1)
}

func TestTextsFor_CompleteCatalogs(t *testing.T) {
	for _, lang := range domain.SupportedLanguages {
		texts := TextsFor(lang)
		assert.NotEmpty(t, texts.Welcome, lang)
		assert.NotEmpty(t, texts.ChartCaption, lang)
		assert.NotEmpty(t, texts.InvoiceLabel, lang)
		assert.NotEmpty(t, texts.OneStarButton, lang)
		assert.Equal(t, 5, strings.Count(texts.ChartCaption, "%s"), lang)
	}
	assert.Equal(t, TextsFor(domain.LanguageEnglish), TextsFor(domain.Language("xx")))
}
