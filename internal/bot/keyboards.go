package bot

import (
	"fmt"

	"github.com/vadiminshakov/chartbot/internal/domain"
)

const coinsPerRow = 2

func languageKeyboard() Keyboard {
	row := make([]Button, 0, len(domain.SupportedLanguages))
	for _, lang := range domain.SupportedLanguages {
		row = append(row, Button{Text: lang.NativeName(), Data: languageCallback(string(lang))})
	}
	return Keyboard{row}
}

// coinKeyboard lays coins out two per row in catalog order.
func coinKeyboard(coins []domain.CoinRef) Keyboard {
	kb := make(Keyboard, 0, (len(coins)+coinsPerRow-1)/coinsPerRow)
	for i := 0; i < len(coins); i += coinsPerRow {
		end := min(i+coinsPerRow, len(coins))
		row := make([]Button, 0, coinsPerRow)
		for j := i; j < end; j++ {
			row = append(row, Button{Text: coins[j].Label, Data: coinCallback(j)})
		}
		kb = append(kb, row)
	}
	return kb
}

func timeframeKeyboard(coinName string, texts Texts) Keyboard {
	button := func(tf domain.Timeframe) Button {
		return Button{Text: tf.Label(), Data: timeframeCallback(coinName, string(tf))}
	}
	return Keyboard{
		{button(domain.TimeframeHour), button(domain.TimeframeWeek)},
		{button(domain.TimeframeMonth), {Text: texts.AnalysisButton, Data: analysisCallback(coinName)}},
	}
}

func donationKeyboard(amounts []int, texts Texts) Keyboard {
	kb := make(Keyboard, 0, (len(amounts)+1)/2)
	for i := 0; i < len(amounts); i += 2 {
		end := min(i+2, len(amounts))
		row := make([]Button, 0, 2)
		for _, stars := range amounts[i:end] {
			row = append(row, Button{Text: starsLabel(stars, texts), Data: donateCallback(stars)})
		}
		kb = append(kb, row)
	}
	return kb
}

func starsLabel(stars int, texts Texts) string {
	if stars == 1 {
		return texts.OneStarButton
	}
	return fmt.Sprintf(texts.StarsButton, stars)
}

func mainMenuKeyboard(texts Texts) Keyboard {
	return Keyboard{{
		{Text: texts.ViewCoinsButton, Data: callbackShowCoins},
		{Text: texts.DonateButton, Data: callbackShowDonation},
	}}
}

func reportKeyboard(calendarURL string, texts Texts) Keyboard {
	return Keyboard{
		{{Text: texts.CalendarButton, URL: calendarURL}},
		{{Text: texts.AnotherButton, Data: callbackShowCoins}},
		{{Text: texts.SupportUsButton, Data: callbackShowDonation}},
	}
}
