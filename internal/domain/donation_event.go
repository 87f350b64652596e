package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StarsCurrency is the Telegram Stars currency code.
const StarsCurrency = "XTR"

// DonationEvent completed Telegram Stars payment.
type DonationEvent struct {
	Timestamp        time.Time `json:"ts"`
	ChatID           int64     `json:"chat_id"`
	Stars            int       `json:"stars"`
	Currency         string    `json:"currency"`
	Payload          string    `json:"payload"`
	TelegramChargeID string    `json:"telegram_charge_id,omitempty"`
	Verified         bool      `json:"verified"`
}

// DonationEventRecord bundles a donation event with its journal index.
type DonationEventRecord struct {
	Index uint64
	Event DonationEvent
}

// DonationPayload returns the invoice payload for a star amount.
func DonationPayload(stars int) string {
	return fmt.Sprintf("donate_%d_stars", stars)
}

// ParseDonationPayload extracts the star amount from an invoice payload.
func ParseDonationPayload(payload string) (int, error) {
	rest, ok := strings.CutPrefix(payload, "donate_")
	if !ok {
		return 0, fmt.Errorf("unexpected donation payload: %q", payload)
	}
	amount, ok := strings.CutSuffix(rest, "_stars")
	if !ok {
		return 0, fmt.Errorf("unexpected donation payload: %q", payload)
	}
	stars, err := strconv.Atoi(amount)
	if err != nil || stars <= 0 {
		return 0, fmt.Errorf("invalid star amount in payload: %q", payload)
	}
	return stars, nil
}
