package bot

import "context"

// Button inline keyboard button. Exactly one of Data or URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard rows of inline buttons.
type Keyboard [][]Button

// OutgoingMessage new text message.
type OutgoingMessage struct {
	ChatID   int64
	Text     string
	HTML     bool
	ReplyTo  int64
	Keyboard Keyboard
}

// MessageEdit replacement text for an existing message.
type MessageEdit struct {
	ChatID    int64
	MessageID int64
	Text      string
	HTML      bool
	Keyboard  Keyboard
}

// Photo PNG image with caption.
type Photo struct {
	ChatID  int64
	PNG     []byte
	Caption string
	HTML    bool
}

// CallbackAnswer toast or alert shown for a button press.
type CallbackAnswer struct {
	CallbackID string
	Text       string
	Alert      bool
}

// Invoice Telegram Stars invoice.
type Invoice struct {
	ChatID         int64
	Title          string
	Description    string
	Payload        string
	Currency       string
	Label          string
	Amount         int
	StartParameter string
}

// Messenger outbound side of the chat transport.
type Messenger interface {
	SendMessage(ctx context.Context, msg OutgoingMessage) (int64, error)
	EditMessage(ctx context.Context, edit MessageEdit) error
	SendPhoto(ctx context.Context, photo Photo) error
	AnswerCallback(ctx context.Context, answer CallbackAnswer) error
	SendInvoice(ctx context.Context, invoice Invoice) error
	AnswerPreCheckout(ctx context.Context, id string, ok bool, errorMessage string) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
}
