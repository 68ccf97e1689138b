package notify

import (
	"fmt"

	"github.com/gregdel/pushover"
)

// PushoverSender delivers alerts through the Pushover API.
type PushoverSender struct {
	push      *pushover.Pushover
	recipient *pushover.Recipient
}

// NewPushoverSender creates a sender for one application token and user.
func NewPushoverSender(token, user string) *PushoverSender {
	return &PushoverSender{
		push:      pushover.New(token),
		recipient: pushover.NewRecipient(user),
	}
}

// Send posts one message with a title.
func (p *PushoverSender) Send(title, message string) error {
	_, err := p.push.SendMessage(pushover.NewMessageWithTitle(message, title), p.recipient)
	if err != nil {
		return fmt.Errorf("pushover send: %w", err)
	}
	return nil
}
