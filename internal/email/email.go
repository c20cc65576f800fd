package email

import (
	"context"
	"fmt"

	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, n kafka.Notification) error {
	fmt.Printf("send email to %s about %s (ref %s)\n", n.Email, n.Type, n.Token)
	return nil
}
