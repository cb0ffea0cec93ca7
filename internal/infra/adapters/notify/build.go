package notify

import (
	"fmt"

	"github.com/rs/zerolog"

	"training-registration/internal/config"
	"training-registration/internal/domain/ports/adapter"
)

// Chain is a configured dispatcher plus the resources it owns.
type Chain struct {
	Dispatcher *Dispatcher
	closers    []func() error
}

func (c *Chain) Close() error {
	var first error
	for _, fn := range c.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// BuildChain assembles the ordered transport list from configuration:
// relays (only with a webhook), telegram, amqp, then the email draft as a
// last resort. Without any network transport the chain is empty and every
// send is a no-op.
func BuildChain(cfg config.NotifyConfig, formatter *Formatter, device adapter.DeviceActions, logger *zerolog.Logger) (*Chain, error) {
	chain := &Chain{}
	var transports []Transport

	if cfg.WebhookURL != "" {
		for i, tmpl := range cfg.Relays {
			name := fmt.Sprintf("relay_%d", i+1)
			transports = append(transports, NewRelayTransport(name, tmpl, cfg.WebhookURL, cfg.Timeout))
		}
	}

	if cfg.Telegram.Token != "" {
		tg, err := NewTelegramTransport(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("telegram transport: %w", err)
		}
		transports = append(transports, tg)
	}

	if cfg.AMQP.URL != "" {
		pub, err := NewStaffPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return nil, fmt.Errorf("amqp transport: %w", err)
		}
		chain.closers = append(chain.closers, pub.Close)
		transports = append(transports, NewAMQPTransport(pub, cfg.AMQP.RoutingKey))
	}

	if len(transports) > 0 && cfg.Email.To != "" {
		transports = append(transports, NewEmailComposeTransport(cfg.Email.To, device))
	}

	chain.Dispatcher = NewDispatcher(formatter, transports, logger)
	return chain, nil
}
