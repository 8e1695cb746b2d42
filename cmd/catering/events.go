package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/messaging"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow entity change events published to redis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		broker, err := newBroker(cfg.Redis, log)
		if err != nil {
			return err
		}
		defer broker.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		msgs, err := broker.Subscribe(ctx, cfg.Redis.Channel)
		if err != nil {
			return err
		}
		log.Info("subscribed", "channel", cfg.Redis.Channel)

		consume(ctx, msgs, log)
		return nil
	},
}

// consume logs every event until msgs closes or ctx ends. It returns the
// number of events that decoded.
func consume(ctx context.Context, msgs <-chan []byte, log *logger.Logger) int {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n
		case raw, ok := <-msgs:
			if !ok {
				return n
			}
			var msg messaging.Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				log.Warn("undecodable event", "error", err.Error(), "payload", string(raw))
				continue
			}
			n++
			log.Info("event",
				"type", msg.Type,
				"occurred_at", msg.OccurredAt,
				"payload", msg.Payload)
		}
	}
}
