package nats

import (
	"context"
	"errors"
	"fmt"
	"lesson-media/internal/config"
	"lesson-media/internal/core/port"
	"lesson-media/internal/metrics"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	defaultAckWait    = 30 * time.Second
	defaultMaxDeliver = 5
)

// Consumer pulls remediation requests and storage notifications from a JetStream stream.
// Workers sharing the durable name split the messages between them.
type Consumer struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	iter   jetstream.MessagesContext
	wg     sync.WaitGroup
}

// NewConsumer connects to NATS and opens the JetStream context of the worker
func NewConsumer(cfg config.NATSConfig, logger *slog.Logger) (*Consumer, error) {
	opts := []nats.Option{
		nats.Name("lesson-media/"+cfg.ConsumerName),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("lost connection to nats", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("connection to nats restored", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}

	return &Consumer{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

func (c *Consumer) consumerConfig() jetstream.ConsumerConfig {
	ackWait := c.config.AckWait
	if ackWait <= 0 {
		ackWait = defaultAckWait
	}
	maxDeliver := c.config.MaxDeliver
	if maxDeliver <= 0 {
		maxDeliver = defaultMaxDeliver
	}

	return jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: c.config.Subject,
		AckWait:       ackWait,
		MaxDeliver:    maxDeliver,
	}
}

// Subscribe subscribes to the stream and hands every message to the handler.
// A handler error naks the message so JetStream redelivers it.
func (c *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	cons, err := c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, c.consumerConfig())
	if err != nil {
		return fmt.Errorf("failed to create consumer %q: %w", c.config.ConsumerName, err)
	}

	iter, err := cons.Messages()
	if err != nil {
		return err
	}
	c.iter = iter

	c.wg.Add(1)
	go c.consume(ctx, iter, handler)
	return nil
}

// consume runs until the context ends or the iterator is stopped
func (c *Consumer) consume(ctx context.Context, iter jetstream.MessagesContext, handler port.MessageService) {
	defer c.wg.Done()
	c.logger.Info("consuming", "stream", c.config.StreamName, "subject", c.config.Subject, "durable", c.config.ConsumerName)
	defer c.logger.Info("consumer stopped", "durable", c.config.ConsumerName)

	for ctx.Err() == nil {
		msg, err := iter.Next()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, jetstream.ErrMsgIteratorClosed) {
				c.logger.Error("failed to pull next message", "error", err)
			}
			return
		}
		c.handle(ctx, msg, handler)
	}
}

func (c *Consumer) handle(ctx context.Context, msg jetstream.Msg, handler port.MessageService) {
	stop := c.keepAlive(msg)
	handleErr := handler.HandleMessage(ctx, msg.Data())
	stop()

	if handleErr != nil {
		metrics.MessagesTotal.WithLabelValues("nak").Inc()
		if errNak := c.nak(msg); errNak != nil {
			c.logger.Error("nak failed", "subject", msg.Subject(), "error", errNak)
		}
		c.logger.Warn("failed to handle message", "subject", msg.Subject(), "error", handleErr)
		return
	}

	metrics.MessagesTotal.WithLabelValues("ack").Inc()
	if ackErr := msg.Ack(); ackErr != nil {
		c.logger.Error("ack failed", "subject", msg.Subject(), "error", ackErr)
	}
}

// nak asks for a redelivery, delayed when a retry delay is configured
func (c *Consumer) nak(msg jetstream.Msg) error {
	if c.config.RetryDelay > 0 {
		return msg.NakWithDelay(c.config.RetryDelay)
	}
	return msg.Nak()
}

// keepAlive extends the ack deadline while a long conversion is running
func (c *Consumer) keepAlive(msg jetstream.Msg) func() {
	interval := c.consumerConfig().AckWait / 2
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := msg.InProgress(); err != nil {
					c.logger.Warn("failed to extend ack deadline", "error", err)
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// Close stops pulling, waits for the message in flight and drops the connection
func (c *Consumer) Close() error {
	if c.iter != nil {
		c.iter.Stop()
	}

	c.wg.Wait()

	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
