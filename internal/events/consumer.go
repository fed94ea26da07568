package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig addresses the broker and the audit log.
type ConsumerConfig struct {
	URL    string
	Queue  string
	LogDir string // defaults to "logs"
}

// StartConsumer consumes cfg.Queue and appends one line per event to
// <LogDir>/document.log. It reconnects with exponential backoff (1s up to
// 30s) and only returns once ctx is cancelled. Bad messages are rejected
// without requeue.
func StartConsumer(ctx context.Context, cfg ConsumerConfig) error {
	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Printf("docaudit: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, cfg)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("docaudit: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("docaudit: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Printf("docaudit: consuming %s", cfg.Queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(cfg.LogDir, d.Body); err != nil {
				log.Printf("docaudit: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event and appends it to dir/document.log.
func HandleMessage(dir string, body []byte) error {
	var ev DocumentEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Op == "" || ev.Path == "" {
		return errors.New("event without op or path")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "document.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single human-friendly log line.
func FormatLine(ev DocumentEvent) string {
	fields := "[]"
	if len(ev.Fields) > 0 {
		fields = fmt.Sprintf("[%s]", strings.Join(ev.Fields, ","))
	}
	line := fmt.Sprintf("[%s] Document %s | id=%s | path=%s | backend=%s | fields=%s",
		ev.OccurredAt, ev.Op, ev.ID, ev.Path, ev.Backend, fields)
	if ev.Exists != nil {
		line += fmt.Sprintf(" | exists=%t", *ev.Exists)
	}
	return line + "\n"
}
