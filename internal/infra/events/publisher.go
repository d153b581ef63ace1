package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// *nats.Conn のうち使う部分
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

const (
	publishAttempts = 3
	flushTimeout    = 2 * time.Second
)

// NATS にイベントを送る。ブローカーが落ちている間はブレーカーが開いてすぐ諦める
type NatsPublisher struct {
	nc         conn
	cb         *gobreaker.CircuitBreaker[struct{}]
	retryDelay time.Duration
}

func Connect(url string) (*NatsPublisher, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var nc *nats.Conn
	var err error

	for i := 0; i < 3; i++ {
		nc, err = nats.Connect(url,
			nats.Name("ekathu-api"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Warn().Err(err).Msg("NATS disconnected")
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
			}),
		)
		if err == nil {
			log.Info().Str("url", url).Msg("Connected to NATS")
			return newNatsPublisher(nc, time.Second), nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to NATS")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		case <-time.After(2 * time.Second):
		}
	}

	return nil, fmt.Errorf("failed to connect to NATS after retries: %w", err)
}

func newNatsPublisher(nc conn, retryDelay time.Duration) *NatsPublisher {
	return &NatsPublisher{
		nc:         nc,
		cb:         newBreaker("nats-publisher"),
		retryDelay: retryDelay,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[struct{}] {
	var st gobreaker.Settings
	st.Name = name
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
	}
	return gobreaker.NewCircuitBreaker[struct{}](st)
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.publishWithRetry(ctx, subject, data)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("event publisher unavailable: %w", err)
	}
	return err
}

func (p *NatsPublisher) publishWithRetry(ctx context.Context, subject string, data []byte) error {
	var lastErr error
	for i := 0; i < publishAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}

		budget := flushBudget(ctx)
		if budget <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			return context.DeadlineExceeded
		}

		if err := p.nc.Publish(subject, data); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int("attempt", i+1).Msg("Failed to publish to NATS")
			lastErr = err
			continue
		}
		if err := p.nc.FlushTimeout(budget); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Failed to flush NATS connection")
			lastErr = err
			continue
		}

		log.Ctx(ctx).Debug().Str("subject", subject).Msg("event published")
		return nil
	}
	return fmt.Errorf("failed to publish event after retries: %w", lastErr)
}

// flush の待ち時間は ctx の残り時間まで
func flushBudget(ctx context.Context) time.Duration {
	if err := ctx.Err(); err != nil {
		return 0
	}
	budget := flushTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < budget {
			budget = left
		}
	}
	return budget
}

func (p *NatsPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
		log.Info().Msg("NATS connection closed")
	}
}

// NATS_URL が無いとき用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() {}
