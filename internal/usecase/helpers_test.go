package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ekathu/internal/domain/model"
	"ekathu/internal/infra/memory"
	"ekathu/internal/usecase"

	"github.com/stretchr/testify/require"
)

// 連番ID
type seqIDGen struct{ n atomic.Int64 }

func (g *seqIDGen) NewID() string {
	return fmt.Sprintf("id-%d", g.n.Add(1))
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// 送られたイベントを記録する
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	Subject string
	Payload any
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Subject: subject, Payload: payload})
	return p.err
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Subject)
	}
	return out
}

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, store *memory.Store, id, email string, role model.Role) {
	t.Helper()
	require.NoError(t, store.Users().Create(context.Background(), &model.User{
		ID:        id,
		Name:      "User " + id,
		Email:     email,
		Role:      role,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}))
}

func seedProduct(t *testing.T, store *memory.Store, id, name string, price int64) {
	t.Helper()
	require.NoError(t, store.Products().Create(context.Background(), model.Product{
		ID:        id,
		Name:      name,
		Price:     price,
		Category:  "General",
		CreatedAt: testNow,
	}))
}

// エラーのステータスとメッセージ
func requireHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "want HTTPError, got %v", err)
	require.Equal(t, status, he.Status)
	require.Equal(t, msg, he.Message)
}
