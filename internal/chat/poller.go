package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/agrotrade/agrotrade-client/pkg/logger"
)

// Poller re-fetches the conversation list on a fixed interval and hands each
// result to the callback. Poll errors are logged and the loop keeps running;
// a transient backend failure must not kill chat for the rest of the session.
type Poller struct {
	svc      *Service
	logg     *logger.Logger
	interval time.Duration
	onUpdate func([]Conversation)
}

// NewPoller builds a poller; a non-positive interval falls back to 15s.
func NewPoller(svc *Service, logg *logger.Logger, interval time.Duration, onUpdate func([]Conversation)) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{svc: svc, logg: logg, interval: interval, onUpdate: onUpdate}
}

// Run polls until the context is canceled. An immediate first poll happens
// before the first tick so the UI is not blank for a full interval.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	conversations, err := p.svc.Conversations(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logg.Warn(ctx, fmt.Sprintf("chat poll failed: %v", err))
		}
		return
	}
	p.onUpdate(conversations)
}
