// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/apk-portal/internal/logger"
)

type listPoller struct {
	reloader ListReloader
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewListPoller creates a Worker that calls reloader.ReloadList every
// interval. A zero or negative interval disables it: Start then does
// nothing.
func NewListPoller(reloader ListReloader, interval time.Duration, logger *logger.Logger) Worker {
	return &listPoller{
		reloader: reloader,
		interval: interval,
		logger:   logger,
	}
}

// Start implements Worker. It stops any previously running poller, then
// launches a goroutine that reloads the list on a ticker until ctx is
// cancelled or Stop is called.
func (p *listPoller) Start(ctx context.Context) {
	if p.interval <= 0 {
		p.logger.Debug().Msg("list poller disabled")
		return
	}

	p.Stop()

	p.mu.Lock()
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-t.C:
				if err := p.reloader.ReloadList(pollCtx); err != nil {
					p.logger.Debug().Err(err).Msg("list poll skipped")
				}
			}
		}
	}()
}

// Stop implements Worker.
func (p *listPoller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}
