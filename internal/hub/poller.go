package hub

import (
	"context"
	"log"
	"time"
)

// DefaultPollInterval is how often the poller re-queries the store.
const DefaultPollInterval = 2 * time.Second

// LatestIDFunc returns the id of the newest record for a username, or ""
// when there is none.
type LatestIDFunc func(ctx context.Context, username string) (string, error)

// Poller is the change detector for viewers that cannot share process memory
// with the ingestion path: instead of being pushed to by the hub it re-reads
// the newest record id on a fixed interval and emits new_request on change.
type Poller struct {
	latestID LatestIDFunc
	notify   func(Event)
	interval time.Duration
	logger   *log.Logger
}

func NewPoller(latestID LatestIDFunc, notify func(Event), interval time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		latestID: latestID,
		notify:   notify,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until the context is cancelled. The first query only primes the
// last-seen id; pre-existing history is not replayed as events.
func (p *Poller) Run(ctx context.Context, username string) {
	lastSeen, err := p.latestID(ctx, username)
	if err != nil {
		p.logger.Printf("Poller failed to prime for %q: %v", username, err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			id, err := p.latestID(ctx, username)
			if err != nil {
				p.logger.Printf("Poller query failed for %q: %v", username, err)
				continue
			}
			if id != "" && id != lastSeen {
				lastSeen = id
				p.notify(Event{
					Event:     EventNewRequest,
					Username:  username,
					RequestID: id,
				})
			}
		}
	}
}
