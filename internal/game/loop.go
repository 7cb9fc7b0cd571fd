package game

import (
	"context"
	"log"
	"time"

	"github.com/bronald/uhcd/internal/domain"
)

// Run drives the session: it alternates between draining classified console
// events and running scheduler ticks. All session state is mutated from this
// one goroutine. The loop exits when the event stream closes (the server
// process ended) or the context is cancelled.
func Run(ctx context.Context, sess *Session, events <-chan domain.ConsoleEvent, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				log.Println("Console stream ended, stopping control loop")
				return
			}
			sess.HandleEvent(ev)
		case now := <-ticker.C:
			sess.Tick(now)
		}
	}
}
