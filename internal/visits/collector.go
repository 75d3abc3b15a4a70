// Package visits counts redirect resolutions off the request path. Pushes
// are fire-and-forget: a full buffer or a failed flush means an undercount,
// never an overcount and never a slower redirect.
package visits

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/shortkeyhq/shortkey/internal/models"
)

type Visit struct {
	Key  string
	Host string
}

type Collector struct {
	ch       chan Visit
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	db       *sql.DB
}

func NewCollector(db *sql.DB, bufferSize int, flushInterval time.Duration) *Collector {
	c := &Collector{
		ch:   make(chan Visit, bufferSize),
		stop: make(chan struct{}),
		done: make(chan struct{}),
		db:   db,
	}
	go c.run(flushInterval)
	return c
}

// Push records a visit non-blocking. Drops the event if the buffer is full.
func (c *Collector) Push(v Visit) {
	select {
	case c.ch <- v:
	default:
		// buffer full, drop event
	}
}

// Shutdown flushes remaining events and returns. Safe to call more than
// once.
func (c *Collector) Shutdown() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

func (c *Collector) run(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-c.stop:
			c.flush()
			return
		}
	}
}

func (c *Collector) flush() {
	counts := make(map[Visit]int64)
	for {
		select {
		case v := <-c.ch:
			counts[v]++
		default:
			goto done
		}
	}
done:
	if len(counts) == 0 {
		return
	}

	for v, n := range counts {
		if err := models.IncrementVisits(c.db, v.Key, v.Host, n); err != nil {
			log.Printf("visits: increment %s/%s by %d: %v", v.Host, v.Key, n, err)
		}
	}
}
