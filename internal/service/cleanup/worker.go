package cleanup

import (
	"log"
	"time"
)

// SessionSweeper drops sessions that finished or went idle long enough ago.
type SessionSweeper interface {
	CleanupOldSessions() int
}

type Worker struct {
	Sessions SessionSweeper
	Interval time.Duration
	stop     chan struct{}
}

func NewWorker(sessions SessionSweeper, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &Worker{Sessions: sessions, Interval: interval, stop: make(chan struct{})}
}

// Start initiates the background ticker
func (w *Worker) Start() {
	go w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.runCleanup()
			case <-w.stop:
				return
			}
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

func (w *Worker) Stop() {
	close(w.stop)
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup() {
	log.Println("[CLEANUP] Starting scheduled cleanup task...")

	if removed := w.Sessions.CleanupOldSessions(); removed > 0 {
		log.Printf("[CLEANUP] Removed %d stale sessions from memory", removed)
	}
}
