package workers

import (
	"log"

	"github.com/avikmasanta/urlshortener/internal/logging"
)

// StartLogWorkers launches a pool of goroutines that drain the log event
// channel and deliver each event to the remote sink. Delivery happens off the
// request path so emitting an event never blocks a core operation.
// Workers exit when the channel is closed.
func StartLogWorkers(workerCount int, events <-chan logging.Event, sink logging.Sink) {
	log.Printf("Starting %d log worker(s)...", workerCount)

	for i := 0; i < workerCount; i++ {
		go logWorker(events, sink)
	}
}

// logWorker delivers events one at a time. Failures are logged locally and
// otherwise swallowed: the sink is best-effort.
func logWorker(events <-chan logging.Event, sink logging.Sink) {
	for event := range events {
		if err := sink.Deliver(event); err != nil {
			log.Printf("ERROR: failed to deliver log event (%s/%s): %v", event.Level, event.Package, err)
		}
	}
}
