package event

import (
	log "github.com/sirupsen/logrus"

	"github.com/mykyta-k1/tx-foundations/pkg/common/domain"
)

// LogDispatcher publishes domain events to the structured log. It stands in
// for a real broker; dispatch is best-effort and never fails.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Dispatch(event domain.Event) error {
	log.WithFields(log.Fields{
		"event":   event.Type(),
		"payload": event,
	}).Info("domain event")
	return nil
}
