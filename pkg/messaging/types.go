package messaging

import (
	"time"

	"github.com/boristopalov/keydoor/pkg/core"
)

// Event reports one applied action.
type Event struct {
	EpisodeID string
	Step      int
	Action    core.Action
	HasKey    bool
	Done      bool
	// Tool marks a step a tool took while the agent was deciding turn Step.
	Tool      bool
	Timestamp time.Time
}

// Publisher fans events out to subscribers.
type Publisher interface {
	Publish(ev Event) error
}

// Broker routes episode events to named subscribers
type Broker interface {
	Publisher
	// Subscribe registers ch under name
	Subscribe(name string, ch chan<- Event) error
	// Unsubscribe removes the subscription under name
	Unsubscribe(name string) error
}
