package event

import (
	"time"

	"github.com/viant/arcs/internal/clock"
)

// Arc lifecycle event types.
const (
	TypeArcStarted      = "arcStarted"
	TypeArcFailed       = "arcFailed"
	TypeArcStopped      = "arcStopped"
	TypeArcDeserialized = "arcDeserialized"
)

// Context identifies what an event is about.
type Context struct {
	ArcID       string `json:"arcID"`
	PlanName    string `json:"planName,omitempty"`
	EventType   string `json:"eventType"`
	Error       string `json:"error,omitempty"`
	TimeTakenMs int    `json:"timeTakenMs,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
