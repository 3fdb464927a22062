package sight

import (
	"github.com/akmonengine/sight/volume"
)

const (
	ENTER_VIEW EventType = iota
	STAY_VIEW
	EXIT_VIEW
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case ENTER_VIEW:
		return "enter"
	case STAY_VIEW:
		return "stay"
	case EXIT_VIEW:
		return "exit"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// EnterViewEvent is sent when an object becomes visible.
type EnterViewEvent struct {
	Object      *Object
	Containment volume.ContainmentType
}

func (e EnterViewEvent) Type() EventType { return ENTER_VIEW }

// StayViewEvent is sent for every cull an object remains visible.
type StayViewEvent struct {
	Object      *Object
	Containment volume.ContainmentType
}

func (e StayViewEvent) Type() EventType { return STAY_VIEW }

// ExitViewEvent is sent when a visible object leaves the view.
type ExitViewEvent struct {
	Object *Object
}

func (e ExitViewEvent) Type() EventType { return EXIT_VIEW }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Visibility tracking for Enter/Stay/Exit detection
	previousVisible map[*Object]volume.ContainmentType
	currentVisible  map[*Object]volume.ContainmentType
}

func NewEvents() Events {
	return Events{
		listeners:       make(map[EventType][]EventListener),
		buffer:          make([]Event, 0, 256),
		previousVisible: make(map[*Object]volume.ContainmentType),
		currentVisible:  make(map[*Object]volume.ContainmentType),
	}
}

// ensure makes the zero Events usable.
func (e *Events) ensure() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.ensure()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordVisibility stores the objects seen by the current cull. Disjoint results are ignored.
func (e *Events) recordVisibility(visibility []Visibility) {
	e.ensure()
	for _, v := range visibility {
		if v.Containment == volume.Disjoint {
			continue
		}
		e.currentVisible[v.Object] = v.Containment
	}
}

// forget drops the tracking of a removed object, without an exit event.
func (e *Events) forget(object *Object) {
	delete(e.previousVisible, object)
	delete(e.currentVisible, object)
}

// processViewEvents compares the current and previous visible sets to detect Enter/Stay/Exit
func (e *Events) processViewEvents() {
	for object, containment := range e.currentVisible {
		if _, ok := e.previousVisible[object]; ok {
			e.buffer = append(e.buffer, StayViewEvent{Object: object, Containment: containment})
		} else {
			e.buffer = append(e.buffer, EnterViewEvent{Object: object, Containment: containment})
		}
	}

	for object := range e.previousVisible {
		if _, ok := e.currentVisible[object]; !ok {
			e.buffer = append(e.buffer, ExitViewEvent{Object: object})
		}
	}

	// Swap for next cull and clear current
	e.previousVisible, e.currentVisible = e.currentVisible, e.previousVisible
	clear(e.currentVisible)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processViewEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
