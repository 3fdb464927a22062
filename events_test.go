package sight

import (
	"testing"

	"github.com/akmonengine/sight/volume"
	"github.com/go-gl/mathgl/mgl64"
)

// createTestObject creates a minimal Object for event testing
func createTestObject(id any) *Object {
	return NewObject(
		id,
		volume.BoundingSphere{Radius: 1},
		volume.Transform{Position: mgl64.Vec3{0, 0, 0}, Rotation: mgl64.QuatIdent()},
	)
}

func visible(objects ...*Object) []Visibility {
	result := make([]Visibility, 0, len(objects))
	for i, object := range objects {
		result = append(result, Visibility{Index: i, Object: object, Containment: volume.Contains})
	}
	return result
}

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	for _, e := range ec.events {
		if e.Type() == eventType {
			return true
		}
	}
	return false
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(ENTER_VIEW, capture.capture)

	if len(events.listeners[ENTER_VIEW]) != 1 {
		t.Errorf("Expected 1 listener for ENTER_VIEW, got %d", len(events.listeners[ENTER_VIEW]))
	}
}

func TestEvents_ZeroValue(t *testing.T) {
	var events Events
	capture := &eventCapture{}

	events.Subscribe(ENTER_VIEW, capture.capture)
	events.recordVisibility(visible(createTestObject("A")))
	events.flush()

	if capture.count() != 1 {
		t.Errorf("Expected 1 event, got %d", capture.count())
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	capture1 := &eventCapture{}
	capture2 := &eventCapture{}
	capture3 := &eventCapture{}

	events.Subscribe(ENTER_VIEW, capture1.capture)
	events.Subscribe(ENTER_VIEW, capture2.capture)
	events.Subscribe(ENTER_VIEW, capture3.capture)

	if len(events.listeners[ENTER_VIEW]) != 3 {
		t.Errorf("Expected 3 listeners for ENTER_VIEW, got %d", len(events.listeners[ENTER_VIEW]))
	}

	events.recordVisibility(visible(createTestObject("A")))
	events.flush()

	for i, capture := range []*eventCapture{capture1, capture2, capture3} {
		if capture.count() != 1 {
			t.Errorf("Capture%d expected 1 event, got %d", i+1, capture.count())
		}
	}
}

func TestEvents_DifferentEventTypes(t *testing.T) {
	events := NewEvents()
	captureEnter := &eventCapture{}
	captureExit := &eventCapture{}

	events.Subscribe(ENTER_VIEW, captureEnter.capture)
	events.Subscribe(EXIT_VIEW, captureExit.capture)

	events.recordVisibility(visible(createTestObject("A")))
	events.flush()

	if captureEnter.count() != 1 {
		t.Errorf("Expected 1 enter event, got %d", captureEnter.count())
	}
	if captureExit.count() != 0 {
		t.Errorf("Expected 0 exit events, got %d", captureExit.count())
	}
}

// =============================================================================
// Enter / Stay / Exit Tests
// =============================================================================

func TestEvents_EnterView(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ENTER_VIEW, capture.capture)

	object := createTestObject("A")
	events.recordVisibility([]Visibility{{Object: object, Containment: volume.Intersects}})
	events.flush()

	if !capture.hasEventType(ENTER_VIEW) {
		t.Fatal("Expected ENTER_VIEW event")
	}
	enter := capture.events[0].(EnterViewEvent)
	if enter.Object != object || enter.Containment != volume.Intersects {
		t.Errorf("unexpected event %+v", enter)
	}
}

func TestEvents_StayView(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ENTER_VIEW, capture.capture)
	events.Subscribe(STAY_VIEW, capture.capture)

	object := createTestObject("A")

	events.recordVisibility(visible(object))
	events.flush()
	capture.reset()

	events.recordVisibility(visible(object))
	events.flush()

	if capture.count() != 1 || !capture.hasEventType(STAY_VIEW) {
		t.Errorf("Expected a single STAY_VIEW event, got %v", capture.events)
	}
}

func TestEvents_ExitView(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(EXIT_VIEW, capture.capture)

	object := createTestObject("A")

	events.recordVisibility(visible(object))
	events.flush()

	// Not visible anymore
	events.flush()

	if capture.count() != 1 {
		t.Fatalf("Expected 1 EXIT_VIEW event, got %d", capture.count())
	}
	if capture.events[0].(ExitViewEvent).Object != object {
		t.Error("EXIT_VIEW event should carry the object")
	}

	// Exit is sent once
	capture.reset()
	events.flush()
	if capture.count() != 0 {
		t.Errorf("Expected no more events, got %d", capture.count())
	}
}

func TestEvents_DisjointIsIgnored(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ENTER_VIEW, capture.capture)

	events.recordVisibility([]Visibility{{Object: createTestObject("A"), Containment: volume.Disjoint}})
	events.flush()

	if capture.count() != 0 {
		t.Errorf("Expected no event for a disjoint object, got %d", capture.count())
	}
}

func TestEvents_Forget(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(EXIT_VIEW, capture.capture)

	object := createTestObject("A")
	events.recordVisibility(visible(object))
	events.flush()

	events.forget(object)
	events.flush()

	if capture.count() != 0 {
		t.Errorf("Expected no EXIT_VIEW for a forgotten object, got %d", capture.count())
	}
}

func TestEventType_String(t *testing.T) {
	tests := map[EventType]string{ENTER_VIEW: "enter", STAY_VIEW: "stay", EXIT_VIEW: "exit", EventType(9): "unknown"}
	for eventType, want := range tests {
		if eventType.String() != want {
			t.Errorf("%d.String() = %q, want %q", eventType, eventType.String(), want)
		}
	}
}
