package vfs

import "fmt"

// EventKind identifies a structural change notification
type EventKind int

const (
	EventCreated EventKind = iota
	EventDeleted
	EventMoved
	EventRenamed
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventDeleted:
		return "deleted"
	case EventMoved:
		return "moved"
	case EventRenamed:
		return "renamed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event describes a change to a single path. Cascading operations emit one
// Event per affected path.
type Event struct {
	Kind     EventKind
	NodeKind NodeKind
	Path     *Path // Affected path; the old path for moves and renames
	NewPath  *Path // Destination path for moves and renames, nil otherwise
}

// Message renders the event as a human-readable sentence
func (e Event) Message() string {
	noun := "Directory"
	if e.NodeKind == KindFile {
		noun = "File"
	}
	switch e.Kind {
	case EventCreated:
		return fmt.Sprintf("%s '%s' was created.", noun, e.Path)
	case EventDeleted:
		return fmt.Sprintf("%s '%s' was deleted.", noun, e.Path)
	case EventMoved:
		return fmt.Sprintf("%s was moved from path '%s' to path '%s'.", noun, e.Path, e.NewPath)
	case EventRenamed:
		return fmt.Sprintf("%s '%s' was renamed to '%s'.", noun, e.Path, e.NewPath.Name())
	default:
		return fmt.Sprintf("%s '%s': %s", noun, e.Path, e.Kind)
	}
}

func (e Event) String() string {
	return e.Message()
}

// Observer receives structural change notifications synchronously, on the
// caller's goroutine, before the mutating call returns.
type Observer interface {
	OnEvent(e Event)
}

// ObserverFunc adapts a plain function to [Observer]
type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}
