package filesystem

import (
	"slices"
	"sync/atomic"

	"github.com/brettbedarf/vfs"
	"github.com/puzpuzpuz/xsync/v4"
)

// Notifier dispatches events synchronously to observers in registration
// order. Observers may unsubscribe (themselves included) while a dispatch
// is running; they are skipped from that point on.
type Notifier struct {
	lastID    atomic.Uint64                   // Last subscription ID handed out
	observers *xsync.Map[uint64, vfs.Observer] // subscription ID -> observer
}

func NewNotifier() *Notifier {
	return &Notifier{observers: xsync.NewMap[uint64, vfs.Observer]()}
}

// Subscribe registers o and returns a func that removes it again.
// Calling the returned func more than once is harmless.
func (n *Notifier) Subscribe(o vfs.Observer) (unsubscribe func()) {
	id := n.lastID.Add(1)
	n.observers.Store(id, o)
	return func() {
		n.observers.Delete(id)
	}
}

// Len returns the number of registered observers
func (n *Notifier) Len() int {
	return n.observers.Size()
}

// Publish delivers e to every registered observer before returning
func (n *Notifier) Publish(e vfs.Event) {
	ids := make([]uint64, 0, n.observers.Size())
	n.observers.Range(func(id uint64, _ vfs.Observer) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)

	for _, id := range ids {
		if o, ok := n.observers.Load(id); ok {
			o.OnEvent(e)
		}
	}
}
