package httpserver

import (
	"sync"

	"storefront/internal/session"
	"storefront/internal/workingcopy"
)

// workingCopies keeps one cart working copy per device. Each entry has its
// own lock so a slow checkout on one device does not stall the others.
type workingCopies struct {
	mu       sync.Mutex
	byDevice map[string]*workingCopyEntry
}

type workingCopyEntry struct {
	mu sync.Mutex
	wc *workingcopy.WorkingCopy
}

func newWorkingCopies() *workingCopies {
	return &workingCopies{byDevice: make(map[string]*workingCopyEntry)}
}

// with runs fn on the device's working copy after syncing it with snap.
func (r *workingCopies) with(deviceID string, snap session.Snapshot, fn func(wc *workingcopy.WorkingCopy) error) error {
	r.mu.Lock()
	entry, ok := r.byDevice[deviceID]
	if !ok {
		entry = &workingCopyEntry{}
		r.byDevice[deviceID] = entry
	}
	r.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.wc == nil {
		entry.wc = workingcopy.New(snap.Cart, snap.CartVersion)
	} else {
		entry.wc.Sync(snap.Cart, snap.CartVersion)
	}
	return fn(entry.wc)
}

func (r *workingCopies) drop(deviceID string) {
	r.mu.Lock()
	delete(r.byDevice, deviceID)
	r.mu.Unlock()
}

func (r *workingCopies) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byDevice)
}
