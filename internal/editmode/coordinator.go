// Package editmode keeps at most one view in edit mode at a time.
//
// The Coordinator is owned by the app shell and handed to every view. A view
// claims the editor token when it enters edit mode; ReleaseAll turns edit mode
// off everywhere. Release always wins over a local "on" state.
package editmode

import "sync"

type Coordinator struct {
	mu sync.Mutex

	active string
	title  string

	nextID int
	offs   map[int]func()
	ons    map[int]func(editorID, title string)
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		offs: map[int]func(){},
		ons:  map[int]func(string, string){},
	}
}

// Claim makes editorID the active editor. Any other editor is switched off
// first, so Off listeners run before On listeners.
func (c *Coordinator) Claim(editorID, title string) {
	c.mu.Lock()
	prev := c.active
	var offs []func()
	if prev != "" && prev != editorID {
		offs = c.snapshotOffs()
	}
	c.active = editorID
	c.title = title
	ons := c.snapshotOns()
	c.mu.Unlock()

	for _, fn := range offs {
		fn()
	}
	for _, fn := range ons {
		fn(editorID, title)
	}
}

// ReleaseAll clears the token and notifies every Off listener, whoever claimed it.
func (c *Coordinator) ReleaseAll() {
	c.mu.Lock()
	c.active = ""
	c.title = ""
	offs := c.snapshotOffs()
	c.mu.Unlock()

	for _, fn := range offs {
		fn()
	}
}

// Active returns the current editor, if any.
func (c *Coordinator) Active() (editorID, title string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.title, c.active != ""
}

// OnOff registers fn for "all edit modes off". The returned func unsubscribes.
func (c *Coordinator) OnOff(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.offs[id] = fn
	c.mu.Unlock()
	return c.unsubscriber(func() { delete(c.offs, id) })
}

// OnOn registers fn for "edit mode on". The returned func unsubscribes.
func (c *Coordinator) OnOn(fn func(editorID, title string)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.ons[id] = fn
	c.mu.Unlock()
	return c.unsubscriber(func() { delete(c.ons, id) })
}

// Listeners is the number of live subscriptions.
func (c *Coordinator) Listeners() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.offs) + len(c.ons)
}

func (c *Coordinator) unsubscriber(del func()) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			del()
			c.mu.Unlock()
		})
	}
}

// Listener maps are snapshotted in subscription order so callbacks may
// (un)subscribe without deadlocking.
func (c *Coordinator) snapshotOffs() []func() {
	out := make([]func(), 0, len(c.offs))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.offs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (c *Coordinator) snapshotOns() []func(string, string) {
	out := make([]func(string, string), 0, len(c.ons))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.ons[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
