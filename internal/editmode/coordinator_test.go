package editmode

import "testing"

type fakeView struct {
	id   string
	edit bool
}

func (v *fakeView) attach(c *Coordinator) func() {
	return c.OnOff(func() { v.edit = false })
}

func (v *fakeView) enter(c *Coordinator) {
	c.Claim(v.id, "Edit Person")
	v.edit = true
}

func TestReleaseAll_TurnsOffEveryView(t *testing.T) {
	c := NewCoordinator()
	a := &fakeView{id: "a"}
	b := &fakeView{id: "b"}
	defer a.attach(c)()
	defer b.attach(c)()

	a.enter(c)
	// Simulate a stale local "on" in another view.
	b.edit = true

	c.ReleaseAll()
	if a.edit || b.edit {
		t.Fatalf("expected every view off; a=%v b=%v", a.edit, b.edit)
	}
	if _, _, ok := c.Active(); ok {
		t.Fatalf("expected no active editor")
	}
}

func TestClaim_SwitchesOffPreviousEditor(t *testing.T) {
	c := NewCoordinator()
	a := &fakeView{id: "a"}
	b := &fakeView{id: "b"}
	defer a.attach(c)()
	defer b.attach(c)()

	a.enter(c)
	b.enter(c)

	if a.edit {
		t.Fatalf("expected a to be switched off when b claims")
	}
	if !b.edit {
		t.Fatalf("expected b to be editing")
	}
	id, title, ok := c.Active()
	if !ok || id != "b" || title != "Edit Person" {
		t.Fatalf("unexpected active editor: %q %q %v", id, title, ok)
	}
}

func TestClaim_SameEditorDoesNotBroadcastOff(t *testing.T) {
	c := NewCoordinator()
	offs := 0
	defer c.OnOff(func() { offs++ })()

	c.Claim("a", "Edit")
	c.Claim("a", "Edit")
	if offs != 0 {
		t.Fatalf("expected no off broadcast; got %d", offs)
	}
}

func TestOnOn_ReceivesTitle(t *testing.T) {
	c := NewCoordinator()
	var got string
	unsub := c.OnOn(func(_, title string) { got = title })
	c.Claim("a", "Edit Note")
	if got != "Edit Note" {
		t.Fatalf("expected title; got %q", got)
	}
	unsub()
	c.Claim("b", "Edit Place")
	if got != "Edit Note" {
		t.Fatalf("expected no notification after unsubscribe; got %q", got)
	}
}

func TestUnsubscribe_LeavesNoListeners(t *testing.T) {
	c := NewCoordinator()
	u1 := c.OnOff(func() {})
	u2 := c.OnOn(func(string, string) {})
	if c.Listeners() != 2 {
		t.Fatalf("expected 2 listeners; got %d", c.Listeners())
	}
	u1()
	u1()
	u2()
	if c.Listeners() != 0 {
		t.Fatalf("expected 0 listeners; got %d", c.Listeners())
	}
}

func TestCallbackMayUnsubscribe(t *testing.T) {
	c := NewCoordinator()
	var unsub func()
	calls := 0
	unsub = c.OnOff(func() {
		calls++
		unsub()
	})
	c.ReleaseAll()
	c.ReleaseAll()
	if calls != 1 {
		t.Fatalf("expected 1 call; got %d", calls)
	}
}
