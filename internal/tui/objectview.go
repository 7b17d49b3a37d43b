package tui

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gramps-cli/internal/api"
	"gramps-cli/internal/editmode"
	"gramps-cli/internal/model"
	"gramps-cli/internal/mutate"
	"gramps-cli/internal/store"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Remote is the transport the view reads and writes records through.
type Remote interface {
	Get(ctx context.Context, path string) api.Response
	Put(ctx context.Context, path string, rec model.Record) error
}

// Journal records submitted edits. Optional.
type Journal interface {
	Append(ctx context.Context, e store.JournalEntry) (int64, error)
}

// ObjectLoadedMsg announces that the object with GrampsID has (re)loaded.
type ObjectLoadedMsg struct {
	GrampsID  string
	ClassName string
	Title     string
}

// EditModeOnMsg is emitted when a view enters edit mode.
type EditModeOnMsg struct {
	Title string
}

type recordLoadedMsg struct {
	viewID   string
	grampsID string
	resp     api.Response
}

type recordWrittenMsg struct {
	viewID string
	action mutate.EditAction
	err    error
}

const (
	requestTimeout = 30 * time.Second
	journalTimeout = 5 * time.Second
)

// ObjectView shows one record read-only and, when permitted, lets the user
// enter edit mode and reorder or remove its references.
//
// The record shown is always the last one fetched from the server: edits are
// written, then the record is re-fetched without clearing what is on screen.
type ObjectView struct {
	id       string
	objType  model.ObjectType
	grampsID string

	active  bool
	canEdit bool
	edit    bool

	data       model.Record
	loading    bool
	fetchErr   bool
	fetchMsg   string
	writeErr   string
	diagnostic string

	remote   Remote
	journal  Journal
	resolver func(model.ObjectType, string) string
	timeout  time.Duration
	log      *slog.Logger

	coord    *editmode.Coordinator
	attached bool
	unsub    func()

	keys keyMap
	refs refList

	width, height int
}

func NewObjectView(id string, t model.ObjectType, remote Remote) *ObjectView {
	keys := defaultKeyMap()
	return &ObjectView{
		id:       id,
		objType:  t,
		data:     model.Record{},
		remote:   remote,
		resolver: model.FetchPath,
		timeout:  requestTimeout,
		log:      discardLogger(),
		keys:     keys,
		refs:     newRefList(keys),
	}
}

func (v *ObjectView) SetJournal(j Journal) { v.journal = j }

func (v *ObjectView) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger()
	}
	v.log = l
}

// SetResolver overrides how the fetch path is built. A resolver returning ""
// disables fetching.
func (v *ObjectView) SetResolver(fn func(model.ObjectType, string) string) {
	if fn == nil {
		fn = model.FetchPath
	}
	v.resolver = fn
}

func (v *ObjectView) SetCanEdit(ok bool) { v.canEdit = ok }

func (v *ObjectView) ID() string                   { return v.id }
func (v *ObjectView) ObjectType() model.ObjectType { return v.objType }
func (v *ObjectView) GrampsID() string             { return v.grampsID }
func (v *ObjectView) Record() model.Record         { return v.data }
func (v *ObjectView) Loading() bool                { return v.loading }
func (v *ObjectView) Editing() bool                { return v.edit }
func (v *ObjectView) CanEdit() bool                { return v.canEdit }
func (v *ObjectView) Active() bool                 { return v.active }

// FetchError reports the last fetch failure, if any.
func (v *ObjectView) FetchError() (string, bool) { return v.fetchMsg, v.fetchErr }

// WriteError is the last failed write, cleared by the next successful one.
func (v *ObjectView) WriteError() string { return v.writeErr }

// Diagnostic is the last unrecognized-action dump.
func (v *ObjectView) Diagnostic() string { return v.diagnostic }

// Attach subscribes the view to the coordinator's "all edit modes off" signal
// and starts accepting EditActionMsg. Detach undoes both.
func (v *ObjectView) Attach(c *editmode.Coordinator) {
	if v.attached {
		v.Detach()
	}
	v.coord = c
	v.attached = true
	if c != nil {
		v.unsub = c.OnOff(v.disableEditMode)
	}
}

func (v *ObjectView) Detach() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
	v.attached = false
}

func (v *ObjectView) disableEditMode() { v.edit = false }

// SetGrampsID changes the identifying key; the record is fetched when the key
// changed and the view is active.
func (v *ObjectView) SetGrampsID(id string) tea.Cmd {
	changed := id != v.grampsID
	v.grampsID = id
	if !v.active || !changed {
		return nil
	}
	return v.refresh(true)
}

// SetObjectType switches the kind of object shown. The next fetch uses the new type.
func (v *ObjectView) SetObjectType(t model.ObjectType) tea.Cmd {
	if t == v.objType {
		return nil
	}
	v.objType = t
	v.resetEdit()
	if !v.active {
		return nil
	}
	return v.refresh(true)
}

// Show switches to another object in one step so only a single fetch is issued.
func (v *ObjectView) Show(t model.ObjectType, id string) tea.Cmd {
	changed := t != v.objType || id != v.grampsID
	if t != v.objType {
		v.resetEdit()
	}
	v.objType, v.grampsID = t, id
	if !v.active || !changed {
		return nil
	}
	return v.refresh(true)
}

// SetActive shows or hides the view. Both transitions leave edit mode;
// becoming active fetches the current key.
func (v *ObjectView) SetActive(active bool) tea.Cmd {
	v.resetEdit()
	wasActive := v.active
	v.active = active
	if !active || wasActive {
		return nil
	}
	return v.refresh(true)
}

// Reload fetches the current key again, clearing what is shown.
func (v *ObjectView) Reload() tea.Cmd {
	if !v.active {
		return nil
	}
	return v.refresh(true)
}

func (v *ObjectView) resetEdit() {
	if !v.edit {
		return
	}
	v.edit = false
	if v.coord != nil {
		if id, _, ok := v.coord.Active(); ok && id == v.id {
			v.coord.ReleaseAll()
		}
	}
}

// refresh fetches the record. With clear=false the current record stays on
// screen until the response arrives.
func (v *ObjectView) refresh(clear bool) tea.Cmd {
	if v.grampsID == "" {
		return nil
	}
	path := v.resolver(v.objType, v.grampsID)
	if path == "" {
		return nil
	}
	if clear {
		v.data = model.Record{}
		v.refs.setRecord(v.data)
	}
	v.loading = true

	remote, viewID, grampsID, timeout := v.remote, v.id, v.grampsID, v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return recordLoadedMsg{viewID: viewID, grampsID: grampsID, resp: remote.Get(ctx, path)}
	}
}

// Responses are applied in arrival order; a late response for an older key
// still replaces the record.
func (v *ObjectView) handleLoaded(msg recordLoadedMsg) tea.Cmd {
	v.loading = false
	if !msg.resp.OK() {
		v.fetchErr = true
		v.fetchMsg = msg.resp.Error
		return nil
	}
	v.fetchErr = false
	v.fetchMsg = ""
	if len(msg.resp.Data) > 0 && msg.resp.Data[0] != nil {
		v.data = msg.resp.Data[0]
	} else {
		v.data = model.Record{}
	}
	v.refs.setRecord(v.data)

	if !v.objType.Known() {
		return nil
	}
	loaded := ObjectLoadedMsg{
		GrampsID:  msg.grampsID,
		ClassName: v.objType.ClassName(),
		Title:     v.data.Title(v.objType),
	}
	return func() tea.Msg { return loaded }
}

// EnterEdit switches to edit mode when permitted and not already editing.
func (v *ObjectView) EnterEdit() tea.Cmd {
	if !v.canShowEditAffordance() {
		return nil
	}
	title := v.objType.EditTitle()
	if v.coord != nil {
		v.coord.Claim(v.id, title)
	}
	v.edit = true
	return func() tea.Msg { return EditModeOnMsg{Title: title} }
}

// canShowEditAffordance: permission granted, not editing, something to edit.
func (v *ObjectView) canShowEditAffordance() bool {
	return v.canEdit && !v.edit && !v.data.Empty()
}

func (v *ObjectView) handleEditAction(msg EditActionMsg) tea.Cmd {
	act, err := mutate.ParseAction(msg.Action, msg.Handle)
	if err != nil {
		b, _ := json.Marshal(msg)
		v.diagnostic = string(b)
		return nil
	}
	v.diagnostic = ""
	return v.ApplyEdit(act)
}

// ApplyEdit submits act against the current record and soft-refreshes once the
// write completes.
func (v *ObjectView) ApplyEdit(act mutate.EditAction) tea.Cmd {
	payload, err := mutate.Apply(act, v.data, v.objType)
	if err != nil {
		v.writeErr = err.Error()
		return nil
	}
	path := model.WritePath(v.objType, v.data.Handle())
	if path == "" {
		v.writeErr = "no endpoint for object type " + string(v.objType)
		return nil
	}

	remote, journal, viewID, timeout, log := v.remote, v.journal, v.id, v.timeout, v.log
	_, target := act.Target()
	entry := store.JournalEntry{
		ObjectType: string(v.objType),
		Handle:     v.data.Handle(),
		GrampsID:   v.data.GrampsID(),
		Action:     act.Name(),
		Target:     target,
		Payload:    payload,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := remote.Put(ctx, path, payload)
		cancel()
		if journal != nil {
			entry.Status = store.JournalStatusOK
			if err != nil {
				entry.Status = store.JournalStatusError
				entry.Error = err.Error()
			}
			// The write context may already have expired; the entry still goes in.
			jctx, jcancel := context.WithTimeout(context.Background(), journalTimeout)
			if _, jerr := journal.Append(jctx, entry); jerr != nil {
				log.Warn("journal append failed", "action", entry.Action, "handle", entry.Handle, "err", jerr)
			}
			jcancel()
		}
		return recordWrittenMsg{viewID: viewID, action: act, err: err}
	}
}

func (v *ObjectView) handleWritten(msg recordWrittenMsg) tea.Cmd {
	if msg.err != nil {
		v.writeErr = msg.action.Name() + ": " + msg.err.Error()
		if api.IsUnauthorized(msg.err) {
			v.writeErr += " (check your role or log in again)"
		}
		// A failed write must not leave the view stuck in edit mode.
		v.resetEdit()
	} else {
		v.writeErr = ""
	}
	return v.refresh(false)
}

func (v *ObjectView) SetSize(w, h int) {
	v.width, v.height = w, h
	v.refs.setSize(w-2, h/2)
}

// Update routes messages addressed to this view. Messages for other views are ignored.
func (v *ObjectView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case recordLoadedMsg:
		if msg.viewID != v.id {
			return nil
		}
		return v.handleLoaded(msg)

	case recordWrittenMsg:
		if msg.viewID != v.id {
			return nil
		}
		return v.handleWritten(msg)

	case EditActionMsg:
		if !v.attached {
			return nil
		}
		return v.handleEditAction(msg)

	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		if !v.active {
			return nil
		}
		switch {
		case !v.edit && key.Matches(msg, v.keys.Edit):
			return v.EnterEdit()
		case v.edit && key.Matches(msg, v.keys.Done):
			if v.coord != nil {
				v.coord.ReleaseAll()
			} else {
				v.edit = false
			}
			return nil
		case !v.edit && key.Matches(msg, v.keys.Reload):
			return v.Reload()
		}
		return v.refs.update(msg, v.edit)
	}
	return nil
}
