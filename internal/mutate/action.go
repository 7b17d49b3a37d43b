package mutate

import (
	"fmt"

	"gramps-cli/internal/model"
)

// Collection is one of the ordered reference collections an edit action can target.
type Collection int

const (
	EventRefs Collection = iota
	Citations
)

// Key is the record field holding the collection.
func (c Collection) Key() string {
	switch c {
	case EventRefs:
		return model.EventRefList
	case Citations:
		return model.CitationList
	default:
		return ""
	}
}

// keyOf extracts the handle an entry is matched by.
func (c Collection) keyOf() func(any) string {
	if c == EventRefs {
		return model.RefOf
	}
	return model.HandleOf
}

func (c Collection) String() string {
	switch c {
	case EventRefs:
		return "Event"
	case Citations:
		return "Citation"
	default:
		return fmt.Sprintf("Collection(%d)", int(c))
	}
}

// EditAction is a structural edit of one reference collection.
// The set of implementations is closed: Delete, MoveUp and MoveDown.
type EditAction interface {
	Target() (Collection, string)
	// Name is the wire name ("delEvent", "upCitation", ...).
	Name() string
	isEditAction()
}

type Delete struct {
	Collection Collection
	Handle     string
}

type MoveUpAction struct {
	Collection Collection
	Handle     string
}

type MoveDownAction struct {
	Collection Collection
	Handle     string
}

func (a Delete) Target() (Collection, string)         { return a.Collection, a.Handle }
func (a MoveUpAction) Target() (Collection, string)   { return a.Collection, a.Handle }
func (a MoveDownAction) Target() (Collection, string) { return a.Collection, a.Handle }

func (a Delete) Name() string         { return "del" + a.Collection.String() }
func (a MoveUpAction) Name() string   { return "up" + a.Collection.String() }
func (a MoveDownAction) Name() string { return "down" + a.Collection.String() }

func (Delete) isEditAction()         {}
func (MoveUpAction) isEditAction()   {}
func (MoveDownAction) isEditAction() {}

// ParseAction maps a wire action name to its variant.
func ParseAction(name, handle string) (EditAction, error) {
	switch name {
	case "delEvent":
		return Delete{Collection: EventRefs, Handle: handle}, nil
	case "delCitation":
		return Delete{Collection: Citations, Handle: handle}, nil
	case "upEvent":
		return MoveUpAction{Collection: EventRefs, Handle: handle}, nil
	case "downEvent":
		return MoveDownAction{Collection: EventRefs, Handle: handle}, nil
	case "upCitation":
		return MoveUpAction{Collection: Citations, Handle: handle}, nil
	case "downCitation":
		return MoveDownAction{Collection: Citations, Handle: handle}, nil
	default:
		return nil, UnknownActionError{Action: name, Handle: handle}
	}
}

// ActionNames lists the accepted wire names.
var ActionNames = []string{"delEvent", "delCitation", "upEvent", "downEvent", "upCitation", "downCitation"}

// Apply builds the write payload for action against rec: the persistable projection
// of rec with the action's collection transformed. rec is not modified.
func Apply(action EditAction, rec model.Record, objType model.ObjectType) (model.Record, error) {
	if rec.Handle() == "" {
		return nil, MissingHandleError{GrampsID: rec.GrampsID()}
	}
	out := model.Persistable(rec, objType)

	coll, handle := action.Target()
	key := coll.Key()
	keyOf := coll.keyOf()
	list := out.List(key)

	var next []any
	switch action.(type) {
	case Delete:
		next = removeAll(list, handle, keyOf)
	case MoveUpAction:
		next = MoveUp(list, model.IndexOf(list, handle, keyOf))
	case MoveDownAction:
		next = MoveDown(list, model.IndexOf(list, handle, keyOf))
	default:
		return nil, UnknownActionError{Action: action.Name(), Handle: handle}
	}
	if _, ok := out[key]; ok {
		out[key] = next
	}
	return out, nil
}
