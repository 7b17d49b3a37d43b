package model

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ObjectType names a Gramps primary object kind (person, family, ...).
type ObjectType string

const (
	TypePerson     ObjectType = "person"
	TypeFamily     ObjectType = "family"
	TypeEvent      ObjectType = "event"
	TypePlace      ObjectType = "place"
	TypeCitation   ObjectType = "citation"
	TypeSource     ObjectType = "source"
	TypeRepository ObjectType = "repository"
	TypeMedia      ObjectType = "media"
	TypeNote       ObjectType = "note"
)

// ObjectTypes lists every known type in display order.
var ObjectTypes = []ObjectType{
	TypePerson,
	TypeFamily,
	TypeEvent,
	TypePlace,
	TypeCitation,
	TypeSource,
	TypeRepository,
	TypeMedia,
	TypeNote,
}

var endpoints = map[ObjectType]string{
	TypePerson:     "people",
	TypeFamily:     "families",
	TypeEvent:      "events",
	TypePlace:      "places",
	TypeCitation:   "citations",
	TypeSource:     "sources",
	TypeRepository: "repositories",
	TypeMedia:      "media",
	TypeNote:       "notes",
}

var editTitles = map[ObjectType]string{
	TypePerson:     "Edit Person",
	TypeFamily:     "Edit Family",
	TypeEvent:      "Edit Event",
	TypePlace:      "Edit Place",
	TypeCitation:   "Edit Citation",
	TypeSource:     "Edit Source",
	TypeRepository: "Edit Repository",
	TypeMedia:      "Edit Media Object",
	TypeNote:       "Edit Note",
}

// Default Gramps ID prefixes (I0001, F0001, ...).
var idPrefixes = map[byte]ObjectType{
	'I': TypePerson,
	'F': TypeFamily,
	'E': TypeEvent,
	'P': TypePlace,
	'C': TypeCitation,
	'S': TypeSource,
	'R': TypeRepository,
	'O': TypeMedia,
	'N': TypeNote,
}

// GenericEditTitle is used for types without a dedicated title.
const GenericEditTitle = "Edit"

func (t ObjectType) Known() bool {
	_, ok := endpoints[t]
	return ok
}

// Endpoint returns the REST path segment for t, or "" for unknown types.
func (t ObjectType) Endpoint() string {
	return endpoints[t]
}

// EditTitle returns the human-readable edit title for t.
func (t ObjectType) EditTitle() string {
	if s, ok := editTitles[t]; ok {
		return s
	}
	return GenericEditTitle
}

// ClassName is the `_class` discriminator the server expects on writes.
func (t ObjectType) ClassName() string {
	return Capitalize(string(t))
}

// Capitalize uppercases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ParseObjectType accepts either a type name ("person") or its endpoint ("people").
func ParseObjectType(s string) (ObjectType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if t := ObjectType(s); t.Known() {
		return t, true
	}
	for t, ep := range endpoints {
		if ep == s {
			return t, true
		}
	}
	return "", false
}

// ObjectTypeForGrampsID guesses the type from a default-format Gramps ID ("I0044").
func ObjectTypeForGrampsID(id string) (ObjectType, bool) {
	id = strings.TrimSpace(id)
	if len(id) < 2 {
		return "", false
	}
	t, ok := idPrefixes[id[0]]
	if !ok {
		return "", false
	}
	for i := 1; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return "", false
		}
	}
	return t, true
}

// IDPrefix is the default Gramps ID prefix letter for t, or "".
func (t ObjectType) IDPrefix() string {
	for p, pt := range idPrefixes {
		if pt == t {
			return string(p)
		}
	}
	return ""
}

// FetchPath is the GET path used to load one object by its Gramps ID.
// It returns "" when t has no endpoint or grampsID is empty.
func FetchPath(t ObjectType, grampsID string) string {
	ep := t.Endpoint()
	grampsID = strings.TrimSpace(grampsID)
	if ep == "" || grampsID == "" {
		return ""
	}
	q := url.Values{}
	q.Set("gramps_id", grampsID)
	q.Set("extend", "all")
	q.Set("profile", "all")
	q.Set("backlinks", "true")
	return "/api/" + ep + "/?" + q.Encode()
}

// WritePath is the PUT path for the object with the given handle.
func WritePath(t ObjectType, handle string) string {
	ep := t.Endpoint()
	if ep == "" || handle == "" {
		return ""
	}
	return "/api/" + ep + "/" + url.PathEscape(handle)
}
