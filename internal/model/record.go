package model

// Record is a Gramps object as returned by the API: field name -> decoded JSON value.
type Record map[string]any

const (
	KeyHandle   = "handle"
	KeyGrampsID = "gramps_id"
	KeyClass    = "_class"

	// EventRefList holds objects with at least a "ref" handle.
	EventRefList = "event_ref_list"
	// CitationList holds plain handle strings.
	CitationList = "citation_list"
)

// DerivedKeys are computed by the server and must never be written back.
var DerivedKeys = []string{"extended", "profile", "backlinks"}

func (r Record) str(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r[key].(string)
	return s
}

func (r Record) Handle() string   { return r.str(KeyHandle) }
func (r Record) GrampsID() string { return r.str(KeyGrampsID) }
func (r Record) Class() string    { return r.str(KeyClass) }

func (r Record) Empty() bool { return len(r) == 0 }

// Clone returns a shallow copy: nested values are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Persistable projects r into the shape accepted by a write: derived keys are
// dropped and `_class` is set from t regardless of what r carried.
func Persistable(r Record, t ObjectType) Record {
	out := r.Clone()
	for _, k := range DerivedKeys {
		delete(out, k)
	}
	out[KeyClass] = t.ClassName()
	return out
}

// List returns the collection stored under key. Missing or non-list values yield nil.
func (r Record) List(key string) []any {
	if r == nil {
		return nil
	}
	l, _ := r[key].([]any)
	return l
}

// RefOf returns the "ref" handle of an event reference entry.
func RefOf(entry any) string {
	switch e := entry.(type) {
	case map[string]any:
		s, _ := e["ref"].(string)
		return s
	case Record:
		s, _ := e["ref"].(string)
		return s
	default:
		return ""
	}
}

// HandleOf returns entry itself when it is a plain handle string.
func HandleOf(entry any) string {
	s, _ := entry.(string)
	return s
}

// IndexOf returns the index of the first entry whose key (as extracted by keyOf)
// equals handle, or -1.
func IndexOf(list []any, handle string, keyOf func(any) string) int {
	for i, e := range list {
		if keyOf(e) == handle {
			return i
		}
	}
	return -1
}

// Title returns a short human label for r, used by breadcrumbs and the CLI.
func (r Record) Title(t ObjectType) string {
	if r.Empty() {
		return ""
	}
	var name string
	if p, ok := r["profile"].(map[string]any); ok {
		switch t {
		case TypePerson:
			first, _ := p["name_given"].(string)
			last, _ := p["name_surname"].(string)
			name = joinNonEmpty(first, last)
		case TypeFamily:
			fa, _ := p["father"].(map[string]any)
			mo, _ := p["mother"].(map[string]any)
			name = joinNonEmpty(personProfileName(fa), "&", personProfileName(mo))
		case TypeEvent:
			typ, _ := p["type"].(string)
			date, _ := p["date"].(string)
			name = joinNonEmpty(typ, date)
		default:
			name, _ = p["name"].(string)
			if name == "" {
				name, _ = p["title"].(string)
			}
		}
	}
	if name == "" {
		name, _ = r["title"].(string)
	}
	if name == "" {
		name = r.GrampsID()
	}
	return name
}

func personProfileName(p map[string]any) string {
	if p == nil {
		return ""
	}
	first, _ := p["name_given"].(string)
	last, _ := p["name_surname"].(string)
	return joinNonEmpty(first, last)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" || (p == "&" && out == "") {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	if len(out) >= 2 && out[len(out)-2:] == " &" {
		out = out[:len(out)-2]
	}
	return out
}
