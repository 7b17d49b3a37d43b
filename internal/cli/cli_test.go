package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"gramps-cli/internal/store"
)

// grampsServer is a minimal Gramps Web API holding one person.
type grampsServer struct {
	mu      sync.Mutex
	person  map[string]any
	putCode int
	puts    []map[string]any
	auth    []string
}

func newGrampsServer(t *testing.T) (*grampsServer, *httptest.Server) {
	t.Helper()
	g := &grampsServer{
		person: map[string]any{
			"handle":         "H1",
			"gramps_id":      "I0044",
			"_class":         "Person",
			"event_ref_list": []any{map[string]any{"ref": "E1"}, map[string]any{"ref": "E2"}, map[string]any{"ref": "E3"}},
			"citation_list":  []any{"C1", "C2"},
			"profile":        map[string]any{"name_given": "Lewis", "name_surname": "Garner"},
			"backlinks":      map[string]any{},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(srv.Close)
	return g, srv
}

func (g *grampsServer) serve(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.auth = append(g.auth, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/token/":
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "acc", "refresh_token": "ref"})
	case r.Method == http.MethodGet && r.URL.Path == "/api/people/":
		if r.URL.Query().Get("gramps_id") != g.person["gramps_id"] {
			_, _ = io.WriteString(w, "[]")
			return
		}
		_ = json.NewEncoder(w).Encode([]any{g.person})
	case r.Method == http.MethodPut && r.URL.Path == "/api/people/H1":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.puts = append(g.puts, body)
		if g.putCode != 0 {
			w.WriteHeader(g.putCode)
			_, _ = io.WriteString(w, `{"error":{"code":403,"message":"Forbidden"}}`)
			return
		}
		for _, k := range []string{"event_ref_list", "citation_list"} {
			if v, ok := body[k]; ok {
				g.person[k] = v
			}
		}
		_, _ = io.WriteString(w, "[]")
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"Not Found"}}`)
	}
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustEnv(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: gramps %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func refsOf(v any) []string {
	out := []string{}
	l, _ := v.([]any)
	for _, e := range l {
		m, _ := e.(map[string]any)
		s, _ := m["ref"].(string)
		out = append(out, s)
	}
	return out
}

func TestShow_ByTypeAndInferred(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	_, srv := newGrampsServer(t)

	for _, args := range [][]string{
		{"--server", srv.URL, "show", "person", "I0044"},
		{"--server", srv.URL, "show", "I0044"},
	} {
		env := mustEnv(t, args...)
		data, _ := env["data"].(map[string]any)
		if data["gramps_id"] != "I0044" {
			t.Fatalf("%v: unexpected data %#v", args, data)
		}
		meta, _ := env["meta"].(map[string]any)
		if meta["class"] != "Person" || meta["title"] != "Lewis Garner" {
			t.Fatalf("%v: unexpected meta %#v", args, meta)
		}
		if meta["canEdit"] != false {
			t.Fatalf("expected canEdit=false without a role")
		}
	}
}

func TestShow_PersistableDropsDerivedFields(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	_, srv := newGrampsServer(t)

	env := mustEnv(t, "--server", srv.URL, "show", "--persistable", "I0044")
	data, _ := env["data"].(map[string]any)
	for _, k := range []string{"profile", "backlinks", "extended"} {
		if _, ok := data[k]; ok {
			t.Fatalf("expected %q to be dropped; got %#v", k, data)
		}
	}
	if data["_class"] != "Person" {
		t.Fatalf("expected _class Person; got %v", data["_class"])
	}
}

func TestShow_NotFoundAndNoServer(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	_, srv := newGrampsServer(t)

	_, stderr, err := runCLI(t, []string{"--server", srv.URL, "show", "person", "I9999"})
	if err == nil || !strings.Contains(string(stderr), "person not found: I9999") {
		t.Fatalf("expected not-found; err=%v stderr=%s", err, stderr)
	}

	t.Setenv("GRAMPS_SERVER", "")
	_, stderr, err = runCLI(t, []string{"show", "I0044"})
	if err == nil || !strings.Contains(string(stderr), "no server configured") {
		t.Fatalf("expected no-server error; err=%v stderr=%s", err, stderr)
	}
}

func TestEdit_UpEventWritesAndRefetches(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	g, srv := newGrampsServer(t)

	env := mustEnv(t, "--server", srv.URL, "--token", "tok", "--can-edit", "edit", "person", "I0044", "upEvent", "E3")

	if len(g.puts) != 1 {
		t.Fatalf("expected one PUT; got %d", len(g.puts))
	}
	put := g.puts[0]
	if got, want := refsOf(put["event_ref_list"]), []string{"E1", "E3", "E2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("written event_ref_list: got %v want %v", got, want)
	}
	if _, ok := put["profile"]; ok {
		t.Fatalf("profile must not be written")
	}
	if put["_class"] != "Person" {
		t.Fatalf("expected _class Person; got %v", put["_class"])
	}
	if g.auth[len(g.auth)-1] != "Bearer tok" {
		t.Fatalf("expected bearer token; got %q", g.auth[len(g.auth)-1])
	}

	data, _ := env["data"].(map[string]any)
	if got, want := refsOf(data["event_ref_list"]), []string{"E1", "E3", "E2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("refetched event_ref_list: got %v want %v", got, want)
	}
	meta, _ := env["meta"].(map[string]any)
	if meta["action"] != "upEvent" || meta["target"] != "E3" {
		t.Fatalf("unexpected meta: %#v", meta)
	}

	jl := mustEnv(t, "journal", "list")
	entries, _ := jl["data"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected one journal entry; got %#v", jl["data"])
	}
	e, _ := entries[0].(map[string]any)
	if e["action"] != "upEvent" || e["status"] != store.JournalStatusOK {
		t.Fatalf("unexpected journal entry: %#v", e)
	}
}

func TestEdit_DelCitationWithRoleFromConfig(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	g, srv := newGrampsServer(t)

	mustEnv(t, "config", "set-role", "editor")
	mustEnv(t, "--server", srv.URL, "edit", "I0044", "delCitation", "C1")
	if got := g.puts[0]["citation_list"]; !reflect.DeepEqual(got, []any{"C2"}) {
		t.Fatalf("citation_list: got %v", got)
	}
}

func TestEdit_DeniedWithoutRole(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	t.Setenv("GRAMPS_CAN_EDIT", "")
	g, srv := newGrampsServer(t)

	_, stderr, err := runCLI(t, []string{"--server", srv.URL, "edit", "person", "I0044", "delEvent", "E1"})
	if err == nil || !strings.Contains(string(stderr), "permission denied") {
		t.Fatalf("expected permission error; err=%v stderr=%s", err, stderr)
	}
	if len(g.puts) != 0 {
		t.Fatalf("expected no write")
	}
}

func TestEdit_UnknownAction(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	_, srv := newGrampsServer(t)

	_, stderr, err := runCLI(t, []string{"--server", srv.URL, "--can-edit", "edit", "I0044", "renameEvent", "E1"})
	if err == nil || !strings.Contains(string(stderr), "renameEvent") {
		t.Fatalf("expected unknown action error; err=%v stderr=%s", err, stderr)
	}
}

func TestEdit_WriteFailureIsJournaled(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	g, srv := newGrampsServer(t)
	g.putCode = http.StatusForbidden

	_, stderr, err := runCLI(t, []string{"--server", srv.URL, "--can-edit", "edit", "I0044", "downEvent", "E1"})
	if err == nil || !strings.Contains(string(stderr), "Forbidden") {
		t.Fatalf("expected write failure; err=%v stderr=%s", err, stderr)
	}

	jl := mustEnv(t, "journal", "list")
	entries, _ := jl["data"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected one journal entry; got %#v", jl["data"])
	}
	e, _ := entries[0].(map[string]any)
	if e["status"] != store.JournalStatusError || !strings.Contains(e["error"].(string), "403") {
		t.Fatalf("unexpected journal entry: %#v", e)
	}
}

func TestLogin_StoresTokens(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	_, srv := newGrampsServer(t)

	mustEnv(t, "config", "set-server", srv.URL)
	env := mustEnv(t, "login", "--user", "alice", "--password", "secret", "--role", "Owner")
	data, _ := env["data"].(map[string]any)
	if data["user"] != "alice" || data["role"] != "owner" {
		t.Fatalf("unexpected login data: %#v", data)
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Token != "acc" || cfg.RefreshToken != "ref" || cfg.Server != srv.URL {
		t.Fatalf("unexpected config: %#v", cfg)
	}

	show := mustEnv(t, "config", "show")
	sd, _ := show["data"].(map[string]any)
	if sd["hasToken"] != true || sd["canEdit"] != true {
		t.Fatalf("unexpected config show: %#v", sd)
	}
	if strings.Contains(mustString(t, "config", "show"), "acc") {
		t.Fatalf("config show must not print the token")
	}
}

func TestConfig_SetServerRejectsBadURL(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	if _, _, err := runCLI(t, []string{"config", "set-server", "gramps.local"}); err == nil {
		t.Fatalf("expected error for a URL without scheme")
	}
	if _, _, err := runCLI(t, []string{"config", "set-role", "wizard"}); err == nil {
		t.Fatalf("expected error for an unknown role")
	}
}

func TestTypes_EDN(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())
	out := mustString(t, "--format", "edn", "types")
	if !strings.HasPrefix(out, "{:data [") {
		t.Fatalf("expected EDN envelope; got %s", out)
	}
	if !strings.Contains(out, `:class "Person" :editTitle "Edit Person" :endpoint "people" :idPrefix "I" :type "person"`) {
		t.Fatalf("expected person row; got %s", out)
	}
}

func mustString(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: gramps %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	return string(stdout)
}

func TestDocs_ListAndRaw(t *testing.T) {
	t.Setenv("GRAMPS_CONFIG_DIR", t.TempDir())

	env := mustEnv(t, "docs")
	data, _ := env["data"].(map[string]any)
	topics, _ := data["topics"].([]any)
	if len(topics) == 0 || topics[0] != "actions" {
		t.Fatalf("expected topics starting with actions; got %#v", data["topics"])
	}

	raw := mustString(t, "docs", "actions", "--raw")
	if !strings.Contains(raw, "upEvent") {
		t.Fatalf("expected raw markdown mentioning upEvent; got %q", raw)
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected error for unknown topic")
	}
}
