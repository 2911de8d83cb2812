package rest_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/example/crm/internal/adapters/rest"
)

const testAnonKey = "anon-key"

type fakeUser struct {
	id        string
	email     string
	password  string
	name      string
	confirmed bool
}

// fakeBackend is an in-memory stand-in for the hosted backend. It
// implements the subset of the query and identity APIs the adapters use.
type fakeBackend struct {
	t  *testing.T
	mu sync.Mutex

	tables      map[string][]map[string]any
	users       map[string]*fakeUser // by email
	refresh     map[string]string    // refresh token -> email
	autoConfirm bool
	seq         int

	// last request details
	lastAuth     string
	lastAPIKey   string
	lastPrefer   string
	lastRedirect string
	loggedOut    []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	f := &fakeBackend{
		t:       t,
		tables:  map[string][]map[string]any{},
		users:   map[string]*fakeUser{},
		refresh: map[string]string{},
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/v1/token", f.handleToken).Methods(http.MethodPost)
	r.HandleFunc("/auth/v1/signup", f.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/auth/v1/logout", f.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/auth/v1/recover", f.handleRecover).Methods(http.MethodPost)
	r.HandleFunc("/auth/v1/user", f.handleUser).Methods(http.MethodGet)
	r.HandleFunc("/rest/v1/{table}", f.handleTable).
		Methods(http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPatch, http.MethodDelete)

	srv := httptest.NewServer(f.capture(r))
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...rest.ClientOptFn) *rest.Client {
	t.Helper()
	c, err := rest.New(append([]rest.ClientOptFn{
		rest.WithAddr(srv.URL),
		rest.WithAPIKey(testAnonKey),
		rest.WithHTTPClient(srv.Client()),
	}, opts...)...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func (f *fakeBackend) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		f.lastAPIKey = r.Header.Get("apikey")
		f.lastPrefer = r.Header.Get("Prefer")
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) addUser(email, password, name string) *fakeUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	u := &fakeUser{id: fmt.Sprintf("user-%d", f.seq), email: email, password: password, name: name, confirmed: true}
	f.users[email] = u
	return u
}

func (f *fakeBackend) insert(table string, row map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stamp(row)
	f.tables[table] = append(f.tables[table], row)
}

func (f *fakeBackend) rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.tables[table]...)
}

// stamp fills id and increasing timestamps. Callers hold mu.
func (f *fakeBackend) stamp(row map[string]any) {
	f.seq++
	if row["id"] == nil {
		row["id"] = fmt.Sprintf("row-%d", f.seq)
	}
	ts := fmt.Sprintf("2026-01-01T00:00:%02d.000000Z", f.seq)
	if row["created_at"] == nil {
		row["created_at"] = ts
	}
	row["updated_at"] = ts
}

func (f *fakeBackend) userJSON(u *fakeUser) map[string]any {
	out := map[string]any{
		"id":            u.id,
		"email":         u.email,
		"user_metadata": map[string]any{"name": u.name},
		"created_at":    "2026-01-01T00:00:00Z",
		"updated_at":    "2026-01-01T00:00:00Z",
	}
	if u.confirmed {
		out["email_confirmed_at"] = "2026-01-01T00:00:00Z"
	}
	return out
}

func (f *fakeBackend) sessionJSON(u *fakeUser) map[string]any {
	f.seq++
	refresh := fmt.Sprintf("refresh-%d", f.seq)
	f.refresh[refresh] = u.email
	return map[string]any{
		"access_token":  "access-" + u.email,
		"refresh_token": refresh,
		"token_type":    "bearer",
		"expires_in":    3600,
		"expires_at":    1900000000,
		"user":          f.userJSON(u),
	}
}

func (f *fakeBackend) handleToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch r.URL.Query().Get("grant_type") {
	case "password":
		u, ok := f.users[body["email"]]
		if !ok || u.password != body["password"] {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "invalid_grant", "error_description": "Invalid login credentials",
			})
			return
		}
		if !u.confirmed {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code": 400, "error_code": "email_not_confirmed", "msg": "Email not confirmed",
			})
			return
		}
		writeJSON(w, http.StatusOK, f.sessionJSON(u))
	case "refresh_token":
		email, ok := f.refresh[body["refresh_token"]]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code": 400, "error_code": "refresh_token_not_found", "msg": "Invalid Refresh Token: Refresh Token Not Found",
			})
			return
		}
		delete(f.refresh, body["refresh_token"])
		writeJSON(w, http.StatusOK, f.sessionJSON(f.users[email]))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
	}
}

func (f *fakeBackend) handleSignUp(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body struct {
		Email    string            `json:"email"`
		Password string            `json:"password"`
		Data     map[string]string `json:"data"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.lastRedirect = r.URL.Query().Get("redirect_to")

	if _, exists := f.users[body.Email]; exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"code": 422, "error_code": "user_already_exists", "msg": "User already registered",
		})
		return
	}
	f.seq++
	u := &fakeUser{
		id: fmt.Sprintf("user-%d", f.seq), email: body.Email, password: body.Password,
		name: body.Data["name"], confirmed: f.autoConfirm,
	}
	f.users[u.email] = u
	if f.autoConfirm {
		writeJSON(w, http.StatusOK, f.sessionJSON(u))
		return
	}
	writeJSON(w, http.StatusOK, f.userJSON(u))
}

func (f *fakeBackend) bearerUser(r *http.Request) (*fakeUser, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	u, ok := f.users[strings.TrimPrefix(token, "access-")]
	return u, ok && strings.HasPrefix(token, "access-")
}

func (f *fakeBackend) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.bearerUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "msg": "invalid JWT"})
		return
	}
	f.loggedOut = append(f.loggedOut, u.email)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeBackend) handleRecover(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRedirect = r.URL.Query().Get("redirect_to")
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeBackend) handleUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.bearerUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "msg": "invalid JWT"})
		return
	}
	writeJSON(w, http.StatusOK, f.userJSON(u))
}

type filter struct {
	column, op, arg string
}

func parseFilters(r *http.Request) []filter {
	var filters []filter
	for column, values := range r.URL.Query() {
		switch column {
		case "select", "order", "limit":
			continue
		}
		for _, v := range values {
			op, arg, _ := strings.Cut(v, ".")
			filters = append(filters, filter{column, op, arg})
		}
	}
	return filters
}

func (flt filter) match(row map[string]any) bool {
	v := row[flt.column]
	text := fmt.Sprint(v)
	switch flt.op {
	case "eq":
		return v != nil && text == flt.arg
	case "neq":
		return v == nil || text != flt.arg
	case "lt":
		return v != nil && text < flt.arg
	case "is":
		if flt.arg == "null" {
			return v == nil
		}
		return text == flt.arg
	case "in":
		for _, item := range strings.Split(strings.Trim(flt.arg, "()"), ",") {
			if unquoted, err := strconv.Unquote(item); err == nil {
				item = unquoted
			}
			if text == item {
				return true
			}
		}
		return false
	}
	return false
}

func (f *fakeBackend) matching(table string, filters []filter) []map[string]any {
	var out []map[string]any
	for _, row := range f.tables[table] {
		ok := true
		for _, flt := range filters {
			if !flt.match(row) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func (f *fakeBackend) handleTable(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := mux.Vars(r)["table"]
	filters := parseFilters(r)

	switch r.Method {
	case http.MethodHead:
		n := len(f.matching(table, filters))
		if n == 0 {
			w.Header().Set("Content-Range", "*/0")
		} else {
			w.Header().Set("Content-Range", fmt.Sprintf("0-%d/%d", n-1, n))
		}
		w.WriteHeader(http.StatusOK)

	case http.MethodGet:
		rows := f.matching(table, filters)
		if order := r.URL.Query().Get("order"); order != "" {
			column, dir, _ := strings.Cut(order, ".")
			sort.SliceStable(rows, func(i, j int) bool {
				a, b := fmt.Sprint(rows[i][column]), fmt.Sprint(rows[j][column])
				if dir == "desc" {
					return a > b
				}
				return a < b
			})
		}
		if limit := r.URL.Query().Get("limit"); limit != "" {
			if n, _ := strconv.Atoi(limit); n < len(rows) {
				rows = rows[:n]
			}
		}
		out := make([]map[string]any, len(rows))
		for i, row := range rows {
			out[i] = f.embed(r.URL.Query().Get("select"), row)
		}
		if r.Header.Get("Accept") == "application/vnd.pgrst.object+json" {
			if len(out) != 1 {
				writeJSON(w, http.StatusNotAcceptable, map[string]any{
					"code":    "PGRST116",
					"message": "JSON object requested, multiple (or no) rows returned",
					"details": fmt.Sprintf("The result contains %d rows", len(out)),
				})
				return
			}
			writeJSON(w, http.StatusOK, out[0])
			return
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": "PGRST102", "message": "Empty or invalid json"})
			return
		}
		f.stamp(row)
		f.tables[table] = append(f.tables[table], row)
		writeJSON(w, http.StatusCreated, []map[string]any{row})

	case http.MethodPatch:
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		rows := f.matching(table, filters)
		for _, row := range rows {
			for k, v := range patch {
				row[k] = v
			}
			f.seq++
			row["updated_at"] = fmt.Sprintf("2026-01-02T00:00:%02d.000000Z", f.seq)
		}
		if rows == nil {
			rows = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, rows)

	case http.MethodDelete:
		removed := f.matching(table, filters)
		var kept []map[string]any
		for _, row := range f.tables[table] {
			keep := true
			for _, gone := range removed {
				if row["id"] == gone["id"] {
					keep = false
				}
			}
			if keep {
				kept = append(kept, row)
			}
		}
		f.tables[table] = kept
		if removed == nil {
			removed = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, removed)
	}
}

// embed resolves "alias:table(*)" in the select list against the row's
// <alias>_id foreign key.
func (f *fakeBackend) embed(sel string, row map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range row {
		out[k] = v
	}
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		alias, rest, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		table := strings.TrimSuffix(rest, "(*)")
		fk := alias + "_id"
		out[alias] = nil
		for _, candidate := range f.tables[table] {
			if candidate["id"] == row[fk] {
				out[alias] = candidate
			}
		}
	}
	return out
}
