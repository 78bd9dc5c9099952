// Package fakeapi provides in-process fakes of the state-management API and
// the catalog webhook endpoint for tests.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Request is a recorded inbound request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
}

type fakeWorkspace struct {
	id   string
	name string
}

// LinkStyle selects how the listing renders links.next for a following page.
type LinkStyle int

const (
	LinkAbsolute     LinkStyle = iota // http://host/api/v2/organizations/...
	LinkRootRelative                  // /api/v2/organizations/...
	LinkPathRelative                  // organizations/..., relative to the API address
)

// LastPage selects how the listing marks the final page.
type LastPage int

const (
	LastPageNullNext   LastPage = iota // "links":{"next":null}
	LastPageEmptyNext                  // "links":{"next":""}
	LastPageNoNextKey                  // "links":{}
	LastPageNoLinks                    // no "links" member
)

// TFC fakes the workspace listing, current-state-version and state download endpoints.
type TFC struct {
	Server *httptest.Server
	// Token, when set, is required as the bearer credential.
	Token string
	// PageSize is the listing page size.
	PageSize int
	// NextLink and LastPage shape the pagination links.
	NextLink LinkStyle
	LastPage LastPage

	mu               sync.Mutex
	orgs             map[string][]fakeWorkspace
	states           map[string][]byte
	noDownloadURL    map[string]bool
	stateVersionFail map[string]int
	downloadFail     map[string]int
	listingFail      int
	requests         []Request
}

// NewTFC starts a fake API server. Callers must Close it.
func NewTFC() *TFC {
	f := &TFC{
		PageSize:         20,
		orgs:             map[string][]fakeWorkspace{},
		states:           map[string][]byte{},
		noDownloadURL:    map[string]bool{},
		stateVersionFail: map[string]int{},
		downloadFail:     map[string]int{},
	}
	r := chi.NewRouter()
	r.Use(f.record, f.auth)
	r.Route("/api/v2", func(r chi.Router) {
		r.Get("/organizations/{org}/workspaces", f.listWorkspaces)
		r.Get("/workspaces/{id}/current-state-version", f.currentStateVersion)
	})
	r.Get("/state/{id}", f.download)
	f.Server = httptest.NewServer(r)
	return f
}

// Address is the API base URL to hand to the client.
func (f *TFC) Address() string { return f.Server.URL + "/api/v2" }

// Close shuts the server down.
func (f *TFC) Close() { f.Server.Close() }

// AddWorkspace appends a workspace to org.
func (f *TFC) AddWorkspace(org, id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgs[org] = append(f.orgs[org], fakeWorkspace{id: id, name: name})
}

// SetState gives a workspace a current state version serving doc.
func (f *TFC) SetState(workspaceID string, doc []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[workspaceID] = doc
}

// SetStateWithoutDownloadURL gives a workspace a state version with no hosted download URL.
func (f *TFC) SetStateWithoutDownloadURL(workspaceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[workspaceID] = nil
	f.noDownloadURL[workspaceID] = true
}

// FailStateVersion makes current-state-version of a workspace answer status.
func (f *TFC) FailStateVersion(workspaceID string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateVersionFail[workspaceID] = status
}

// FailDownload makes the state download of a workspace answer status.
func (f *TFC) FailDownload(workspaceID string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadFail[workspaceID] = status
}

// FailListing makes every listing page answer status.
func (f *TFC) FailListing(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listingFail = status
}

// Requests returns the recorded requests in arrival order.
func (f *TFC) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

func (f *TFC) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *TFC) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.Token != "" && r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeJSONAPIError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *TFC) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")
	f.mu.Lock()
	fail := f.listingFail
	all, ok := f.orgs[org]
	all = append([]fakeWorkspace(nil), all...)
	size := f.PageSize
	nextLink, lastPage := f.NextLink, f.LastPage
	f.mu.Unlock()

	if fail != 0 {
		writeJSONAPIError(w, fail, "listing failed")
		return
	}
	if !ok {
		writeJSONAPIError(w, http.StatusNotFound, "not found")
		return
	}
	if size <= 0 {
		size = 20
	}
	page := 1
	if v := r.URL.Query().Get("page[number]"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSONAPIError(w, http.StatusBadRequest, "bad page")
			return
		}
		page = n
	}

	start := (page - 1) * size
	end := min(start+size, len(all))
	data := []map[string]any{}
	for i := start; i < end; i++ {
		data = append(data, map[string]any{
			"id":         all[i].id,
			"type":       "workspaces",
			"attributes": map[string]any{"name": all[i].name},
		})
	}
	doc := map[string]any{"data": data}
	if end < len(all) {
		rel := fmt.Sprintf("organizations/%s/workspaces?page%%5Bnumber%%5D=%d&page%%5Bsize%%5D=%d", org, page+1, size)
		var next string
		switch nextLink {
		case LinkRootRelative:
			next = "/api/v2/" + rel
		case LinkPathRelative:
			next = rel
		default:
			next = f.Server.URL + "/api/v2/" + rel
		}
		doc["links"] = map[string]any{"next": next}
	} else {
		switch lastPage {
		case LastPageEmptyNext:
			doc["links"] = map[string]any{"next": ""}
		case LastPageNoNextKey:
			doc["links"] = map[string]any{}
		case LastPageNoLinks:
		default:
			doc["links"] = map[string]any{"next": nil}
		}
	}
	writeJSON(w, http.StatusOK, doc)
}

func (f *TFC) currentStateVersion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	fail := f.stateVersionFail[id]
	_, has := f.states[id]
	noURL := f.noDownloadURL[id]
	f.mu.Unlock()

	if fail != 0 {
		writeJSONAPIError(w, fail, "state version failed")
		return
	}
	if !has {
		writeJSONAPIError(w, http.StatusNotFound, "not found")
		return
	}
	attrs := map[string]any{"serial": 1}
	if !noURL {
		attrs["hosted-state-download-url"] = f.Server.URL + "/state/" + id + "?sig=secret"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":         "sv-" + id,
			"type":       "state-versions",
			"attributes": attrs,
		},
	})
}

func (f *TFC) download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	fail := f.downloadFail[id]
	doc, has := f.states[id]
	f.mu.Unlock()

	if fail != 0 {
		http.Error(w, "download failed", fail)
		return
	}
	if !has {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONAPIError(w http.ResponseWriter, status int, title string) {
	writeJSON(w, status, map[string]any{
		"errors": []map[string]any{{"status": strconv.Itoa(status), "title": title}},
	})
}
