package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Webhook fakes the catalog ingestion endpoint and records every payload.
type Webhook struct {
	Server *httptest.Server

	mu          sync.Mutex
	received    []map[string]any
	contentType []string
	failWhen    func(payload map[string]any) bool
	failStatus  int
	response    string
}

// NewWebhook starts a fake webhook server answering {"ok":true}. Callers must Close it.
func NewWebhook() *Webhook {
	wh := &Webhook{response: `{"ok":true}`}
	r := chi.NewRouter()
	r.Post("/webhook", wh.handle)
	wh.Server = httptest.NewServer(r)
	return wh
}

// URL is the endpoint to configure as the webhook URL.
func (wh *Webhook) URL() string { return wh.Server.URL + "/webhook" }

// Close shuts the server down.
func (wh *Webhook) Close() { wh.Server.Close() }

// FailWhen answers status for payloads matching fn.
func (wh *Webhook) FailWhen(fn func(payload map[string]any) bool, status int) {
	wh.mu.Lock()
	defer wh.mu.Unlock()
	wh.failWhen = fn
	wh.failStatus = status
}

// SetResponse changes the success response body. "" answers with no body.
func (wh *Webhook) SetResponse(body string) {
	wh.mu.Lock()
	defer wh.mu.Unlock()
	wh.response = body
}

// Received returns the decoded payloads in arrival order, failed ones included.
func (wh *Webhook) Received() []map[string]any {
	wh.mu.Lock()
	defer wh.mu.Unlock()
	return append([]map[string]any(nil), wh.received...)
}

// ContentTypes returns the Content-Type header of every request.
func (wh *Webhook) ContentTypes() []string {
	wh.mu.Lock()
	defer wh.mu.Unlock()
	return append([]string(nil), wh.contentType...)
}

func (wh *Webhook) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	wh.mu.Lock()
	wh.received = append(wh.received, payload)
	wh.contentType = append(wh.contentType, r.Header.Get("Content-Type"))
	failWhen, failStatus, response := wh.failWhen, wh.failStatus, wh.response
	wh.mu.Unlock()

	if failWhen != nil && failWhen(payload) {
		http.Error(w, `{"ok":false}`, failStatus)
		return
	}
	if response == "" {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, response)
}
