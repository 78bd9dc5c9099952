package webhook

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kompox/tfcsync/domain/model"
	"github.com/kompox/tfcsync/internal/fakeapi"
)

// countingDoer fails the test if any request is attempted.
type countingDoer struct{ calls int }

func (d *countingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	return nil, errors.New("unexpected call")
}

func TestPublish_NotConfigured(t *testing.T) {
	doer := &countingDoer{}
	p := NewPublisher("", doer)
	_, err := p.Publish(context.Background(), model.Resource{"name": "vpc"})
	if !errors.Is(err, model.ErrConfig) {
		t.Errorf("Publish() error = %v, want ErrConfig", err)
	}
	if doer.calls != 0 {
		t.Errorf("network calls = %d, want 0", doer.calls)
	}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	wh := fakeapi.NewWebhook()
	defer wh.Close()
	p := NewPublisher(wh.URL(), nil)

	t.Run("success decodes response", func(t *testing.T) {
		got, err := p.Publish(ctx, model.Resource{"name": "vpc", "workspace_id": "ws-1"})
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if diff := cmp.Diff(map[string]any{"ok": true}, got); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}
		recv := wh.Received()
		if diff := cmp.Diff(map[string]any{"name": "vpc", "workspace_id": "ws-1"}, recv[len(recv)-1]); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}
		if ct := wh.ContentTypes()[0]; ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		wh.SetResponse("")
		defer wh.SetResponse(`{"ok":true}`)
		got, err := p.Publish(ctx, model.Resource{"name": "subnet"})
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if got != nil {
			t.Errorf("Publish() = %v, want nil", got)
		}
	})

	t.Run("non-json body", func(t *testing.T) {
		wh.SetResponse("accepted")
		defer wh.SetResponse(`{"ok":true}`)
		if _, err := p.Publish(ctx, model.Resource{"name": "subnet"}); err == nil {
			t.Error("Publish() should fail on a non-JSON response body")
		}
	})

	t.Run("server error", func(t *testing.T) {
		wh.FailWhen(func(m map[string]any) bool { return m["name"] == "bad" }, http.StatusInternalServerError)
		_, err := p.Publish(ctx, model.Resource{"name": "bad"})
		var he *model.HTTPError
		if !errors.As(err, &he) || he.StatusCode != http.StatusInternalServerError {
			t.Fatalf("Publish() error = %v, want HTTP 500", err)
		}
		if he.URL != wh.Server.URL {
			t.Errorf("HTTPError URL = %q, want %q", he.URL, wh.Server.URL)
		}
		// The next delivery is unaffected.
		if _, err := p.Publish(ctx, model.Resource{"name": "good"}); err != nil {
			t.Errorf("Publish(good) error = %v", err)
		}
	})
}
