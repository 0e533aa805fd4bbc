package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/diegodhh/pathway"
	ptesting "github.com/diegodhh/pathway/testing"
)

type article struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type articleStore struct {
	mu       sync.Mutex
	articles map[string]*article
}

func (s *articleStore) find(id string) *article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.articles[id]
}

const publishConfig = `
name: publish-article
result_key: article
plugins:
  - name: auth
    settings:
      key: role
      allow: [editor]
`

func publishDefinition(t *testing.T, store *articleStore) *pathway.Definition {
	t.Helper()
	cfg, err := pathway.ParseConfig([]byte(publishConfig))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	def, err := pathway.DefineFromConfig(cfg, nil, func(b *pathway.Builder) {
		auth, err := pathway.Use[*pathway.Auth](b, pathway.AuthPluginName)
		if err != nil {
			t.Fatalf("auth plugin: %v", err)
		}
		b.Set("role", "role", pathway.Value(func(_ context.Context, s *pathway.State) any {
			return s.Get(pathway.InputKey).(*http.Request).Header.Get("X-Role")
		}))
		auth.Authorize(b, "authorize")
		b.SetResult("load", func(_ context.Context, s *pathway.State) pathway.Outcome[any] {
			id := strings.TrimPrefix(s.Get(pathway.InputKey).(*http.Request).URL.Path, "/articles/")
			return pathway.WrapIfPresent(store.find(id), "", "article not found", map[string]any{"id": id})
		})
		b.Step("not-published", pathway.Check(func(_ context.Context, s *pathway.State) *pathway.Error {
			if s.Result().(*article).Status == "published" {
				return pathway.NewError(pathway.KindInvalid, "already published", nil)
			}
			return nil
		}))
		b.Step("publish", func(_ context.Context, s *pathway.State) pathway.Outcome[any] {
			store.mu.Lock()
			defer store.mu.Unlock()
			s.Result().(*article).Status = "published"
			return pathway.Success(nil)
		})
	})
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	return def
}

func handler(def *pathway.Definition) http.HandlerFunc {
	writeError := func(w http.ResponseWriter, status int) func(*pathway.Error) {
		return func(e *pathway.Error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(e) //nolint:errcheck
		}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		pathway.Respond(def.Call(r.Context(), r)).
			Success(func(v any) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
			}).
			Failure(pathway.KindForbidden, writeError(w, http.StatusForbidden)).
			Failure(pathway.KindNotFound, writeError(w, http.StatusNotFound)).
			Failure(pathway.KindInvalid, writeError(w, http.StatusConflict)).
			Otherwise(writeError(w, http.StatusInternalServerError)).
			Run()
	}
}

func TestPublishArticleOverHTTP(t *testing.T) {
	store := &articleStore{articles: map[string]*article{
		"1": {ID: "1", Title: "Draft", Status: "draft"},
	}}
	def := publishDefinition(t, store)
	defer def.Close()

	server := httptest.NewServer(handler(def))
	defer server.Close()

	do := func(t *testing.T, path, role string) (*http.Response, map[string]any) {
		t.Helper()
		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL+path, http.NoBody)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		req.Header.Set("X-Role", role)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		defer resp.Body.Close()
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp, body
	}

	t.Run("Forbidden", func(t *testing.T) {
		resp, body := do(t, "/articles/1", "viewer")
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
		if body["kind"] != string(pathway.KindForbidden) {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		resp, body := do(t, "/articles/9", "editor")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
		details, _ := body["details"].(map[string]any)
		if body["message"] != "article not found" || details["id"] != "9" {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("Publishes", func(t *testing.T) {
		resp, body := do(t, "/articles/1", "editor")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if body["status"] != "published" {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("Already Published", func(t *testing.T) {
		resp, body := do(t, "/articles/1", "editor")
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", resp.StatusCode)
		}
		if body["message"] != "already published" {
			t.Errorf("unexpected body %v", body)
		}
	})
}

func TestPublishArticleConcurrently(t *testing.T) {
	store := &articleStore{articles: map[string]*article{}}
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		store.articles[id] = &article{ID: id, Status: "draft"}
	}
	def := publishDefinition(t, store)
	defer def.Close()

	ptesting.ParallelTest(t, 20, func(i int) {
		r := httptest.NewRequest(http.MethodPost, "/articles/"+string(rune('a'+i)), http.NoBody)
		r.Header.Set("X-Role", "editor")
		if out := def.Call(context.Background(), r); out.IsErr() {
			t.Errorf("article %d: %v", i, out.Err())
		}
	})

	if got := def.Metrics().Counter(pathway.SuccessesTotal).Value(); got != 20 {
		t.Errorf("expected 20 successes, got %f", got)
	}
}
