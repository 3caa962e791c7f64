package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gerunddev/notionmd/internal/markdown"
	"github.com/gerunddev/notionmd/internal/notion"
	"github.com/google/uuid"
)

const (
	pageID   = "8c2f1e0a-3d4b-4e5f-9a6b-7c8d9e0f1a2b"
	toggleID = "a0000000-0000-4000-8000-000000000010"
)

func textBlock(id, kind, content string, hasChildren bool) map[string]any {
	return map[string]any{
		"object":           "block",
		"id":               id,
		"parent":           map[string]any{"type": "page_id", "page_id": pageID},
		"created_time":     "2023-03-26T19:14:00.000Z",
		"last_edited_time": "2023-03-26T19:14:00.000Z",
		"has_children":     hasChildren,
		"type":             kind,
		kind: map[string]any{
			"rich_text": []any{map[string]any{
				"type": "text",
				"text": map[string]any{"content": content},
				"annotations": map[string]any{
					"bold": false, "italic": false, "strikethrough": false,
					"underline": false, "code": false, "color": "default",
				},
				"plain_text": content,
			}},
		},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("Failed to encode response: %v", err)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL+"/v1", "secret_token", "2022-06-28", WithHTTPClient(srv.Client()))
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c
}

func TestGetPageSendsHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/pages/"+pageID {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret_token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Notion-Version"); got != "2022-06-28" {
			t.Errorf("Notion-Version = %q", got)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"object": "page", "id": pageID})
	})

	rec, err := c.GetPage(context.Background(), pageID)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if rec["id"] != pageID {
		t.Errorf("id = %v, want %s", rec["id"], pageID)
	}
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{
			"object":  "error",
			"status":  404,
			"code":    "object_not_found",
			"message": "Could not find page.",
		})
	})

	_, err := c.GetBlock(context.Background(), pageID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Code != "object_not_found" || apiErr.Message != "Could not find page." {
		t.Errorf("Unexpected error %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report a 404")
	}
}

func TestRateLimitRetry(t *testing.T) {
	tests := []struct {
		name       string
		limited    int32
		wantErr    bool
		wantCalls  int32
		wantStatus int
	}{
		{name: "recovers after one 429", limited: 1, wantCalls: 2},
		{name: "recovers after two 429s", limited: 2, wantCalls: 3},
		{name: "gives up after max attempts", limited: 5, wantErr: true, wantCalls: 3, wantStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) <= tt.limited {
					w.Header().Set("Retry-After", "2")
					writeJSON(t, w, http.StatusTooManyRequests, map[string]any{
						"code": "rate_limited", "message": "Slow down",
					})
					return
				}
				writeJSON(t, w, http.StatusOK, map[string]any{"object": "page", "id": pageID})
			})

			var waits []time.Duration
			c.sleep = func(ctx context.Context, d time.Duration) error {
				waits = append(waits, d)
				return nil
			}

			_, err := c.GetPage(context.Background(), pageID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetPage error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("Server saw %d calls, want %d", got, tt.wantCalls)
			}
			for _, w := range waits {
				if w != 2*time.Second {
					t.Errorf("Waited %v, want Retry-After of 2s", w)
				}
			}
			var apiErr *APIError
			if tt.wantErr && (!errors.As(err, &apiErr) || apiErr.Status != tt.wantStatus) {
				t.Errorf("Expected status %d, got %v", tt.wantStatus, err)
			}
		})
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusTooManyRequests, map[string]any{"message": "Slow down"})
	})
	c.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GetPage(ctx, pageID); err == nil {
		t.Error("Expected an error from a cancelled context")
	}
}

func TestListChildrenPaginates(t *testing.T) {
	var (
		mu      sync.Mutex
		cursors []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page_size"); got != "100" {
			t.Errorf("page_size = %q, want 100", got)
		}
		cursor := r.URL.Query().Get("start_cursor")
		mu.Lock()
		cursors = append(cursors, cursor)
		mu.Unlock()

		switch cursor {
		case "":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"object":      "list",
				"results":     []any{textBlock(uuid.NewString(), "paragraph", "one", false)},
				"next_cursor": "cursor-2",
				"has_more":    true,
			})
		case "cursor-2":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"object":      "list",
				"results":     []any{textBlock(uuid.NewString(), "paragraph", "two", false)},
				"next_cursor": nil,
				"has_more":    false,
			})
		default:
			t.Errorf("Unexpected cursor %q", cursor)
		}
	})

	children, err := c.ListChildren(context.Background(), pageID)
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("Expected 2 children, got %d", len(children))
	}
	mu.Lock()
	defer mu.Unlock()
	if len(cursors) != 2 || cursors[1] != "cursor-2" {
		t.Errorf("Unexpected cursors %v", cursors)
	}
}

func TestFetchBlockTree(t *testing.T) {
	childPageID := uuid.NewString()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var results []any
		switch r.URL.Path {
		case "/v1/blocks/" + pageID + "/children":
			childPage := map[string]any{
				"object":           "block",
				"id":               childPageID,
				"parent":           map[string]any{"type": "page_id", "page_id": pageID},
				"created_time":     "2023-03-26T19:14:00.000Z",
				"last_edited_time": "2023-03-26T19:14:00.000Z",
				"has_children":     true,
				"type":             "child_page",
				"child_page":       map[string]any{"title": "Sub page"},
			}
			results = []any{
				textBlock(toggleID, "toggle", "Toggle", true),
				textBlock(uuid.NewString(), "paragraph", "After", false),
				childPage,
			}
		case "/v1/blocks/" + toggleID + "/children":
			results = []any{textBlock(uuid.NewString(), "bulleted_list_item", "Inside", false)}
		default:
			t.Errorf("Unexpected request %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"object": "list", "results": results, "has_more": false})
	})

	items, err := c.FetchBlockTree(context.Background(), pageID)
	if err != nil {
		t.Fatalf("FetchBlockTree failed: %v", err)
	}

	blocks, err := notion.DecodeBlocks(items)
	if err != nil {
		t.Fatalf("DecodeBlocks failed: %v", err)
	}

	tree := notion.NewTree(blocks)
	if tree.Len() != 4 {
		t.Errorf("Tree has %d blocks, want 4", tree.Len())
	}
	if n := tree.Count(notion.KindUnsupported); n != 1 {
		t.Errorf("Expected the child page to decode as unsupported, got %d", n)
	}

	got := markdown.RenderDocument(blocks, markdown.Settings{Indent: 2})
	want := "- Toggle\n  - Inside\n\nAfter"
	if got != want {
		t.Errorf("Rendered tree =\n%s\nwant:\n%s", got, want)
	}
}

func TestFetchBlockTreePropagatesErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/blocks/"+toggleID+"/children" {
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{"message": "boom"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"object":   "list",
			"results":  []any{textBlock(toggleID, "toggle", "Toggle", true)},
			"has_more": false,
		})
	})

	if _, err := c.FetchBlockTree(context.Background(), pageID); err == nil {
		t.Error("Expected the nested failure to fail the whole tree")
	}
}

func TestParseID(t *testing.T) {
	want := uuid.MustParse(pageID)
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: pageID},
		{input: "8c2f1e0a3d4b4e5f9a6b7c8d9e0f1a2b"},
		{input: "https://www.notion.so/Page-with-blocks-8c2f1e0a3d4b4e5f9a6b7c8d9e0f1a2b"},
		{input: "https://www.notion.so/workspace/8c2f1e0a3d4b4e5f9a6b7c8d9e0f1a2b?pvs=4"},
		{input: "not-a-page", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != want {
				t.Errorf("ParseID() = %v, want %v", got, want)
			}
		})
	}
}

func ExampleAPIError() {
	err := &APIError{Status: 401, Code: "unauthorized", Message: "API token is invalid."}
	fmt.Println(err)
	// Output: API error: status=401 code=unauthorized: API token is invalid.
}
