package tracker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func mondayTestServer(t *testing.T, items []map[string]any) (*httptest.Server, *string) {
	t.Helper()
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		_ = json.Unmarshal(body, &req)
		gotQuery = req["query"]
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"boards": []map[string]any{
					{"items_page": map[string]any{"items": items}},
				},
			},
		})
	}))
	return server, &gotQuery
}

func TestMondaySearchFiltersByName(t *testing.T) {
	server, gotQuery := mondayTestServer(t, []map[string]any{
		{"id": "101", "name": "Rework login screen", "state": "active"},
		{"id": "102", "name": "Unrelated chore", "state": "active"},
		{"id": "103", "name": "LOGIN rate limiting", "state": "done"},
	})
	defer server.Close()

	client, err := NewMonday("key", "4242", "https://acme.monday.com/boards/{board}/pulses/{item}")
	if err != nil {
		t.Fatal(err)
	}
	client.APIURL = server.URL

	tasks, err := client.SearchTasks(context.Background(), "login")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 matches, got %+v", tasks)
	}
	if tasks[0].ID != "101" || tasks[1].ID != "103" {
		t.Errorf("unexpected matches: %+v", tasks)
	}
	if tasks[0].URL != "https://acme.monday.com/boards/4242/pulses/101" {
		t.Errorf("url template not applied: %q", tasks[0].URL)
	}
	if !strings.Contains(*gotQuery, "boards(ids: [4242])") {
		t.Errorf("graphql query %q does not target the board", *gotQuery)
	}
}

func TestMondaySearchGraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "invalid board"}},
		})
	}))
	defer server.Close()

	client, _ := NewMonday("key", "1", "")
	client.APIURL = server.URL
	_, err := client.SearchTasks(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "invalid board") {
		t.Fatalf("expected graphql error, got %v", err)
	}
}

func TestMondayTaskURLWithoutTemplate(t *testing.T) {
	client, _ := NewMonday("key", "1", "")
	if got := client.taskURL("55"); got != "" {
		t.Errorf("expected empty url, got %q", got)
	}
}
