package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const mondayAPIURL = "https://api.monday.com/v2"

// Monday queries the monday.com GraphQL API for board items. The board's
// items are fetched and filtered client side; the API has no free-text
// search across column values.
type Monday struct {
	APIKey      string
	BoardID     string
	URLTemplate string // optional, with {board} and {item} placeholders
	APIURL      string
	HTTP        *http.Client
}

func NewMonday(apiKey, boardID, urlTemplate string) (*Monday, error) {
	if apiKey == "" || boardID == "" {
		return nil, errors.New("monday api key and board id are required")
	}
	return &Monday{
		APIKey:      apiKey,
		BoardID:     boardID,
		URLTemplate: urlTemplate,
		APIURL:      mondayAPIURL,
		HTTP:        &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type mondayResponse struct {
	Data struct {
		Boards []struct {
			ItemsPage struct {
				Items []struct {
					ID    string `json:"id"`
					Name  string `json:"name"`
					State string `json:"state"`
				} `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

func (m *Monday) SearchTasks(ctx context.Context, query string) ([]Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty search query")
	}

	gql := fmt.Sprintf(
		`query { boards(ids: [%s]) { items_page(limit: 100) { items { id name state } } } }`,
		m.BoardID)
	payload, err := json.Marshal(map[string]string{"query": gql})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("monday search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("monday search: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed mondayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("monday search: decode response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("monday search: %s", parsed.Errors[0].Message)
	}

	needle := strings.ToLower(query)
	var tasks []Task
	for _, board := range parsed.Data.Boards {
		for _, item := range board.ItemsPage.Items {
			if !strings.Contains(strings.ToLower(item.Name), needle) {
				continue
			}
			tasks = append(tasks, Task{
				ID:     item.ID,
				Key:    item.ID,
				Title:  item.Name,
				Status: item.State,
				URL:    m.taskURL(item.ID),
				Source: "monday",
			})
		}
	}
	return tasks, nil
}

func (m *Monday) taskURL(itemID string) string {
	if m.URLTemplate == "" {
		return ""
	}
	url := strings.ReplaceAll(m.URLTemplate, "{board}", m.BoardID)
	return strings.ReplaceAll(url, "{item}", itemID)
}
