package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const jiraSearchMax = 20

// Jira queries the Jira Cloud REST API with basic auth.
type Jira struct {
	BaseURL  string
	Username string
	APIToken string
	HTTP     *http.Client
}

func NewJira(baseURL, username, apiToken string) (*Jira, error) {
	if baseURL == "" || username == "" || apiToken == "" {
		return nil, errors.New("jira url, username and api token are required")
	}
	return &Jira{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: username,
		APIToken: apiToken,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// escapeJQL escapes the characters JQL treats specially inside a quoted
// term.
func escapeJQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

type jiraSearchResponse struct {
	Issues []struct {
		Key    string `json:"key"`
		Fields struct {
			Summary string `json:"summary"`
			Status  struct {
				Name string `json:"name"`
			} `json:"status"`
		} `json:"fields"`
	} `json:"issues"`
	ErrorMessages []string `json:"errorMessages,omitempty"`
}

func (j *Jira) SearchTasks(ctx context.Context, query string) ([]Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty search query")
	}

	jql := fmt.Sprintf(`text ~ "%s" ORDER BY updated DESC`, escapeJQL(query))
	endpoint := fmt.Sprintf("%s/rest/api/2/search?jql=%s&maxResults=%d&fields=summary,status",
		j.BaseURL, url.QueryEscape(jql), jiraSearchMax)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(j.Username, j.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := j.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jira search: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed jiraSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("jira search: decode response: %w", err)
	}
	if len(parsed.ErrorMessages) > 0 {
		return nil, fmt.Errorf("jira search: %s", strings.Join(parsed.ErrorMessages, "; "))
	}

	tasks := make([]Task, 0, len(parsed.Issues))
	for _, issue := range parsed.Issues {
		tasks = append(tasks, Task{
			ID:     issue.Key,
			Key:    issue.Key,
			Title:  issue.Fields.Summary,
			Status: issue.Fields.Status.Name,
			URL:    j.BaseURL + "/browse/" + issue.Key,
			Source: "jira",
		})
	}
	return tasks, nil
}
