package asana

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"floortrack/internal/model"
	"floortrack/pkg/config"
)

// machineFieldName is the custom field the shop uses to pin a task to a
// machine. Matched case-insensitively.
const machineFieldName = "machine"

const optFields = "name,completed,completed_at,start_on,due_on," +
	"memberships.section.name," +
	"custom_fields.name,custom_fields.resource_subtype,custom_fields.number_value," +
	"custom_fields.text_value,custom_fields.enum_value.name," +
	"custom_fields.multi_enum_values.name,custom_fields.date_value.date"

// Client talks to the Asana REST API. It implements service.TaskClient; the
// tracker only ever reads from Asana, never writes.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Asana API client
func NewClient(cfg *config.AsanaConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://app.asana.com/api/1.0"
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		token:   cfg.Token,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListOpenTasks fetches all incomplete tasks in a project
func (c *Client) ListOpenTasks(ctx context.Context, projectGID string) ([]*model.TaskSnapshot, error) {
	params := url.Values{}
	params.Set("completed_since", "now")

	tasks, err := c.listProjectTasks(ctx, projectGID, params)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*model.TaskSnapshot, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		snapshots = append(snapshots, t.toSnapshot(projectGID))
	}
	return snapshots, nil
}

// ListRecentlyCompleted fetches tasks in a project completed at or after since
func (c *Client) ListRecentlyCompleted(ctx context.Context, projectGID string, since time.Time) ([]*model.TaskSnapshot, error) {
	params := url.Values{}
	params.Set("completed_since", since.UTC().Format(time.RFC3339))

	tasks, err := c.listProjectTasks(ctx, projectGID, params)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*model.TaskSnapshot, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		snapshots = append(snapshots, t.toSnapshot(projectGID))
	}
	return snapshots, nil
}

// listProjectTasks pages through a project's task list
func (c *Client) listProjectTasks(ctx context.Context, projectGID string, params url.Values) ([]*asanaTask, error) {
	if projectGID == "" {
		return nil, fmt.Errorf("project gid is required")
	}

	params.Set("opt_fields", optFields)
	params.Set("limit", "100")

	var all []*asanaTask
	offset := ""
	for {
		if offset != "" {
			params.Set("offset", offset)
		}
		endpoint := fmt.Sprintf("%s/projects/%s/tasks?%s", c.baseURL, projectGID, params.Encode())

		respData, err := c.doRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}

		var page taskListResponse
		if err := json.Unmarshal(respData, &page); err != nil {
			return nil, fmt.Errorf("failed to parse task list response: %w", err)
		}

		all = append(all, page.Data...)

		if page.NextPage == nil || page.NextPage.Offset == "" {
			return all, nil
		}
		offset = page.NextPage.Offset
	}
}

// doRequest performs an HTTP request with bearer authentication
func (c *Client) doRequest(ctx context.Context, method, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// taskListResponse is one page of GET /projects/{gid}/tasks
type taskListResponse struct {
	Data     []*asanaTask `json:"data"`
	NextPage *nextPage    `json:"next_page"`
}

type nextPage struct {
	Offset string `json:"offset"`
}

type asanaTask struct {
	GID          string       `json:"gid"`
	Name         string       `json:"name"`
	Completed    bool         `json:"completed"`
	CompletedAt  string       `json:"completed_at"`
	StartOn      string       `json:"start_on"`
	DueOn        string       `json:"due_on"`
	Memberships  []membership `json:"memberships"`
	CustomFields []asanaField `json:"custom_fields"`
}

type membership struct {
	Section *sectionRef `json:"section"`
}

type sectionRef struct {
	Name string `json:"name"`
}

type asanaField struct {
	Name            string     `json:"name"`
	ResourceSubtype string     `json:"resource_subtype"`
	NumberValue     *float64   `json:"number_value"`
	TextValue       string     `json:"text_value"`
	EnumValue       *enumRef   `json:"enum_value"`
	MultiEnumValues []enumRef  `json:"multi_enum_values"`
	DateValue       *dateValue `json:"date_value"`
}

type enumRef struct {
	Name string `json:"name"`
}

type dateValue struct {
	Date string `json:"date"`
}

// toSnapshot flattens the Asana wire shape into the tracker's task snapshot
func (t *asanaTask) toSnapshot(projectGID string) *model.TaskSnapshot {
	snap := &model.TaskSnapshot{
		GID:        t.GID,
		Name:       t.Name,
		ProjectGID: projectGID,
		StartDate:  t.StartOn,
		DueDate:    t.DueOn,
	}

	for _, m := range t.Memberships {
		if m.Section != nil && m.Section.Name != "" {
			snap.SectionName = m.Section.Name
			break
		}
	}

	if len(t.CustomFields) > 0 {
		snap.CustomFields = make(map[string]model.CustomFieldValue, len(t.CustomFields))
	}
	for _, f := range t.CustomFields {
		value, ok := f.toValue()
		if !ok {
			continue
		}
		snap.CustomFields[f.Name] = value

		if strings.EqualFold(f.Name, machineFieldName) && snap.MachineName == "" {
			snap.MachineName = value.String()
		}
	}

	return snap
}

// toValue converts one Asana custom field to the tagged value form. Fields
// with an unknown subtype are dropped rather than guessed at.
func (f *asanaField) toValue() (model.CustomFieldValue, bool) {
	switch f.ResourceSubtype {
	case "number":
		if f.NumberValue == nil {
			return model.CustomFieldValue{}, false
		}
		return model.NumberField(f.Name, *f.NumberValue), true
	case "text":
		return model.TextField(f.Name, f.TextValue), true
	case "enum":
		name := ""
		if f.EnumValue != nil {
			name = f.EnumValue.Name
		}
		return model.EnumField(f.Name, name), true
	case "date":
		date := ""
		if f.DateValue != nil {
			date = f.DateValue.Date
		}
		return model.DateField(f.Name, date), true
	case "multi_enum":
		names := make([]string, 0, len(f.MultiEnumValues))
		for _, v := range f.MultiEnumValues {
			names = append(names, v.Name)
		}
		return model.MultiEnumField(f.Name, names), true
	}
	return model.CustomFieldValue{}, false
}
