package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Executor performs resolved tool calls against the task-manager CRUD API.
// The caller's bearer token is injected here, on the trusted side of the
// boundary; it is never part of the model-visible argument schema, and a
// token argument emitted by the model is simply not read.
//
// Remote failures never escape Invoke as errors: the model consumes tool
// output as conversational content whether the call worked or not, so both
// outcomes are normalized to text. The only hard error is ErrUnknownTool.
type Executor struct {
	catalog    *Catalog
	baseURL    string
	httpClient *http.Client
}

// NewExecutor creates an executor that calls the CRUD API at baseURL.
// The dedicated HTTP client carries a timeout so a hung remote call cannot
// stall the conversation loop indefinitely.
func NewExecutor(catalog *Catalog, baseURL string) *Executor {
	return &Executor{
		catalog: catalog,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Invoke resolves and executes a single tool call with the given token.
// It returns ErrUnknownTool when the requested name is outside the catalog;
// every other failure is folded into the returned result text.
func (x *Executor) Invoke(ctx context.Context, call ToolCall, token string) (string, error) {
	def, err := x.catalog.Resolve(call.Function.Name)
	if err != nil {
		return "", err
	}

	name := def.Function.Name
	result, err := x.dispatch(ctx, name, call.Function.Arguments, token)
	if err != nil {
		log.Printf("Tool %s failed: %v", name, err)
		return fmt.Sprintf("Error executing tool %s: %v", name, err), nil
	}
	return fmt.Sprintf("Function result is: %s", result), nil
}

// dispatch maps a catalog name to its implementation. The default branch is
// unreachable after Resolve but kept so a catalog/dispatch mismatch shows up
// as a contained error instead of silent misbehavior.
func (x *Executor) dispatch(ctx context.Context, name, arguments, token string) (string, error) {
	switch name {
	case "create_task":
		return x.createTask(ctx, arguments, token)
	case "read_task":
		return x.readTask(ctx, arguments, token)
	case "task_list":
		return x.listTasks(ctx, arguments, token)
	case "update_task":
		return x.updateTask(ctx, arguments, token)
	case "delete_task":
		return x.deleteTask(ctx, arguments, token)
	case "create_collection":
		return x.createCollection(ctx, arguments, token)
	case "read_collection":
		return x.readCollection(ctx, arguments, token)
	case "collection_list":
		return x.listCollections(ctx, arguments, token)
	case "update_collection":
		return x.updateCollection(ctx, arguments, token)
	case "delete_collection":
		return x.deleteCollection(ctx, arguments, token)
	default:
		return "", fmt.Errorf("tool %q has no executor binding", name)
	}
}

func (x *Executor) createTask(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		Deadline     *string `json:"deadline"`
		CollectionID *int64  `json:"collection_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	body := map[string]any{
		"title":       args.Title,
		"description": args.Description,
	}
	if args.Deadline != nil {
		body["deadline"] = *args.Deadline
	}
	if args.CollectionID != nil {
		body["collection_id"] = *args.CollectionID
	}
	return x.doRequest(ctx, http.MethodPost, "/tasks/create", nil, body, token)
}

func (x *Executor) readTask(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		TaskID int64 `json:"task_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return x.doRequest(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", args.TaskID), nil, nil, token)
}

func (x *Executor) listTasks(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		Offset    int     `json:"offset"`
		Limit     int     `json:"limit"`
		Deadline  *string `json:"deadline"`
		Completed *bool   `json:"completed"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	query := url.Values{}
	query.Set("offset", strconv.Itoa(args.Offset))
	query.Set("limit", strconv.Itoa(args.Limit))
	completed := args.Completed != nil && *args.Completed
	query.Set("completed", strconv.FormatBool(completed))
	if args.Deadline != nil && *args.Deadline != "" {
		query.Set("deadline", *args.Deadline)
	}
	return x.doRequest(ctx, http.MethodGet, "/tasks/", query, nil, token)
}

func (x *Executor) updateTask(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		TaskID        int64    `json:"task_id"`
		UpdatedFields []string `json:"updated_fields"`
		Title         *string  `json:"title"`
		Description   *string  `json:"description"`
		Completed     *bool    `json:"completed"`
		Deadline      *string  `json:"deadline"`
		CollectionID  *int64   `json:"collection_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	// Only the fields the model explicitly listed are forwarded; anything
	// else it filled in (including defaults) stays out of the PATCH body.
	fields := map[string]any{
		"title":         args.Title,
		"description":   args.Description,
		"completed":     args.Completed,
		"deadline":      args.Deadline,
		"collection_id": args.CollectionID,
	}
	body := make(map[string]any, len(args.UpdatedFields))
	for _, name := range args.UpdatedFields {
		value, ok := fields[name]
		if !ok {
			return "", fmt.Errorf("unknown field %q in updated_fields", name)
		}
		body[name] = value
	}
	log.Printf("Updating task %d with fields: %v", args.TaskID, args.UpdatedFields)

	path := fmt.Sprintf("/tasks/%d/update", args.TaskID)
	return x.doRequest(ctx, http.MethodPatch, path, nil, body, token)
}

func (x *Executor) deleteTask(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		TaskID int64 `json:"task_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	path := fmt.Sprintf("/tasks/%d/delete", args.TaskID)
	return x.doRequest(ctx, http.MethodDelete, path, nil, nil, token)
}

func (x *Executor) createCollection(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		Name  string  `json:"name"`
		Tasks []int64 `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	body := map[string]any{
		"name":  args.Name,
		"tasks": args.Tasks,
	}
	log.Printf("Creating collection %q with %d attached tasks", args.Name, len(args.Tasks))
	return x.doRequest(ctx, http.MethodPost, "/collections/create", nil, body, token)
}

func (x *Executor) readCollection(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		CollectionID int64 `json:"collection_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	path := fmt.Sprintf("/collections/%d", args.CollectionID)
	return x.doRequest(ctx, http.MethodGet, path, nil, nil, token)
}

func (x *Executor) listCollections(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	query := url.Values{}
	query.Set("offset", strconv.Itoa(args.Offset))
	query.Set("limit", strconv.Itoa(args.Limit))
	return x.doRequest(ctx, http.MethodGet, "/collections/", query, nil, token)
}

func (x *Executor) updateCollection(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		CollectionID  int64    `json:"collection_id"`
		UpdatedFields []string `json:"updated_fields"`
		Name          *string  `json:"name"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	fields := map[string]any{
		"name": args.Name,
	}
	body := make(map[string]any, len(args.UpdatedFields))
	for _, name := range args.UpdatedFields {
		value, ok := fields[name]
		if !ok {
			return "", fmt.Errorf("unknown field %q in updated_fields", name)
		}
		body[name] = value
	}

	path := fmt.Sprintf("/collections/%d/update", args.CollectionID)
	return x.doRequest(ctx, http.MethodPatch, path, nil, body, token)
}

func (x *Executor) deleteCollection(ctx context.Context, arguments, token string) (string, error) {
	var args struct {
		CollectionID int64 `json:"collection_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	path := fmt.Sprintf("/collections/%d/delete", args.CollectionID)
	return x.doRequest(ctx, http.MethodDelete, path, nil, nil, token)
}

// doRequest performs one authenticated call against the CRUD API and
// returns the raw response body. Non-2xx responses become errors carrying
// the remote status and body so the model sees why the call was rejected.
func (x *Executor) doRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	token string,
) (string, error) {
	endpoint := x.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call task manager API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read API response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return string(respBody), nil
}
