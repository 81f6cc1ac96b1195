// Package api defines the request and response shapes exposed over HTTP,
// plus the token usage accounting shared with the llm package.
package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateTimeLayouts are the deadline formats accepted on input, tried in
// order. The assistant emits "2006-01-02 15:04:05" (or a bare date), so
// strict RFC 3339 alone would reject its tool calls.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateTime parses a deadline in any of the accepted layouts.
func ParseDateTime(raw string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", raw)
}

// DateTime is a time.Time whose JSON form accepts every layout in
// dateTimeLayouts. It marshals back as RFC 3339.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// Usage tracks token consumption for a single LLM call or an accumulated run.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another usage record into this one.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// --- Authentication ---

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Users ---

type UserCreateRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    *string `json:"email"`
	Password string  `json:"password" binding:"required"`
}

type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
}

type PasswordUpdateRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// --- Tasks ---

type TaskCreateRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description" binding:"required"`
	Deadline     *DateTime `json:"deadline"`
	CollectionID *int64    `json:"collection_id"`
}

// TaskUpdateRequest carries partial updates: nil pointers mean "unchanged".
type TaskUpdateRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Completed    *bool     `json:"completed"`
	Deadline     *DateTime `json:"deadline"`
	CollectionID *int64    `json:"collection_id"`
}

type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// TaskDetailResponse embeds the owning collection, when there is one.
type TaskDetailResponse struct {
	TaskResponse
	Collection *CollectionResponse `json:"collection,omitempty"`
}

type TaskDeleteResponse struct {
	ID      int64 `json:"id"`
	Success bool  `json:"success"`
}

// --- Collections ---

type CollectionCreateRequest struct {
	Name  string  `json:"name" binding:"required"`
	Tasks []int64 `json:"tasks"`
}

type CollectionUpdateRequest struct {
	Name *string `json:"name"`
}

type CollectionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CollectionDetailResponse embeds the collection's tasks.
type CollectionDetailResponse struct {
	CollectionResponse
	Tasks []TaskResponse `json:"tasks"`
}

type CollectionDeleteResponse struct {
	ID      int64 `json:"id"`
	Success bool  `json:"success"`
}

// --- Chat ---

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	LatencyMS int64  `json:"latency_ms"`
}
