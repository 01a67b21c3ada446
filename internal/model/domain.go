package model

import (
	"encoding/json"
	"time"
)

// User holds the webhook configuration for one registered endpoint owner.
// The username is the identity; everything else is mutable via partial patch.
type User struct {
	Username        string          `json:"username"`
	CreatedAt       time.Time       `json:"created_at"`
	DefaultResponse json.RawMessage `json:"default_response"`
	ResponseTimeMin int             `json:"response_time_min"`
	ResponseTimeMax int             `json:"response_time_max"`
}

// WebhookRequest is one recorded inbound call. Records are immutable once
// written; request_time is the sole ordering key.
type WebhookRequest struct {
	ID             string              `json:"id"`
	Username       string              `json:"username"`
	Method         string              `json:"method"`
	Path           string              `json:"path"`
	Headers        map[string]string   `json:"headers"`
	QueryParams    map[string][]string `json:"query_params"`
	Body           json.RawMessage     `json:"body"`
	Response       json.RawMessage     `json:"response"`
	RequestTime    time.Time           `json:"request_time"`
	ResponseTimeMs int                 `json:"response_time"`
}

// Statistics aggregates a user's recorded history. All fields are well
// defined for an empty history.
type Statistics struct {
	TotalRequests         int64            `json:"total_requests"`
	MethodCounts          map[string]int64 `json:"method_counts"`
	AverageResponseTimeMs float64          `json:"average_response_time_ms"`
	LatestRequestTime     *time.Time       `json:"latest_request_time"`
}
