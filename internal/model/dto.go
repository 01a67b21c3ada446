package model

import (
	"encoding/json"
)

// DTO for user registration requests.
type DTOUserCreate struct {
	Username        string          `json:"username" validate:"required,alphanum"`
	DefaultResponse json.RawMessage `json:"default_response,omitempty"`
	ResponseTimeMin *int            `json:"response_time_min,omitempty" validate:"omitempty,gte=0"`
	ResponseTimeMax *int            `json:"response_time_max,omitempty" validate:"omitempty,gte=0"`
}

// DTO for partial configuration updates; nil fields keep their prior values.
type DTOUserUpdate struct {
	DefaultResponse json.RawMessage `json:"default_response,omitempty"`
	ResponseTimeMin *int            `json:"response_time_min,omitempty" validate:"omitempty,gte=0"`
	ResponseTimeMax *int            `json:"response_time_max,omitempty" validate:"omitempty,gte=0"`
}

// InboundRequest carries one webhook delivery from the HTTP layer into the
// ingestion pipeline, already reduced to plain values.
type InboundRequest struct {
	Username    string
	Method      string
	Path        string
	Headers     map[string]string
	QueryParams map[string][]string
	RawBody     []byte
}

// WebhookResult is what the ingestion pipeline hands back to the HTTP layer:
// the canned response to serialize plus bookkeeping about the delivery.
type WebhookResult struct {
	RequestID      string          `json:"request_id"`
	Response       json.RawMessage `json:"response"`
	ResponseTimeMs int             `json:"response_time"`
}
