package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/suar-net/hookmirror/internal/hub"
	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/repository"
)

// Notifier pushes events to live viewers. Delivery is best effort; the
// ingestion path never waits on it.
type Notifier interface {
	Broadcast(username string, event hub.Event)
}

type webhookService struct {
	repo        repository.IRepository
	notifier    Notifier
	maxRequests int64
	logger      *log.Logger
}

func NewWebhookService(repo repository.IRepository, notifier Notifier, maxRequests int64, logger *log.Logger) IWebhookService {
	return &webhookService{
		repo:        repo,
		notifier:    notifier,
		maxRequests: maxRequests,
		logger:      logger,
	}
}

// ProcessRequest runs the full ingestion pipeline for one webhook delivery:
// config lookup, simulated delay, durable record (evicting the oldest record
// once the retention cap is reached) and live fan-out.
func (s *webhookService) ProcessRequest(ctx context.Context, in *model.InboundRequest) (*model.WebhookResult, error) {
	user, err := s.repo.User().GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load user: %v", ErrStorageFailure, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	delayMs := SimulateDelay(user.ResponseTimeMin, user.ResponseTimeMax)

	record := &model.WebhookRequest{
		ID:             uuid.NewString(),
		Username:       in.Username,
		Method:         in.Method,
		Path:           in.Path,
		Headers:        in.Headers,
		QueryParams:    in.QueryParams,
		Body:           decodeBody(in.RawBody),
		Response:       user.DefaultResponse,
		RequestTime:    time.Now().UTC(),
		ResponseTimeMs: delayMs,
	}
	if record.Headers == nil {
		record.Headers = map[string]string{}
	}
	if record.QueryParams == nil {
		record.QueryParams = map[string][]string{}
	}

	// Count-then-delete-then-insert; a transient overshoot under concurrent
	// writers for the same user is acceptable.
	count, err := s.repo.Request().CountByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count requests: %v", ErrStorageFailure, err)
	}
	if count >= s.maxRequests {
		if err := s.repo.Request().DeleteOldest(ctx, in.Username); err != nil {
			return nil, fmt.Errorf("%w: failed to evict oldest request: %v", ErrStorageFailure, err)
		}
	}

	if err := s.repo.Request().Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: failed to insert request: %v", ErrStorageFailure, err)
	}

	go s.notifier.Broadcast(in.Username, hub.Event{
		Event:     hub.EventNewRequest,
		RequestID: record.ID,
		Method:    record.Method,
	})

	return &model.WebhookResult{
		RequestID:      record.ID,
		Response:       user.DefaultResponse,
		ResponseTimeMs: delayMs,
	}, nil
}

// decodeBody degrades gracefully: valid JSON is kept as-is, other UTF-8 text
// is stored as a JSON string, anything unreadable becomes null.
func decodeBody(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	if utf8.Valid(raw) {
		encoded, err := json.Marshal(string(raw))
		if err == nil {
			return encoded
		}
	}
	return nil
}
