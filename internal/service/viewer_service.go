package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
	exportLimit      = 10000

	// Returned instead of a header-only CSV when the history is empty.
	noRequestsSentinel = "No requests found"
)

type viewerService struct {
	requestRepo repository.IRequestRepository
}

func NewViewerService(requestRepo repository.IRequestRepository) IViewerService {
	return &viewerService{requestRepo: requestRepo}
}

func (s *viewerService) List(ctx context.Context, username string, limit, skip int) ([]*model.WebhookRequest, error) {
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	requests, err := s.requestRepo.ListByUsername(ctx, username, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list requests: %v", ErrStorageFailure, err)
	}
	return requests, nil
}

func (s *viewerService) Count(ctx context.Context, username string) (int64, error) {
	count, err := s.requestRepo.CountByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count requests: %v", ErrStorageFailure, err)
	}
	return count, nil
}

// Delete reports whether a matching record was removed; a miss is not an error.
func (s *viewerService) Delete(ctx context.Context, username, id string) (bool, error) {
	deleted, err := s.requestRepo.DeleteByID(ctx, username, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete request: %v", ErrStorageFailure, err)
	}
	return deleted, nil
}

func (s *viewerService) Clear(ctx context.Context, username string) (int64, error) {
	deleted, err := s.requestRepo.DeleteAll(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to clear requests: %v", ErrStorageFailure, err)
	}
	return deleted, nil
}

func (s *viewerService) Search(ctx context.Context, username, query string, limit int) ([]*model.WebhookRequest, error) {
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}

	requests, err := s.requestRepo.Search(ctx, username, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search requests: %v", ErrStorageFailure, err)
	}
	return requests, nil
}

func (s *viewerService) Statistics(ctx context.Context, username string) (*model.Statistics, error) {
	stats, err := s.requestRepo.Stats(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to aggregate statistics: %v", ErrStorageFailure, err)
	}
	return stats, nil
}

// ExportCSV renders the user's history newest-first as CSV text, capped at
// 10000 records.
func (s *viewerService) ExportCSV(ctx context.Context, username string) (string, error) {
	requests, err := s.requestRepo.ListByUsername(ctx, username, exportLimit, 0)
	if err != nil {
		return "", fmt.Errorf("%w: failed to export requests: %v", ErrStorageFailure, err)
	}
	if len(requests) == 0 {
		return noRequestsSentinel, nil
	}

	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	header := []string{"id", "method", "path", "request_time", "response_time_ms", "headers", "query_params", "body", "response"}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, req := range requests {
		headers, _ := json.Marshal(req.Headers)
		queryParams, _ := json.Marshal(req.QueryParams)

		row := []string{
			req.ID,
			req.Method,
			req.Path,
			req.RequestTime.Format("2006-01-02 15:04:05"),
			strconv.Itoa(req.ResponseTimeMs),
			string(headers),
			string(queryParams),
			rawJSONOrEmpty(req.Body),
			rawJSONOrEmpty(req.Response),
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func rawJSONOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	return string(raw)
}
