package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/service"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeUserService struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserService(usernames ...string) *fakeUserService {
	users := make(map[string]*model.User)
	for _, username := range usernames {
		users[username] = &model.User{
			Username:        username,
			CreatedAt:       time.Now().UTC(),
			DefaultResponse: json.RawMessage(`{"ok":true}`),
		}
	}
	return &fakeUserService{users: users}
}

func (s *fakeUserService) Create(ctx context.Context, dto *model.DTOUserCreate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[dto.Username]; exists {
		return nil, service.ErrUsernameTaken
	}
	user := &model.User{
		Username:        dto.Username,
		CreatedAt:       time.Now().UTC(),
		DefaultResponse: dto.DefaultResponse,
		ResponseTimeMax: 1000,
	}
	s.users[dto.Username] = user
	return user, nil
}

func (s *fakeUserService) Update(ctx context.Context, username string, dto *model.DTOUserUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	if len(dto.DefaultResponse) > 0 {
		user.DefaultResponse = dto.DefaultResponse
	}
	return user, nil
}

func (s *fakeUserService) IsUsernameAvailable(ctx context.Context, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.users[username]
	return !exists
}

func (s *fakeUserService) Get(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return user, nil
}

type fakeWebhookService struct {
	mu     sync.Mutex
	last   *model.InboundRequest
	result *model.WebhookResult
	err    error
}

func (s *fakeWebhookService) ProcessRequest(ctx context.Context, in *model.InboundRequest) (*model.WebhookResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = in
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *fakeWebhookService) lastRequest() *model.InboundRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

type fakeViewerService struct {
	requests []*model.WebhookRequest
	count    int64
	deleted  bool
	cleared  int64
	stats    *model.Statistics
	csv      string
	err      error
}

func (s *fakeViewerService) List(ctx context.Context, username string, limit, skip int) ([]*model.WebhookRequest, error) {
	return s.requests, s.err
}

func (s *fakeViewerService) Count(ctx context.Context, username string) (int64, error) {
	return s.count, s.err
}

func (s *fakeViewerService) Delete(ctx context.Context, username, id string) (bool, error) {
	return s.deleted, s.err
}

func (s *fakeViewerService) Clear(ctx context.Context, username string) (int64, error) {
	return s.cleared, s.err
}

func (s *fakeViewerService) Search(ctx context.Context, username, query string, limit int) ([]*model.WebhookRequest, error) {
	return s.requests, s.err
}

func (s *fakeViewerService) Statistics(ctx context.Context, username string) (*model.Statistics, error) {
	return s.stats, s.err
}

func (s *fakeViewerService) ExportCSV(ctx context.Context, username string) (string, error) {
	return s.csv, s.err
}
