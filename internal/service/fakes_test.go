package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/repository"
)

// In-memory repository fakes implementing the store interfaces, so services
// can be exercised without a database.

type memRepo struct {
	users    *memUserRepo
	requests *memRequestRepo
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:    newMemUserRepo(),
		requests: newMemRequestRepo(),
	}
}

func (m *memRepo) User() repository.IUserRepository       { return m.users }
func (m *memRepo) Request() repository.IRequestRepository { return m.requests }

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error // when set, every call fails with it
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, exists := r.users[user.Username]; exists {
		return repository.ErrDuplicate
	}
	clone := *user
	r.users[user.Username] = &clone
	return nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	clone := *user
	r.users[user.Username] = &clone
	return nil
}

type memRequestRepo struct {
	mu       sync.Mutex
	records  []*model.WebhookRequest
	err      error
	lastList struct {
		limit int
		skip  int
	}
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{}
}

func (r *memRequestRepo) Insert(ctx context.Context, request *model.WebhookRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	clone := *request
	r.records = append(r.records, &clone)
	return nil
}

func (r *memRequestRepo) CountByUsername(ctx context.Context, username string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var count int64
	for _, rec := range r.records {
		if rec.Username == username {
			count++
		}
	}
	return count, nil
}

func (r *memRequestRepo) DeleteOldest(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	oldest := -1
	for i, rec := range r.records {
		if rec.Username != username {
			continue
		}
		if oldest == -1 || rec.RequestTime.Before(r.records[oldest].RequestTime) {
			oldest = i
		}
	}
	if oldest >= 0 {
		r.records = append(r.records[:oldest], r.records[oldest+1:]...)
	}
	return nil
}

func (r *memRequestRepo) ListByUsername(ctx context.Context, username string, limit, skip int) ([]*model.WebhookRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.lastList.limit = limit
	r.lastList.skip = skip

	matched := r.sortedByUsername(username)
	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memRequestRepo) LatestID(ctx context.Context, username string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	matched := r.sortedByUsername(username)
	if len(matched) == 0 {
		return "", nil
	}
	return matched[0].ID, nil
}

func (r *memRequestRepo) DeleteByID(ctx context.Context, username, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for i, rec := range r.records {
		if rec.Username == username && rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memRequestRepo) DeleteAll(ctx context.Context, username string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var kept []*model.WebhookRequest
	var deleted int64
	for _, rec := range r.records {
		if rec.Username == username {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return deleted, nil
}

func (r *memRequestRepo) Search(ctx context.Context, username, pattern string, limit int) ([]*model.WebhookRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	needle := strings.ToLower(pattern)
	var matched []*model.WebhookRequest
	for _, rec := range r.sortedByUsername(username) {
		if strings.Contains(strings.ToLower(rec.Method), needle) ||
			strings.Contains(strings.ToLower(rec.Path), needle) ||
			strings.Contains(strings.ToLower(rec.ID), needle) {
			matched = append(matched, rec)
		}
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (r *memRequestRepo) Stats(ctx context.Context, username string) (*model.Statistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	stats := &model.Statistics{MethodCounts: make(map[string]int64)}
	var totalMs int64
	for _, rec := range r.records {
		if rec.Username != username {
			continue
		}
		stats.TotalRequests++
		stats.MethodCounts[rec.Method]++
		totalMs += int64(rec.ResponseTimeMs)
		if stats.LatestRequestTime == nil || rec.RequestTime.After(*stats.LatestRequestTime) {
			t := rec.RequestTime
			stats.LatestRequestTime = &t
		}
	}
	if stats.TotalRequests > 0 {
		avg := float64(totalMs) / float64(stats.TotalRequests)
		stats.AverageResponseTimeMs = math.Round(avg*100) / 100
	}
	return stats, nil
}

// sortedByUsername returns the user's records newest-first. Callers must hold
// the mutex.
func (r *memRequestRepo) sortedByUsername(username string) []*model.WebhookRequest {
	var matched []*model.WebhookRequest
	for _, rec := range r.records {
		if rec.Username == username {
			matched = append(matched, rec)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RequestTime.After(matched[j].RequestTime)
	})
	return matched
}
