package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"strings"

	"github.com/suar-net/hookmirror/internal/model"
)

// requestRepository is the implementation of IRequestRepository.
type requestRepository struct {
	db *sql.DB
}

// NewRequestRepository is the constructor for requestRepository.
func NewRequestRepository(db *sql.DB) IRequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, username, method, path, headers, query_params, body, response, request_time, response_time`

// Insert persists a new webhook request record.
func (r *requestRepository) Insert(ctx context.Context, request *model.WebhookRequest) error {
	headers, err := json.Marshal(request.Headers)
	if err != nil {
		return err
	}
	queryParams, err := json.Marshal(request.QueryParams)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO webhook_requests (id, username, method, path, headers, query_params, body, response, request_time, response_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.ExecContext(ctx, query,
		request.ID,
		request.Username,
		request.Method,
		request.Path,
		headers,
		queryParams,
		nullableJSON(request.Body),
		nullableJSON(request.Response),
		request.RequestTime,
		request.ResponseTimeMs,
	)
	return err
}

func (r *requestRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM webhook_requests WHERE username = $1`, username).Scan(&count)
	return count, err
}

// DeleteOldest removes the single oldest record (by request_time) for a user.
func (r *requestRepository) DeleteOldest(ctx context.Context, username string) error {
	query := `
		DELETE FROM webhook_requests
		WHERE id = (
			SELECT id FROM webhook_requests
			WHERE username = $1
			ORDER BY request_time ASC
			LIMIT 1
		)`

	_, err := r.db.ExecContext(ctx, query, username)
	return err
}

func (r *requestRepository) ListByUsername(ctx context.Context, username string, limit, skip int) ([]*model.WebhookRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM webhook_requests
		WHERE username = $1
		ORDER BY request_time DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, username, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRequests(rows)
}

// LatestID returns the id of the newest record for a user, or "" when the
// user has no records yet.
func (r *requestRepository) LatestID(ctx context.Context, username string) (string, error) {
	query := `
		SELECT id FROM webhook_requests
		WHERE username = $1
		ORDER BY request_time DESC
		LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, username).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

func (r *requestRepository) DeleteByID(ctx context.Context, username, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM webhook_requests WHERE username = $1 AND id = $2`, username, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *requestRepository) DeleteAll(ctx context.Context, username string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM webhook_requests WHERE username = $1`, username)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Search matches the pattern case-insensitively against method, path and id.
func (r *requestRepository) Search(ctx context.Context, username, pattern string, limit int) ([]*model.WebhookRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM webhook_requests
		WHERE username = $1
		  AND (method ILIKE $2 OR path ILIKE $2 OR id::text ILIKE $2)
		ORDER BY request_time DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, username, "%"+escapeLike(pattern)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRequests(rows)
}

func (r *requestRepository) Stats(ctx context.Context, username string) (*model.Statistics, error) {
	stats := &model.Statistics{
		MethodCounts: make(map[string]int64),
	}

	var avg sql.NullFloat64
	var latest sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(response_time), MAX(request_time)
		FROM webhook_requests
		WHERE username = $1`, username).Scan(&stats.TotalRequests, &avg, &latest)
	if err != nil {
		return nil, err
	}

	if avg.Valid {
		stats.AverageResponseTimeMs = math.Round(avg.Float64*100) / 100
	}
	if latest.Valid {
		t := latest.Time
		stats.LatestRequestTime = &t
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT method, COUNT(*)
		FROM webhook_requests
		WHERE username = $1
		GROUP BY method`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var method string
		var count int64
		if err := rows.Scan(&method, &count); err != nil {
			return nil, err
		}
		stats.MethodCounts[method] = count
	}

	return stats, rows.Err()
}

func scanRequests(rows *sql.Rows) ([]*model.WebhookRequest, error) {
	var requests []*model.WebhookRequest
	for rows.Next() {
		var req model.WebhookRequest
		var headers, queryParams, body, response []byte
		if err := rows.Scan(
			&req.ID,
			&req.Username,
			&req.Method,
			&req.Path,
			&headers,
			&queryParams,
			&body,
			&response,
			&req.RequestTime,
			&req.ResponseTimeMs,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(headers, &req.Headers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(queryParams, &req.QueryParams); err != nil {
			return nil, err
		}
		req.Body = body
		req.Response = response

		requests = append(requests, &req)
	}

	return requests, rows.Err()
}

// nullableJSON maps an absent JSON value to a SQL NULL instead of an empty
// byte slice, which jsonb would reject.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
