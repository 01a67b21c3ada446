package service

import (
	"context"

	"github.com/suar-net/hookmirror/internal/model"
)

type IUserService interface {
	Create(ctx context.Context, dto *model.DTOUserCreate) (*model.User, error)
	Update(ctx context.Context, username string, dto *model.DTOUserUpdate) (*model.User, error)
	IsUsernameAvailable(ctx context.Context, username string) bool
	Get(ctx context.Context, username string) (*model.User, error)
}

type IWebhookService interface {
	ProcessRequest(ctx context.Context, in *model.InboundRequest) (*model.WebhookResult, error)
}

type IViewerService interface {
	List(ctx context.Context, username string, limit, skip int) ([]*model.WebhookRequest, error)
	Count(ctx context.Context, username string) (int64, error)
	Delete(ctx context.Context, username, id string) (bool, error)
	Clear(ctx context.Context, username string) (int64, error)
	Search(ctx context.Context, username, query string, limit int) ([]*model.WebhookRequest, error)
	Statistics(ctx context.Context, username string) (*model.Statistics, error)
	ExportCSV(ctx context.Context, username string) (string, error)
}
