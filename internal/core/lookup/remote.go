package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RemoteFetcher 透過食譜服務的 HTTP API 取得食譜
type RemoteFetcher struct {
	client *resty.Client
}

// NewRemoteFetcher 創建遠端查詢
func NewRemoteFetcher(cfg config.LookupConfig) *RemoteFetcher {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "meal-planner")

	return &RemoteFetcher{client: client}
}

// FetchRecipe 實作 Fetcher
func (f *RemoteFetcher) FetchRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get("/recipes/" + url.PathEscape(id))
	if err != nil {
		return nil, common.ErrLookupFailed.Wrap(fmt.Errorf("failed to send request to recipe API: %w", err))
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, common.ErrRecipeNotFound.Wrap(fmt.Errorf("recipe %s not found", id))
	default:
		common.LogDebug("食譜 API 回應異常",
			zap.String("recipe_id", id),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, common.ErrLookupFailed.Wrap(fmt.Errorf("recipe API returned %d: %s", resp.StatusCode(), resp.String()))
	}

	// 解析回應
	var recipe common.Recipe
	if err := common.ParseJSONBytes(resp.Body(), &recipe); err != nil {
		return nil, common.ErrLookupFailed.Wrap(fmt.Errorf("failed to parse recipe response: %w", err))
	}
	if recipe.ID == "" {
		recipe.ID = id
	}
	return &recipe, nil
}
