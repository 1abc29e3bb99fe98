package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"food-compare/internal/core/food"
	"food-compare/internal/infrastructure/config"
	"food-compare/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const providerName = "usda"

// Client USDA FoodData Central 搜尋客戶端
type Client struct {
	client *resty.Client
	config config.USDAConfig
}

// searchResponse /foods/search 回應
type searchResponse struct {
	TotalHits int       `json:"totalHits"`
	Foods     []fdcFood `json:"foods"`
}

type fdcFood struct {
	FdcID           int           `json:"fdcId"`
	Description     string        `json:"description"`
	FoodNutrients   []fdcNutrient `json:"foodNutrients"`
	ServingSize     float64       `json:"servingSize"`
	ServingSizeUnit string        `json:"servingSizeUnit"`
}

type fdcNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	Value        float64 `json:"value"`
	UnitName     string  `json:"unitName"`
}

// NewClient 創建 USDA 客戶端
func NewClient(cfg config.USDAConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		config: cfg,
	}
}

// SourceURL FDC 食物詳細頁面
func SourceURL(fdcID int) string {
	return fmt.Sprintf("https://fdc.nal.usda.gov/fdc-app.html#/food-details/%d/nutrients", fdcID)
}

// Search 搜尋食物；非 2xx、連線錯誤與格式錯誤都以 error 回傳
func (c *Client) Search(ctx context.Context, query string) ([]food.RawExternalFood, error) {
	start := time.Now()
	foods, err := c.search(ctx, query)
	common.LogExternalCall(providerName, query, len(foods), time.Since(start), err)
	return foods, err
}

func (c *Client) search(ctx context.Context, query string) ([]food.RawExternalFood, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"pageSize": strconv.Itoa(c.config.PageSize),
			"dataType": c.config.DataType,
			"api_key":  c.config.APIKey,
		}).
		Get("/foods/search")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to USDA: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("USDA API returned status %d", resp.StatusCode())
	}

	// 解析回應
	var result searchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse USDA response: %w", err)
	}

	foods := make([]food.RawExternalFood, 0, len(result.Foods))
	for _, f := range result.Foods {
		if f.Description == "" {
			continue
		}
		foods = append(foods, toRawFood(f))
	}
	return foods, nil
}

func toRawFood(f fdcFood) food.RawExternalFood {
	nutrients := make([]food.Nutrient, 0, len(f.FoodNutrients))
	for _, n := range f.FoodNutrients {
		nutrients = append(nutrients, food.Nutrient{ID: n.NutrientID, Value: n.Value})
	}
	return food.RawExternalFood{
		ID:              strconv.Itoa(f.FdcID),
		Description:     f.Description,
		Nutrients:       nutrients,
		ServingSize:     f.ServingSize,
		ServingSizeUnit: f.ServingSizeUnit,
		SourceURL:       SourceURL(f.FdcID),
		Source:          common.SourceUSDA,
	}
}
