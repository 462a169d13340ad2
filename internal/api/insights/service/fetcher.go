package insightssvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"media_scheduler/config"
	contentitemmodels "media_scheduler/internal/api/contentitem/models"
	"media_scheduler/internal/common"
)

// Fetcher lấy số liệu của một tập item từ analytics source bên ngoài.
// Item không có trong response nghĩa là source chưa có số liệu cho item đó.
type Fetcher interface {
	FetchMetrics(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]contentitemmodels.ItemMetrics, error)
}

// HTTPFetcher gọi analytics source qua HTTP: POST {baseURL}/metrics/batch
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher tạo mới HTTPFetcher từ config. Trả về nil nếu không cấu hình base URL.
func NewHTTPFetcher(cfg *config.Configuration) *HTTPFetcher {
	if cfg.Metrics_BaseURL == "" {
		return nil
	}
	timeout := time.Duration(cfg.Metrics_TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		baseURL: cfg.Metrics_BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// batchRequest và batchResponse là wire format của metrics batch contract
type batchRequest struct {
	ItemIDs []string `json:"itemIds"`
}

type batchResponse struct {
	Metrics map[string]contentitemmodels.ItemMetrics `json:"metrics"`
}

// FetchMetrics gọi batch endpoint và map response về ObjectID.
// ID không parse được trong response bị bỏ qua.
func (f *HTTPFetcher) FetchMetrics(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]contentitemmodels.ItemMetrics, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]contentitemmodels.ItemMetrics{}, nil
	}

	hexIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		hexIDs = append(hexIDs, id.Hex())
	}

	payload, err := json.Marshal(batchRequest{ItemIDs: hexIDs})
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeMetricsFetch,
			"Không build được request lấy số liệu",
			common.StatusInternalServerError,
			err,
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/metrics/batch", bytes.NewReader(payload))
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeMetricsFetch,
			"Không build được request lấy số liệu",
			common.StatusInternalServerError,
			err,
		)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeMetricsFetch,
			"Analytics source không phản hồi",
			common.StatusInternalServerError,
			err,
		)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeMetricsFetch,
			"Không đọc được response từ analytics source",
			common.StatusInternalServerError,
			err,
		)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, common.NewError(
			common.ErrCodeMetricsFetch,
			fmt.Sprintf("Analytics source trả về status %d", resp.StatusCode),
			common.StatusInternalServerError,
			map[string]interface{}{"body": string(body)},
		)
	}

	var parsed batchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, common.NewError(
			common.ErrCodeMetricsFetch,
			"Response từ analytics source không đúng định dạng",
			common.StatusInternalServerError,
			err,
		)
	}

	result := make(map[primitive.ObjectID]contentitemmodels.ItemMetrics, len(parsed.Metrics))
	for hex, metrics := range parsed.Metrics {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		result[id] = metrics
	}
	return result, nil
}
