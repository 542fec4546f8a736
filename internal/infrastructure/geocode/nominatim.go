package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Peglo98/SocialSport2/internal/domain/geo"
)

// NominatimResolver はNominatim互換APIによる逆ジオコーディング実装
type NominatimResolver struct {
	baseURL string
	client  *http.Client
}

// NewNominatimResolver はNominatimResolverを作成する
func NewNominatimResolver(baseURL string) *NominatimResolver {
	return &NominatimResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

// Resolve は座標から住所文字列を取得する
func (r *NominatimResolver) Resolve(ctx context.Context, coord geo.Coordinate) (string, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("リクエスト作成に失敗しました: %w", err)
	}
	// Nominatimの利用規約でUser-Agentの指定が必須
	req.Header.Set("User-Agent", "socialsport/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("逆ジオコーディングに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("逆ジオコーディングAPIがエラーを返しました: status=%d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("レスポンスの解析に失敗しました: %w", err)
	}
	if body.DisplayName == "" {
		return "", ErrUnresolved
	}
	return body.DisplayName, nil
}

var _ Resolver = (*NominatimResolver)(nil)
