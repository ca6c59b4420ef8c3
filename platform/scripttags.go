// Package platform talks to the commerce platform's admin REST API.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/compra-app/compra-go/models"
)

const apiVersion = "2024-10"

// ScriptTag is the platform's record of an injected storefront script.
type ScriptTag struct {
	ID           int64  `json:"id"`
	Event        string `json:"event"`
	Src          string `json:"src"`
	DisplayScope string `json:"display_scope"`
}

// ScriptTagClient registers survey scripts with a store's storefront so the
// embeddable widget loads on page view.
type ScriptTagClient struct {
	httpClient *http.Client
}

func NewScriptTagClient() *ScriptTagClient {
	return &ScriptTagClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Register creates an onload script tag pointing at scriptURL, authenticated
// with the store's access token.
func (c *ScriptTagClient) Register(ctx context.Context, store *models.Store, scriptURL string) (*ScriptTag, error) {
	payload := map[string]any{
		"script_tag": map[string]any{
			"event":         "onload",
			"src":           scriptURL,
			"display_scope": "online_store",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode script tag payload: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s/admin/api/%s/script_tags.json", store.ShopDomain, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build script tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", store.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("script tag request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("script tag request returned %d: %s", resp.StatusCode, detail)
	}

	var out struct {
		ScriptTag ScriptTag `json:"script_tag"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode script tag response: %w", err)
	}
	return &out.ScriptTag, nil
}
