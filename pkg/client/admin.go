package client

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"time"
)

// AdminClient talks to the admin surface of the bookings service.
type AdminClient struct {
	httpClient *HttpClient
}

func NewAdminClient(baseURL string) *AdminClient {
	return &AdminClient{
		httpClient: NewHttpClient(baseURL, 30*time.Second),
	}
}

// Login exchanges the admin password for a capability token and uses it on
// every following call.
func (c *AdminClient) Login(ctx context.Context, password string) error {
	resp, err := c.httpClient.POST(ctx, "/api/v1/admin/login", map[string]string{"password": password})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", GetErrorMessage(resp))
	}

	var wrapper struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return fmt.Errorf("could not decode login response: %w", err)
	}
	if wrapper.Data.Token == "" {
		return fmt.Errorf("login response carried no token: %s", resp.String())
	}

	c.httpClient.SetHeader("Authorization", "Bearer "+wrapper.Data.Token)
	return nil
}

// Export downloads the bookings workbook, filtered and sorted by query, and
// returns its bytes together with the file name suggested by the server.
func (c *AdminClient) Export(ctx context.Context, query url.Values) ([]byte, string, error) {
	path := "/api/v1/admin/bookings/export"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("export failed: %s", GetErrorMessage(resp))
	}

	filename := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return resp.Body, filename, nil
}

// WaitForHealthy polls the liveness endpoint until the service answers.
func (c *AdminClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(ctx, maxWait)
}
