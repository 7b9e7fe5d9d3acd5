package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

// ErrUnexpectedResponse means the backend answered with something other than the documented JSON (usually the HTML
// login page when the session has expired).
var ErrUnexpectedResponse = errors.New("unexpected response from backend")

// Client is the HTTP session shared by all backend services. The underlying resty client keeps a cookie jar, so a
// successful login authenticates every service built on the same Client.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func NewClientFromConfig(config *common.Config) *Client {
	return NewClient(
		config.GetStringOrDefault(domain.ConfigKeyBaseURL, "http://127.0.0.1:5000"),
		config.GetDurationOrDefault(domain.ConfigKeyRequestTimeout, 60*time.Second),
	)
}

// decode unmarshals a JSON reply. The backend reports its own errors with status 200 and an "error" field, so only
// non-JSON bodies and error statuses are treated as transport failures here.
func decode(response *resty.Response, out any) error {
	if response.IsError() {
		return fmt.Errorf("%w: status %d", ErrUnexpectedResponse, response.StatusCode())
	}
	err := json.Unmarshal(response.Body(), out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}
