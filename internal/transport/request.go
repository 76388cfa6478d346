package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure. Non-2xx
// responses become an APIError carrying the status, endpoint, and body so
// the run loop can classify the failure.
func DecodeResponse(system string, resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		endpoint := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.URL.String()
		}
		return &errors.APIError{
			System:     system,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    string(body),
		}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "", err)
	}

	return nil
}
