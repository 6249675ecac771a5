package apierr

import (
	"errors"
	"fmt"
)

// Describe renders the diagnostic lines an operator needs for err: the
// HTTP status, the raw response and the parsed message when there is one.
func Describe(err error) []string {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		lines := []string{
			fmt.Sprintf("HTTP Status: %d", apiErr.StatusCode),
			fmt.Sprintf("Response: %s", apiErr.Body),
		}
		if apiErr.Message != "" {
			lines = append(lines, fmt.Sprintf("Error details: %s", apiErr.Message))
		}
		return lines
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return []string{
			fmt.Sprintf("Error parsing response: %v", malformed.Err),
			fmt.Sprintf("Raw response: %s", malformed.Body),
		}
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		return []string{fmt.Sprintf("Request failed: %v", transport.Err)}
	}

	return []string{fmt.Sprintf("Error: %v", err)}
}
