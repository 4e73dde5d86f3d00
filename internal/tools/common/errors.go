package common

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/config"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// Guidance converts client and transport errors into actionable messages for
// the calling agent. The messages explain what went wrong and suggest the next
// step instead of exposing transport detail.
func Guidance(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, config.ErrCredentialsUnavailable) {
		return fmt.Sprintf("Error: %v", err)
	}

	var apiErr *vikunja.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case 401:
			return "Error: Invalid or expired authentication token. " +
				"Please check that VIKUNJA_TOKEN is correct and has not expired."
		case 403:
			return "Error: Permission denied. You don't have access to this resource. " +
				"Please check your user permissions in Vikunja."
		case 404:
			return "Error: Resource not found. Please check the ID is correct and " +
				"try listing available resources first."
		case 422:
			if apiErr.Message != "" {
				return fmt.Sprintf("Error: Validation failed - %s", apiErr.Message)
			}
			return "Error: Invalid request data. Please check that all required parameters " +
				"are provided and have valid values."
		case 429:
			return "Error: Rate limit exceeded. The Vikunja API is receiving too many requests. " +
				"Please wait a moment before making more requests."
		case 500:
			return "Error: Vikunja server error (500). The server encountered an internal error. " +
				"Please try again later or contact the Vikunja administrator."
		case 503:
			return "Error: Vikunja service unavailable (503). The server may be under maintenance. " +
				"Please try again later."
		default:
			return fmt.Sprintf("Error: API request failed with status %d. Please try again.", apiErr.Status)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Error: Request timed out. The Vikunja server took too long to respond. " +
			"Please check your network connection and try again."
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Error: Request timed out. The Vikunja server took too long to respond. " +
			"Please check your network connection and try again."
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "Error: Cannot connect to Vikunja server. Please check that VIKUNJA_URL " +
			"is correct and the server is accessible."
	}

	return fmt.Sprintf("Error: %v", err)
}
