package erp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vivo/salesops-backend/internal/domain/shared"
)

// DomainError converts a gateway error into the domain error the handlers
// know how to present. 409 means the record moved under the caller, 404
// means it is gone; everything else is surfaced as an upstream rejection
// carrying the ERP's own message text, because business rule violations
// and transport faults are indistinguishable at this layer.
func DomainError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusConflict:
			return shared.ErrConcurrencyConflict
		case http.StatusNotFound:
			return shared.ErrNotFound
		default:
			if msg := upstreamMessage(statusErr.Body); msg != "" {
				return shared.NewDomainError(shared.ErrUpstream.Code, msg)
			}
			return shared.ErrUpstream
		}
	}

	if errors.Is(err, ErrUnavailable) {
		return shared.NewDomainError(shared.ErrUpstream.Code, "The ERP service is unreachable")
	}

	return err
}

// upstreamMessage extracts the human-readable message from an OData error
// body, falling back to the raw text for non-JSON answers.
func upstreamMessage(body string) string {
	type odataError struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	var parsed odataError
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(body)
}
