package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/certshowcase/internal/common"
)

// Error is a non-2xx answer of the API.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server answered %d %s", e.Status, e.Code)
}

// Unwrap maps the error code onto the shared sentinels so callers can use
// errors.Is without knowing the wire codes.
func (e *Error) Unwrap() error {
	switch e.Code {
	case "not_found":
		return common.ErrorNotFound
	case "validation_failed", "invalid_request":
		return common.ErrorValidation
	case "conflict":
		return common.ErrorConflict
	case "invalid_credentials":
		return common.ErrInvalidCredentials
	case "token_expired":
		return common.ErrTokenExpired
	case "refresh_token_expired":
		return common.ErrRefreshTokenExpired
	case "upload_failed", "file_too_large":
		return common.ErrorUploadFailed
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	}
	if e.Status >= 500 {
		return common.ErrorInternal
	}
	return nil
}

func decodeError(resp *http.Response) error {
	e := &Error{Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, e); err != nil || e.Code == "" {
		e.Code = http.StatusText(resp.StatusCode)
		e.Message = ""
	}
	return e
}
