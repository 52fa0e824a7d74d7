// Copyright 2025 Reelmind Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package transcript

import (
	"fmt"
	"net/http"

	"github.com/reelmind/reelmind/core"
)

// ErrorCode classifies extraction failures for retry and fallback decisions.
type ErrorCode string

const (
	CodeInvalidIdentifier  ErrorCode = "INVALID_IDENTIFIER"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodePrivate            ErrorCode = "PRIVATE"
	CodeNoTranscript       ErrorCode = "NO_TRANSCRIPT"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
	CodeNetwork            ErrorCode = "NETWORK"
	CodeFileTooLarge       ErrorCode = "FILE_TOO_LARGE"
	CodeMissingVideoBuffer ErrorCode = "MISSING_VIDEO_BUFFER"
	CodeUnknown            ErrorCode = "UNKNOWN"
)

// RouterError is the structured error returned by extractors and the router.
type RouterError struct {
	Code    ErrorCode
	Source  core.SourceType
	Message string
	Err     error
}

func (e *RouterError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("transcript %s [%s]: %s", e.Source, e.Code, e.Message)
	}
	return fmt.Sprintf("transcript [%s]: %s", e.Code, e.Message)
}

func (e *RouterError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a later attempt could plausibly succeed.
// Content-level failures (missing, private, no captions) never will.
func (e *RouterError) Retryable() bool {
	switch e.Code {
	case CodeRateLimited, CodeNetwork, CodeUnknown:
		return true
	default:
		return false
	}
}

func newError(code ErrorCode, source core.SourceType, message string, err error) *RouterError {
	return &RouterError{Code: code, Source: source, Message: message, Err: err}
}

// codeFromStatus maps an HTTP response status to an error code.
func codeFromStatus(status int) ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return CodePrivate
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status >= 500:
		return CodeNetwork
	default:
		return CodeUnknown
	}
}
