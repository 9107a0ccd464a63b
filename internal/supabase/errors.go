package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
)

// apiError covers the error shapes the provider emits: GoTrue returns
// {"code":400,"msg":...} or {"error":...,"error_description":...} with an
// optional "error_code"; PostgREST returns {"code":"23503","message":...}.
type apiError struct {
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	ErrorField       string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	ErrorCode        string          `json:"error_code"`
	Code             json.RawMessage `json:"code"`
}

func (e *apiError) message() string {
	for _, m := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorField} {
		if m != "" {
			return m
		}
	}
	return ""
}

func (e *apiError) code() string {
	if e.ErrorCode != "" {
		return e.ErrorCode
	}
	// PostgREST codes are JSON strings ("23503"); GoTrue legacy codes are
	// numbers and carry no meaning beyond the HTTP status.
	var s string
	if len(e.Code) > 0 && json.Unmarshal(e.Code, &s) == nil {
		return s
	}
	if e.ErrorField != "" {
		return e.ErrorField
	}
	return ""
}

func decodeAPIError(status int, raw []byte) error {
	var parsed apiError
	_ = json.Unmarshal(raw, &parsed)

	message := parsed.message()
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = fmt.Sprintf("identity provider returned status %d", status)
	}

	if status >= 500 {
		return apperrors.UpstreamStore(message, nil)
	}
	return apperrors.UpstreamAuth(parsed.code(), message, nil)
}

// pgForeignKeyViolation is the Postgres error code for a foreign key
// constraint violation, surfaced verbatim by PostgREST.
const pgForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether err is a provider-side foreign key
// violation. The signup orchestrator treats these as benign when they race
// with account replication.
func IsForeignKeyViolation(err error) bool {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	if appErr.Code == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(strings.ToLower(appErr.Message), "foreign key")
}
