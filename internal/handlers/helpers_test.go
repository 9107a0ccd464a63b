package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		data     any
		validate func(*testing.T, *http.Response)
	}{
		{
			name:   "simple object",
			status: http.StatusOK,
			data:   map[string]string{"message": "hello"},
			validate: func(t *testing.T, resp *http.Response) {
				if resp.StatusCode != http.StatusOK {
					t.Errorf("Expected status 200, got %d", resp.StatusCode)
				}

				contentType := resp.Header.Get("Content-Type")
				if contentType != "application/json" {
					t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
				}

				var body map[string]any
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if msg, ok := body["message"].(string); !ok || msg != "hello" {
					t.Errorf("Expected message 'hello', got %v", body["message"])
				}
			},
		},
		{
			name:   "array value",
			status: http.StatusOK,
			data:   map[string]any{"skills": []string{"a", "b", "c"}},
			validate: func(t *testing.T, resp *http.Response) {
				var body map[string]any
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if skills, ok := body["skills"].([]any); !ok {
					t.Error("Expected skills to be an array")
				} else if len(skills) != 3 {
					t.Errorf("Expected array length 3, got %d", len(skills))
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			writeJSON(w, tt.status, tt.data)

			resp := w.Result()
			defer resp.Body.Close()

			if tt.validate != nil {
				tt.validate(t, resp)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation error",
			err:         apperrors.Validation("Email is required."),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Email is required.",
		},
		{
			name:        "authentication error",
			err:         apperrors.Authentication("Not authenticated"),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authenticated",
		},
		{
			name:        "authorization error",
			err:         apperrors.Authorization("Forbidden"),
			wantStatus:  http.StatusForbidden,
			wantMessage: "Forbidden",
		},
		{
			name:        "upstream auth error",
			err:         apperrors.UpstreamAuth("user_already_exists", "User already registered", nil),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "User already registered",
		},
		{
			name:       "unclassified error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			writeError(w, tt.err)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}

			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if tt.wantMessage != "" {
				if msg, ok := body["error"].(string); !ok || msg != tt.wantMessage {
					t.Errorf("Expected error '%s', got '%v'", tt.wantMessage, body["error"])
				}
			}
		})
	}
}

// Test helper to create a test request with body
func newTestRequest(method, path string, body any) *http.Request {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}
	return httptest.NewRequest(method, path, bodyReader)
}
