package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/storekit/errors"
)

type retryInput struct {
	Attempts int     `json:"attempts" validate:"gte=0"`
	Jitter   float64 `json:"jitter" validate:"gte=0,lte=1"`
}

type fetchInput struct {
	URL       string     `json:"url" validate:"required,url"`
	Method    string     `json:"method" validate:"omitempty,httpmethod"`
	TimeoutMS int        `json:"timeout_ms" validate:"gte=0"`
	Algorithm string     `json:"algorithm" validate:"omitempty,oneof=HS256 HS512"`
	Retry     retryInput `json:"retry"`
	NoTag     string     `validate:"omitempty,uuid"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        fetchInput
		wantField string
		wantMsg   string
	}{
		{"valid", fetchInput{URL: "http://example.com/users", Method: "GET"}, "", ""},
		{"no method", fetchInput{URL: "http://example.com"}, "", ""},
		{"missing url", fetchInput{}, "url", "is required"},
		{"bad url", fetchInput{URL: "not a url"}, "url", "must be a valid URL"},
		{"bad method", fetchInput{URL: "http://example.com", Method: "FETCH"}, "method", "must be an HTTP method"},
		{"negative timeout", fetchInput{URL: "http://example.com", TimeoutMS: -1}, "timeout_ms", "must be at least 0"},
		{"oneof", fetchInput{URL: "http://example.com", Algorithm: "RS256"}, "algorithm", "must be one of: HS256 HS512"},
		{"nested", fetchInput{URL: "http://example.com", Retry: retryInput{Jitter: 2}}, "retry.jitter", "must be at most 1"},
		{"snake case fallback", fetchInput{URL: "http://example.com", NoTag: "x"}, "no_tag", "must be a valid UUID"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeInvalidInput {
				t.Errorf("code = %s", appErr.Code)
			}
			fields := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 {
				t.Fatalf("expected one field error, got %v", fields)
			}
			if fields[0].Field != tc.wantField || fields[0].Message != tc.wantMsg {
				t.Errorf("got %+v, want %s %q", fields[0], tc.wantField, tc.wantMsg)
			}
			if !strings.Contains(appErr.Message, tc.wantField+": ") {
				t.Errorf("message %q should name the field", appErr.Message)
			}
		})
	}
}

func TestValidateAggregates(t *testing.T) {
	err := Validate(fetchInput{Method: "FETCH", TimeoutMS: -5})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if fields := appErr.Details["fields"].([]FieldError); len(fields) != 3 {
		t.Errorf("expected 3 field errors, got %v", fields)
	}
}

func TestValidateNonStruct(t *testing.T) {
	if err := Validate("not a struct"); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestIsHTTPMethod(t *testing.T) {
	for _, m := range []string{"GET", "POST", "DELETE"} {
		if !IsHTTPMethod(m) {
			t.Errorf("expected %s to be accepted", m)
		}
	}
	if IsHTTPMethod("get") {
		t.Error("methods are case sensitive")
	}
}
