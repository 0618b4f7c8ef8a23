package youtube

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", &googleapi.Error{Code: 404}, ErrSourceEmpty},
		{"forbidden", &googleapi.Error{Code: 403}, ErrSourceUnavailable},
		{"server error", &googleapi.Error{Code: 500}, ErrSourceUnavailable},
		{"plain error", errors.New("boom"), ErrSourceUnavailable},
		{"already classified empty", fmt.Errorf("wrapped: %w", ErrSourceEmpty), ErrSourceEmpty},
		{"canceled", context.Canceled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyAPIError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classifyAPIError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAPIErrorClassifier(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 503}, true},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"source empty", ErrSourceEmpty, false},
		{"canceled", context.Canceled, false},
		{"transport", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apiErrorClassifier(tt.err); got != tt.want {
				t.Errorf("apiErrorClassifier(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
