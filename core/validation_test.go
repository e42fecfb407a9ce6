package core

import (
	"errors"
	"testing"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name: "valid file request",
			req:  &Request{FilePath: "doc.txt", FeatureSelector: "User Login"},
		},
		{
			name: "valid url request with limit",
			req:  &Request{URL: "https://example.com/spec", FeatureSelector: "all features", TestCaseLimit: 5},
		},
		{
			name:    "nil request",
			req:     nil,
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "no source",
			req:     &Request{FeatureSelector: "User Login"},
			wantErr: ErrNoSource,
		},
		{
			name:    "both sources",
			req:     &Request{FilePath: "doc.txt", URL: "https://example.com", FeatureSelector: "User Login"},
			wantErr: ErrAmbiguousSource,
		},
		{
			name:    "empty selector",
			req:     &Request{FilePath: "doc.txt"},
			wantErr: ErrEmptySelector,
		},
		{
			name:    "negative limit",
			req:     &Request{FilePath: "doc.txt", FeatureSelector: "User Login", TestCaseLimit: -1},
			wantErr: ErrNonPositiveLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRequest() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRequest() = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("ValidateRequest() should wrap ErrInvalidRequest, got %v", err)
			}
		})
	}
}
