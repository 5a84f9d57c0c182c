// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	UserID   string `json:"userId" validate:"required,userid,max=128"`
	Type     string `json:"interactionType" validate:"omitempty,interaction_type"`
	Category string `json:"category" validate:"omitempty,category"`
	Page     int    `json:"page" validate:"min=1,max=1000"`
	Scroll   *int   `json:"scrollPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	ninety := 90
	overflow := 101

	tests := []struct {
		name      string
		input     sampleRequest
		wantField string
		wantTag   string
	}{
		{name: "valid", input: sampleRequest{UserID: "u1", Type: "like", Category: "science", Page: 1, Scroll: &ninety}},
		{name: "valid without optionals", input: sampleRequest{UserID: "u1", Page: 3}},
		{name: "missing user", input: sampleRequest{Page: 1}, wantField: "userId", wantTag: "required"},
		{name: "blank user", input: sampleRequest{UserID: " u1", Page: 1}, wantField: "userId", wantTag: "userid"},
		{name: "unknown type", input: sampleRequest{UserID: "u1", Type: "poke", Page: 1}, wantField: "interactionType", wantTag: "interaction_type"},
		{name: "unknown category", input: sampleRequest{UserID: "u1", Category: "gossip", Page: 1}, wantField: "category", wantTag: "category"},
		{name: "page too small", input: sampleRequest{UserID: "u1", Page: 0}, wantField: "page", wantTag: "min"},
		{name: "scroll out of range", input: sampleRequest{UserID: "u1", Page: 1, Scroll: &overflow}, wantField: "scrollPercentage", wantTag: "lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected a validation error")
			}
			fe := err.Errors()[0]
			if fe.Field() != tt.wantField || fe.Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", fe.Field(), fe.Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&sampleRequest{Page: 1}).ToAPIError()
	if single.Code != ErrorCode || single.Message != "userId is required" {
		t.Errorf("single = %+v", single)
	}
	if single.Details["field"] != "userId" {
		t.Errorf("details = %v", single.Details)
	}

	multi := ValidateStruct(&sampleRequest{Page: 0, Category: "gossip"}).ToAPIError()
	if !strings.Contains(multi.Message, "; ") {
		t.Errorf("multi message = %q", multi.Message)
	}
	fields, ok := multi.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 3 {
		t.Errorf("fields = %v", multi.Details["fields"])
	}
}
