// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type purchaseRow struct {
	CustomerID int             `json:"customer_id" validate:"gte=0"`
	ProductID  int             `json:"product_id" validate:"gte=1"`
	Name       string          `json:"product_name" validate:"required,max=20"`
	Amount     decimal.Decimal `json:"purchase_amount" validate:"gte=0"`
	Date       time.Time       `json:"purchase_date" validate:"required"`
	Note       string          `validate:"omitempty,min=3"`
}

func validRow() purchaseRow {
	return purchaseRow{
		CustomerID: 0,
		ProductID:  1,
		Name:       "Kettle",
		Amount:     decimal.RequireFromString("19.99"),
		Date:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*purchaseRow)
		wantField string
		wantTag   string
	}{
		{name: "valid", modify: func(*purchaseRow) {}},
		{name: "zero amount", modify: func(r *purchaseRow) { r.Amount = decimal.Zero }},
		{"negative customer", func(r *purchaseRow) { r.CustomerID = -1 }, "customer_id", "gte"},
		{"product zero", func(r *purchaseRow) { r.ProductID = 0 }, "product_id", "gte"},
		{"missing name", func(r *purchaseRow) { r.Name = "" }, "product_name", "required"},
		{"long name", func(r *purchaseRow) { r.Name = strings.Repeat("x", 21) }, "product_name", "max"},
		{"negative amount", func(r *purchaseRow) { r.Amount = decimal.NewFromInt(-3) }, "purchase_amount", "gte"},
		{"zero date", func(r *purchaseRow) { r.Date = time.Time{} }, "purchase_date", "required"},
		{"short note", func(r *purchaseRow) { r.Note = "ab" }, "Note", "min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			row := validRow()
			tt.modify(&row)
			verr := ValidateStruct(&row)

			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*purchaseRow)
		want   string
	}{
		{"required", func(r *purchaseRow) { r.Name = "" }, "product_name is required"},
		{"gte", func(r *purchaseRow) { r.ProductID = 0 }, "product_id must be greater than or equal to 1"},
		{"string max", func(r *purchaseRow) { r.Name = strings.Repeat("x", 21) }, "product_name must be at most 20 characters"},
		{"string min", func(r *purchaseRow) { r.Note = "ab" }, "Note must be at least 3 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			row := validRow()
			tt.modify(&row)
			verr := ValidateStruct(&row)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if verr.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.want)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single error", func(t *testing.T) {
		t.Parallel()
		row := validRow()
		row.CustomerID = -5
		apiErr := ValidateStruct(&row).ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
		}
		if apiErr.Details["field"] != "customer_id" {
			t.Errorf("Details[field] = %v, want customer_id", apiErr.Details["field"])
		}
		if apiErr.Details["value"] != -5 {
			t.Errorf("Details[value] = %v, want -5", apiErr.Details["value"])
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		t.Parallel()
		row := validRow()
		row.CustomerID = -1
		row.Name = ""
		apiErr := ValidateStruct(&row).ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "customer_id") || !strings.Contains(apiErr.Message, "product_name") {
			t.Errorf("Message = %q, want both fields", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}
