package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/apidocs/services/item/domain/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		input   models.ItemName
		wantErr string
	}{
		{input: "Widget"},
		{input: "Widget Pro 2"},
		{input: "Ünïcödé naming"},
		{input: "   ", wantErr: "only whitespace"},
		{input: " Widget", wantErr: "leading or trailing"},
		{input: "Widget\t", wantErr: "leading or trailing"},
		{input: "Wid\x00get", wantErr: "control characters"},
		{input: "Wid\u0085get", wantErr: "control characters"},
		{input: "Blue  Widget", wantErr: "consecutive spaces"},
	}
	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"multiline", "line one\nline two\tindented", false},
		{"bell", "ding\a", true},
		{"escape", "\x1b[31mred", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDescription(tt.input); (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDescription(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateItemForCreation(t *testing.T) {
	valid := func() *models.Item {
		return &models.Item{ID: uuid.New(), OrgID: uuid.New(), Name: "Widget"}
	}

	tests := []struct {
		name     string
		item     func() *models.Item
		wantErrs []string
	}{
		{name: "valid", item: valid},
		{name: "nil", item: func() *models.Item { return nil }, wantErrs: []string{"cannot be nil"}},
		{name: "missing id", item: func() *models.Item { i := valid(); i.ID = uuid.Nil; return i }, wantErrs: []string{"id must be set"}},
		{name: "missing org", item: func() *models.Item { i := valid(); i.OrgID = uuid.Nil; return i }, wantErrs: []string{"org_id must be set"}},
		{
			name: "several violations joined",
			item: func() *models.Item {
				i := valid()
				i.OrgID = uuid.Nil
				i.Name = " Widget"
				i.Description = "\a"
				return i
			},
			wantErrs: []string{"org_id must be set", "leading or trailing", "description must not contain"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemForCreation(tt.item())
			if len(tt.wantErrs) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tt.wantErrs {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err, want)
				}
			}
		})
	}
}
