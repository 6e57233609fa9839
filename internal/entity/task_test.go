package entity

import (
	"errors"
	"testing"
)

func TestCreateTaskRequestValidate(t *testing.T) {
	req := CreateTaskRequest{Title: "  Buy milk ", Description: " 2 litres"}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.Title != "Buy milk" || req.Description != "2 litres" {
		t.Errorf("fields not trimmed: %q %q", req.Title, req.Description)
	}
	if req.Status != StatusPending {
		t.Errorf("Status = %q, want default %q", req.Status, StatusPending)
	}

	for name, bad := range map[string]CreateTaskRequest{
		"no title":       {Description: "d"},
		"blank title":    {Title: "   ", Description: "d"},
		"no description": {Title: "t"},
		"bad status":     {Title: "t", Description: "d", Status: "Archived"},
	} {
		if err := bad.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: Validate() error = %v, want ErrValidation", name, err)
		}
	}
}

func TestUpdateTaskRequestChanges(t *testing.T) {
	current := &Task{Title: "Buy milk", Description: "2 litres", Status: StatusPending}
	str := func(s string) *string { return &s }
	status := func(s TaskStatus) *TaskStatus { return &s }

	tests := []struct {
		name string
		req  UpdateTaskRequest
		want map[string]any
	}{
		{"empty", UpdateTaskRequest{}, map[string]any{}},
		{"same values", UpdateTaskRequest{Title: str("Buy milk"), Status: status(StatusPending)}, map[string]any{}},
		{"blank keeps value", UpdateTaskRequest{Title: str("  "), Description: str("")}, map[string]any{}},
		{"empty status keeps value", UpdateTaskRequest{Status: status("")}, map[string]any{}},
		{"title", UpdateTaskRequest{Title: str(" Buy bread ")}, map[string]any{"title": "Buy bread"}},
		{
			"all",
			UpdateTaskRequest{Title: str("a"), Description: str("b"), Status: status(StatusCompleted)},
			map[string]any{"title": "a", "description": "b", "status": StatusCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Changes(current)
			if err != nil {
				t.Fatalf("Changes() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Changes() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("Changes()[%s] = %v, want %v", k, got[k], v)
				}
			}
		})
	}

	if _, err := (&UpdateTaskRequest{Status: status("Done")}).Changes(current); !errors.Is(err, ErrValidation) {
		t.Errorf("invalid status error = %v, want ErrValidation", err)
	}
}

func TestSignUpRequestValidate(t *testing.T) {
	req := SignUpRequest{Name: " Ann ", Email: " Ann@Example.com ", Password: "secret1"}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.Email != "ann@example.com" || req.Role != RoleUser {
		t.Errorf("got email %q role %q", req.Email, req.Role)
	}

	for name, bad := range map[string]SignUpRequest{
		"missing name":   {Email: "a@b.c", Password: "secret1"},
		"bad email":      {Name: "a", Email: "nope", Password: "secret1"},
		"short password": {Name: "a", Email: "a@b.c", Password: "123"},
		"bad role":       {Name: "a", Email: "a@b.c", Password: "secret1", Role: "root"},
	} {
		if err := bad.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: Validate() error = %v, want ErrValidation", name, err)
		}
	}
}
