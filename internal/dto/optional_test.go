package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/dkovalev/todo-service/internal/dto"
)

func TestTodoUpdateRequest_AbsentFields(t *testing.T) {
	var req dto.TodoUpdateRequest
	if err := json.Unmarshal([]byte(`{}`), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.Title.Set || req.Description.Set || req.Completed.Set {
		t.Errorf("fields marked set for empty document: %+v", req)
	}
	if !req.Empty() {
		t.Error("Empty() = false for empty document")
	}
}

func TestTodoUpdateRequest_ValueFields(t *testing.T) {
	var req dto.TodoUpdateRequest
	body := `{"title":"new title","completed":true}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !req.Title.Set || req.Title.Null || req.Title.Value != "new title" {
		t.Errorf("title = %+v, want set value \"new title\"", req.Title)
	}
	if !req.Completed.Set || req.Completed.Null || !req.Completed.Value {
		t.Errorf("completed = %+v, want set value true", req.Completed)
	}
	if req.Description.Set {
		t.Errorf("description = %+v, want absent", req.Description)
	}
	if req.Empty() {
		t.Error("Empty() = true for populated document")
	}
}

func TestTodoUpdateRequest_ExplicitNull(t *testing.T) {
	var req dto.TodoUpdateRequest
	if err := json.Unmarshal([]byte(`{"description":null}`), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !req.Description.Set || !req.Description.Null {
		t.Errorf("description = %+v, want explicit null", req.Description)
	}
	if req.Title.Set {
		t.Error("title should stay absent")
	}
}

func TestOptional_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   dto.Optional[string]
		want string
	}{
		{"absent", dto.Optional[string]{}, "null"},
		{"null", dto.Optional[string]{Set: true, Null: true}, "null"},
		{"value", dto.Optional[string]{Set: true, Value: "x"}, `"x"`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatalf("%s: marshal failed: %v", tt.name, err)
		}
		if string(got) != tt.want {
			t.Errorf("%s: marshal = %s, want %s", tt.name, got, tt.want)
		}
	}
}
