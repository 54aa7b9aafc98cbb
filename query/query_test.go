package query

import "testing"

func TestNewSelectNegativeLimitDisables(t *testing.T) {
	s := NewSelect("players", nil, nil, nil, nil, -5)
	if s.Limit != -1 {
		t.Errorf("Limit = %d, want -1 (disabled)", s.Limit)
	}
}

func TestNewSelectNonNegativeLimitKept(t *testing.T) {
	s := NewSelect("players", nil, nil, nil, nil, 2)
	if s.Limit != 2 {
		t.Errorf("Limit = %d, want 2", s.Limit)
	}
}

func TestNewInsertRequiresNonEmptyValues(t *testing.T) {
	if _, err := NewInsert("players", nil, nil); err == nil {
		t.Fatal("expected error for empty VALUES")
	}
}

func TestNewInsertRequiresEqualArityRows(t *testing.T) {
	_, err := NewInsert("players", nil, [][]string{{"1", "Ty"}, {"2"}})
	if err == nil {
		t.Fatal("expected error for mismatched row arity")
	}
}

func TestNewInsertColumnsArityMustMatchValues(t *testing.T) {
	_, err := NewInsert("players", []string{"id", "nameFirst"}, [][]string{{"1", "Ty", "Cobb"}})
	if err == nil {
		t.Fatal("expected error when row arity != len(columns)")
	}
}

func TestNewInsertValid(t *testing.T) {
	ins, err := NewInsert("players", []string{"id", "nameFirst"}, [][]string{{"1", "Ty"}})
	if err != nil {
		t.Fatalf("NewInsert: %v", err)
	}
	if ins.Table != "players" || len(ins.Values) != 1 {
		t.Errorf("unexpected Insert: %+v", ins)
	}
}
