package store

import (
	"fmt"
	"testing"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.UpsertProject("test", "/tmp/app"); err != nil {
		t.Fatalf("UpsertProject: %v", err)
	}
	return s
}

func testRow(file string, offset int, value string) *Row {
	return &Row{
		Project:    "test",
		FilePath:   file,
		Line:       3,
		Column:     12,
		ByteOffset: offset,
		ByteLength: len(value) + 2,
		Value:      value,
		Role:       "button",
		Status:     "pending",
	}
}

func TestOpenMemory(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	s.Close()
}

func TestProjectCRUD(t *testing.T) {
	s := openTest(t)

	p, err := s.GetProject("test")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if p.RootPath != "/tmp/app" || p.ScannedAt == "" {
		t.Errorf("unexpected project: %+v", p)
	}

	all, err := s.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 project, got %d", len(all))
	}

	if err := s.DeleteProject("test"); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := s.GetProject("test"); err == nil {
		t.Fatal("project survived delete")
	}
}

func TestFileHashes(t *testing.T) {
	s := openTest(t)

	if err := s.UpsertFileHash("test", "lib/login.dart", "aa11"); err != nil {
		t.Fatalf("UpsertFileHash: %v", err)
	}
	if err := s.UpsertFileHash("test", "lib/login.dart", "bb22"); err != nil {
		t.Fatalf("UpsertFileHash update: %v", err)
	}
	hashes, err := s.GetFileHashes("test")
	if err != nil {
		t.Fatalf("GetFileHashes: %v", err)
	}
	if hashes["lib/login.dart"] != "bb22" {
		t.Errorf("hash = %q, want bb22", hashes["lib/login.dart"])
	}

	if err := s.DeleteFileHash("test", "lib/login.dart"); err != nil {
		t.Fatalf("DeleteFileHash: %v", err)
	}
	hashes, _ = s.GetFileHashes("test")
	if len(hashes) != 0 {
		t.Errorf("expected no hashes, got %v", hashes)
	}
}

func TestRowUpsertAndFind(t *testing.T) {
	s := openTest(t)

	id, err := s.InsertRow(testRow("lib/login.dart", 120, "Sign In"))
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	// Same offset replaces, not duplicates.
	r2 := testRow("lib/login.dart", 120, "Log In")
	r2.Key = "loginLogIn"
	if _, err := s.InsertRow(r2); err != nil {
		t.Fatalf("InsertRow upsert: %v", err)
	}

	rows, err := s.FindRowsByFile("test", "lib/login.dart")
	if err != nil {
		t.Fatalf("FindRowsByFile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Value != "Log In" || rows[0].Key != "loginLogIn" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestFindRowsFilters(t *testing.T) {
	s := openTest(t)

	r := testRow("lib/login.dart", 10, "Sign In")
	if _, err := s.InsertRow(r); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	r2 := testRow("lib/settings.dart", 20, "Notifications")
	r2.Role = "label"
	r2.Status = "applied"
	if _, err := s.InsertRow(r2); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	tests := []struct {
		role, status string
		want         int
	}{
		{"", "", 2},
		{"button", "", 1},
		{"", "applied", 1},
		{"button", "applied", 0},
	}
	for _, tt := range tests {
		rows, err := s.FindRows("test", tt.role, tt.status)
		if err != nil {
			t.Fatalf("FindRows(%q, %q): %v", tt.role, tt.status, err)
		}
		if len(rows) != tt.want {
			t.Errorf("FindRows(%q, %q) = %d rows, want %d", tt.role, tt.status, len(rows), tt.want)
		}
	}
}

func TestSetStatus(t *testing.T) {
	s := openTest(t)

	id, err := s.InsertRow(testRow("lib/login.dart", 10, "Sign In"))
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if err := s.SetStatus(id, "skipped", "span not found near recorded line"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	rows, _ := s.FindRows("test", "", "skipped")
	if len(rows) != 1 || rows[0].Reason == "" {
		t.Fatalf("skip not recorded: %+v", rows)
	}
}

func TestCounts(t *testing.T) {
	s := openTest(t)

	for i := 0; i < 3; i++ {
		r := testRow("lib/login.dart", i*10, fmt.Sprintf("Button %d", i))
		if _, err := s.InsertRow(r); err != nil {
			t.Fatalf("InsertRow: %v", err)
		}
	}
	r := testRow("lib/login.dart", 100, "Welcome back")
	r.Role = "message"
	r.Status = "applied"
	if _, err := s.InsertRow(r); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	byRole, err := s.CountByRole("test")
	if err != nil {
		t.Fatalf("CountByRole: %v", err)
	}
	if byRole["button"] != 3 || byRole["message"] != 1 {
		t.Errorf("CountByRole = %v", byRole)
	}
	byStatus, err := s.CountByStatus("test")
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if byStatus["pending"] != 3 || byStatus["applied"] != 1 {
		t.Errorf("CountByStatus = %v", byStatus)
	}
}

func TestAssignedKeys(t *testing.T) {
	s := openTest(t)

	r := testRow("lib/login.dart", 10, "Sign In")
	r.Key = "loginSignIn"
	if _, err := s.InsertRow(r); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if _, err := s.InsertRow(testRow("lib/login.dart", 50, "unkeyed")); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	keys, err := s.AssignedKeys("test")
	if err != nil {
		t.Fatalf("AssignedKeys: %v", err)
	}
	if len(keys) != 1 || keys["loginSignIn"] != "Sign In" {
		t.Errorf("AssignedKeys = %v", keys)
	}
}

func TestWithTransactionRollback(t *testing.T) {
	s := openTest(t)

	err := s.WithTransaction(func(tx *Store) error {
		if _, err := tx.InsertRow(testRow("lib/login.dart", 10, "Sign In")); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	if err == nil {
		t.Fatal("expected error from callback")
	}
	rows, _ := s.FindRows("test", "", "")
	if len(rows) != 0 {
		t.Errorf("rollback left %d rows", len(rows))
	}
}

func TestDeleteRowsByFile(t *testing.T) {
	s := openTest(t)

	if _, err := s.InsertRow(testRow("lib/login.dart", 10, "Sign In")); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if _, err := s.InsertRow(testRow("lib/settings.dart", 10, "Save")); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if err := s.DeleteRowsByFile("test", "lib/login.dart"); err != nil {
		t.Fatalf("DeleteRowsByFile: %v", err)
	}
	rows, _ := s.FindRows("test", "", "")
	if len(rows) != 1 || rows[0].FilePath != "lib/settings.dart" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}
