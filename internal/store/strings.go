package store

import "fmt"

const rowColumns = `id, project, file_path, line, col, byte_offset, byte_length,
	value, role, screen_group, confidence, structural_type, parameter_name,
	key, replacement, status, reason`

// InsertRow inserts an extracted string, replacing any earlier record
// at the same (project, file, offset) so a re-scan upserts cleanly.
func (s *Store) InsertRow(r *Row) (int64, error) {
	res, err := s.q.Exec(`
		INSERT INTO strings (project, file_path, line, col, byte_offset, byte_length,
			value, role, screen_group, confidence, structural_type, parameter_name,
			key, replacement, status, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project, file_path, byte_offset) DO UPDATE SET
			line=excluded.line, col=excluded.col, byte_length=excluded.byte_length,
			value=excluded.value, role=excluded.role, screen_group=excluded.screen_group,
			confidence=excluded.confidence, structural_type=excluded.structural_type,
			parameter_name=excluded.parameter_name, key=excluded.key,
			replacement=excluded.replacement, status=excluded.status, reason=excluded.reason`,
		r.Project, r.FilePath, r.Line, r.Column, r.ByteOffset, r.ByteLength,
		r.Value, r.Role, r.ScreenGroup, r.Confidence, r.StructuralType, r.ParameterName,
		r.Key, r.Replacement, r.Status, r.Reason)
	if err != nil {
		return 0, fmt.Errorf("insert string: %w", err)
	}
	return res.LastInsertId()
}

// FindRows returns catalog rows for a project, optionally filtered by
// role and/or status. Empty filters match everything.
func (s *Store) FindRows(project, role, status string) ([]*Row, error) {
	query := "SELECT " + rowColumns + " FROM strings WHERE project=?"
	args := []any{project}
	if role != "" {
		query += " AND role=?"
		args = append(args, role)
	}
	if status != "" {
		query += " AND status=?"
		args = append(args, status)
	}
	query += " ORDER BY file_path, byte_offset"

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("find strings: %w", err)
	}
	defer rows.Close()
	var result []*Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// FindRowsByFile returns all rows recorded for one source file.
func (s *Store) FindRowsByFile(project, filePath string) ([]*Row, error) {
	rows, err := s.q.Query(
		"SELECT "+rowColumns+" FROM strings WHERE project=? AND file_path=? ORDER BY byte_offset",
		project, filePath)
	if err != nil {
		return nil, fmt.Errorf("find strings by file: %w", err)
	}
	defer rows.Close()
	var result []*Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// SetStatus updates a row's rewrite status and reason.
func (s *Store) SetStatus(id int64, status, reason string) error {
	_, err := s.q.Exec("UPDATE strings SET status=?, reason=? WHERE id=?", status, reason, id)
	return err
}

// DeleteRowsByFile removes all rows recorded for a file, ahead of
// re-inserting a fresh extraction.
func (s *Store) DeleteRowsByFile(project, filePath string) error {
	_, err := s.q.Exec("DELETE FROM strings WHERE project=? AND file_path=?", project, filePath)
	return err
}

// CountByRole returns per-role row counts for a project.
func (s *Store) CountByRole(project string) (map[string]int, error) {
	rows, err := s.q.Query("SELECT role, COUNT(*) FROM strings WHERE project=? GROUP BY role", project)
	if err != nil {
		return nil, fmt.Errorf("count by role: %w", err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		result[role] = n
	}
	return result, rows.Err()
}

// CountByStatus returns per-status row counts for a project.
func (s *Store) CountByStatus(project string) (map[string]int, error) {
	rows, err := s.q.Query("SELECT status, COUNT(*) FROM strings WHERE project=? GROUP BY status", project)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		result[status] = n
	}
	return result, rows.Err()
}

// AssignedKeys returns the project's key -> value assignments, used to
// seed the key registry so re-scans reuse established keys.
func (s *Store) AssignedKeys(project string) (map[string]string, error) {
	rows, err := s.q.Query("SELECT key, value FROM strings WHERE project=? AND key != ''", project)
	if err != nil {
		return nil, fmt.Errorf("assigned keys: %w", err)
	}
	defer rows.Close()
	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (*Row, error) {
	var r Row
	err := sc.Scan(&r.ID, &r.Project, &r.FilePath, &r.Line, &r.Column,
		&r.ByteOffset, &r.ByteLength, &r.Value, &r.Role, &r.ScreenGroup,
		&r.Confidence, &r.StructuralType, &r.ParameterName,
		&r.Key, &r.Replacement, &r.Status, &r.Reason)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
