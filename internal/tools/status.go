package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleProjectStatus(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	name := getStringArg(args, "project_name")
	if name == "" {
		projects, err := s.store.ListProjects()
		if err != nil {
			return errResult(fmt.Sprintf("list projects: %v", err)), nil
		}
		type projectInfo struct {
			Name      string `json:"name"`
			RootPath  string `json:"root_path"`
			ScannedAt string `json:"scanned_at"`
		}
		result := make([]projectInfo, 0, len(projects))
		for _, p := range projects {
			result = append(result, projectInfo{
				Name:      p.Name,
				RootPath:  p.RootPath,
				ScannedAt: p.ScannedAt,
			})
		}
		return jsonResult(result), nil
	}

	proj, err := s.store.GetProject(name)
	if err != nil {
		return errResult(fmt.Sprintf("project not found: %s", name)), nil
	}
	roles, err := s.store.CountByRole(name)
	if err != nil {
		return errResult(fmt.Sprintf("count by role: %v", err)), nil
	}
	statuses, err := s.store.CountByStatus(name)
	if err != nil {
		return errResult(fmt.Sprintf("count by status: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"project":    proj.Name,
		"root_path":  proj.RootPath,
		"scanned_at": proj.ScannedAt,
		"by_role":    roles,
		"by_status":  statuses,
	}), nil
}

func (s *Server) handleDeleteProject(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	name := getStringArg(args, "project_name")
	if name == "" {
		return errResult("project_name is required"), nil
	}
	if _, err := s.store.GetProject(name); err != nil {
		return errResult(fmt.Sprintf("project not found: %s", name)), nil
	}

	if err := s.store.DeleteProject(name); err != nil {
		return errResult(fmt.Sprintf("delete failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"deleted": name,
		"status":  "ok",
	}), nil
}
