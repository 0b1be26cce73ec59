package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type stringInfo struct {
	File        string  `json:"file"`
	Line        int     `json:"line"`
	Value       string  `json:"value"`
	Role        string  `json:"role"`
	ScreenGroup string  `json:"screen_group,omitempty"`
	Confidence  float64 `json:"confidence"`
	Key         string  `json:"key"`
	Replacement string  `json:"replacement"`
	Status      string  `json:"status"`
	Reason      string  `json:"reason,omitempty"`
}

func (s *Server) handleListStrings(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	project := getStringArg(args, "project_name")
	if project == "" {
		return errResult("project_name is required"), nil
	}
	role := getStringArg(args, "role")
	status := getStringArg(args, "status")
	limit := getIntArg(args, "limit", 50)
	if limit > 200 {
		limit = 200
	}

	rows, err := s.store.FindRows(project, role, status)
	if err != nil {
		return errResult(fmt.Sprintf("list strings: %v", err)), nil
	}

	total := len(rows)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	result := make([]stringInfo, 0, len(rows))
	for _, r := range rows {
		result = append(result, stringInfo{
			File:        r.FilePath,
			Line:        r.Line,
			Value:       r.Value,
			Role:        r.Role,
			ScreenGroup: r.ScreenGroup,
			Confidence:  r.Confidence,
			Key:         r.Key,
			Replacement: r.Replacement,
			Status:      r.Status,
			Reason:      r.Reason,
		})
	}

	return jsonResult(map[string]any{
		"total":   total,
		"strings": result,
	}), nil
}
