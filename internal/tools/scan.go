package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arbiter-l10n/arbiter/internal/config"
	"github.com/arbiter-l10n/arbiter/internal/pipeline"
)

func (s *Server) handleScanProject(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.runScan(ctx, req, false)
}

func (s *Server) handleApplyReplacements(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.runScan(ctx, req, true)
}

func (s *Server) runScan(ctx context.Context, req *mcp.CallToolRequest, apply bool) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	projectPath := getStringArg(args, "project_path")
	if projectPath == "" {
		return errResult("project_path is required"), nil
	}
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return errResult(fmt.Sprintf("invalid path: %v", err)), nil
	}

	cfg, err := config.Load(absPath)
	if err != nil {
		return errResult(fmt.Sprintf("config: %v", err)), nil
	}

	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	p := pipeline.New(s.store, absPath, cfg)
	sum, err := p.Run(ctx, apply)
	if err != nil {
		return errResult(fmt.Sprintf("scan failed: %v", err)), nil
	}

	roles, _ := s.store.CountByRole(p.ProjectName)

	result := map[string]any{
		"project":   sum.Project,
		"files":     sum.Files,
		"changed":   sum.Changed,
		"extracted": sum.Extracted,
		"by_role":   roles,
	}
	if apply {
		result["applied"] = sum.Applied
		result["skipped"] = sum.Skipped
		result["skips"] = skipReport(sum)
	}
	return jsonResult(result), nil
}

type skipInfo struct {
	File   string `json:"file"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func skipReport(sum *pipeline.Summary) []skipInfo {
	skips := make([]skipInfo, 0, sum.Skipped)
	for _, r := range sum.Reports {
		for _, sk := range r.Skipped {
			skips = append(skips, skipInfo{
				File:   r.RelPath,
				Value:  sk.Value,
				Reason: sk.Reason,
			})
		}
	}
	return skips
}
