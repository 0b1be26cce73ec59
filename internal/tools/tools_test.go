package tools

import (
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arbiter-l10n/arbiter/internal/pipeline"
)

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content blocks = %d, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestJSONResult(t *testing.T) {
	res := jsonResult(map[string]any{"applied": 3})
	if res.IsError {
		t.Fatal("jsonResult marked as error")
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(textOf(t, res)), &decoded); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if decoded["applied"] != float64(3) {
		t.Errorf("applied = %v, want 3", decoded["applied"])
	}
}

func TestErrResult(t *testing.T) {
	res := errResult("scan failed: no such directory")
	if !res.IsError {
		t.Fatal("errResult not marked as error")
	}
	if got := textOf(t, res); got != "scan failed: no such directory" {
		t.Errorf("text = %q", got)
	}
}

func TestGetIntArg(t *testing.T) {
	args := map[string]any{"limit": float64(20), "bad": "x"}
	if got := getIntArg(args, "limit", 50); got != 20 {
		t.Errorf("limit = %d, want 20", got)
	}
	if got := getIntArg(args, "missing", 50); got != 50 {
		t.Errorf("missing = %d, want default 50", got)
	}
	if got := getIntArg(args, "bad", 50); got != 50 {
		t.Errorf("bad = %d, want default 50", got)
	}
}

func TestSkipReport(t *testing.T) {
	sum := &pipeline.Summary{
		Skipped: 2,
		Reports: []pipeline.FileReport{
			{RelPath: "lib/a.dart"},
			{RelPath: "lib/b.dart", Skipped: []pipeline.SkipDetail{
				{Value: "Save", Reason: "span ambiguous after drift"},
				{Value: "Cancel", Reason: "span not found near recorded line"},
			}},
		},
	}
	skips := skipReport(sum)
	if len(skips) != 2 {
		t.Fatalf("skips = %d, want 2", len(skips))
	}
	if skips[0].File != "lib/b.dart" || skips[0].Value != "Save" {
		t.Errorf("first skip = %+v", skips[0])
	}
}
