package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unowned-ai/daybook/pkg/journal"
)

func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.Params.Arguments[name].(string)
	return v, ok
}

// idArg reads a numeric id. JSON numbers arrive as float64; numeric strings
// are accepted too.
func idArg(request mcp.CallToolRequest, name string) (int64, error) {
	switch v := request.Params.Arguments[name].(type) {
	case float64:
		if v <= 0 || v >= math.MaxInt64 || v != math.Trunc(v) {
			return 0, fmt.Errorf("'%s' must be a positive integer", name)
		}
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("'%s' must be a positive integer", name)
		}
		return id, nil
	case nil:
		return 0, fmt.Errorf("'%s' parameter is required", name)
	default:
		return 0, fmt.Errorf("'%s' must be a positive integer", name)
	}
}

// moodArg returns nil when mood is absent. An explicit "none" or "" clears it.
func moodArg(request mcp.CallToolRequest) (*journal.Mood, error) {
	raw, ok := stringArg(request, "mood")
	if !ok {
		return nil, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return journal.MoodPtr(""), nil
	}
	m, err := journal.ParseMood(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonResult, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func moodNames() []string {
	names := make([]string, 0, len(journal.Moods)+1)
	for _, m := range journal.Moods {
		names = append(names, string(m))
	}
	return append(names, "none")
}
