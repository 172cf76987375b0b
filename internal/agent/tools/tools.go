// Package tools exposes the agent's callable tools. Each tool takes typed
// JSON input, including the caller's user profile, and returns structured
// output the evaluator and response generator can consume.
package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/yojana-mitra/server/internal/scheme"
)

// Tool names used in plans and the executor registry.
const (
	ToolEligibilityEngine = "eligibility_engine"
	ToolSchemeRetriever   = "scheme_retriever"
)

// NewRegistry builds the tool set over the shared scheme collaborators,
// keyed by tool name. Populated once at startup and read-only thereafter.
func NewRegistry(engine *scheme.Engine, retriever *scheme.Retriever) map[string]tool.InvokableTool {
	return map[string]tool.InvokableTool{
		ToolEligibilityEngine: createEligibilityTool(engine),
		ToolSchemeRetriever:   createRetrieverTool(retriever),
	}
}

// ToolInfos collects the tool descriptors, e.g. for binding to a chat model.
func ToolInfos(ctx context.Context, registry map[string]tool.InvokableTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(registry))
	for _, t := range registry {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
