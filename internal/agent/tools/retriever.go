package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	schemepkg "github.com/yojana-mitra/server/internal/scheme"
	"github.com/yojana-mitra/server/internal/scheme/searchx"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// ===================================
// Scheme Retriever Tool
// ===================================

type RetrieverInput struct {
	Query string `json:"query,omitempty"`
	TopK  int    `json:"top_k,omitempty"`
}

type RetrieverOutput struct {
	Success      bool          `json:"success"`
	Schemes      []searchx.Hit `json:"schemes"`
	Query        string        `json:"query"`
	TotalResults int           `json:"total_results"`
	Fallback     bool          `json:"fallback,omitempty"`
}

func createRetrieverTool(retriever *schemepkg.Retriever) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSchemeRetriever,
			Desc: "उपयोगकर्ता की query के आधार पर प्रासंगिक योजनाएं खोजता है",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type: "string",
					Desc: "Free-text search in Hindi or English, e.g. किसान योजना, housing, पेंशन.",
				},
				"top_k": {
					Type: "number",
					Desc: "Maximum number of schemes to return (default 5).",
				},
			}),
		},
		func(ctx context.Context, in *RetrieverInput) (*RetrieverOutput, error) {
			logx.Debug().Str("query", in.Query).Msg("running scheme retriever")

			result := retriever.Search(ctx, in.Query, in.TopK)
			return &RetrieverOutput{
				Success:      true,
				Schemes:      result.Schemes,
				Query:        result.Query,
				TotalResults: result.TotalResults,
				Fallback:     result.Fallback,
			}, nil
		},
	)
}
