package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/yojana-mitra/server/internal/agent/model"
	"github.com/yojana-mitra/server/internal/scheme"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// ===================================
// Eligibility Engine Tool
// ===================================

type EligibilityInput struct {
	UserProfile *model.UserProfile `json:"user_profile,omitempty"`
}

type EligibilityOutput struct {
	Success bool           `json:"success"`
	Schemes []scheme.Match `json:"schemes"`
	// TotalMatches counts eligible schemes before the top-10 cut.
	TotalMatches        int     `json:"total_matches"`
	ProfileCompleteness float64 `json:"user_profile_completeness"`
}

func createEligibilityTool(engine *scheme.Engine) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolEligibilityEngine,
			Desc: "उपयोगकर्ता प्रोफ़ाइल के आधार पर पात्र योजनाएं खोजता है",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_profile": {
					Type: "object",
					Desc: "User profile fields collected so far: age, annual_income, category, state, gender, is_bpl and the like. Unknown fields stay absent.",
				},
			}),
		},
		func(ctx context.Context, in *EligibilityInput) (*EligibilityOutput, error) {
			logx.Debug().Msg("running eligibility engine")

			report := engine.Match(in.UserProfile)
			return &EligibilityOutput{
				Success:             true,
				Schemes:             report.Schemes,
				TotalMatches:        report.TotalMatches,
				ProfileCompleteness: report.ProfileCompleteness,
			}, nil
		},
	)
}
