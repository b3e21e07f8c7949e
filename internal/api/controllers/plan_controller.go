package controllers

import (
	"github.com/gin-gonic/gin"
	"uplevel/internal/models/response_models"
	"uplevel/pkg/compplan"
	"uplevel/pkg/utils"
)

type PlanController struct {
	plan     compplan.Plan
	warnings []string
}

func NewPlanController(plan compplan.Plan, warnings []string) *PlanController {
	return &PlanController{
		plan:     plan,
		warnings: warnings,
	}
}

func (pc *PlanController) GetPlan(c *gin.Context) {
	utils.RespondSuccess(c, response_models.PlanResponse{
		MatrixWidth:         pc.plan.MatrixWidth,
		MatrixDepth:         pc.plan.MatrixDepth,
		RetailPercent:       pc.plan.RetailPercent,
		MatrixLevelPercents: pc.plan.MatrixLevelPercents,
		MatchingPercent:     pc.plan.MatchingPercent,
		MatchingLevels:      pc.plan.MatchingLevels,
		TheoreticalPayout:   pc.plan.TheoreticalPayoutPercent(),
		Warnings:            pc.warnings,
	}, "Fetched compensation plan")
}
