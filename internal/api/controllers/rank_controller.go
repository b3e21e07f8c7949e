package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"uplevel/internal/models/response_models"
	"uplevel/internal/services"
	"uplevel/pkg/utils"
)

type RankController struct {
	rankService services.RankServiceInterface
}

func NewRankController(rankService services.RankServiceInterface) *RankController {
	return &RankController{
		rankService: rankService,
	}
}

func (rc *RankController) GetQualification(c *gin.Context) {

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	metrics, err := rc.rankService.GetMetrics(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	qualified, err := rc.rankService.GetHighestQualifiedRank(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	resp := response_models.RankQualificationResponse{
		UserID:        userID,
		PersonalSales: metrics.PersonalSales.StringFixed(2),
		ActiveLegs:    metrics.ActiveLegs,
		TeamVolume:    metrics.TeamVolume.StringFixed(2),
	}
	if qualified != nil {
		resp.QualifiedRank = qualified.Code
	}

	utils.RespondSuccess(c, resp, "Fetched rank qualification successfully")
}

func (rc *RankController) ProcessAdvancement(c *gin.Context) {

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	advancement, err := rc.rankService.ProcessRankAdvancement(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if advancement == nil {
		utils.RespondSuccess(c, response_models.RankAdvancementResponse{Advanced: false}, "No rank advancement")
		return
	}

	utils.RespondSuccess(c, response_models.RankAdvancementResponse{
		Advanced: true,
		OldRank:  advancement.OldRank,
		NewRank:  advancement.NewRank,
		Bonus:    advancement.Bonus.StringFixed(2),
	}, "Rank advanced successfully")
}
