package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"uplevel/internal/models/request_models"
	"uplevel/internal/models/response_models"
	"uplevel/internal/services"
	"uplevel/pkg/utils"
)

type MatrixController struct {
	matrixService services.MatrixServiceInterface
}

func NewMatrixController(matrixService services.MatrixServiceInterface) *MatrixController {
	return &MatrixController{
		matrixService: matrixService,
	}
}

// Enroll godoc
// @Summary Place a newly enrolled distributor into the matrix
// @Tags Matrix
// @Accept json
// @Produce json
// @Param request body request_models.EnrollmentRequest true "Enrollment Request"
// @Success 200 {object} utils.APIResponse
// @Router /enrollments [post]
func (mc *MatrixController) Enroll(c *gin.Context) {

	var request request_models.EnrollmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	placedBy := request.SponsorID
	if actor := c.GetString("user_id"); actor != "" {
		if id, err := uuid.Parse(actor); err == nil {
			placedBy = id
		}
	}

	pos, err := mc.matrixService.PlaceInMatrix(c.Request.Context(), request.UserID, request.SponsorID, placedBy)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.PlacementResponse{
		UserID:      pos.UserID,
		SponsorID:   pos.SponsorID,
		ParentID:    pos.ParentID,
		Level:       pos.Level,
		Position:    pos.Position,
		LegPosition: pos.LegPosition,
		Status:      string(pos.Status),
	}, "Distributor placed successfully")
}

func (mc *MatrixController) GetDownline(c *gin.Context) {
	mc.genealogy(c, true)
}

func (mc *MatrixController) GetUpline(c *gin.Context) {
	mc.genealogy(c, false)
}

func (mc *MatrixController) genealogy(c *gin.Context, down bool) {

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	levelsStr := c.DefaultQuery("levels", "9")
	levels, err := strconv.Atoi(levelsStr)
	if err != nil || levels < 1 || levels > 15 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid levels (must be 1-15)")
		return
	}

	if down {
		downline, err := mc.matrixService.GetDownlinePositions(c.Request.Context(), userID, levels)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		resp := response_models.GenealogyResponse{UserID: userID}
		for _, pos := range downline {
			resp.Entries = append(resp.Entries, response_models.GenealogyEntry{
				UserID:      pos.UserID,
				ParentID:    pos.ParentID,
				Level:       pos.Level,
				LegPosition: pos.LegPosition,
				Status:      string(pos.Status),
			})
		}
		utils.RespondSuccess(c, resp, "Fetched downline successfully")
		return
	}

	upline, err := mc.matrixService.GetUplinePositions(c.Request.Context(), userID, levels)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	resp := response_models.GenealogyResponse{UserID: userID}
	for i, pos := range upline {
		resp.Entries = append(resp.Entries, response_models.GenealogyEntry{
			UserID:        pos.UserID,
			ParentID:      pos.ParentID,
			Level:         pos.Level,
			RelativeLevel: i + 1,
			LegPosition:   pos.LegPosition,
			Status:        string(pos.Status),
		})
	}
	utils.RespondSuccess(c, resp, "Fetched upline successfully")
}
