package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"uplevel/internal/models/request_models"
	"uplevel/internal/services"
	"uplevel/pkg/utils"
)

type AutoshipController struct {
	autoshipService services.AutoshipServiceInterface
}

func NewAutoshipController(autoshipService services.AutoshipServiceInterface) *AutoshipController {
	return &AutoshipController{
		autoshipService: autoshipService,
	}
}

func (ac *AutoshipController) Create(c *gin.Context) {

	var request request_models.CreateAutoshipRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	unitPrice, err := decimal.NewFromString(request.UnitPrice)
	if err != nil || !unitPrice.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, "Invalid unit price")
		return
	}

	autoship, err := ac.autoshipService.CreateAutoship(c.Request.Context(),
		request.DistributorID, request.ProductCode, request.ProductName, request.Quantity, unitPrice)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"autoship_id": autoship.ID, "next_run_at": autoship.NextRunAt}, "Autoship created successfully")
}

func (ac *AutoshipController) Pause(c *gin.Context) {
	ac.setStatus(c, ac.autoshipService.PauseAutoship, "Autoship paused")
}

func (ac *AutoshipController) Cancel(c *gin.Context) {
	ac.setStatus(c, ac.autoshipService.CancelAutoship, "Autoship cancelled")
}

func (ac *AutoshipController) setStatus(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) error, message string) {

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid autoship id")
		return
	}

	if err := apply(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, message)
}
