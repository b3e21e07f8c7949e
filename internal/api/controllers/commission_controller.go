package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"uplevel/internal/models/request_models"
	"uplevel/internal/models/response_models"
	"uplevel/internal/services"
	"uplevel/pkg/utils"
)

type CommissionController struct {
	commissionService services.CommissionServiceInterface
}

func NewCommissionController(commissionService services.CommissionServiceInterface) *CommissionController {
	return &CommissionController{
		commissionService: commissionService,
	}
}

// ProcessOrderCommissions godoc
// @Summary Run the commission calculation for a completed order
// @Tags Commissions
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param request body request_models.ProcessCommissionsRequest true "Commission Run Request"
// @Success 200 {object} utils.APIResponse
// @Router /orders/{orderId}/commissions [post]
func (cc *CommissionController) ProcessOrderCommissions(c *gin.Context) {

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	var request request_models.ProcessCommissionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := cc.commissionService.ProcessOrderCommissions(c.Request.Context(), orderID, request.DistributorID, request.CustomerID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CommissionRunResponse{
		OrderID:            result.OrderID,
		CommissionsCreated: result.CommissionsCreated,
		TotalAmount:        result.TotalAmount.StringFixed(2),
	}, "Commissions processed successfully")
}
