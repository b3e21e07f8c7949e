package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"uplevel/internal/models/request_models"
	"uplevel/internal/models/response_models"
	"uplevel/internal/services"
	"uplevel/pkg/utils"
)

type PayoutController struct {
	payoutService services.PayoutServiceInterface
}

func NewPayoutController(payoutService services.PayoutServiceInterface) *PayoutController {
	return &PayoutController{
		payoutService: payoutService,
	}
}

func (pc *PayoutController) actor(c *gin.Context) uuid.UUID {
	if id, err := uuid.Parse(c.GetString("user_id")); err == nil {
		return id
	}
	return uuid.Nil
}

func (pc *PayoutController) CreateBatch(c *gin.Context) {

	var request request_models.CreatePayoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	payment, err := pc.payoutService.CreatePayoutBatch(c.Request.Context(), pc.actor(c), request.UserID, request.CommissionIDs)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.PayoutResponse{
		PaymentID: payment.ID,
		UserID:    payment.UserID,
		Amount:    payment.Amount.StringFixed(2),
		Status:    string(payment.Status),
	}, "Payout batch created successfully")
}

func (pc *PayoutController) ReportFailure(c *gin.Context) {

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment id")
		return
	}

	var request request_models.PayoutFailureRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	decision, err := pc.payoutService.HandlePayoutFailure(c.Request.Context(), paymentID, request.Reason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.RetryDecisionResponse{
		PaymentID:            decision.PaymentID,
		WillRetry:            decision.WillRetry,
		RetryCount:           decision.RetryCount,
		NextRetryAt:          decision.NextRetryAt,
		RequiresManualReview: decision.RequiresManualReview,
		FailureReason:        decision.FailureReason,
		RecommendedAction:    decision.RecommendedAction,
	}, "Payout failure handled")
}

func (pc *PayoutController) ListDue(c *gin.Context) {

	payments, err := pc.payoutService.GetPaymentsDueForRetry(c.Request.Context(), time.Now(), 100)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var resp []response_models.PayoutResponse
	for _, payment := range payments {
		resp = append(resp, response_models.PayoutResponse{
			PaymentID: payment.ID,
			UserID:    payment.UserID,
			Amount:    payment.Amount.StringFixed(2),
			Status:    string(payment.Status),
		})
	}

	utils.RespondSuccess(c, resp, "Fetched payments due for retry")
}

func (pc *PayoutController) Reset(c *gin.Context) {

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment id")
		return
	}

	if err := pc.payoutService.ResetPaymentForManualRetry(c.Request.Context(), pc.actor(c), paymentID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Payment reset for manual retry")
}

func (pc *PayoutController) Resolve(c *gin.Context) {

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment id")
		return
	}

	var request request_models.PayoutFailureRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := pc.payoutService.MarkPaymentAsResolved(c.Request.Context(), pc.actor(c), paymentID, request.Reason); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Payment resolved")
}
