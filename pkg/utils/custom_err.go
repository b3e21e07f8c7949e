package utils

import "errors"

var (
	ErrAlreadyPlaced         = errors.New("distributor already has a matrix position")
	ErrMatrixFull            = errors.New("matrix is full")
	ErrDistributorNotFound   = errors.New("distributor not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrNoCommissionableItems = errors.New("order has no commissionable items")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrEmptyPayoutBatch      = errors.New("no approved commissions to pay out")
	ErrPaymentNotRetryable   = errors.New("payment is not in a retryable state")
	ErrAutoshipNotFound      = errors.New("autoship not found")
	ErrDatabaseError         = errors.New("database error")
)
