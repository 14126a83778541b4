package api

import (
	"net/http"
	"time"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/0xgasc/flyin-sub000/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	service ledger.LedgerUseCase
}

func NewLedgerHandler(service ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) Register(router *gin.RouterGroup) {
	router.POST("/topups", h.submitTopUp)
	router.GET("/transactions/:id", h.getTransaction)
	router.POST("/transactions/:id/approve", h.approve)
	router.POST("/transactions/:id/reject", h.reject)
	router.GET("/balance/:userID", h.balance)
}

type transactionResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	Reference     string `json:"reference,omitempty"`
	AdminNotes    string `json:"admin_notes,omitempty"`
	BookingID     string `json:"booking_id,omitempty"`
	ProcessedAt   string `json:"processed_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		PaymentMethod: string(t.PaymentMethod),
		Status:        string(t.Status),
		Reference:     t.Reference,
		AdminNotes:    t.AdminNotes,
		BookingID:     t.BookingID,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
	if t.ProcessedAt != nil {
		resp.ProcessedAt = t.ProcessedAt.Format(time.RFC3339)
	}
	return resp
}

func (h *LedgerHandler) submitTopUp(c *gin.Context) {
	var req ledger.TopUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.service.SubmitTopUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

func (h *LedgerHandler) getTransaction(c *gin.Context) {
	tx, err := h.service.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

func (h *LedgerHandler) approve(c *gin.Context) {
	tx, err := h.service.ApproveTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

type rejectRequest struct {
	Notes string `json:"notes"`
}

func (h *LedgerHandler) reject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.service.RejectTransaction(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

func (h *LedgerHandler) balance(c *gin.Context) {
	balance, err := h.service.Balance(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": c.Param("userID"), "balance": balance})
}
