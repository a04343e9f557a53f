package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/biter777/countries"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"escrowd/internal/clearing"
	"escrowd/internal/models"
	"escrowd/internal/store"
)

// CreateEscrowRequest тело запроса на создание эскроу
type CreateEscrowRequest struct {
	OrderID              string     `json:"orderID"`
	PayerID              string     `json:"payerID"`
	PayeeID              string     `json:"payeeID"`
	Amount               int64      `json:"amount"`
	PlatformFee          int64      `json:"platformFee"`
	PayeeAmount          int64      `json:"payeeAmount"`
	Currency             string     `json:"currency"`
	PayerType            string     `json:"payerType"`
	ClearingDurationDays int        `json:"clearingDurationDays"`
	AcceptedAt           *time.Time `json:"acceptedAt"`
}

// HoldEscrowRequest тело запроса подтверждения поступления средств
type HoldEscrowRequest struct {
	HeldAt         *time.Time `json:"heldAt"`
	ClearingEndsAt *time.Time `json:"clearingEndsAt"`
}

// CreateEscrow godoc
// @Summary Создать эскроу
// @Description Создаёт запись в статусе PENDING. Клиринговый период выбирается по типу плательщика, если не задан явно.
// @Tags escrows
// @Security ClearingSecret
// @Accept json
// @Produce json
// @Param input body handlers.CreateEscrowRequest true "параметры эскроу"
// @Success 200 {object} models.Escrow
// @Failure 400 {object} ErrorResponse
// @Router /escrows [post]
func CreateEscrow(st *store.GormStore, policy clearing.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r CreateEscrowRequest
		if err := c.BindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
			return
		}
		if r.OrderID == "" || r.PayerID == "" || r.PayeeID == "" || r.Amount <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing required fields"})
			return
		}
		if r.Amount != r.PlatformFee+r.PayeeAmount || r.PlatformFee < 0 || r.PayeeAmount <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must equal platformFee + payeeAmount"})
			return
		}
		if countries.CurrencyCodeByName(r.Currency) == countries.CurrencyUnknown {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown currency"})
			return
		}
		payerType := models.PayerType(r.PayerType)
		if payerType != models.PayerTypeBusiness && payerType != models.PayerTypeIndividual {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payer type"})
			return
		}
		days := r.ClearingDurationDays
		if days <= 0 {
			days = policy.DurationDaysFor(payerType)
		}
		e := models.Escrow{
			OrderID:              r.OrderID,
			PayerID:              r.PayerID,
			PayeeID:              r.PayeeID,
			Amount:               r.Amount,
			PlatformFee:          r.PlatformFee,
			PayeeAmount:          r.PayeeAmount,
			Currency:             r.Currency,
			PayerType:            payerType,
			Status:               models.EscrowStatusPending,
			ClearingDurationDays: days,
			AcceptedAt:           r.AcceptedAt,
		}
		if err := st.Create(c.Request.Context(), &e); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// HoldEscrow godoc
// @Summary Подтвердить поступление средств
// @Description PENDING -> HELD. ClearingEndsAt выставляется ровно один раз.
// @Tags escrows
// @Security ClearingSecret
// @Accept json
// @Produce json
// @Param id path string true "ID эскроу"
// @Param input body handlers.HoldEscrowRequest false "опционально: момент удержания и конец клиринга"
// @Success 200 {object} models.Escrow
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /escrows/{id}/hold [post]
func HoldEscrow(st *store.GormStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r HoldEscrowRequest
		_ = c.BindJSON(&r)
		heldAt := time.Now().UTC()
		if r.HeldAt != nil {
			heldAt = r.HeldAt.UTC()
		}
		e, err := st.MarkHeld(c.Request.Context(), c.Param("id"), heldAt, r.ClearingEndsAt)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "invalid escrow"})
				return
			}
			if errors.Is(err, store.ErrConflict) {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status"})
				return
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// ReleaseEscrow godoc
// @Summary Выпустить один эскроу вручную
// @Description Административный выпуск тем же кодом, что и автоматический цикл. Право на выпуск проверяется той же политикой.
// @Tags escrows
// @Security ClearingSecret
// @Produce json
// @Param id path string true "ID эскроу"
// @Success 200 {object} clearing.Detail
// @Failure 404 {object} ErrorResponse
// @Router /escrows/{id}/release [post]
func ReleaseEscrow(r *clearing.Releaser) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := r.ReleaseOne(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "invalid escrow"})
				return
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// GetEscrow godoc
// @Summary Просмотр эскроу
// @Tags escrows
// @Security ClearingSecret
// @Produce json
// @Param id path string true "ID эскроу"
// @Success 200 {object} models.Escrow
// @Failure 404 {object} ErrorResponse
// @Router /escrows/{id} [get]
func GetEscrow(st *store.GormStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := st.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "invalid escrow"})
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// ListEscrows godoc
// @Summary Список эскроу
// @Tags escrows
// @Security ClearingSecret
// @Produce json
// @Param status query string false "фильтр по статусу"
// @Param limit query int false "лимит"
// @Param offset query int false "смещение"
// @Success 200 {array} models.Escrow
// @Router /escrows [get]
func ListEscrows(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parsePagination(c)
		q := db.Order("created_at desc").Limit(limit).Offset(offset)
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", models.EscrowStatus(s))
		}
		var list []models.Escrow
		if err := q.Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
