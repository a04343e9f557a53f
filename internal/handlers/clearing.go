package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"escrowd/internal/clearing"
	"escrowd/internal/models"
	"escrowd/internal/services"
)

// ReleaseCycleResponse — ответ ручного запуска клиринга.
type ReleaseCycleResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Result  clearing.CycleResult `json:"result"`
}

// CycleErrorResponse возвращается при сбое цикла целиком.
type CycleErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RunClearing godoc
// @Summary Ручной запуск клирингового цикла
// @Description Выпускает все HELD-эскроу с истёкшим клирингом. Тот же код, что и у планировщика.
// @Tags clearing
// @Security ClearingSecret
// @Produce json
// @Success 200 {object} ReleaseCycleResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} CycleErrorResponse
// @Router /clearing/release [post]
func RunClearing(r *clearing.Releaser) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := r.RunReleaseCycle(c.Request.Context(), clearing.TriggerManual)
		if err != nil {
			c.JSON(http.StatusInternalServerError, CycleErrorResponse{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, ReleaseCycleResponse{
			Success: true,
			Message: fmt.Sprintf("released %d of %d processed", res.Released, res.Processed),
			Result:  res,
		})
	}
}

// ListCycles godoc
// @Summary История клиринговых циклов
// @Tags clearing
// @Security ClearingSecret
// @Produce json
// @Param limit query int false "лимит"
// @Param offset query int false "смещение"
// @Success 200 {array} models.ReleaseCycle
// @Router /clearing/cycles [get]
func ListCycles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parsePagination(c)
		var cycles []models.ReleaseCycle
		if err := db.Order("started_at desc").
			Limit(limit).Offset(offset).Find(&cycles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, cycles)
	}
}

// CycleDetailResponse — цикл с временной ссылкой на архивный отчёт.
type CycleDetailResponse struct {
	Cycle     models.ReleaseCycle `json:"cycle"`
	ReportURL string              `json:"reportURL,omitempty"`
}

// GetCycle godoc
// @Summary Просмотр клирингового цикла
// @Tags clearing
// @Security ClearingSecret
// @Produce json
// @Param id path string true "ID цикла"
// @Success 200 {object} CycleDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /clearing/cycles/{id} [get]
func GetCycle(db *gorm.DB, archive *services.ReportArchive) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cycle models.ReleaseCycle
		if err := db.Where("id = ?", c.Param("id")).First(&cycle).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "invalid cycle"})
			return
		}
		resp := CycleDetailResponse{Cycle: cycle}
		if cycle.ReportObject != "" && archive.Enabled() {
			if u, err := archive.ReportURL(c.Request.Context(), cycle.ReportObject, time.Hour); err == nil {
				resp.ReportURL = u
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
