package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/services"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// AdminOrderController is the staff-facing order surface: listing,
// status changes (single and bulk), the audit trail and the daily
// counters.
type AdminOrderController struct {
	DB     *gorm.DB
	Status *services.StatusService
}

func NewAdminOrderController(db *gorm.DB, status *services.StatusService) *AdminOrderController {
	return &AdminOrderController{DB: db, Status: status}
}

// ListOrders returns all orders, filterable by status, user and date
// range, newest first.
func (ac *AdminOrderController) ListOrders(c *gin.Context) {
	query := ac.DB.Preload("OrderItems.Menu")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("ordered_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("ordered_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var orders []models.Order
	if err := query.Order("ordered_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders", orders)
}

// UpdateOrderStatus moves one order through the lifecycle. The
// optional "from" field rejects the update when the order has moved on
// in the meantime.
func (ac *AdminOrderController) UpdateOrderStatus(c *gin.Context) {
	var input struct {
		Status string  `json:"status" binding:"required"`
		From   *string `json:"from"`
		Notes  string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := ac.DB.Where("order_id = ?", c.Param("order_id")).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("order not found"))
		return
	}

	updated, err := ac.Status.TransitionOrder(order.ID, input.From, input.Status,
		currentUserID(c), input.Notes)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", updated)
}

// BulkUpdateOrderStatus applies one target status to many orders and
// reports the per-order outcome.
func (ac *AdminOrderController) BulkUpdateOrderStatus(c *gin.Context) {
	var input struct {
		OrderIDs []uint `json:"order_ids" binding:"required"`
		Status   string `json:"status" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(input.OrderIDs) == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("order_ids is empty"))
		return
	}

	outcomes := ac.Status.BulkTransitionOrders(input.OrderIDs, input.Status,
		currentUserID(c), input.Notes)
	utils.RespondJSON(c, http.StatusOK, "Bulk update finished", outcomes)
}

// GetOrderHistory returns the append-only status trail of one order.
func (ac *AdminOrderController) GetOrderHistory(c *gin.Context) {
	var order models.Order
	if err := ac.DB.Where("order_id = ?", c.Param("order_id")).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("order not found"))
		return
	}

	var history []models.OrderStatusHistory
	if err := ac.DB.Where("order_id = ?", order.ID).
		Order("created_at ASC").Find(&history).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", history)
}

// TodaySummary counts today's orders per status and sums the paid
// revenue.
func (ac *AdminOrderController) TodaySummary(c *gin.Context) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var counts []statusCount
	err := ac.DB.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("ordered_at >= ?", dayStart).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var revenue int64
	ac.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status = ? AND paid_at >= ?", models.OrderStatusCompleted, dayStart).
		Scan(&revenue)

	var total int64
	for _, sc := range counts {
		total += sc.Count
	}

	utils.RespondJSON(c, http.StatusOK, "Today", gin.H{
		"date":          dayStart.Format("2006-01-02"),
		"total_orders":  total,
		"by_status":     counts,
		"revenue":       revenue,
		"revenue_label": utils.FormatCurrencyIDR(revenue),
	})
}

// PendingCount is the badge counter for the staff dashboard.
func (ac *AdminOrderController) PendingCount(c *gin.Context) {
	var count int64
	err := ac.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusProcessing}).
		Count(&count).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending orders", gin.H{"count": count})
}

// GetOrder returns one order with everything preloaded, no ownership
// restriction.
func (ac *AdminOrderController) GetOrder(c *gin.Context) {
	var order models.Order
	err := ac.DB.Preload("OrderItems.Menu").
		Preload("OrderItems.Variants.Variant.VariantType").
		Where("order_id = ?", c.Param("order_id")).
		First(&order).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order", order)
}
