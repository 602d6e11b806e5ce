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

// AdminBookingController is the staff-facing booking surface.
type AdminBookingController struct {
	DB     *gorm.DB
	Status *services.StatusService
}

func NewAdminBookingController(db *gorm.DB, status *services.StatusService) *AdminBookingController {
	return &AdminBookingController{DB: db, Status: status}
}

// ListBookings returns all bookings, filterable by status, shop and
// date range.
func (ac *AdminBookingController) ListBookings(c *gin.Context) {
	query := ac.DB.Preload("Tables").Preload("User")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if shopID := c.Query("coffee_shop_id"); shopID != "" {
		query = query.Where("shop_id = ?", shopID)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("booking_date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("booking_date < ?", t.AddDate(0, 0, 1))
		}
	}

	var bookings []models.Booking
	if err := query.Order("booking_date DESC").Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings", bookings)
}

// GetBooking returns one booking by its public id with tables and
// owner preloaded.
func (ac *AdminBookingController) GetBooking(c *gin.Context) {
	var booking models.Booking
	err := ac.DB.Preload("Tables").Preload("User").
		Where("booking_id = ?", c.Param("booking_id")).
		First(&booking).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("booking not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking", booking)
}

// UpdateBookingStatus confirms, completes or cancels a booking.
func (ac *AdminBookingController) UpdateBookingStatus(c *gin.Context) {
	var input struct {
		Status string  `json:"status" binding:"required"`
		From   *string `json:"from"`
		Notes  string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := ac.DB.Where("booking_id = ?", c.Param("booking_id")).First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("booking not found"))
		return
	}

	updated, err := ac.Status.TransitionBooking(booking.ID, input.From, input.Status,
		currentUserID(c), input.Notes)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", updated)
}

// BulkUpdateBookingStatus applies one target status to many bookings.
func (ac *AdminBookingController) BulkUpdateBookingStatus(c *gin.Context) {
	var input struct {
		BookingIDs []uint `json:"booking_ids" binding:"required"`
		Status     string `json:"status" binding:"required"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(input.BookingIDs) == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("booking_ids is empty"))
		return
	}

	outcomes := ac.Status.BulkTransitionBookings(input.BookingIDs, input.Status,
		currentUserID(c), input.Notes)
	utils.RespondJSON(c, http.StatusOK, "Bulk update finished", outcomes)
}

// GetBookingHistory returns the status trail of one booking.
func (ac *AdminBookingController) GetBookingHistory(c *gin.Context) {
	var booking models.Booking
	if err := ac.DB.Where("booking_id = ?", c.Param("booking_id")).First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("booking not found"))
		return
	}

	var history []models.BookingStatusHistory
	if err := ac.DB.Where("booking_id = ?", booking.ID).
		Order("created_at ASC").Find(&history).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking history", history)
}

// TodaySummary counts today's bookings per status and sums the guests
// expected.
func (ac *AdminBookingController) TodaySummary(c *gin.Context) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var counts []statusCount
	err := ac.DB.Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Where("booking_date >= ? AND booking_date < ?", dayStart, dayEnd).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var guests int64
	ac.DB.Model(&models.Booking{}).
		Select("COALESCE(SUM(guest_count), 0)").
		Where("booking_date >= ? AND booking_date < ? AND status IN ?",
			dayStart, dayEnd,
			[]string{models.BookingStatusNoConfirm, models.BookingStatusConfirm, models.BookingStatusSuccess}).
		Scan(&guests)

	var total int64
	for _, sc := range counts {
		total += sc.Count
	}

	utils.RespondJSON(c, http.StatusOK, "Today", gin.H{
		"date":            dayStart.Format("2006-01-02"),
		"total_bookings":  total,
		"by_status":       counts,
		"expected_guests": guests,
	})
}
