package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/services"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

type BookingController struct {
	DB        *gorm.DB
	Allocator *services.BookingAllocator
	Status    *services.StatusService
}

func NewBookingController(db *gorm.DB, allocator *services.BookingAllocator, status *services.StatusService) *BookingController {
	return &BookingController{DB: db, Allocator: allocator, Status: status}
}

// GetAvailability lists the free slots of a shop for a date and party
// size.
func (bc *BookingController) GetAvailability(c *gin.Context) {
	shopID, err := strconv.Atoi(c.Query("coffee_shop_id"))
	if err != nil || shopID < 1 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("coffee_shop_id is required"))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("booking_date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest,
			utils.ValidationError("booking_date must look like 2025-01-31"))
		return
	}

	guests := 1
	if raw := c.Query("guests"); raw != "" {
		guests, err = strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("guests must be a number"))
			return
		}
	}

	slots, err := bc.Allocator.Availability.AvailableSlots(uint(shopID), date, guests)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability", gin.H{
		"booking_date": date.Format("2006-01-02"),
		"slots":        slots,
	})
}

type bookingRequest struct {
	CoffeeShopID uint   `json:"coffee_shop_id" binding:"required"`
	BookingDate  string `json:"booking_date" binding:"required"`
	GuestCount   int    `json:"guest_count" binding:"required"`
	TableIDs     []uint `json:"table_ids"`
}

func (r bookingRequest) parse() (services.BookingRequest, error) {
	instant, err := time.Parse("2006-01-02 15:04", r.BookingDate)
	if err != nil {
		return services.BookingRequest{},
			utils.ValidationError("booking_date must look like 2025-01-31 14:00")
	}
	return services.BookingRequest{
		ShopID:      r.CoffeeShopID,
		BookingDate: instant,
		GuestCount:  r.GuestCount,
		TableIDs:    r.TableIDs,
	}, nil
}

// CreateBooking reserves tables for the caller.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input bookingRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req, err := input.parse()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Allocator.CreateBooking(currentUserID(c), req)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// ListBookings returns the caller's bookings, newest date first.
func (bc *BookingController) ListBookings(c *gin.Context) {
	query := bc.DB.Preload("Tables").Where("user_id = ?", currentUserID(c))
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("booking_date DESC").Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings", bookings)
}

// GetBooking returns one of the caller's bookings by its public id.
func (bc *BookingController) GetBooking(c *gin.Context) {
	booking, ok := bc.ownBooking(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking", booking)
}

// UpdateBooking re-allocates a NOCONFIRM booking after a date or party
// change.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	booking, ok := bc.ownBooking(c)
	if !ok {
		return
	}
	if booking.Status != models.BookingStatusNoConfirm {
		utils.RespondError(c, http.StatusBadRequest,
			utils.DomainError(utils.CodeIllegalTransition,
				"only unconfirmed bookings can be changed"))
		return
	}

	var input bookingRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	input.CoffeeShopID = booking.ShopID

	req, err := input.parse()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := bc.Allocator.UpdateBooking(booking, req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking updated", booking)
}

// CancelBooking cancels one of the caller's bookings through the
// status engine, so the history and notification still happen.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	booking, ok := bc.ownBooking(c)
	if !ok {
		return
	}

	_, err := bc.Status.TransitionBooking(booking.ID, nil, models.BookingStatusCancelled,
		currentUserID(c), "cancelled by customer")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking cancelled", nil)
}

func (bc *BookingController) ownBooking(c *gin.Context) (*models.Booking, bool) {
	var booking models.Booking
	err := bc.DB.Preload("Tables").
		Where("booking_id = ?", c.Param("booking_id")).
		First(&booking).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("booking not found"))
		return nil, false
	}
	if booking.UserID != currentUserID(c) {
		utils.RespondError(c, http.StatusForbidden,
			utils.ForbiddenError("this booking belongs to another user"))
		return nil, false
	}
	return &booking, true
}
