package controllers

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// AdminScheduleController manages what makes a shop bookable: its
// operating hours, time slots and tables.
type AdminScheduleController struct {
	DB *gorm.DB
}

func NewAdminScheduleController(db *gorm.DB) *AdminScheduleController {
	return &AdminScheduleController{DB: db}
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var validWeekdays = map[string]bool{
	"MON": true, "TUE": true, "WED": true, "THU": true,
	"FRI": true, "SAT": true, "SUN": true,
}

// --- operating hours ---

type operatingHourInput struct {
	Weekday     string `json:"weekday" binding:"required"`
	OpeningTime string `json:"opening_time" binding:"required"`
	ClosingTime string `json:"closing_time" binding:"required"`
	IsOpen      *bool  `json:"is_open"`
}

func (in operatingHourInput) validate() error {
	if !validWeekdays[in.Weekday] {
		return utils.ValidationError("weekday must be one of MON..SUN")
	}
	if !clockPattern.MatchString(in.OpeningTime) || !clockPattern.MatchString(in.ClosingTime) {
		return utils.ValidationError("times must look like 08:00")
	}
	if in.OpeningTime >= in.ClosingTime {
		return utils.ValidationError("opening_time must be before closing_time")
	}
	return nil
}

func (ac *AdminScheduleController) ListOperatingHours(c *gin.Context) {
	shop, ok := ac.findShop(c)
	if !ok {
		return
	}

	var hours []models.OperatingHour
	if err := ac.DB.Where("shop_id = ?", shop.ID).Find(&hours).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Operating hours", hours)
}

// UpsertOperatingHour creates or replaces the window of one weekday.
func (ac *AdminScheduleController) UpsertOperatingHour(c *gin.Context) {
	shop, ok := ac.findShop(c)
	if !ok {
		return
	}

	var input operatingHourInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hour := models.OperatingHour{
		ShopID:      shop.ID,
		Weekday:     input.Weekday,
		OpeningTime: input.OpeningTime,
		ClosingTime: input.ClosingTime,
		IsOpen:      true,
	}
	if input.IsOpen != nil {
		hour.IsOpen = *input.IsOpen
	}

	var existing models.OperatingHour
	err := ac.DB.Where("shop_id = ? AND weekday = ?", shop.ID, input.Weekday).
		First(&existing).Error
	if err == nil {
		hour.ID = existing.ID
		hour.CreatedAt = existing.CreatedAt
	}

	if err := ac.DB.Save(&hour).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Operating hours saved", hour)
}

// ReplaceOperatingHours swaps the whole week schedule of a shop in one
// transaction.
func (ac *AdminScheduleController) ReplaceOperatingHours(c *gin.Context) {
	shop, ok := ac.findShop(c)
	if !ok {
		return
	}

	var input struct {
		Hours []operatingHourInput `json:"hours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	seen := map[string]bool{}
	for _, h := range input.Hours {
		if err := h.validate(); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		if seen[h.Weekday] {
			utils.RespondError(c, http.StatusBadRequest,
				utils.ValidationError("duplicate weekday "+h.Weekday))
			return
		}
		seen[h.Weekday] = true
	}

	var hours []models.OperatingHour
	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.OperatingHour{}).Error; err != nil {
			return err
		}
		for _, h := range input.Hours {
			hour := models.OperatingHour{
				ShopID:      shop.ID,
				Weekday:     h.Weekday,
				OpeningTime: h.OpeningTime,
				ClosingTime: h.ClosingTime,
				IsOpen:      true,
			}
			if h.IsOpen != nil {
				hour.IsOpen = *h.IsOpen
			}
			if err := tx.Create(&hour).Error; err != nil {
				return err
			}
			hours = append(hours, hour)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Operating hours replaced", hours)
}

// --- time slots ---

type timeSlotInput struct {
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	MaxCapacity int    `json:"max_capacity" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

func (in timeSlotInput) validate() error {
	if !clockPattern.MatchString(in.StartTime) || !clockPattern.MatchString(in.EndTime) {
		return utils.ValidationError("times must look like 08:00")
	}
	if in.StartTime >= in.EndTime {
		return utils.ValidationError("start_time must be before end_time")
	}
	if in.MaxCapacity < 1 {
		return utils.ValidationError("max_capacity must be at least 1")
	}
	return nil
}

func (ac *AdminScheduleController) ListTimeSlots(c *gin.Context) {
	shop, ok := ac.findShop(c)
	if !ok {
		return
	}

	var slots []models.TimeSlot
	if err := ac.DB.Where("shop_id = ?", shop.ID).
		Order("start_time ASC").Find(&slots).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Time slots", slots)
}

func (ac *AdminScheduleController) CreateTimeSlot(c *gin.Context) {
	shop, ok := ac.findShop(c)
	if !ok {
		return
	}

	var input timeSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	slot := models.TimeSlot{
		ShopID:      shop.ID,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		MaxCapacity: input.MaxCapacity,
		IsActive:    true,
	}
	if input.IsActive != nil {
		slot.IsActive = *input.IsActive
	}
	if err := ac.DB.Create(&slot).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Time slot created", slot)
}

func (ac *AdminScheduleController) UpdateTimeSlot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slot_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid slot id"))
		return
	}

	var slot models.TimeSlot
	if err := ac.DB.First(&slot, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("time slot not found"))
		return
	}

	var input timeSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	slot.StartTime = input.StartTime
	slot.EndTime = input.EndTime
	slot.MaxCapacity = input.MaxCapacity
	if input.IsActive != nil {
		slot.IsActive = *input.IsActive
	}
	if err := ac.DB.Save(&slot).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Time slot updated", slot)
}

// ReplaceTimeSlots swaps the full slot grid of a shop in one
// transaction. Existing bookings keep their rows; only the grid
// changes.
func (ac *AdminScheduleController) ReplaceTimeSlots(c *gin.Context) {
	shop, ok := ac.findShop(c)
	if !ok {
		return
	}

	var input struct {
		Slots []timeSlotInput `json:"slots" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	for _, s := range input.Slots {
		if err := s.validate(); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	var slots []models.TimeSlot
	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.TimeSlot{}).Error; err != nil {
			return err
		}
		for _, s := range input.Slots {
			slot := models.TimeSlot{
				ShopID:      shop.ID,
				StartTime:   s.StartTime,
				EndTime:     s.EndTime,
				MaxCapacity: s.MaxCapacity,
				IsActive:    true,
			}
			if s.IsActive != nil {
				slot.IsActive = *s.IsActive
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
			slots = append(slots, slot)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Time slots replaced", slots)
}

// --- tables ---

func (ac *AdminScheduleController) ListTables(c *gin.Context) {
	shop, ok := ac.findShop(c)
	if !ok {
		return
	}

	var tables []models.Table
	if err := ac.DB.Where("shop_id = ?", shop.ID).
		Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables", tables)
}

func (ac *AdminScheduleController) CreateTable(c *gin.Context) {
	shop, ok := ac.findShop(c)
	if !ok {
		return
	}

	var input struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required"`
		IsAvailable *bool  `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.Capacity < 1 {
		utils.RespondError(c, http.StatusBadRequest,
			utils.ValidationError("capacity must be at least 1"))
		return
	}

	table := models.Table{
		ShopID:      shop.ID,
		TableNumber: input.TableNumber,
		Capacity:    input.Capacity,
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		table.IsAvailable = *input.IsAvailable
	}
	if err := ac.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

func (ac *AdminScheduleController) UpdateTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid table id"))
		return
	}

	var table models.Table
	if err := ac.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("table not found"))
		return
	}

	var input struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if input.TableNumber != nil {
		updates["table_number"] = *input.TableNumber
	}
	if input.Capacity != nil {
		if *input.Capacity < 1 {
			utils.RespondError(c, http.StatusBadRequest,
				utils.ValidationError("capacity must be at least 1"))
			return
		}
		updates["capacity"] = *input.Capacity
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("nothing to update"))
		return
	}
	if err := ac.DB.Model(&table).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (ac *AdminScheduleController) DeleteTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid table id"))
		return
	}

	result := ac.DB.Delete(&models.Table{}, id)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}

func (ac *AdminScheduleController) findShop(c *gin.Context) (*models.CoffeeShop, bool) {
	id, err := strconv.Atoi(c.Param("coffee_shop_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee shop id"))
		return nil, false
	}
	var shop models.CoffeeShop
	if err := ac.DB.First(&shop, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("coffee shop not found"))
		return nil, false
	}
	return &shop, true
}
