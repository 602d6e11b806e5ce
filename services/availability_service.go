package services

import (
	"net/http"
	"time"

	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// AvailableSlot is one bookable window with the tables still free in
// it.
type AvailableSlot struct {
	SlotID          uint           `json:"slot_id"`
	StartTime       string         `json:"start_time"`
	EndTime         string         `json:"end_time"`
	MaxCapacity     int            `json:"max_capacity"`
	AvailableTables []models.Table `json:"available_tables"`
	TotalCapacity   int            `json:"total_capacity"`
}

// OperatingWindow returns the shop's hours for the date's weekday, or
// SHOP_CLOSED when the shop has no open window that day.
func (s *AvailabilityService) OperatingWindow(shopID uint, date time.Time) (*models.OperatingHour, error) {
	var hours models.OperatingHour
	err := s.DB.Where("shop_id = ? AND weekday = ?", shopID, models.WeekdayCode(date)).
		First(&hours).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.DomainError(utils.CodeShopClosed, "the shop is closed on this day")
	}
	if err != nil {
		return nil, err
	}
	if !hours.IsOpen {
		return nil, utils.DomainError(utils.CodeShopClosed, "the shop is closed on this day")
	}
	return &hours, nil
}

// ListSlots returns the active slots fully contained in the operating
// window, ascending by start time. A closed day yields an empty list.
func (s *AvailabilityService) ListSlots(shopID uint, date time.Time) ([]models.TimeSlot, error) {
	hours, err := s.OperatingWindow(shopID, date)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok && appErr.Code == utils.CodeShopClosed {
			return []models.TimeSlot{}, nil
		}
		return nil, err
	}

	var slots []models.TimeSlot
	err = s.DB.
		Where("shop_id = ? AND is_active = ? AND start_time >= ? AND end_time <= ?",
			shopID, true, hours.OpeningTime, hours.ClosingTime).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

// AvailableSlots lists the slots of a date with their free tables,
// skipping slots that cannot seat the requested party.
func (s *AvailabilityService) AvailableSlots(shopID uint, date time.Time, guests int) ([]AvailableSlot, error) {
	if guests < 1 {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "guests must be at least 1")
	}

	slots, err := s.ListSlots(shopID, date)
	if err != nil {
		return nil, err
	}

	var tables []models.Table
	if err := s.DB.Where("shop_id = ? AND is_available = ?", shopID, true).
		Order("capacity DESC").Find(&tables).Error; err != nil {
		return nil, err
	}

	result := make([]AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		held, err := heldTableIDs(s.DB, shopID, date, &slot, 0)
		if err != nil {
			return nil, err
		}

		free := make([]models.Table, 0, len(tables))
		total := 0
		for _, t := range tables {
			if held[t.ID] {
				continue
			}
			free = append(free, t)
			total += t.Capacity
		}

		booked, err := slotGuestCount(s.DB, shopID, date, &slot, 0)
		if err != nil {
			return nil, err
		}
		if total < guests || booked+guests > slot.MaxCapacity {
			continue
		}

		result = append(result, AvailableSlot{
			SlotID:          slot.ID,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			MaxCapacity:     slot.MaxCapacity,
			AvailableTables: free,
			TotalCapacity:   total,
		})
	}
	return result, nil
}
