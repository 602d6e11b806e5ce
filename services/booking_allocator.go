package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rowLock adds SELECT ... FOR UPDATE so concurrent allocations for the
// same shop serialize on its table rows. SQLite has a single writer
// and does not accept the clause.
func rowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// BookingAllocator decides which tables a booking gets. Allocation and
// persistence happen in one transaction so two concurrent requests can
// never hold the same table.
type BookingAllocator struct {
	DB           *gorm.DB
	Availability *AvailabilityService
}

func NewBookingAllocator(db *gorm.DB) *BookingAllocator {
	return &BookingAllocator{DB: db, Availability: NewAvailabilityService(db)}
}

type BookingRequest struct {
	ShopID      uint
	BookingDate time.Time
	GuestCount  int
	TableIDs    []uint
}

var activeBookingStatuses = []string{
	models.BookingStatusNoConfirm,
	models.BookingStatusConfirm,
	models.BookingStatusSuccess,
}

// heldTableIDs returns the ids of tables already assigned to an
// uncancelled booking whose instant falls inside the slot on the same
// date. excludeBookingID skips one booking (for updates); 0 skips
// nothing.
func heldTableIDs(tx *gorm.DB, shopID uint, date time.Time, slot *models.TimeSlot, excludeBookingID uint) (map[uint]bool, error) {
	bookings, err := bookingsInSlot(tx, shopID, date, slot, excludeBookingID)
	if err != nil {
		return nil, err
	}

	held := make(map[uint]bool)
	for _, b := range bookings {
		for _, t := range b.Tables {
			held[t.ID] = true
		}
	}
	return held, nil
}

// slotGuestCount sums the guests of uncancelled bookings inside the
// slot on the given date.
func slotGuestCount(tx *gorm.DB, shopID uint, date time.Time, slot *models.TimeSlot, excludeBookingID uint) (int, error) {
	bookings, err := bookingsInSlot(tx, shopID, date, slot, excludeBookingID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, b := range bookings {
		total += b.GuestCount
	}
	return total, nil
}

func bookingsInSlot(tx *gorm.DB, shopID uint, date time.Time, slot *models.TimeSlot, excludeBookingID uint) ([]models.Booking, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	q := tx.Preload("Tables").
		Where("shop_id = ? AND status IN ? AND booking_date >= ? AND booking_date < ?",
			shopID, activeBookingStatuses, dayStart, dayEnd)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var all []models.Booking
	if err := q.Find(&all).Error; err != nil {
		return nil, err
	}

	inSlot := all[:0]
	for _, b := range all {
		if slot.Contains(b.BookingDate.Format("15:04")) {
			inSlot = append(inSlot, b)
		}
	}
	return inSlot, nil
}

// resolveSlot finds the single active slot containing the booking
// instant, after checking the shop is open at that time.
func (a *BookingAllocator) resolveSlot(shopID uint, instant time.Time) (*models.TimeSlot, error) {
	hours, err := a.Availability.OperatingWindow(shopID, instant)
	if err != nil {
		return nil, err
	}

	clock := instant.Format("15:04")
	if clock < hours.OpeningTime || clock >= hours.ClosingTime {
		return nil, utils.DomainError(utils.CodeShopClosed, "the shop is closed at the requested time")
	}

	var slots []models.TimeSlot
	if err := a.DB.Where("shop_id = ? AND is_active = ?", shopID, true).
		Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	for i := range slots {
		if slots[i].Contains(clock) {
			return &slots[i], nil
		}
	}
	return nil, utils.DomainError(utils.CodeSlotUnavailable, "no active time slot covers the requested time")
}

// assignTables implements the auto-assign algorithm: prefer the
// smallest single table that fits, otherwise take tables greedily in
// descending capacity.
func assignTables(candidates []models.Table, guests int) ([]models.Table, error) {
	var best *models.Table
	for i := range candidates {
		t := &candidates[i]
		if t.Capacity < guests {
			continue
		}
		if best == nil || t.Capacity < best.Capacity {
			best = t
		}
	}
	if best != nil {
		return []models.Table{*best}, nil
	}

	// candidates arrive sorted by capacity descending
	var picked []models.Table
	remaining := guests
	for _, t := range candidates {
		picked = append(picked, t)
		remaining -= t.Capacity
		if remaining <= 0 {
			return picked, nil
		}
	}
	return nil, utils.DomainError(utils.CodeInsufficientCapacity,
		fmt.Sprintf("no combination of free tables can seat %d guests", guests))
}

// CreateBooking validates the request, allocates tables and persists
// the booking as NOCONFIRM. A rejected request writes nothing.
func (a *BookingAllocator) CreateBooking(userID uint, req BookingRequest) (*models.Booking, error) {
	if req.GuestCount < 1 {
		return nil, utils.ValidationError("guest_count must be at least 1")
	}

	slot, err := a.resolveSlot(req.ShopID, req.BookingDate)
	if err != nil {
		return nil, err
	}

	var booking *models.Booking
	err = a.DB.Transaction(func(tx *gorm.DB) error {
		tables, err := a.allocate(tx, req, slot, 0)
		if err != nil {
			return err
		}

		b := models.Booking{
			BookingID:   utils.GenerateBookingID(req.BookingDate),
			ShopID:      req.ShopID,
			UserID:      userID,
			BookingDate: req.BookingDate,
			GuestCount:  req.GuestCount,
			TableCount:  len(tables),
			Status:      models.BookingStatusNoConfirm,
			Tables:      tables,
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		booking = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdateBooking re-runs allocation for a NOCONFIRM booking whose date
// or party size changed. The booking's own tables do not count as
// held.
func (a *BookingAllocator) UpdateBooking(booking *models.Booking, req BookingRequest) error {
	if req.GuestCount < 1 {
		return utils.ValidationError("guest_count must be at least 1")
	}

	slot, err := a.resolveSlot(req.ShopID, req.BookingDate)
	if err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		tables, err := a.allocate(tx, req, slot, booking.ID)
		if err != nil {
			return err
		}

		booking.BookingDate = req.BookingDate
		booking.GuestCount = req.GuestCount
		booking.TableCount = len(tables)
		if err := tx.Save(booking).Error; err != nil {
			return err
		}
		if err := tx.Model(booking).Association("Tables").Replace(tables); err != nil {
			return err
		}
		booking.Tables = tables
		return nil
	})
}

func (a *BookingAllocator) allocate(tx *gorm.DB, req BookingRequest, slot *models.TimeSlot, excludeBookingID uint) ([]models.Table, error) {
	// Lock the shop's table rows before reading the held set, so a
	// concurrent allocation for the same shop waits here instead of
	// reading the same free tables.
	var tables []models.Table
	if err := rowLock(tx).Where("shop_id = ?", req.ShopID).
		Order("capacity DESC").Find(&tables).Error; err != nil {
		return nil, err
	}

	booked, err := slotGuestCount(tx, req.ShopID, req.BookingDate, slot, excludeBookingID)
	if err != nil {
		return nil, err
	}
	if booked+req.GuestCount > slot.MaxCapacity {
		return nil, utils.DomainError(utils.CodeInsufficientCapacity,
			"the time slot cannot take this many more guests")
	}

	held, err := heldTableIDs(tx, req.ShopID, req.BookingDate, slot, excludeBookingID)
	if err != nil {
		return nil, err
	}

	if len(req.TableIDs) > 0 {
		return validateChosenTables(req, tables, held)
	}

	candidates := tables[:0]
	for _, t := range tables {
		if t.IsAvailable && !held[t.ID] {
			candidates = append(candidates, t)
		}
	}
	return assignTables(candidates, req.GuestCount)
}

// validateChosenTables accepts a user-picked table set verbatim after
// checking ownership, availability, holds and capacity. shopTables is
// the locked set of the shop's tables.
func validateChosenTables(req BookingRequest, shopTables []models.Table, held map[uint]bool) ([]models.Table, error) {
	byID := make(map[uint]models.Table, len(shopTables))
	for _, t := range shopTables {
		byID[t.ID] = t
	}

	capacity := 0
	picked := make([]models.Table, 0, len(req.TableIDs))
	for _, id := range req.TableIDs {
		t, ok := byID[id]
		if !ok {
			return nil, utils.DomainError(utils.CodeTableNotInShop,
				"one or more tables do not exist or belong to another shop")
		}
		if !t.IsAvailable {
			return nil, utils.DomainError(utils.CodeTableHeld,
				fmt.Sprintf("table %s is not available", t.TableNumber))
		}
		if held[t.ID] {
			return nil, utils.DomainError(utils.CodeTableHeld,
				fmt.Sprintf("table %s is already booked for this slot", t.TableNumber))
		}
		capacity += t.Capacity
		picked = append(picked, t)
	}
	if capacity < req.GuestCount {
		return nil, utils.DomainError(utils.CodeInsufficientCapacity,
			"the chosen tables cannot seat the whole party")
	}
	return picked, nil
}
