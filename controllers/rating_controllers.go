package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

type RatingController struct {
	DB *gorm.DB
}

func NewRatingController(db *gorm.DB) *RatingController {
	return &RatingController{DB: db}
}

// ListRatings returns the reviews of one menu item, newest first.
func (rc *RatingController) ListRatings(c *gin.Context) {
	menuID, err := strconv.Atoi(c.Param("coffee_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee id"))
		return
	}

	var ratings []models.Rating
	err = rc.DB.Preload("User").
		Where("menu_id = ?", menuID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ratings", ratings)
}

// RateMenu creates or replaces the caller's rating for a menu item
// and refreshes the item's aggregate.
func (rc *RatingController) RateMenu(c *gin.Context) {
	menuID, err := strconv.Atoi(c.Param("coffee_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee id"))
		return
	}

	var input struct {
		Rating int     `json:"rating" binding:"required"`
		Review *string `json:"review"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.RespondError(c, http.StatusBadRequest,
			utils.ValidationError("rating must be between 1 and 5"))
		return
	}

	var menu models.Menu
	if err := rc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("menu item not found"))
		return
	}

	userID := currentUserID(c)
	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		err := tx.Where("user_id = ? AND menu_id = ?", userID, menu.ID).First(&rating).Error
		if err == gorm.ErrRecordNotFound {
			rating = models.Rating{UserID: userID, MenuID: menu.ID, Rating: input.Rating, Review: input.Review}
			if err := tx.Create(&rating).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			rating.Rating = input.Rating
			rating.Review = input.Review
			if err := tx.Save(&rating).Error; err != nil {
				return err
			}
		}
		return refreshRatingAggregate(tx, menu.ID)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Rating saved", nil)
}

// DeleteRating removes the caller's own rating.
func (rc *RatingController) DeleteRating(c *gin.Context) {
	menuID, err := strconv.Atoi(c.Param("coffee_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee id"))
		return
	}

	userID := currentUserID(c)
	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND menu_id = ?", userID, menuID).
			Delete(&models.Rating{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.NotFoundError("rating not found")
		}
		return refreshRatingAggregate(tx, uint(menuID))
	})
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Rating removed", nil)
}

// refreshRatingAggregate recomputes the cached average and count on
// the menu row.
func refreshRatingAggregate(tx *gorm.DB, menuID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("menu_id = ?", menuID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Menu{}).Where("id = ?", menuID).
		Updates(map[string]interface{}{
			"rating_avg":   agg.Avg,
			"rating_count": agg.Count,
		}).Error
}
