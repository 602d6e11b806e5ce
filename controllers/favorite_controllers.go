package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

type FavoriteController struct {
	DB *gorm.DB
}

func NewFavoriteController(db *gorm.DB) *FavoriteController {
	return &FavoriteController{DB: db}
}

// ListFavorites returns the caller's favorites with the menu items
// preloaded.
func (fc *FavoriteController) ListFavorites(c *gin.Context) {
	var favorites []models.Favorite
	err := fc.DB.Preload("Menu").
		Where("user_id = ?", currentUserID(c)).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Favorites", favorites)
}

// AddFavorite marks a menu item as favorite. Doing it twice is a
// no-op.
func (fc *FavoriteController) AddFavorite(c *gin.Context) {
	menuID, err := strconv.Atoi(c.Param("coffee_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee id"))
		return
	}

	var menu models.Menu
	if err := fc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("menu item not found"))
		return
	}

	favorite := models.Favorite{UserID: currentUserID(c), MenuID: menu.ID}
	var existing models.Favorite
	err = fc.DB.Where("user_id = ? AND menu_id = ?", favorite.UserID, favorite.MenuID).
		First(&existing).Error
	if err == nil {
		utils.RespondJSON(c, http.StatusOK, "Already a favorite", existing)
		return
	}

	if err := fc.DB.Create(&favorite).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Added to favorites", favorite)
}

// RemoveFavorite unmarks a menu item.
func (fc *FavoriteController) RemoveFavorite(c *gin.Context) {
	menuID, err := strconv.Atoi(c.Param("coffee_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee id"))
		return
	}

	result := fc.DB.Where("user_id = ? AND menu_id = ?", currentUserID(c), menuID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("favorite not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Removed from favorites", nil)
}
