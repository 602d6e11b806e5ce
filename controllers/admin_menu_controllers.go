package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// AdminMenuController is the catalog admin surface: menu items,
// variant types, variants and the per-item variant whitelist.
type AdminMenuController struct {
	DB *gorm.DB
}

func NewAdminMenuController(db *gorm.DB) *AdminMenuController {
	return &AdminMenuController{DB: db}
}

type menuInput struct {
	ShopID          uint     `json:"coffee_shop_id" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	Price           int64    `json:"price" binding:"required"`
	IsAvailable     *bool    `json:"is_available"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	PreparationTime int      `json:"preparation_time"`
	Caffeine        string   `json:"caffeine"`
	Origin          string   `json:"origin"`
	Roast           string   `json:"roast"`
}

func (ac *AdminMenuController) CreateMenu(c *gin.Context) {
	var input menuInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("price cannot be negative"))
		return
	}

	var shop models.CoffeeShop
	if err := ac.DB.First(&shop, input.ShopID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("coffee shop not found"))
		return
	}

	menu := models.Menu{
		ShopID:          input.ShopID,
		Name:            input.Name,
		Price:           input.Price,
		IsAvailable:     true,
		Description:     input.Description,
		Category:        input.Category,
		PreparationTime: input.PreparationTime,
		Caffeine:        input.Caffeine,
		Origin:          input.Origin,
		Roast:           input.Roast,
	}
	if input.IsAvailable != nil {
		menu.IsAvailable = *input.IsAvailable
	}
	if err := menu.SetTags(input.Tags); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", menu)
}

func (ac *AdminMenuController) UpdateMenu(c *gin.Context) {
	menu, ok := ac.findMenu(c)
	if !ok {
		return
	}

	var input menuInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("price cannot be negative"))
		return
	}

	menu.Name = input.Name
	menu.Price = input.Price
	menu.Description = input.Description
	menu.Category = input.Category
	menu.PreparationTime = input.PreparationTime
	menu.Caffeine = input.Caffeine
	menu.Origin = input.Origin
	menu.Roast = input.Roast
	if input.IsAvailable != nil {
		menu.IsAvailable = *input.IsAvailable
	}
	if err := menu.SetTags(input.Tags); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.DB.Save(menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", menu)
}

func (ac *AdminMenuController) DeleteMenu(c *gin.Context) {
	menu, ok := ac.findMenu(c)
	if !ok {
		return
	}
	if err := ac.DB.Delete(menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}

// ListMenus returns every item of a shop, unavailable ones included.
func (ac *AdminMenuController) ListMenus(c *gin.Context) {
	shopID, err := strconv.Atoi(c.Param("coffee_shop_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee shop id"))
		return
	}

	var menus []models.Menu
	if err := ac.DB.Where("shop_id = ?", shopID).Order("name ASC").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu items", menus)
}

// --- variant types ---

func (ac *AdminMenuController) CreateVariantType(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required"`
		IsRequired bool   `json:"is_required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	vt := models.VariantType{Name: input.Name, IsRequired: input.IsRequired}
	if err := ac.DB.Create(&vt).Error; err != nil {
		utils.RespondError(c, http.StatusConflict,
			utils.ConflictError("a variant type with this name already exists"))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Variant type created", vt)
}

func (ac *AdminMenuController) ListVariantTypes(c *gin.Context) {
	var types []models.VariantType
	if err := ac.DB.Order("name ASC").Find(&types).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Variant types", types)
}

func (ac *AdminMenuController) UpdateVariantType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("variant_type_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid variant type id"))
		return
	}

	var input struct {
		Name       *string `json:"name"`
		IsRequired *bool   `json:"is_required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var vt models.VariantType
	if err := ac.DB.First(&vt, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("variant type not found"))
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.IsRequired != nil {
		updates["is_required"] = *input.IsRequired
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("nothing to update"))
		return
	}
	if err := ac.DB.Model(&vt).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Variant type updated", vt)
}

// --- variants ---

func (ac *AdminMenuController) CreateVariant(c *gin.Context) {
	var input struct {
		VariantTypeID   uint   `json:"variant_type_id" binding:"required"`
		Name            string `json:"name" binding:"required"`
		AdditionalPrice int64  `json:"additional_price"`
		IsAvailable     *bool  `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var vt models.VariantType
	if err := ac.DB.First(&vt, input.VariantTypeID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("variant type not found"))
		return
	}

	variant := models.Variant{
		VariantTypeID:   input.VariantTypeID,
		Name:            input.Name,
		AdditionalPrice: input.AdditionalPrice,
		IsAvailable:     true,
	}
	if input.IsAvailable != nil {
		variant.IsAvailable = *input.IsAvailable
	}
	if err := ac.DB.Create(&variant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Variant created", variant)
}

func (ac *AdminMenuController) UpdateVariant(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("variant_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid variant id"))
		return
	}

	var input struct {
		Name            *string `json:"name"`
		AdditionalPrice *int64  `json:"additional_price"`
		IsAvailable     *bool   `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var variant models.Variant
	if err := ac.DB.First(&variant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("variant not found"))
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.AdditionalPrice != nil {
		updates["additional_price"] = *input.AdditionalPrice
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("nothing to update"))
		return
	}
	if err := ac.DB.Model(&variant).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Variant updated", variant)
}

// --- menu variant whitelist ---

// LinkVariant whitelists a variant for a menu item.
func (ac *AdminMenuController) LinkVariant(c *gin.Context) {
	menu, ok := ac.findMenu(c)
	if !ok {
		return
	}

	var input struct {
		VariantID uint `json:"variant_id" binding:"required"`
		IsDefault bool `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var variant models.Variant
	if err := ac.DB.First(&variant, input.VariantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("variant not found"))
		return
	}

	link := models.MenuVariant{MenuID: menu.ID, VariantID: variant.ID, IsDefault: input.IsDefault}
	if err := ac.DB.Create(&link).Error; err != nil {
		utils.RespondError(c, http.StatusConflict,
			utils.ConflictError("this variant is already linked to the item"))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Variant linked", link)
}

func (ac *AdminMenuController) UnlinkVariant(c *gin.Context) {
	menu, ok := ac.findMenu(c)
	if !ok {
		return
	}
	variantID, err := strconv.Atoi(c.Param("variant_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid variant id"))
		return
	}

	result := ac.DB.Where("menu_id = ? AND variant_id = ?", menu.ID, variantID).
		Delete(&models.MenuVariant{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("link not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Variant unlinked", nil)
}

func (ac *AdminMenuController) findMenu(c *gin.Context) (*models.Menu, bool) {
	id, err := strconv.Atoi(c.Param("coffee_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee id"))
		return nil, false
	}
	var menu models.Menu
	if err := ac.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("menu item not found"))
		return nil, false
	}
	return &menu, true
}
