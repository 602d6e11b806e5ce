package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetShopMenu lists the available items of one shop, with optional
// category, tag, price range and search filters.
func (mc *MenuController) GetShopMenu(c *gin.Context) {
	shopID, err := strconv.Atoi(c.Param("coffee_shop_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee shop id"))
		return
	}

	var shop models.CoffeeShop
	if err := mc.DB.First(&shop, shopID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("coffee shop not found"))
		return
	}

	query := mc.DB.Where("shop_id = ? AND is_available = ?", shopID, true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseInt(minPrice, 10, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseInt(maxPrice, 10, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}

	var menus []models.Menu
	if err := query.Order("name ASC").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Tags live in a JSON column, so the tag filter runs here rather
	// than in SQL.
	if tag := c.Query("tag"); tag != "" {
		filtered := menus[:0]
		for _, m := range menus {
			for _, t := range m.GetTags() {
				if strings.EqualFold(t, tag) {
					filtered = append(filtered, m)
					break
				}
			}
		}
		menus = filtered
	}

	utils.RespondJSON(c, http.StatusOK, "Menu", menus)
}

// variantGroup is one variant type with the concrete choices a menu
// item offers for it.
type variantGroup struct {
	VariantTypeID uint             `json:"variant_type_id"`
	Name          string           `json:"name"`
	IsRequired    bool             `json:"is_required"`
	Variants      []variantChoice  `json:"variants"`
}

type variantChoice struct {
	VariantID       uint   `json:"variant_id"`
	Name            string `json:"name"`
	AdditionalPrice int64  `json:"additional_price"`
	IsDefault       bool   `json:"is_default"`
}

// GetMenuDetail returns one item with its variants grouped by type.
func (mc *MenuController) GetMenuDetail(c *gin.Context) {
	menuID, err := strconv.Atoi(c.Param("coffee_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid coffee id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("menu item not found"))
		return
	}

	var links []models.MenuVariant
	err = mc.DB.Preload("Variant.VariantType").
		Where("menu_id = ?", menu.ID).
		Find(&links).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	groups := make([]variantGroup, 0)
	index := make(map[uint]int)
	for _, link := range links {
		if !link.Variant.IsAvailable {
			continue
		}
		vt := link.Variant.VariantType
		i, ok := index[vt.ID]
		if !ok {
			groups = append(groups, variantGroup{
				VariantTypeID: vt.ID,
				Name:          vt.Name,
				IsRequired:    vt.IsRequired,
				Variants:      []variantChoice{},
			})
			i = len(groups) - 1
			index[vt.ID] = i
		}
		groups[i].Variants = append(groups[i].Variants, variantChoice{
			VariantID:       link.Variant.ID,
			Name:            link.Variant.Name,
			AdditionalPrice: link.Variant.AdditionalPrice,
			IsDefault:       link.IsDefault,
		})
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", gin.H{
		"menu":           menu,
		"variant_groups": groups,
	})
}

// ListShops returns every coffee shop.
func (mc *MenuController) ListShops(c *gin.Context) {
	var shops []models.CoffeeShop
	if err := mc.DB.Order("name ASC").Find(&shops).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coffee shops", shops)
}
