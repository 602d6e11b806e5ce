package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// AdminAnalyticsController aggregates sales and behaviour data for
// the admin dashboard and produces the CSV/PDF/PNG exports.
type AdminAnalyticsController struct {
	DB *gorm.DB
}

func NewAdminAnalyticsController(db *gorm.DB) *AdminAnalyticsController {
	return &AdminAnalyticsController{DB: db}
}

// reportRange reads the from/to query params, defaulting to the last
// 30 days.
func reportRange(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}
	return from, to
}

// GetDashboardStats is the landing-page aggregate.
func (ac *AdminAnalyticsController) GetDashboardStats(c *gin.Context) {
	today := time.Now()
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var stats struct {
		TotalOrders  int64 `json:"total_orders"`
		TodayOrders  int64 `json:"today_orders"`
		TotalRevenue int64 `json:"total_revenue"`
		TodayRevenue int64 `json:"today_revenue"`
		TotalUsers   int64 `json:"total_users"`
		OrderStats   struct {
			Pending    int64 `json:"pending"`
			Processing int64 `json:"processing"`
			Ready      int64 `json:"ready"`
			Completed  int64 `json:"completed"`
			Cancelled  int64 `json:"cancelled"`
		} `json:"order_stats"`
		BookingStats struct {
			Unconfirmed int64 `json:"unconfirmed"`
			Confirmed   int64 `json:"confirmed"`
			Today       int64 `json:"today"`
		} `json:"booking_stats"`
	}

	ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	ac.DB.Model(&models.Order{}).Where("ordered_at >= ?", dayStart).Count(&stats.TodayOrders)
	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)

	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&stats.OrderStats.Pending)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusProcessing).Count(&stats.OrderStats.Processing)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusReady).Count(&stats.OrderStats.Ready)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&stats.OrderStats.Completed)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCancelled).Count(&stats.OrderStats.Cancelled)

	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.TotalRevenue)
	ac.DB.Model(&models.Order{}).
		Where("status = ? AND paid_at >= ?", models.OrderStatusCompleted, dayStart).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.TodayRevenue)

	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusNoConfirm).
		Count(&stats.BookingStats.Unconfirmed)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusConfirm).
		Count(&stats.BookingStats.Confirmed)
	ac.DB.Model(&models.Booking{}).
		Where("booking_date >= ? AND booking_date < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&stats.BookingStats.Today)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// revenuePoint is one day of the timeseries.
type revenuePoint struct {
	Day     string `json:"day"`
	Orders  int64  `json:"orders"`
	Revenue int64  `json:"revenue"`
}

func (ac *AdminAnalyticsController) revenueSeries(from, to time.Time) ([]revenuePoint, error) {
	var points []revenuePoint
	err := ac.DB.Model(&models.Order{}).
		Select("DATE(paid_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total_price), 0) AS revenue").
		Where("status = ? AND paid_at >= ? AND paid_at < ?", models.OrderStatusCompleted, from, to).
		Group("DATE(paid_at)").
		Order("day ASC").
		Scan(&points).Error
	return points, err
}

// GetRevenueTimeseries returns daily completed-order revenue for the
// requested range.
func (ac *AdminAnalyticsController) GetRevenueTimeseries(c *gin.Context) {
	from, to := reportRange(c)
	points, err := ac.revenueSeries(from, to)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var total int64
	for _, p := range points {
		total += p.Revenue
	}

	utils.RespondJSON(c, http.StatusOK, "Revenue", gin.H{
		"from":          from.Format("2006-01-02"),
		"to":            to.Format("2006-01-02"),
		"points":        points,
		"total_revenue": total,
	})
}

// GetPopularItems ranks menu items by quantity sold in completed
// orders.
func (ac *AdminAnalyticsController) GetPopularItems(c *gin.Context) {
	from, to := reportRange(c)

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	var items []struct {
		MenuID   uint   `json:"coffee_id"`
		Name     string `json:"name"`
		Quantity int64  `json:"quantity"`
		Revenue  int64  `json:"revenue"`
	}
	err := ac.DB.Model(&models.OrderItem{}).
		Select("order_items.menu_id AS menu_id, coffee_menus.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN coffee_menus ON coffee_menus.id = order_items.menu_id").
		Where("orders.status = ? AND orders.paid_at >= ? AND orders.paid_at < ?",
			models.OrderStatusCompleted, from, to).
		Group("order_items.menu_id, coffee_menus.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Popular items", items)
}

// GetCustomerBehaviour surfaces repeat-purchase patterns: top
// customers, pay-for-others usage, average order value.
func (ac *AdminAnalyticsController) GetCustomerBehaviour(c *gin.Context) {
	from, to := reportRange(c)

	var top []struct {
		UserID uint   `json:"user_id"`
		Name   string `json:"name"`
		Orders int64  `json:"orders"`
		Spent  int64  `json:"spent"`
	}
	err := ac.DB.Model(&models.Order{}).
		Select("orders.user_id AS user_id, users.name AS name, COUNT(*) AS orders, COALESCE(SUM(orders.total_price), 0) AS spent").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.status = ? AND orders.paid_at >= ? AND orders.paid_at < ?",
			models.OrderStatusCompleted, from, to).
		Group("orders.user_id, users.name").
		Order("spent DESC").
		Limit(10).
		Scan(&top).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var completed, gifted int64
	ac.DB.Model(&models.Order{}).
		Where("status = ? AND paid_at >= ? AND paid_at < ?", models.OrderStatusCompleted, from, to).
		Count(&completed)
	ac.DB.Model(&models.Order{}).
		Where("status = ? AND paid_at >= ? AND paid_at < ? AND paid_by_user_id IS NOT NULL",
			models.OrderStatusCompleted, from, to).
		Count(&gifted)

	var avgOrder float64
	ac.DB.Model(&models.Order{}).
		Where("status = ? AND paid_at >= ? AND paid_at < ?", models.OrderStatusCompleted, from, to).
		Select("COALESCE(AVG(total_price), 0)").Scan(&avgOrder)

	utils.RespondJSON(c, http.StatusOK, "Customer behaviour", gin.H{
		"top_customers":       top,
		"completed_orders":    completed,
		"paid_by_others":      gifted,
		"average_order_value": avgOrder,
	})
}

// GetShopPerformance compares shops by revenue and bookings.
func (ac *AdminAnalyticsController) GetShopPerformance(c *gin.Context) {
	from, to := reportRange(c)

	var revenue []struct {
		ShopID  uint   `json:"coffee_shop_id"`
		Name    string `json:"name"`
		Orders  int64  `json:"orders"`
		Revenue int64  `json:"revenue"`
	}
	err := ac.DB.Model(&models.OrderItem{}).
		Select("coffee_menus.shop_id AS shop_id, coffee_shops.name AS name, COUNT(DISTINCT orders.id) AS orders, COALESCE(SUM(order_items.subtotal), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN coffee_menus ON coffee_menus.id = order_items.menu_id").
		Joins("JOIN coffee_shops ON coffee_shops.id = coffee_menus.shop_id").
		Where("orders.status = ? AND orders.paid_at >= ? AND orders.paid_at < ?",
			models.OrderStatusCompleted, from, to).
		Group("coffee_menus.shop_id, coffee_shops.name").
		Order("revenue DESC").
		Scan(&revenue).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var bookings []struct {
		ShopID   uint  `json:"coffee_shop_id"`
		Bookings int64 `json:"bookings"`
		Guests   int64 `json:"guests"`
	}
	err = ac.DB.Model(&models.Booking{}).
		Select("shop_id AS shop_id, COUNT(*) AS bookings, COALESCE(SUM(guest_count), 0) AS guests").
		Where("booking_date >= ? AND booking_date < ? AND status <> ?",
			from, to, models.BookingStatusCancelled).
		Group("shop_id").
		Scan(&bookings).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Shop performance", gin.H{
		"revenue_by_shop":  revenue,
		"bookings_by_shop": bookings,
	})
}

// ExportRevenueCSV streams the daily revenue series as a CSV
// attachment.
func (ac *AdminAnalyticsController) ExportRevenueCSV(c *gin.Context) {
	from, to := reportRange(c)
	points, err := ac.revenueSeries(from, to)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("revenue_%s_%s.csv", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"day", "orders", "revenue"})
	for _, p := range points {
		_ = w.Write([]string{
			p.Day,
			strconv.FormatInt(p.Orders, 10),
			strconv.FormatInt(p.Revenue, 10),
		})
	}
	w.Flush()
}

// ExportSalesPDF renders the period report as a PDF attachment.
func (ac *AdminAnalyticsController) ExportSalesPDF(c *gin.Context) {
	from, to := reportRange(c)
	points, err := ac.revenueSeries(from, to)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalOrders, totalRevenue int64
	for _, p := range points {
		totalOrders += p.Orders
		totalRevenue += p.Revenue
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Sales Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Completed orders: %d", totalOrders))
	pdf.Ln(6)
	pdf.Cell(0, 8, "Total revenue: "+utils.FormatCurrencyIDR(totalRevenue))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 8, "Day", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Orders", "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, "Revenue", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, p := range points {
		pdf.CellFormat(50, 8, p.Day, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, strconv.FormatInt(p.Orders, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 8, utils.FormatCurrencyIDR(p.Revenue), "1", 1, "R", false, 0, "")
	}

	filename := fmt.Sprintf("sales_%s_%s.pdf", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("pdf export failed: %v", err)
	}
}

// ExportSalesChart renders the revenue series as a PNG bar chart.
func (ac *AdminAnalyticsController) ExportSalesChart(c *gin.Context) {
	from, to := reportRange(c)
	points, err := ac.revenueSeries(from, to)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(points) == 0 {
		utils.RespondError(c, http.StatusNotFound,
			utils.NotFoundError("no revenue in the requested period"))
		return
	}

	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		bars = append(bars, chart.Value{
			Label: p.Day,
			Value: float64(p.Revenue),
		})
	}

	graph := chart.BarChart{
		Title:    "Daily revenue",
		Width:    1024,
		Height:   512,
		BarWidth: 40,
		Bars:     bars,
	}

	c.Header("Content-Type", "image/png")
	if err := graph.Render(chart.PNG, c.Writer); err != nil {
		utils.ErrorLogger.Printf("chart export failed: %v", err)
	}
}
