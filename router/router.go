package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/controllers"
	"github.com/yeremiapane/coffee-shop-app/middlewares"
	"github.com/yeremiapane/coffee-shop-app/services"
	"gorm.io/gorm"
)

// Deps carries the shared services the handlers need. main builds it
// once; tests build it with stubs.
type Deps struct {
	DB        *gorm.DB
	Status    *services.StatusService
	Notifier  *services.NotificationService
	Allocator *services.BookingAllocator
	Orders    *services.OrderService
	Payments  *services.PaymentService
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	db := deps.DB

	userCtrl := controllers.NewUserController(db, deps.Notifier)
	menuCtrl := controllers.NewMenuController(db)
	favoriteCtrl := controllers.NewFavoriteController(db)
	ratingCtrl := controllers.NewRatingController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	bookingCtrl := controllers.NewBookingController(db, deps.Allocator, deps.Status)
	orderCtrl := controllers.NewOrderController(db, deps.Orders, deps.Status)
	paymentCtrl := controllers.NewPaymentController(deps.Payments)
	adminMenuCtrl := controllers.NewAdminMenuController(db)
	adminScheduleCtrl := controllers.NewAdminScheduleController(db)
	adminOrderCtrl := controllers.NewAdminOrderController(db, deps.Status)
	adminBookingCtrl := controllers.NewAdminBookingController(db, deps.Status)
	analyticsCtrl := controllers.NewAdminAnalyticsController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	v1 := r.Group("/api/v1")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	auth := v1.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
		auth.POST("/verify-email", userCtrl.VerifyEmail)
		auth.POST("/resend-verification", userCtrl.ResendVerification)
		auth.POST("/forgot-password", userCtrl.ForgotPassword)
		auth.POST("/reset-password", userCtrl.ResetPassword)
	}

	v1.GET("/menu/coffee-shops", menuCtrl.ListShops)
	v1.GET("/menu/coffee-shops/:coffee_shop_id/menu", menuCtrl.GetShopMenu)
	v1.GET("/menu/coffee/:coffee_id", menuCtrl.GetMenuDetail)
	v1.GET("/ratings/coffee/:coffee_id", ratingCtrl.ListRatings)
	v1.GET("/bookings/availability", bookingCtrl.GetAvailability)

	// The gateway calls this; it is authenticated by signature, not
	// by bearer token.
	v1.POST("/payments/notification", paymentCtrl.HandleNotification)

	// ----------------------------------------------------------------
	//                   AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	user := v1.Group("/")
	user.Use(middlewares.AuthMiddleware(db))
	{
		user.GET("/profile", userCtrl.GetProfile)
		user.PATCH("/profile", userCtrl.UpdateProfile)

		user.GET("/favorites", favoriteCtrl.ListFavorites)
		user.POST("/favorites/:coffee_id", favoriteCtrl.AddFavorite)
		user.DELETE("/favorites/:coffee_id", favoriteCtrl.RemoveFavorite)

		user.POST("/ratings/coffee/:coffee_id", ratingCtrl.RateMenu)
		user.DELETE("/ratings/coffee/:coffee_id", ratingCtrl.DeleteRating)

		user.GET("/notifications", notificationCtrl.ListNotifications)
		user.POST("/notifications/:notification_id/read", notificationCtrl.MarkRead)

		user.POST("/bookings", bookingCtrl.CreateBooking)
		user.GET("/bookings", bookingCtrl.ListBookings)
		user.GET("/bookings/:booking_id", bookingCtrl.GetBooking)
		user.PUT("/bookings/:booking_id", bookingCtrl.UpdateBooking)
		user.DELETE("/bookings/:booking_id", bookingCtrl.CancelBooking)

		user.POST("/orders", orderCtrl.CreateOrder)
		user.GET("/orders", orderCtrl.ListOrders)
		user.GET("/orders/payable", orderCtrl.ListPayableOrders)
		user.GET("/orders/:order_id", orderCtrl.GetOrder)
		user.DELETE("/orders/:order_id", orderCtrl.CancelOrder)

		payments := user.Group("/payments")
		payments.Use(middlewares.PaymentRateLimiter())
		{
			payments.POST("/create", paymentCtrl.CreatePayment)
			payments.POST("/pay-for-others", paymentCtrl.PayForOthers)
			payments.GET("/:order_id/status", paymentCtrl.GetStatus)
		}
	}

	// ----------------------------------------------------------------
	//                       ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := v1.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(db), middlewares.AdminOnly())
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.PATCH("/users/:user_id", userCtrl.UpdateUser)

		menuMgmt := admin.Group("/menu-management")
		{
			menuMgmt.GET("/coffee-shops/:coffee_shop_id/menu", adminMenuCtrl.ListMenus)
			menuMgmt.POST("/menu", adminMenuCtrl.CreateMenu)
			menuMgmt.PUT("/menu/:coffee_id", adminMenuCtrl.UpdateMenu)
			menuMgmt.DELETE("/menu/:coffee_id", adminMenuCtrl.DeleteMenu)

			menuMgmt.GET("/variant-types", adminMenuCtrl.ListVariantTypes)
			menuMgmt.POST("/variant-types", adminMenuCtrl.CreateVariantType)
			menuMgmt.PATCH("/variant-types/:variant_type_id", adminMenuCtrl.UpdateVariantType)
			menuMgmt.POST("/variants", adminMenuCtrl.CreateVariant)
			menuMgmt.PATCH("/variants/:variant_id", adminMenuCtrl.UpdateVariant)
			menuMgmt.POST("/menu/:coffee_id/variants", adminMenuCtrl.LinkVariant)
			menuMgmt.DELETE("/menu/:coffee_id/variants/:variant_id", adminMenuCtrl.UnlinkVariant)
		}

		bookingMgmt := admin.Group("/booking-management")
		{
			bookingMgmt.GET("/coffee-shops/:coffee_shop_id/operating-hours", adminScheduleCtrl.ListOperatingHours)
			bookingMgmt.POST("/coffee-shops/:coffee_shop_id/operating-hours", adminScheduleCtrl.UpsertOperatingHour)
			bookingMgmt.PUT("/coffee-shops/:coffee_shop_id/operating-hours", adminScheduleCtrl.ReplaceOperatingHours)
			bookingMgmt.GET("/coffee-shops/:coffee_shop_id/time-slots", adminScheduleCtrl.ListTimeSlots)
			bookingMgmt.POST("/coffee-shops/:coffee_shop_id/time-slots", adminScheduleCtrl.CreateTimeSlot)
			bookingMgmt.PUT("/coffee-shops/:coffee_shop_id/time-slots", adminScheduleCtrl.ReplaceTimeSlots)
			bookingMgmt.PATCH("/time-slots/:slot_id", adminScheduleCtrl.UpdateTimeSlot)
			bookingMgmt.GET("/coffee-shops/:coffee_shop_id/tables", adminScheduleCtrl.ListTables)
			bookingMgmt.POST("/coffee-shops/:coffee_shop_id/tables", adminScheduleCtrl.CreateTable)
			bookingMgmt.PATCH("/tables/:table_id", adminScheduleCtrl.UpdateTable)
			bookingMgmt.DELETE("/tables/:table_id", adminScheduleCtrl.DeleteTable)
		}

		orderMgmt := admin.Group("/order-management")
		{
			orderMgmt.GET("/orders", adminOrderCtrl.ListOrders)
			orderMgmt.GET("/orders/today", adminOrderCtrl.TodaySummary)
			orderMgmt.GET("/orders/pending-count", adminOrderCtrl.PendingCount)
			orderMgmt.POST("/orders/bulk-status", adminOrderCtrl.BulkUpdateOrderStatus)
			orderMgmt.GET("/orders/:order_id", adminOrderCtrl.GetOrder)
			orderMgmt.PUT("/orders/:order_id/status", adminOrderCtrl.UpdateOrderStatus)
			orderMgmt.GET("/orders/:order_id/history", adminOrderCtrl.GetOrderHistory)
		}

		bookingStatus := admin.Group("/booking-status")
		{
			bookingStatus.GET("/bookings", adminBookingCtrl.ListBookings)
			bookingStatus.GET("/bookings/today", adminBookingCtrl.TodaySummary)
			bookingStatus.POST("/bookings/bulk-status", adminBookingCtrl.BulkUpdateBookingStatus)
			bookingStatus.GET("/bookings/:booking_id", adminBookingCtrl.GetBooking)
			bookingStatus.PUT("/bookings/:booking_id/status", adminBookingCtrl.UpdateBookingStatus)
			bookingStatus.GET("/bookings/:booking_id/history", adminBookingCtrl.GetBookingHistory)
		}

		analytics := admin.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsCtrl.GetDashboardStats)
			analytics.GET("/revenue", analyticsCtrl.GetRevenueTimeseries)
			analytics.GET("/popular-items", analyticsCtrl.GetPopularItems)
			analytics.GET("/customer-behaviour", analyticsCtrl.GetCustomerBehaviour)
			analytics.GET("/shop-performance", analyticsCtrl.GetShopPerformance)
			analytics.GET("/export", analyticsCtrl.ExportRevenueCSV)
			analytics.GET("/export-pdf", analyticsCtrl.ExportSalesPDF)
			analytics.GET("/sales-chart", analyticsCtrl.ExportSalesChart)
		}
	}

	return r
}
