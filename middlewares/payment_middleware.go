package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// PaymentRateLimiter throttles charge creation so a stuck client
// cannot hammer the gateway.
func PaymentRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Second), 10)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"detail": "please wait before making another payment request",
				"code":   "VALIDATION",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
