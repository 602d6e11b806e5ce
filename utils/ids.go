package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Human-visible ids follow <PREFIX>-<8 hex uppercase>. Booking ids
// additionally embed the local date: BK-YYYYMMDD-XXXXX.

func randomHex(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious
		// trouble; fall back to the clock.
		return fmt.Sprintf("%X", time.Now().UnixNano())[:n]
	}
	return fmt.Sprintf("%X", buf)[:n]
}

func GenerateOrderID() string {
	return "ORD-" + randomHex(8)
}

func GenerateTransactionID() string {
	return "TRX-" + randomHex(8)
}

func GenerateBookingID(date time.Time) string {
	return fmt.Sprintf("BK-%s-%s", date.Format("20060102"), randomHex(5))
}
