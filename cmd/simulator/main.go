// Command simulator plays a field device: it posts random temperature and
// humidity readings to a ledger server at a fixed interval.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SensorLedger/internal/client"
)

func main() {
	var (
		url      = flag.String("url", "http://localhost:5000", "ledger server base URL")
		interval = flag.Duration("interval", 5*time.Second, "time between readings")
		count    = flag.Int("count", 0, "readings to send, 0 runs until interrupted")
		timeout  = flag.Duration("timeout", 5*time.Second, "per-request timeout")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.NewLedgerClient(*url, *timeout)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for sent := 0; *count == 0 || sent < *count; sent++ {
		temperature, humidity := nextReading()
		resp, err := c.AddData(ctx, temperature, humidity)
		if err != nil {
			log.Printf("❌ Error sending reading: %v", err)
		} else {
			log.Printf("✅ Sent temperature=%.1f humidity=%d, total_entries=%d", temperature, humidity, resp.TotalEntries)
		}
		if *count > 0 && sent+1 >= *count {
			return
		}

		select {
		case <-ctx.Done():
			log.Println("simulator stopped")
			return
		case <-ticker.C:
		}
	}
}

// nextReading returns an indoor-ish temperature in °C and relative humidity in %.
func nextReading() (float64, int) {
	temperature := math.Round((18+rand.Float64()*12)*10) / 10
	humidity := 30 + rand.Intn(41)
	return temperature, humidity
}
