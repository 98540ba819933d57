package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// forecastsim serves a synthetic grid feed over HTTP for local
// development, speaking the same wire format the optimizer's live feed
// client expects.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	port := flag.Int("port", 9000, "feed server port")
	logLevel := flag.String("log-level", "info", "log level")
	regions := flag.String("regions", "NSW1,QLD1,VIC1,SA1,TAS1", "comma-separated region whitelist")
	seed := flag.Int64("seed", 0, "rng seed, 0 means time-based")
	flag.Parse()

	logger.Setup(*logLevel, "development")
	logger.Info("Starting forecast feed simulator")

	feed := provider.NewMockProvider(provider.MockProviderConfig{
		Regions: strings.Split(*regions, ","),
		Seed:    *seed,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/forecast", handleForecast(feed))
	mux.HandleFunc("/weather", handleWeather(feed))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("Feed simulator listening on port %d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info("Shutting down feed simulator")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

type slotPayload struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	RenewablePct    float64   `json:"renewable_pct"`
	CarbonIntensity float64   `json:"carbon_intensity_kg_per_kwh"`
	PricePerMWh     float64   `json:"price_per_mwh"`
	SecondaryPrice  float64   `json:"secondary_price"`
}

type forecastPayload struct {
	Region string        `json:"region"`
	Slots  []slotPayload `json:"slots"`
}

type weatherPayload struct {
	Region          string  `json:"region"`
	OutdoorTempC    float64 `json:"outdoor_temp_c"`
	SolarIrradiance float64 `json:"solar_irradiance_wm2"`
	WindSpeedKmh    float64 `json:"wind_speed_kmh"`
}

func handleForecast(feed *provider.MockProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		region := r.URL.Query().Get("region")
		start := parseTime(r.URL.Query().Get("start"), time.Now().Truncate(time.Hour))
		slots := parseInt(r.URL.Query().Get("slots"), 24)
		slotMinutes := parseInt(r.URL.Query().Get("slot_minutes"), 60)

		series, err := feed.Forecast(r.Context(), region, start, slots, time.Duration(slotMinutes)*time.Minute)
		if err != nil {
			writeError(w, err)
			return
		}

		payload := forecastPayload{Region: region, Slots: make([]slotPayload, len(series))}
		for i, slot := range series {
			payload.Slots[i] = slotPayload{
				StartTime:       slot.StartTime,
				EndTime:         slot.EndTime,
				RenewablePct:    slot.RenewablePct,
				CarbonIntensity: slot.CarbonIntensity,
				PricePerMWh:     slot.PricePerMWh,
				SecondaryPrice:  slot.SecondaryPrice,
			}
		}

		writeJSON(w, http.StatusOK, payload)
	}
}

func handleWeather(feed *provider.MockProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		region := r.URL.Query().Get("region")
		at := parseTime(r.URL.Query().Get("at"), time.Now())

		env, err := feed.Weather(r.Context(), region, at)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, weatherPayload{
			Region:          region,
			OutdoorTempC:    env.OutdoorTempC,
			SolarIrradiance: env.SolarIrradiance,
			WindSpeedKmh:    env.WindSpeedKmh,
		})
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, provider.ErrRegionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

func parseTime(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return parsed
	}
	return fallback
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	if parsed, err := strconv.Atoi(s); err == nil {
		return parsed
	}
	return fallback
}
