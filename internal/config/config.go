package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/sommelier/internal/itinerary"
)

type Config struct {
	Port            int
	NatsURL         string
	NatsToken       string
	DatabaseURL     string
	LogLevel        string
	APIToken        string
	PerDayCapacity  int
	TimeSlots       []string
	OverflowLabel   string
	VisitMinutes    int
	CalendarTZ      string
	SessionCacheTTL time.Duration
}

func Load() Config {
	return Config{
		Port:            envInt("SOMMELIER_PORT", 8760),
		NatsURL:         envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:       envStr("NATS_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		APIToken:        envStr("SOMMELIER_API_TOKEN", ""),
		PerDayCapacity:  envInt("ITINERARY_PER_DAY", 4),
		TimeSlots:       envList("ITINERARY_TIME_SLOTS", []string{"10:00 AM", "12:00 PM", "2:30 PM", "4:30 PM"}),
		OverflowLabel:   envStr("ITINERARY_OVERFLOW_LABEL", "3:00 PM"),
		VisitMinutes:    envInt("ITINERARY_VISIT_MINUTES", 75),
		CalendarTZ:      envStr("CALENDAR_TIMEZONE", "America/Los_Angeles"),
		SessionCacheTTL: time.Duration(envInt("SESSION_CACHE_TTL_MINUTES", 30)) * time.Minute,
	}
}

// Layout returns the itinerary layout described by the configuration.
func (c Config) Layout() itinerary.Layout {
	return itinerary.Layout{
		PerDayCapacity: c.PerDayCapacity,
		TimeSlots:      c.TimeSlots,
		OverflowLabel:  c.OverflowLabel,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envList reads a comma-separated list, dropping blank items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
