package timezone

import (
	"sizopi/config"
	"time"

	"github.com/rs/zerolog/log"
)

const fallbackZone = "UTC"

var parkLocation = resolve(config.Get().App.Timezone)

func resolve(name string) *time.Location {
	if name == "" {
		log.Warn().Str("fallback", fallbackZone).Msg("APP_TIMEZONE is empty")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Str("fallback", fallbackZone).Msg("Unknown APP_TIMEZONE")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Park timezone loaded")

	return loc
}

// GetLocation returns the park's zone.
func GetLocation() *time.Location {
	return parkLocation
}

func Now() time.Time {
	return time.Now().In(parkLocation)
}

// Format renders t in the park's zone.
func Format(t time.Time, layout string) string {
	return t.In(parkLocation).Format(layout)
}

// Today is the park's current calendar date.
func Today() string {
	return Format(time.Now(), time.DateOnly)
}

// ParseDate reads a YYYY-MM-DD visit date at midnight in the park's zone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, parkLocation)
}

// FormatDate keeps the calendar part of t as stored, without converting
// zones. Postgres DATE columns arrive at UTC midnight.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
