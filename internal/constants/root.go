package constants

import "time"

const (
	AppName           = "minaret"
	Version           = "v0.3.0"
	DefaultConfigDir  = "~/.config/minaret"
	DefaultConfigPath = "~/.config/minaret/config.yaml"
	DefaultDBPath     = "~/.config/minaret/minaret.db"

	// DateFormat is the standard day-key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard clock format used for display (HH:MM)
	TimeFormat = "15:04"

	// CountdownFormat note: countdowns are rendered as HH:MM:SS, see utils.FormatCountdown

	// GracePeriod is the window after a scheduled prayer time during which a
	// completion still counts as on time, and during which un-marking deletes
	// the record instead of writing an explicit miss.
	GracePeriod = 30 * time.Minute

	// ZawalWindow is the full width of the discouraged-prayer window bracketing
	// solar noon; the schedule carries dhuhr +/- half of this.
	ZawalWindow = 11 * time.Minute

	// CoordinatePrecision is the number of decimal places a coordinate is
	// rounded to when used as a cache key (~1.1 km at 2 places), so GPS jitter
	// does not force recomputation.
	CoordinatePrecision = 2

	// LastKnownMaxAge bounds how old a cached coordinate may be before the
	// fixed default coordinate is used instead.
	LastKnownMaxAge = 24 * time.Hour

	// NotificationIDPrefix namespaces every reminder this app registers, so a
	// full cancel never touches reminders owned by anything else.
	NotificationIDPrefix = "prayer_"

	// LocatingPlaceholder is the city label shown before reverse geocoding has
	// completed; notifications are never scheduled against it.
	LocatingPlaceholder = "Locating..."

	// Notifier tray constants
	NotifierLockfileName   = "minaret-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.minaretapp.minaret"
)

// DefaultCoordinate is the fixed fallback location (Makkah) used when neither
// an explicit coordinate nor a young-enough cached one is available.
var (
	DefaultLatitude  = 21.42
	DefaultLongitude = 39.83
)
