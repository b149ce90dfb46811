package timer

import (
	"fmt"
	"math"

	"github.com/akyairhashvil/SPT/internal/config"
	"github.com/akyairhashvil/SPT/internal/models"
)

// ColorState is the visual signal derived from the remaining time.
type ColorState string

const (
	ColorDefault ColorState = "default"
	ColorGreen   ColorState = "green"
	ColorOrange  ColorState = "orange"
	ColorRed     ColorState = "red"
)

// AlertTimesUp is shown when the countdown reaches zero.
const AlertTimesUp = "Time's up!"

// Thresholds are remaining-seconds values where the color changes.
type Thresholds struct {
	Green  int
	Orange int
	Red    int
	Custom bool
}

// ThresholdsFor returns the threshold policy for a countdown of total seconds.
// Totals equal to the speech type's default use the fixed thresholds, any other
// total scales them to 32% and 16% of the duration, rounded up.
func ThresholdsFor(speechType models.SpeechType, total int) Thresholds {
	if total == models.DefaultDuration(speechType).TotalSeconds() {
		return Thresholds{
			Green:  config.DefaultGreenThreshold,
			Orange: config.DefaultOrangeThreshold,
		}
	}
	return Thresholds{
		Green:  int(math.Ceil(float64(total) * config.GreenFraction)),
		Orange: int(math.Ceil(float64(total) * config.OrangeFraction)),
		Custom: true,
	}
}

// Color maps remaining seconds onto a color state.
func (t Thresholds) Color(remaining int) ColorState {
	switch {
	case remaining <= t.Red:
		return ColorRed
	case remaining <= t.Orange:
		return ColorOrange
	case remaining <= t.Green:
		return ColorGreen
	}
	return ColorDefault
}

// AlertAt returns the alert for the exact second remaining hits a threshold.
// Values passed over without an exact match never alert.
func (t Thresholds) AlertAt(remaining int) (string, bool) {
	switch remaining {
	case t.Green:
		if !t.Custom {
			return "1 minute remaining", true
		}
		return FormatRemaining(t.Green), true
	case t.Orange:
		if !t.Custom {
			return "30 seconds remaining", true
		}
		return FormatRemaining(t.Orange), true
	}
	return "", false
}

// FormatRemaining renders seconds as "1 minute 15 seconds remaining".
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes, rest := seconds/60, seconds%60
	if minutes == 0 {
		return fmt.Sprintf("%s remaining", plural(rest, "second"))
	}
	if rest == 0 {
		return fmt.Sprintf("%s remaining", plural(minutes, "minute"))
	}
	return fmt.Sprintf("%s %s remaining", plural(minutes, "minute"), plural(rest, "second"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
