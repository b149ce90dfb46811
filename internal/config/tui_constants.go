package config

// Layout constants.
const (
	// ProgressWidth is the preferred width of the countdown bar.
	ProgressWidth = 48

	// MinProgressWidth is the narrowest bar drawn before falling back to digits only.
	MinProgressWidth = 12

	// CompactModeThreshold triggers compact rendering below this width.
	CompactModeThreshold = 60

	// TopicWidth caps the width of a rendered topic line.
	TopicWidth = 72
)

// Input constraints.
const (
	// MaxMinutes is the largest minutes value accepted by the settings form.
	MaxMinutes = 60

	// MaxSeconds is the largest seconds value accepted by the settings form.
	MaxSeconds = 59

	// FieldCharLimit bounds the minutes/seconds inputs.
	FieldCharLimit = 2

	// TruncationSuffix appended to truncated strings.
	TruncationSuffix = "…"
)
