package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/util"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "config.yaml"

// Settings holds the user preferences read from config.yaml.
type Settings struct {
	SpeechType    models.SpeechType
	Theme         string
	HideCountdown bool
	CustomMinutes *int
	CustomSeconds *int
	LogLevel      string
	ListenAddr    string
	DataDir       string
}

type yamlSettings struct {
	SpeechType    string `yaml:"speech_type"`
	Theme         string `yaml:"theme"`
	HideCountdown bool   `yaml:"hide_countdown"`
	CustomMinutes *int   `yaml:"custom_minutes,omitempty"`
	CustomSeconds *int   `yaml:"custom_seconds,omitempty"`
	LogLevel      string `yaml:"log_level"`
	ListenAddr    string `yaml:"listen_addr"`
	DataDir       string `yaml:"data_dir"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		SpeechType: models.SpeechImpromptu,
		Theme:      "dark",
		LogLevel:   "info",
		ListenAddr: DefaultListenAddr,
		DataDir:    util.DataDir(AppName),
	}
}

// SettingsPath returns the location of config.yaml under the user config dir.
func SettingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName, settingsFileName), nil
}

// LoadSettings reads preferences from path. An empty path resolves to the
// default location. A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		resolved, err := SettingsPath()
		if err != nil {
			applyEnv(&settings)
			return settings, err
		}
		path = resolved
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		applyEnv(&settings)
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		applyEnv(&settings)
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	applyEnv(&settings)
	return settings, nil
}

// SaveSettings writes preferences to path, creating parent directories.
func SaveSettings(path string, settings Settings) error {
	if path == "" {
		resolved, err := SettingsPath()
		if err != nil {
			return err
		}
		path = resolved
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		SpeechType:    string(settings.SpeechType),
		Theme:         settings.Theme,
		HideCountdown: settings.HideCountdown,
		CustomMinutes: settings.CustomMinutes,
		CustomSeconds: settings.CustomSeconds,
		LogLevel:      settings.LogLevel,
		ListenAddr:    settings.ListenAddr,
		DataDir:       settings.DataDir,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if st, ok := models.ParseSpeechType(fileData.SpeechType); ok {
		settings.SpeechType = st
	}
	switch strings.ToLower(strings.TrimSpace(fileData.Theme)) {
	case "light":
		settings.Theme = "light"
	case "dark":
		settings.Theme = "dark"
	}
	if fileData.CustomMinutes != nil && *fileData.CustomMinutes >= 0 && *fileData.CustomMinutes <= MaxMinutes {
		v := *fileData.CustomMinutes
		settings.CustomMinutes = &v
	}
	if fileData.CustomSeconds != nil && *fileData.CustomSeconds >= 0 && *fileData.CustomSeconds <= MaxSeconds {
		v := *fileData.CustomSeconds
		settings.CustomSeconds = &v
	}
	if level := strings.TrimSpace(fileData.LogLevel); level != "" {
		settings.LogLevel = level
	}
	if addr := strings.TrimSpace(fileData.ListenAddr); addr != "" {
		settings.ListenAddr = addr
	}
	if dir := strings.TrimSpace(fileData.DataDir); dir != "" {
		settings.DataDir = dir
	}
	settings.HideCountdown = fileData.HideCountdown
}

func applyEnv(settings *Settings) {
	if v := strings.TrimSpace(os.Getenv("SPT_LOG_LEVEL")); v != "" {
		settings.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("SPT_DATA_DIR")); v != "" {
		settings.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SPT_LISTEN_ADDR")); v != "" {
		settings.ListenAddr = v
	}
}
