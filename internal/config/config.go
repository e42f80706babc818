package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultStorageKey     = "tasks"
	DefaultLogName        = "todo.log"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "QUICKDO_CONFIG"
	appDir        = "quickdo"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Add          string `toml:"add"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Toggle       string `toml:"toggle"`
	Delete       string `toml:"delete"`
	Detail       string `toml:"detail"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
	Edit         string `toml:"edit"`
	Search       string `toml:"search"`
	Category     string `toml:"category"`
	Sort         string `toml:"sort"`
	ViewList     string `toml:"view_list"`
	ViewGrid     string `toml:"view_grid"`
	ViewCalendar string `toml:"view_calendar"`
	PrevMonth    string `toml:"prev_month"`
	NextMonth    string `toml:"next_month"`
	Voice        string `toml:"voice"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	StorageKey      string `toml:"storage_key"`
	LogPath         string `toml:"log_path"`
	DefaultCategory string `toml:"default_category"`
	DefaultSort     string `toml:"default_sort"`
	DefaultView     string `toml:"default_view"`
	Locale          string `toml:"locale"`
	VoiceCommand    string `toml:"voice_command"`
	VoiceTimeoutSec int    `toml:"voice_timeout_sec"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath picks $QUICKDO_CONFIG, then the user config dir, then
// config.toml in the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDir, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads path, writing the defaults there first when it does
// not exist. Relative db and log paths are resolved against the config
// file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	return cfg.resolve(path), nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults() {
	def := defaultConfig()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.StorageKey == "" {
		c.StorageKey = def.StorageKey
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = def.DefaultCategory
	}
	if c.DefaultSort == "" {
		c.DefaultSort = def.DefaultSort
	}
	if c.DefaultView == "" {
		c.DefaultView = def.DefaultView
	}
	if c.VoiceTimeoutSec <= 0 {
		c.VoiceTimeoutSec = def.VoiceTimeoutSec
	}
	c.Keys.fillDefaults(def.Keys)
}

func (k *Keymap) fillDefaults(def Keymap) {
	fields := []struct {
		v *string
		d string
	}{
		{&k.Quit, def.Quit}, {&k.Add, def.Add}, {&k.Up, def.Up}, {&k.Down, def.Down},
		{&k.Toggle, def.Toggle}, {&k.Delete, def.Delete}, {&k.Detail, def.Detail},
		{&k.Confirm, def.Confirm}, {&k.Cancel, def.Cancel}, {&k.Edit, def.Edit},
		{&k.Search, def.Search}, {&k.Category, def.Category}, {&k.Sort, def.Sort},
		{&k.ViewList, def.ViewList}, {&k.ViewGrid, def.ViewGrid}, {&k.ViewCalendar, def.ViewCalendar},
		{&k.PrevMonth, def.PrevMonth}, {&k.NextMonth, def.NextMonth}, {&k.Voice, def.Voice},
	}
	for _, f := range fields {
		if *f.v == "" {
			*f.v = f.d
		}
	}
}

func (c Config) resolve(configPath string) Config {
	base := filepath.Dir(configPath)
	c.DBPath = resolvePath(base, c.DBPath)
	c.LogPath = resolvePath(base, c.LogPath)
	return c
}

func resolvePath(base, p string) string {
	if p == "" || p == "-" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(base, p)
}

func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		StorageKey:      DefaultStorageKey,
		LogPath:         DefaultLogName,
		DefaultCategory: "all",
		DefaultSort:     "date",
		DefaultView:     "list",
		Locale:          "en",
		VoiceTimeoutSec: 30,
		Keys: Keymap{
			Quit:         "q",
			Add:          "a",
			Up:           "k",
			Down:         "j",
			Toggle:       " ",
			Delete:       "d",
			Detail:       "enter",
			Confirm:      "enter",
			Cancel:       "esc",
			Edit:         "e",
			Search:       "/",
			Category:     "c",
			Sort:         "s",
			ViewList:     "1",
			ViewGrid:     "2",
			ViewCalendar: "3",
			PrevMonth:    "[",
			NextMonth:    "]",
			Voice:        "v",
		},
	}
}
