package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valpere/chattran/internal/apperr"
	"github.com/valpere/chattran/internal/autotrigger"
	"github.com/valpere/chattran/internal/preset"
	"github.com/valpere/chattran/internal/translator"
)

// EnvPrefix prefixes environment overrides, e.g. CHATTRAN_TARGET_LANGUAGE.
const EnvPrefix = "CHATTRAN"

// Keys accepted by Get and Set.
const (
	KeyTargetLanguage    = "target_language"
	KeyConnectionProfile = "connection_profile"
	KeySelectedPreset    = "selected_preset"
	KeyFilterCodeBlock   = "filter_code_block"
	KeyAutoMode          = "auto_mode"
	KeyMaxTokens         = "max_tokens"
)

// Keys lists the scalar settings keys in display order.
var Keys = []string{
	KeyTargetLanguage,
	KeyConnectionProfile,
	KeySelectedPreset,
	KeyFilterCodeBlock,
	KeyAutoMode,
	KeyMaxTokens,
}

// document is the on-disk layout.
type document struct {
	TargetLanguage    string          `mapstructure:"target_language" yaml:"target_language"`
	ConnectionProfile string          `mapstructure:"connection_profile" yaml:"connection_profile"`
	Presets           []preset.Preset `mapstructure:"presets" yaml:"presets"`
	SelectedPreset    int             `mapstructure:"selected_preset" yaml:"selected_preset"`
	FilterCodeBlock   bool            `mapstructure:"filter_code_block" yaml:"filter_code_block"`
	AutoMode          string          `mapstructure:"auto_mode" yaml:"auto_mode"`
	MaxTokens         int             `mapstructure:"max_tokens" yaml:"max_tokens"`
	Profiles          []profileEntry  `mapstructure:"profiles" yaml:"profiles,omitempty"`
}

type profileEntry struct {
	ID       string `mapstructure:"id" yaml:"id"`
	Provider string `mapstructure:"provider" yaml:"provider"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Model    string `mapstructure:"model" yaml:"model,omitempty"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Timeout  string `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// Settings is the process-wide configuration. It is safe for concurrent use;
// readers take a Snapshot and every setter persists immediately.
type Settings struct {
	mu      sync.RWMutex
	path    string
	cfg     Config
	presets *preset.Store
}

// New returns in-memory settings seeded from cfg. Changes are not persisted.
func New(cfg Config) *Settings {
	s := &Settings{}
	s.set(normalize(cfg))
	return s
}

// DefaultPath returns the settings file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "chattran", "settings.yaml"), nil
}

// Load reads settings from path, applying CHATTRAN_* environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault(KeyTargetLanguage, d.TargetLanguage)
	v.SetDefault(KeyConnectionProfile, "")
	v.SetDefault(KeySelectedPreset, 0)
	v.SetDefault(KeyFilterCodeBlock, d.FilterCodeBlock)
	v.SetDefault(KeyAutoMode, string(d.AutoMode))
	v.SetDefault(KeyMaxTokens, d.MaxTokens)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	var doc document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	cfg, err := doc.config()
	if err != nil {
		return nil, err
	}

	s := &Settings{path: path}
	s.set(normalize(cfg))
	return s, nil
}

func (d document) config() (Config, error) {
	mode, err := autotrigger.ParseMode(d.AutoMode)
	if err != nil {
		mode = autotrigger.None
	}

	cfg := Config{
		TargetLanguage:    d.TargetLanguage,
		ConnectionProfile: d.ConnectionProfile,
		Presets:           d.Presets,
		SelectedPreset:    d.SelectedPreset,
		FilterCodeBlock:   d.FilterCodeBlock,
		AutoMode:          mode,
		MaxTokens:         d.MaxTokens,
	}

	for _, e := range d.Profiles {
		p := translator.Profile{
			ID:       e.ID,
			Provider: e.Provider,
			BaseURL:  e.BaseURL,
			Model:    e.Model,
			APIKey:   e.APIKey,
		}
		if e.Timeout != "" {
			timeout, err := time.ParseDuration(e.Timeout)
			if err != nil {
				return Config{}, fmt.Errorf("profile %q: invalid timeout %q: %w", e.ID, e.Timeout, err)
			}
			p.Timeout = timeout
		}
		cfg.Profiles = append(cfg.Profiles, p)
	}

	return cfg, nil
}

func newDocument(c Config) document {
	d := document{
		TargetLanguage:    c.TargetLanguage,
		ConnectionProfile: c.ConnectionProfile,
		Presets:           c.Presets,
		SelectedPreset:    c.SelectedPreset,
		FilterCodeBlock:   c.FilterCodeBlock,
		AutoMode:          string(c.AutoMode),
		MaxTokens:         c.MaxTokens,
	}
	for _, p := range c.Profiles {
		e := profileEntry{
			ID:       p.ID,
			Provider: p.Provider,
			BaseURL:  p.BaseURL,
			Model:    p.Model,
			APIKey:   p.APIKey,
		}
		if p.Timeout > 0 {
			e.Timeout = p.Timeout.String()
		}
		d.Profiles = append(d.Profiles, e)
	}
	return d
}

// normalize repairs configurations written by older versions or by hand.
func normalize(c Config) Config {
	store := preset.NewStore(c.Presets, c.SelectedPreset)
	c.Presets = store.List()
	c.SelectedPreset = store.SelectedIndex()
	if _, err := autotrigger.ParseMode(string(c.AutoMode)); err != nil || c.AutoMode == "" {
		c.AutoMode = autotrigger.None
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return c
}

func (s *Settings) set(c Config) {
	s.presets = preset.NewStore(c.Presets, c.SelectedPreset)
	c.Presets = nil
	s.cfg = c
}

// Path returns the settings file, or "" for in-memory settings.
func (s *Settings) Path() string {
	return s.path
}

// Snapshot returns a copy of the current configuration.
func (s *Settings) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Settings) snapshot() Config {
	c := s.cfg.clone()
	c.Presets = s.presets.List()
	c.SelectedPreset = s.presets.SelectedIndex()
	return c
}

// Profile implements translator.ProfileSource.
func (s *Settings) Profile(id string) (translator.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Profile(id)
}

// Save writes the settings file.
func (s *Settings) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save()
}

func (s *Settings) save() error {
	if s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(newDocument(s.snapshot()))
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

// update applies fn under the write lock and persists on success.
func (s *Settings) update(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	return s.save()
}

func (s *Settings) SetTargetLanguage(lang string) error {
	return s.update(func() error {
		s.cfg.TargetLanguage = strings.TrimSpace(lang)
		return nil
	})
}

func (s *Settings) SetConnectionProfile(id string) error {
	return s.update(func() error {
		s.cfg.ConnectionProfile = strings.TrimSpace(id)
		return nil
	})
}

func (s *Settings) SetFilterCodeBlock(enabled bool) error {
	return s.update(func() error {
		s.cfg.FilterCodeBlock = enabled
		return nil
	})
}

func (s *Settings) SetAutoMode(mode autotrigger.Mode) error {
	if _, err := autotrigger.ParseMode(string(mode)); err != nil {
		return apperr.Wrap(err, apperr.KindInvalidArgument, "invalid auto mode")
	}
	return s.update(func() error {
		s.cfg.AutoMode = mode
		return nil
	})
}

// SetMaxTokens stores n, falling back to the default for non-positive values.
func (s *Settings) SetMaxTokens(n int) error {
	if n <= 0 {
		n = DefaultMaxTokens
	}
	return s.update(func() error {
		s.cfg.MaxTokens = n
		return nil
	})
}

// Get returns a scalar setting formatted as text.
func (s *Settings) Get(key string) (string, error) {
	c := s.Snapshot()
	switch key {
	case KeyTargetLanguage:
		return c.TargetLanguage, nil
	case KeyConnectionProfile:
		return c.ConnectionProfile, nil
	case KeySelectedPreset:
		return strconv.Itoa(c.SelectedPreset), nil
	case KeyFilterCodeBlock:
		return strconv.FormatBool(c.FilterCodeBlock), nil
	case KeyAutoMode:
		return string(c.AutoMode), nil
	case KeyMaxTokens:
		return strconv.Itoa(c.MaxTokens), nil
	default:
		return "", unknownKey(key)
	}
}

// Set parses value and stores it under key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyTargetLanguage:
		return s.SetTargetLanguage(value)
	case KeyConnectionProfile:
		return s.SetConnectionProfile(value)
	case KeySelectedPreset:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return apperr.Wrap(err, apperr.KindInvalidArgument, "invalid preset index")
		}
		return s.SelectPreset(n)
	case KeyFilterCodeBlock:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return apperr.Wrap(err, apperr.KindInvalidArgument, "invalid boolean")
		}
		return s.SetFilterCodeBlock(b)
	case KeyAutoMode:
		mode, err := autotrigger.ParseMode(value)
		if err != nil {
			return apperr.Wrap(err, apperr.KindInvalidArgument, "invalid auto mode")
		}
		return s.SetAutoMode(mode)
	case KeyMaxTokens:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			n = DefaultMaxTokens
		}
		return s.SetMaxTokens(n)
	default:
		return unknownKey(key)
	}
}

func unknownKey(key string) error {
	return apperr.Newf(apperr.KindInvalidArgument, "unknown setting %q (want one of %s)", key, strings.Join(Keys, ", "))
}
