// Package config loads viewer settings from YAML on top of defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"xwebview/compositor"
	"xwebview/input"
)

const (
	DefaultPort          = 8080
	DefaultViewportWidth = 1920
	DefaultHTTPAddr      = ":5123"
)

type Config struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Path          string `yaml:"path"`
	ViewportWidth int    `yaml:"viewport_width"`
	Compression   string `yaml:"compression"`
	LengthCheck   string `yaml:"length_check"`
	EscapeKey     string `yaml:"escape_key"`
	HTTPAddr      string `yaml:"http_addr"`

	RecordPath     string        `yaml:"record_path"`
	ReplayPath     string        `yaml:"replay_path"`
	ReplayInterval time.Duration `yaml:"replay_interval"`

	Debug bool `yaml:"debug"`
}

func Default() Config {
	return Config{
		Host:          "localhost",
		Port:          DefaultPort,
		ViewportWidth: DefaultViewportWidth,
		Compression:   compositor.CompressionLZ4,
		LengthCheck:   string(compositor.CheckDecompressed),
		EscapeKey:     input.DefaultEscapeKey,
		HTTPAddr:      DefaultHTTPAddr,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.ReplayPath == "" && c.Host == "" {
		errs = append(errs, errors.New("host is required unless replaying"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.ViewportWidth <= 0 {
		errs = append(errs, fmt.Errorf("viewport_width must be positive, got %d", c.ViewportWidth))
	}
	switch c.Compression {
	case compositor.CompressionLZ4, compositor.CompressionLZ4Block, compositor.CompressionZstd, compositor.CompressionNone:
	default:
		errs = append(errs, fmt.Errorf("unknown compression %q", c.Compression))
	}
	switch compositor.LengthCheck(c.LengthCheck) {
	case compositor.CheckDecompressed, compositor.CheckCompressed:
	default:
		errs = append(errs, fmt.Errorf("unknown length_check %q", c.LengthCheck))
	}
	if c.ReplayInterval < 0 {
		errs = append(errs, errors.New("replay_interval must not be negative"))
	}
	if c.RecordPath != "" && c.ReplayPath != "" {
		errs = append(errs, errors.New("record_path and replay_path are exclusive"))
	}
	return errors.Join(errs...)
}
