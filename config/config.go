package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"
)

// Config holds every tunable of a lifereel run.
type Config struct {
	Video struct {
		FPS      float64 `yaml:"fps"`
		CellSize int     `yaml:"cellSize"`
		Marker   float64 `yaml:"marker"`
		Width    int     `yaml:"width"`
		Height   int     `yaml:"height"`
		FFmpeg   string  `yaml:"ffmpeg"`
		Codec    string  `yaml:"codec"`
	} `yaml:"video"`
	Colours struct {
		Background string `yaml:"background"`
		Foreground string `yaml:"foreground"`
		Aged       string `yaml:"aged"`
		AgeFrames  int    `yaml:"ageFrames"`
	} `yaml:"colours"`
	Parser struct {
		FlushTrailing bool `yaml:"flushTrailing"`
	} `yaml:"parser"`
	Progress struct {
		Interval int `yaml:"interval"`
	} `yaml:"progress"`
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Progress string `yaml:"progress"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
}

// Default returns the settings used when no config file is given: black
// squares on white at 10 fps.
func Default() Config {
	var c Config
	c.Video.FPS = 10
	c.Video.CellSize = 8
	c.Video.Marker = 0.75
	c.Video.FFmpeg = "ffmpeg"
	c.Video.Codec = "libx264"
	c.Colours.Background = "#ffffff"
	c.Colours.Foreground = "#000000"
	c.Colours.Aged = "#3050c0"
	c.Progress.Interval = 50
	c.Mqtt.Topics.Progress = "lifereel/progress"
	return c
}

// Read decodes YAML from r on top of the defaults.
func Read(r io.Reader) (Config, error) {
	c := Default()
	err := yaml.NewDecoder(r).Decode(&c)
	if err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Load reads a YAML config file.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Validate checks that the values can drive a render.
func (c Config) Validate() error {
	if c.Video.FPS <= 0 {
		return fmt.Errorf("video.fps must be positive, got %v", c.Video.FPS)
	}
	if c.Video.CellSize <= 0 {
		return fmt.Errorf("video.cellSize must be positive, got %d", c.Video.CellSize)
	}
	if c.Video.Marker <= 0 || c.Video.Marker > 1 {
		return fmt.Errorf("video.marker must be in (0, 1], got %v", c.Video.Marker)
	}
	if c.Video.Width < 0 || c.Video.Height < 0 {
		return fmt.Errorf("video size must not be negative, got %dx%d", c.Video.Width, c.Video.Height)
	}
	if (c.Video.Width == 0) != (c.Video.Height == 0) {
		return fmt.Errorf("video.width and video.height must be set together, got %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.Video.FFmpeg == "" {
		return errors.New("video.ffmpeg must name the encoder binary")
	}
	if c.Colours.AgeFrames < 0 {
		return fmt.Errorf("colours.ageFrames must not be negative, got %d", c.Colours.AgeFrames)
	}
	if c.Progress.Interval < 0 {
		return fmt.Errorf("progress.interval must not be negative, got %d", c.Progress.Interval)
	}

	colours := map[string]string{
		"background": c.Colours.Background,
		"foreground": c.Colours.Foreground,
		"aged":       c.Colours.Aged,
	}
	for name, hex := range colours {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("colours.%s: %w", name, err)
		}
	}

	return nil
}
