package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"tienlenmn/internal/bot"
	"tienlenmn/internal/domain"
)

const (
	DefaultBotThinkMillis = 1500
	DefaultHumanSeat      = 0
	DefaultHumanName      = "You"
)

// SeatConfig describes who sits in a seat.
type SeatConfig struct {
	Name     string
	BotLevel bot.Level
}

// GameConfig is the resolved table configuration.
type GameConfig struct {
	BotThinkDelay time.Duration
	// HumanSeat is domain.NoSeat when every seat is a bot.
	HumanSeat domain.Seat
	// Seed of the first deal; zero means time seeded.
	Seed  int64
	Seats [domain.NumPlayers]SeatConfig
}

// fileConfig mirrors the file layout. Pointers tell an explicit zero apart from a missing attribute.
type fileConfig struct {
	BotThinkMillis *int       `hcl:"bot_think_millis,optional"`
	HumanSeat      *int       `hcl:"human_seat,optional"`
	Seed           *int64     `hcl:"seed,optional"`
	Seats          []fileSeat `hcl:"seat,block"`
}

type fileSeat struct {
	Index    string `hcl:"index,label"`
	Name     string `hcl:"name,optional"`
	BotLevel string `hcl:"bot_level,optional"`
}

// Default returns the built-in configuration: a human in seat 0 against three greedy bots.
func Default() *GameConfig {
	return &GameConfig{
		BotThinkDelay: DefaultBotThinkMillis * time.Millisecond,
		HumanSeat:     DefaultHumanSeat,
		Seats:         defaultSeats(DefaultHumanSeat),
	}
}

func defaultSeats(human domain.Seat) [domain.NumPlayers]SeatConfig {
	var seats [domain.NumPlayers]SeatConfig
	for i := range seats {
		seats[i] = SeatConfig{Name: fmt.Sprintf("Player %d", i), BotLevel: bot.LevelGreedy}
	}
	if human.Valid() {
		seats[human].Name = DefaultHumanName
	}
	return seats
}

// Names returns the display name of every seat.
func (c *GameConfig) Names() [domain.NumPlayers]string {
	var names [domain.NumPlayers]string
	for i, s := range c.Seats {
		names[i] = s.Name
	}
	return names
}

// Validate checks the resolved configuration.
func (c *GameConfig) Validate() error {
	if c.BotThinkDelay < 0 {
		return fmt.Errorf("bot think time must not be negative: %s", c.BotThinkDelay)
	}
	if c.HumanSeat != domain.NoSeat && !c.HumanSeat.Valid() {
		return fmt.Errorf("human seat must be between 0 and %d or -1, got %d", domain.NumPlayers-1, int(c.HumanSeat))
	}
	for i, s := range c.Seats {
		if s.Name == "" {
			return fmt.Errorf("seat %d: name must not be empty", i)
		}
		if _, err := bot.ParseLevel(string(s.BotLevel)); err != nil {
			return fmt.Errorf("seat %d: %w", i, err)
		}
	}
	return nil
}

// Decode parses a configuration file body. Files ending in .json use HCL's JSON syntax,
// everything else HCL native syntax. Missing values take their defaults.
func Decode(filename string, src []byte) (*GameConfig, error) {
	parser := hclparse.NewParser()
	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		file, diags = parser.ParseJSON(src, filename)
	} else {
		file, diags = parser.ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse game config: %s", diags.Error())
	}

	var raw fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode game config: %s", diags.Error())
	}

	c := Default()
	if raw.BotThinkMillis != nil {
		c.BotThinkDelay = time.Duration(*raw.BotThinkMillis) * time.Millisecond
	}
	if raw.HumanSeat != nil {
		c.HumanSeat = domain.Seat(*raw.HumanSeat)
		c.Seats = defaultSeats(c.HumanSeat)
	}
	if raw.Seed != nil {
		c.Seed = *raw.Seed
	}

	var seen [domain.NumPlayers]bool
	for _, s := range raw.Seats {
		idx, err := strconv.Atoi(s.Index)
		if err != nil || !domain.Seat(idx).Valid() {
			return nil, fmt.Errorf("seat %q: index must be between 0 and %d", s.Index, domain.NumPlayers-1)
		}
		if seen[idx] {
			return nil, fmt.Errorf("seat %d: declared more than once", idx)
		}
		seen[idx] = true
		if s.Name != "" {
			c.Seats[idx].Name = s.Name
		}
		if s.BotLevel != "" {
			level, err := bot.ParseLevel(s.BotLevel)
			if err != nil {
				return nil, fmt.Errorf("seat %d: %w", idx, err)
			}
			c.Seats[idx].BotLevel = level
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and decodes the file at path. A missing file yields the defaults.
func Load(path string) (*GameConfig, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	return Decode(path, src)
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		cfg, loadErr = Load(path)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults before a successful load.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}
