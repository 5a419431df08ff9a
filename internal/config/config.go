package config

import (
	"cmp"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

const _timeoutDefault = 10 * time.Second

func (c *APIConfig) Setup() error {
	if c.BaseURL == "" {
		return fmt.Errorf("api base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		c.Timeout = _timeoutDefault
	}
	return nil
}

type EngineConfig struct {
	PricePollInterval   time.Duration `yaml:"price_poll_interval"`
	AccountPollInterval time.Duration `yaml:"account_poll_interval"`
	HistoryLimit        int           `yaml:"history_limit"`
}

const (
	_pricePollIntervalDefault   = 2 * time.Second
	_accountPollIntervalDefault = 5 * time.Second
	_historyLimitDefault        = 50
)

func (c *EngineConfig) Setup() {
	if c.PricePollInterval <= 0 {
		c.PricePollInterval = _pricePollIntervalDefault
	}
	if c.AccountPollInterval <= 0 {
		c.AccountPollInterval = _accountPollIntervalDefault
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = _historyLimitDefault
	}
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

const _storePathDefault = "./fx-terminal.db"

func (c *StoreConfig) Setup() {
	c.Path = cmp.Or(c.Path, _storePathDefault)
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

const _portDefault = "8608"

func (c *ServerConfig) Setup() {
	c.Port = cmp.Or(c.Port, _portDefault)
}

type TerminalConfig struct {
	API    APIConfig    `yaml:"api"`
	Engine EngineConfig `yaml:"engine"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
}

func (c *TerminalConfig) ValidateAndSetup() error {
	if err := c.API.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup api cfg", err)
	}
	c.Engine.Setup()
	c.Store.Setup()
	c.Server.Setup()
	return nil
}

func LoadTerminalConfig(filename string) (TerminalConfig, error) {
	var cfg TerminalConfig
	input, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}

// Credentials are kept out of the config file; they come from the
// environment (loaded from .env in main).
type Credentials struct {
	Email    string
	Password string
}

func LoadCredentialsFromEnv() Credentials {
	return Credentials{
		Email:    os.Getenv("FX_TERMINAL_EMAIL"),
		Password: os.Getenv("FX_TERMINAL_PASSWORD"),
	}
}
