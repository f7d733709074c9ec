package config

import (
	"os"
	"strings"

	"codeberg.org/nording/hrvctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultScanTimeout     = 10  // seconds
	defaultIBIHistory      = 60  // seconds
	defaultHRVHistory      = 150 // seconds
	defaultHRVWindow       = 30  // seconds
	defaultPacerInterval   = 50  // milliseconds
	defaultSnapshotPeriod  = 1   // seconds
	defaultPublishChannel  = "hrvctl"
	defaultSessionDBPath   = "hrvctl-session.db"
	defaultUIListenAddress = "localhost:8737"
)

type SensorConfig struct {
	ScanTimeout int `mapstructure:"scan_timeout"` // seconds
	IBIHistory  int `mapstructure:"ibi_history"`  // seconds retained in the IBI buffer
	HRVHistory  int `mapstructure:"hrv_history"`  // seconds retained in the HRV buffer
	HRVWindow   int `mapstructure:"hrv_window"`   // trailing window for the rolling HRV estimate
}

type PacerConfig struct {
	Interval int `mapstructure:"interval"` // milliseconds between waveform ticks
}

type RecorderConfig struct {
	Directory string `mapstructure:"directory"`
	Overwrite bool   `mapstructure:"overwrite"`
}

type PublisherConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Transport string `mapstructure:"transport"` // "redis" or "mqtt"
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	ClientID  string `mapstructure:"client_id"`
	Channel   string `mapstructure:"channel"` // channel/topic prefix
}

type SessionConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"database"`
	Period  int    `mapstructure:"period"` // seconds between snapshots
}

type UIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	Debug     bool            `mapstructure:"debug"`
	Verbose   bool            `mapstructure:"verbose"`
	Simulated bool            `mapstructure:"simulated"`
	Monitor   bool            `mapstructure:"monitor"`
	Sensor    SensorConfig    `mapstructure:"sensor"`
	Pacer     PacerConfig     `mapstructure:"pacer"`
	Recorder  RecorderConfig  `mapstructure:"recorder"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	Session   SessionConfig   `mapstructure:"session"`
	UI        UIConfig        `mapstructure:"ui"`
}

// Load reads configuration from flags, the HRVCTL_CONFIG file (or
// hrvctl.toml on the search path), and defaults, in that precedence.
func Load() (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet("hrvctl", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.String("config", "", "Path to configuration file")
	fs.String("log_level", "", "Log level (debug, info, warn, error)")
	fs.Bool("debug", false, "Enable debug logging")
	fs.Bool("verbose", false, "Enable verbose logging")
	fs.Bool("simulated", false, "Use the simulated sensor transport")
	fs.Bool("monitor", false, "Log model updates without driving any sink")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	if err := v.BindPFlags(fs); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if err := readConfigFile(v, fs); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = v.GetString("log_level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	errFactory := errors.New()

	configPath, _ := fs.GetString("config")
	if configPath == "" {
		configPath = os.Getenv("HRVCTL_CONFIG")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("hrvctl")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if configPath == "" && os.IsNotExist(err) {
			return nil
		}

		return errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file: "+err.Error())
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("sensor.scan_timeout", defaultScanTimeout)
	v.SetDefault("sensor.ibi_history", defaultIBIHistory)
	v.SetDefault("sensor.hrv_history", defaultHRVHistory)
	v.SetDefault("sensor.hrv_window", defaultHRVWindow)
	v.SetDefault("pacer.interval", defaultPacerInterval)
	v.SetDefault("recorder.directory", ".")
	v.SetDefault("recorder.overwrite", false)
	v.SetDefault("publisher.enabled", true)
	v.SetDefault("publisher.transport", "redis")
	v.SetDefault("publisher.address", "localhost:6379")
	v.SetDefault("publisher.channel", defaultPublishChannel)
	v.SetDefault("session.enabled", false)
	v.SetDefault("session.database", defaultSessionDBPath)
	v.SetDefault("session.period", defaultSnapshotPeriod)
	v.SetDefault("ui.enabled", false)
	v.SetDefault("ui.listen", defaultUIListenAddress)
}

// Validate checks the loaded configuration for values no component can
// operate with. Bounded user scalars are not checked here; they clamp.
func (c *Config) Validate() error {
	errFactory := errors.New()

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Sensor.ScanTimeout <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "sensor.scan_timeout must be positive")
	}
	if c.Sensor.IBIHistory <= 0 || c.Sensor.HRVHistory <= 0 || c.Sensor.HRVWindow <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "sensor history windows must be positive")
	}
	if c.Pacer.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "pacer.interval must be positive")
	}
	if c.Publisher.Enabled {
		switch c.Publisher.Transport {
		case "redis", "mqtt":
		default:
			return errFactory.WithData(errors.ErrInvalidConfig, "publisher.transport must be redis or mqtt")
		}
		if c.Publisher.Address == "" {
			return errFactory.WithData(errors.ErrInvalidConfig, "publisher.address must be set")
		}
	}
	if c.Session.Enabled && c.Session.Period <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "session.period must be positive")
	}

	return nil
}
