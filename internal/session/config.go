package session

import (
	"time"

	"codeberg.org/nording/hrvctl/internal/errors"
)

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "hrvctl-session.db"
	defaultPeriod  = time.Second
)

type Config struct {
	Enabled bool
	DBPath  string
	Period  time.Duration
}

func DefaultConfig() Config {
	return Config{
		DBPath: defaultDBPath,
		Period: defaultPeriod,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled {
		return nil
	}
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.Period <= 0 {
		return errFactory.WithData(ErrInvalidConfig, "snapshot period must be positive")
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
