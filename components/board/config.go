package board

import (
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "/dev/gpiochip4"

// Config describes which GPIO chip a Linux board opens and how.
type Config struct {
	Chip          string `json:"chip,omitempty"`
	UsePeriphGpio bool   `json:"use_periph_gpio,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (config *Config) Validate(path string) error {
	if config.UsePeriphGpio {
		return nil
	}
	if config.Chip != "" && !strings.HasPrefix(config.Chip, "/dev/") {
		return utils.NewConfigValidationError(path, errors.Errorf("chip %q must be a device path", config.Chip))
	}
	return nil
}

// ChipPath returns the configured chip device, or DefaultChip.
func (config *Config) ChipPath() string {
	if config.Chip == "" {
		return DefaultChip
	}
	return config.Chip
}
