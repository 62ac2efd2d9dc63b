package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Algorithm names a supported hashing scheme.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// Argon2Params tunes argon2id. Memory is in KiB.
type Argon2Params struct {
	Time    uint32 `yaml:"time" mapstructure:"time"`
	Memory  uint32 `yaml:"memory" mapstructure:"memory"`
	Threads uint8  `yaml:"threads" mapstructure:"threads"`
}

var defaultArgon2 = Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4}

// Config selects the hashing algorithm and its cost.
type Config struct {
	Algorithm  Algorithm    `yaml:"algorithm" mapstructure:"algorithm"`
	BcryptCost int          `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	Argon2     Argon2Params `yaml:"argon2" mapstructure:"argon2"`
}

// ApplyDefaults fills zero fields: bcrypt at cost 10, argon2id at 1 pass,
// 64 MiB, 4 lanes.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = DefaultBcryptCost
	}
	if c.Argon2.Time == 0 {
		c.Argon2.Time = defaultArgon2.Time
	}
	if c.Argon2.Memory == 0 {
		c.Argon2.Memory = defaultArgon2.Memory
	}
	if c.Argon2.Threads == 0 {
		c.Argon2.Threads = defaultArgon2.Threads
	}
}

func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBcrypt:
		if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("auth.password.bcrypt_cost out of range [%d, %d]: %d",
				bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
		}
	case AlgorithmArgon2id:
		// argon2 requires at least 8 KiB per lane.
		if c.Argon2.Memory < 8*uint32(c.Argon2.Threads) {
			return fmt.Errorf("auth.password.argon2.memory too small for %d threads: %d KiB",
				c.Argon2.Threads, c.Argon2.Memory)
		}
	default:
		return fmt.Errorf("auth.password.algorithm %q is not supported", c.Algorithm)
	}
	return nil
}

// NewHasher builds the Hasher the config selects.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	if cfg.Algorithm == AlgorithmArgon2id {
		p := cfg.Argon2
		return NewArgon2Hasher(WithArgon2Time(p.Time), WithArgon2Memory(p.Memory), WithArgon2Threads(p.Threads))
	}
	return NewBcryptHasher(WithCost(cfg.BcryptCost))
}
