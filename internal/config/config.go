package config

import (
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/fleshka4/amm-pool/internal/apperrors"
)

// Config holds application configuration loaded from file.
type Config struct {
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	LogLevel          string        `yaml:"log_level"`

	AssetX      common.Address `yaml:"asset_x"`
	AssetY      common.Address `yaml:"asset_y"`
	PoolAccount common.Address `yaml:"pool_account"`

	// RPCURL enables the on-chain custody audit when set.
	RPCURL      string        `yaml:"rpc_url"`
	CallTimeout time.Duration `yaml:"call_timeout"`

	Influx  Influx    `yaml:"influx"`
	Genesis []Balance `yaml:"genesis"`
}

// Influx configures the record sink. It is disabled when URL is empty.
type Influx struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// Balance is an initial ledger credit.
type Balance struct {
	Asset   common.Address `yaml:"asset"`
	Account common.Address `yaml:"account"`
	Amount  Amount         `yaml:"amount"`
}

// Amount is a base-10 integer of arbitrary size.
type Amount struct {
	*big.Int
}

// UnmarshalYAML accepts both quoted and bare integers.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	v, ok := new(big.Int).SetString(node.Value, 10)
	if !ok {
		return errors.Errorf("line %d: %q is not a base-10 integer", node.Line, node.Value)
	}
	a.Int = v
	return nil
}

// Load reads the config from a YAML file path, applies defaults and validates it.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "os.Open")
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoder.Decode")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	const defaultTimeout = 5 * time.Second
	if c.ListenAddr == "" {
		c.ListenAddr = ":1337"
	}
	if c.GraceTimeout == 0 {
		c.GraceTimeout = defaultTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultTimeout
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = defaultTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the fields the pool cannot start without.
func (c *Config) Validate() error {
	var zero common.Address
	switch {
	case c.AssetX == zero || c.AssetY == zero:
		return errors.Wrap(apperrors.ErrInvalidConfiguration, "asset_x and asset_y are required")
	case c.AssetX == c.AssetY:
		return errors.Wrap(apperrors.ErrInvalidConfiguration, "asset_x and asset_y must differ")
	case c.PoolAccount == zero:
		return errors.Wrap(apperrors.ErrInvalidConfiguration, "pool_account is required")
	}

	if c.Influx.URL != "" && (c.Influx.Org == "" || c.Influx.Bucket == "") {
		return errors.Wrap(apperrors.ErrInvalidConfiguration, "influx org and bucket are required with influx url")
	}

	for i, b := range c.Genesis {
		if b.Account == zero || b.Asset == zero {
			return errors.Wrapf(apperrors.ErrInvalidConfiguration, "genesis[%d]: asset and account are required", i)
		}
		if b.Amount.Int == nil || b.Amount.Sign() < 0 {
			return errors.Wrapf(apperrors.ErrInvalidConfiguration, "genesis[%d]: amount must be non-negative", i)
		}
	}
	return nil
}
