package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Walrus Walrus   `yaml:"walrus"`
	Ledger Ledger   `yaml:"ledger"`
	Signer Signer   `yaml:"signer"`
	JwtTTL Duration `yaml:"jwt_ttl"`
	// RequestTimeout bounds every remote call against either store.
	RequestTimeout Duration `yaml:"request_timeout"`
	// BlobFetchLimit caps concurrent blob retrievals inside a single load.
	BlobFetchLimit int      `yaml:"blob_fetch_limit"`
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Duration supports YAML values like "10s" or plain numbers (seconds).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// Numbers first: yaml decodes a bare 15 into a string as "15", which
	// ParseDuration would refuse.
	var seconds float64
	if err := unmarshal(&seconds); err == nil {
		*d = Duration(time.Duration(seconds * float64(time.Second)))
		return nil
	}
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

type Walrus struct {
	PublisherURL  string `yaml:"publisher_url"`
	AggregatorURL string `yaml:"aggregator_url"`
}

type Ledger struct {
	RPCURL          string `yaml:"rpc_url"`
	ContractAddress string `yaml:"contract_address"`
	ChainId         int64  `yaml:"chain_id"`
}

type Signer struct {
	URL string `yaml:"url"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
}

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL.Duration()
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (s *Config) applyDefaults() {
	if s.Public.RequestTimeout == 0 {
		s.Public.RequestTimeout = Duration(10 * time.Second)
	}
	if s.Public.BlobFetchLimit <= 0 {
		s.Public.BlobFetchLimit = 8
	}
	if s.Public.LogLevel == "" {
		s.Public.LogLevel = "info"
	}
}
