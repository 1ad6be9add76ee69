// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultMaxPrecision matches the widest coefficient of the decimal
	// runtime (govalues/decimal MaxPrec).
	DefaultMaxPrecision = 19
	DefaultMaxScale     = 19

	DefaultProductScaleCap  = 6
	DefaultMinQuotientScale = 6
	DefaultQuotientScaleCap = 6
)

type TypeSystemOptions struct {
	MaxPrecision int `toml:"maxPrecision"`
	MaxScale     int `toml:"maxScale"`
}

type DecimalOptions struct {
	ProductScaleCap  int `toml:"productScaleCap"`
	MinQuotientScale int `toml:"minQuotientScale"`
	QuotientScaleCap int `toml:"quotientScaleCap"`
}

type LogOptions struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
	Compress   bool   `toml:"compress"`
}

type CodegenOptions struct {
	Parallelism int  `toml:"parallelism"`
	PrintTree   bool `toml:"printTree"`
}

type Config struct {
	TypeSystem TypeSystemOptions `toml:"typeSystem"`
	Decimal    DecimalOptions    `toml:"decimal"`
	Log        LogOptions        `toml:"log"`
	Codegen    CodegenOptions    `toml:"codegen"`
}

func DefaultConfig() *Config {
	return &Config{
		TypeSystem: TypeSystemOptions{
			MaxPrecision: DefaultMaxPrecision,
			MaxScale:     DefaultMaxScale,
		},
		Decimal: DecimalOptions{
			ProductScaleCap:  DefaultProductScaleCap,
			MinQuotientScale: DefaultMinQuotientScale,
			QuotientScaleCap: DefaultQuotientScaleCap,
		},
		Log: LogOptions{
			Level:      "info",
			Format:     "console",
			MaxSize:    64,
			MaxBackups: 4,
			MaxAge:     7,
		},
		Codegen: CodegenOptions{
			Parallelism: 4,
		},
	}
}

// LoadConfig decodes a toml file over the defaults. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	ts := cfg.TypeSystem
	if ts.MaxPrecision <= 0 {
		return fmt.Errorf("typeSystem.maxPrecision must be positive, got %d", ts.MaxPrecision)
	}
	if ts.MaxScale < 0 || ts.MaxScale > ts.MaxPrecision {
		return fmt.Errorf("typeSystem.maxScale %d out of [0,%d]", ts.MaxScale, ts.MaxPrecision)
	}
	dec := cfg.Decimal
	if dec.ProductScaleCap < 0 || dec.ProductScaleCap > ts.MaxScale {
		return fmt.Errorf("decimal.productScaleCap %d out of [0,%d]", dec.ProductScaleCap, ts.MaxScale)
	}
	if dec.MinQuotientScale < 0 || dec.MinQuotientScale > dec.QuotientScaleCap {
		return fmt.Errorf("decimal.minQuotientScale %d out of [0,%d]", dec.MinQuotientScale, dec.QuotientScaleCap)
	}
	// a quotient keeps at least one fractional digit and one integer digit
	if dec.QuotientScaleCap < 1 ||
		dec.QuotientScaleCap >= ts.MaxPrecision ||
		dec.QuotientScaleCap > ts.MaxScale {
		return fmt.Errorf("decimal.quotientScaleCap %d out of [1,%d)",
			dec.QuotientScaleCap, min(ts.MaxPrecision, ts.MaxScale+1))
	}
	if cfg.Codegen.Parallelism < 1 {
		return fmt.Errorf("codegen.parallelism must be at least 1, got %d", cfg.Codegen.Parallelism)
	}
	return nil
}
