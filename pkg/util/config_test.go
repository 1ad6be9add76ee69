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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 19, cfg.TypeSystem.MaxPrecision)
	assert.Equal(t, 6, cfg.Decimal.ProductScaleCap)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "rexc.toml")
	data := `
[typeSystem]
maxPrecision = 18
maxScale = 18

[decimal]
productScaleCap = 4

[codegen]
parallelism = 2
printTree = true
`
	require.NoError(t, os.WriteFile(fpath, []byte(data), 0644))

	cfg, err := LoadConfig(fpath)
	require.NoError(t, err)
	assert.Equal(t, 18, cfg.TypeSystem.MaxPrecision)
	assert.Equal(t, 18, cfg.TypeSystem.MaxScale)
	assert.Equal(t, 4, cfg.Decimal.ProductScaleCap)
	//untouched keys keep defaults
	assert.Equal(t, DefaultQuotientScaleCap, cfg.Decimal.QuotientScaleCap)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Codegen.Parallelism)
	assert.True(t, cfg.Codegen.PrintTree)
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := LoadConfig("../../etc/rexc/rexc.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	fpath := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(fpath, []byte("[typeSystem]\nmaxScale = 30\n"), 0644))
	_, err = LoadConfig(fpath)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	type args struct {
		name   string
		modify func(cfg *Config)
	}
	tests := []args{
		{
			name:   "non positive precision",
			modify: func(cfg *Config) { cfg.TypeSystem.MaxPrecision = 0 },
		},
		{
			name:   "scale above precision",
			modify: func(cfg *Config) { cfg.TypeSystem.MaxScale = 20 },
		},
		{
			name:   "product cap above scale",
			modify: func(cfg *Config) { cfg.Decimal.ProductScaleCap = 20 },
		},
		{
			name:   "min quotient scale above cap",
			modify: func(cfg *Config) { cfg.Decimal.MinQuotientScale = 7 },
		},
		{
			name: "zero quotient cap",
			modify: func(cfg *Config) {
				cfg.Decimal.MinQuotientScale = 0
				cfg.Decimal.QuotientScaleCap = 0
			},
		},
		{
			name:   "quotient cap leaves no integer digit",
			modify: func(cfg *Config) { cfg.TypeSystem.MaxPrecision = 6; cfg.TypeSystem.MaxScale = 6 },
		},
		{
			name:   "no parallelism",
			modify: func(cfg *Config) { cfg.Codegen.Parallelism = 0 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
