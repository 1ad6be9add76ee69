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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviszhen/rexgen/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	initRootCmd()
	initDeriveCmd()
	initSpecialCmd()
	initTranslateCmd()
}

var rexcCfg = util.DefaultConfig()
var cfgFile string

///root cmd

var info = "rexc compiles relational expressions into Go fragments"
var RootCmd = &cobra.Command{
	Use:          "rexc",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initCfg()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "use rexc --help or -h")
	},
}

func initRootCmd() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file. default ./rexc.toml or etc/rexc/rexc.toml")
	flags.Int("max_precision", util.DefaultMaxPrecision, "max decimal precision")
	flags.Int("max_scale", util.DefaultMaxScale, "max decimal scale")
	flags.String("log_level", "info", "log level")

	viper.BindPFlag("typeSystem.maxPrecision", flags.Lookup("max_precision"))
	viper.BindPFlag("typeSystem.maxScale", flags.Lookup("max_scale"))
	viper.BindPFlag("log.level", flags.Lookup("log_level"))
}

// initCfg copies viper settings over the defaults.
func initCfg() error {
	def := util.DefaultConfig()
	viper.SetDefault("decimal.productScaleCap", def.Decimal.ProductScaleCap)
	viper.SetDefault("decimal.minQuotientScale", def.Decimal.MinQuotientScale)
	viper.SetDefault("decimal.quotientScaleCap", def.Decimal.QuotientScaleCap)
	viper.SetDefault("log.format", def.Log.Format)
	viper.SetDefault("log.maxSize", def.Log.MaxSize)
	viper.SetDefault("log.maxBackups", def.Log.MaxBackups)
	viper.SetDefault("log.maxAge", def.Log.MaxAge)
	viper.SetDefault("codegen.parallelism", def.Codegen.Parallelism)

	rexcCfg.TypeSystem.MaxPrecision = viper.GetInt("typeSystem.maxPrecision")
	rexcCfg.TypeSystem.MaxScale = viper.GetInt("typeSystem.maxScale")
	rexcCfg.Decimal.ProductScaleCap = viper.GetInt("decimal.productScaleCap")
	rexcCfg.Decimal.MinQuotientScale = viper.GetInt("decimal.minQuotientScale")
	rexcCfg.Decimal.QuotientScaleCap = viper.GetInt("decimal.quotientScaleCap")
	rexcCfg.Log.Level = viper.GetString("log.level")
	rexcCfg.Log.Format = viper.GetString("log.format")
	rexcCfg.Log.File = viper.GetString("log.file")
	rexcCfg.Log.MaxSize = viper.GetInt("log.maxSize")
	rexcCfg.Log.MaxBackups = viper.GetInt("log.maxBackups")
	rexcCfg.Log.MaxAge = viper.GetInt("log.maxAge")
	rexcCfg.Log.Compress = viper.GetBool("log.compress")
	rexcCfg.Codegen.Parallelism = viper.GetInt("codegen.parallelism")
	rexcCfg.Codegen.PrintTree = viper.GetBool("codegen.printTree")

	if err := rexcCfg.Validate(); err != nil {
		return err
	}
	return util.InitLogger(rexcCfg.Log)
}

var defCfgFilePaths = []string{".", "etc/rexc"}
var cfgFileName = "rexc.toml"

// loadConfig reads the config file. Without one every setting keeps its
// default.
func loadConfig() {
	paths := make([]string, 0, len(defCfgFilePaths))
	if cfgFile != "" {
		paths = append(paths, cfgFile)
	} else {
		for _, dirPath := range defCfgFilePaths {
			paths = append(paths, filepath.Join(dirPath, cfgFileName))
		}
	}
	for _, fpath := range paths {
		if !util.FileIsValid(fpath) {
			continue
		}
		viper.SetConfigFile(fpath)
		err := viper.ReadInConfig()
		if err != nil {
			util.Error("viper load config file failed",
				zap.String("fpath", fpath),
				zap.Error(err))
			continue
		}
		util.Debug("config loaded", zap.String("fpath", fpath))
		return
	}
	if cfgFile != "" {
		util.Error("config file does not exist", zap.String("fpath", cfgFile))
		os.Exit(1)
	}
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
