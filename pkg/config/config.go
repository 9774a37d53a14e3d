// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matrixorigin/mocontainer/pkg/common/moerr"
	"github.com/matrixorigin/mocontainer/pkg/common/mpool"
	"github.com/matrixorigin/mocontainer/pkg/logutil"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	defaultPoolName  = "default"
)

var readFile = os.ReadFile

// MPoolConfig describes the pool vectors allocate from.
type MPoolConfig struct {
	// Name is the tag of the pool in reports and metrics. default: "default"
	Name string `toml:"name"`
	// Cap is the byte limit of the pool. 0 means unlimited.
	Cap int64 `toml:"cap"`
	// Detail records allocations per call site.
	Detail bool `toml:"detail"`
	// DisableMetrics keeps the pool out of the prometheus registry.
	DisableMetrics bool `toml:"disable-metrics"`
}

type Config struct {
	Log   logutil.LogConfig `toml:"log"`
	MPool MPoolConfig       `toml:"mpool"`
}

// LoadConfig decodes the toml file at path. Blank fields get their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, moerr.NewFileNotFoundNoCtx(path)
		}
		return nil, moerr.ConvertGoError(moerr.Context(), err)
	}
	cfg := &Config{}
	if _, err = toml.Decode(string(data), cfg); err != nil {
		return nil, moerr.NewBadConfigNoCtx("decode %s: %v", path, err)
	}
	cfg.SetDefaultValues()
	return cfg, nil
}

func (c *Config) SetDefaultValues() {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if c.MPool.Name == "" {
		c.MPool.Name = defaultPoolName
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs error
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = multierr.Append(errs, errors.Newf("log level %q", c.Log.Level))
	}
	if c.Log.StacktraceLevel != "" {
		if err := lvl.UnmarshalText([]byte(c.Log.StacktraceLevel)); err != nil {
			errs = multierr.Append(errs, errors.Newf("log stacktrace level %q", c.Log.StacktraceLevel))
		}
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = multierr.Append(errs, errors.Newf("log format %q", c.Log.Format))
	}
	if c.Log.MaxSize < 0 || c.Log.MaxDays < 0 || c.Log.MaxBackups < 0 {
		errs = multierr.Append(errs, errors.New("negative log rotation limit"))
	}
	if c.MPool.Cap < 0 {
		errs = multierr.Append(errs, errors.Newf("mpool cap %d", c.MPool.Cap))
	}
	if errs == nil {
		return nil
	}
	return moerr.NewBadConfigNoCtx("%v", errs)
}

// Setup validates c, installs the global logger and creates the pool.
// The caller owns the pool and releases it with mpool.DeleteMPool.
func (c *Config) Setup() (*mpool.MPool, error) {
	c.SetDefaultValues()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logutil.SetupMOLogger(&c.Log)

	flag := 0
	if c.MPool.DisableMetrics {
		flag |= mpool.NoMetrics
	}
	mp, err := mpool.NewMPool(c.MPool.Name, c.MPool.Cap, flag)
	if err != nil {
		return nil, err
	}
	if c.MPool.Detail {
		mp.EnableDetailRecording()
	}
	logutil.Info("mpool created",
		zap.String("name", c.MPool.Name),
		zap.Int64("cap", c.MPool.Cap),
		zap.Bool("detail", c.MPool.Detail),
	)
	return mp, nil
}
