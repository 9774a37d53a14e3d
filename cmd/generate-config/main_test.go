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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocontainer/pkg/config"
)

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.toml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, generate(f))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[log]")
	require.Contains(t, string(data), "[mpool]")

	// the generated file loads back to a valid configuration
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "default", cfg.MPool.Name)
}
