// Copyright 2025 combine Project Authors
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

package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "copurchase.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTempFile(t, "ProductID\tCombinedProductID\n"+
		"1\t2\n"+
		"1\t3\n"+
		"2\t3\n"+
		"3\t63\n"+
		"3\t63\n")
	table, err := LoadFile(path, true, "\t")
	require.NoError(t, err)
	assert.Equal(t, 5, table.Count())
	assert.Equal(t, Pair{ProductID: 1, CombinedID: 2}, table.Pairs()[0])
	// duplicate pairs are kept as separate observations
	assert.Equal(t, table.Pairs()[3], table.Pairs()[4])
}

func TestLoadFileNoHeader(t *testing.T) {
	path := writeTempFile(t, "1\t2\n2\t3\n")
	table, err := LoadFile(path, false, "\t")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())
}

func TestLoadFileSkipsBlankLines(t *testing.T) {
	path := writeTempFile(t, "ProductID\tCombinedProductID\n1\t2\n\n2\t3\n\n")
	table, err := LoadFile(path, true, "\t")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())
}

func TestLoadFileMalformed(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"missing field", "header\n1\n"},
		{"non-numeric product", "header\nfoo\t2\n"},
		{"non-numeric combined", "header\n1\tbar\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, tc.content)
			_, err := LoadFile(path, true, "\t")
			assert.True(t, errors.Is(err, ErrDataFormat))
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "no-such-file"), true, "\t")
	assert.Error(t, err)
}
