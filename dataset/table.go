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
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/combine-io/combine/base/log"
)

// ErrDataFormat reports a data row that cannot be parsed as two numeric
// identifiers.
var ErrDataFormat = errors.New("malformed data row")

// Pair is one observed co-purchase edge. Duplicate pairs are valid, each line
// of the source file is one observation.
type Pair struct {
	ProductID  int32
	CombinedID int32
}

// Table is a loaded co-purchase dataset.
type Table struct {
	pairs []Pair
}

func NewTable(pairs []Pair) *Table {
	return &Table{pairs: pairs}
}

// Count returns the number of records.
func (t *Table) Count() int {
	return len(t.pairs)
}

// Pairs returns all records.
func (t *Table) Pairs() []Pair {
	return t.pairs
}

// LoadFile reads a delimited text file into a Table. Each data row must carry
// at least two fields parseable as integer identifiers; the first line is
// skipped when hasHeader is set. Blank lines are ignored.
func LoadFile(path string, hasHeader bool, sep string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	table := &Table{}
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNumber := 0
	for sc.Scan() {
		lineNumber++
		line := sc.Text()
		if hasHeader && lineNumber == 1 {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		pair, err := parsePair(line, sep)
		if err != nil {
			return nil, errors.Annotatef(err, "line %d", lineNumber)
		}
		table.pairs = append(table.pairs, pair)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("loaded dataset",
		zap.String("path", path),
		zap.Int("n_records", table.Count()))
	return table, nil
}

func parsePair(line, sep string) (Pair, error) {
	fields := strings.Split(line, sep)
	if len(fields) < 2 {
		return Pair{}, errors.Annotatef(ErrDataFormat, "expect 2 fields, got %d", len(fields))
	}
	productId, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 32)
	if err != nil {
		return Pair{}, errors.Annotatef(ErrDataFormat, "product id %q", fields[0])
	}
	combinedId, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 32)
	if err != nil {
		return Pair{}, errors.Annotatef(ErrDataFormat, "combined product id %q", fields[1])
	}
	return Pair{ProductID: int32(productId), CombinedID: int32(combinedId)}, nil
}
