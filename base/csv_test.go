// Copyright 2021 gorse Project Authors
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

package base

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func splitLines(t *testing.T, text string) ([][]string, []int) {
	sc := bufio.NewScanner(strings.NewReader(text))
	var lines [][]string
	var numbers []int
	err := ReadLines(sc, ";", func(n int, fields []string) bool {
		lines = append(lines, fields)
		numbers = append(numbers, n)
		return fields[0] != "STOP"
	})
	assert.NoError(t, err)
	return lines, numbers
}

func TestReadLines(t *testing.T) {
	lines, numbers := splitLines(t, "1;2;3\r\n4;5;6\r\n")
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}}, lines)
	assert.Equal(t, []int{1, 2}, numbers)
	lines, _ = splitLines(t, "\"1;2\";\"3;4\";\"5;6\"\r\n\"2;3\";\"4;6\";\"6;9\"")
	assert.Equal(t, [][]string{{"1;2", "3;4", "5;6"}, {"2;3", "4;6", "6;9"}}, lines)
	lines, _ = splitLines(t, "\"\"\"1;2\"\"\";x\r\n")
	assert.Equal(t, [][]string{{"\"1;2\"", "x"}}, lines)
	// quoted line breaks keep the number of the first line
	lines, numbers = splitLines(t, "\"1\r\n2\";3\r\n4;5")
	assert.Equal(t, [][]string{{"1\r\n2", "3"}, {"4", "5"}}, lines)
	assert.Equal(t, []int{1, 3}, numbers)
	lines, _ = splitLines(t, "1;2;3\r\nSTOP\r\n7;8;9")
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"STOP"}}, lines)
	// empty lines are records with one empty field
	lines, numbers = splitLines(t, "1;2\n\n3;4\n")
	assert.Equal(t, [][]string{{"1", "2"}, {""}, {"3", "4"}}, lines)
	assert.Equal(t, []int{1, 2, 3}, numbers)
}

func TestReadLinesSeparator(t *testing.T) {
	var lines [][]string
	err := ReadLines(bufio.NewScanner(strings.NewReader("1::2::3\n\"a::b\"::c:d\n")), "::",
		func(_ int, fields []string) bool {
			lines = append(lines, fields)
			return true
		})
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"a::b", "c:d"}}, lines)
	lines = nil
	err = ReadLines(bufio.NewScanner(strings.NewReader("x→y→z\n")), "→",
		func(_ int, fields []string) bool {
			lines = append(lines, fields)
			return true
		})
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y", "z"}}, lines)
}
