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
)

// ReadLines parses fields of each record of a delimited file. The handler
// receives the 1-based line number where the record starts and stops the
// scan by returning false. The separator may span several runes.
func ReadLines(sc *bufio.Scanner, sep string, handler func(int, []string) bool) error {
	separator := []rune(sep)
	lineCount := 0               // line number of current position
	startLine := 1               // line number of current record
	fields := make([]string, 0)  // fields for current record
	builder := strings.Builder{} // string builder for current field
	quoted := false              // whether current position in quote
	for sc.Scan() {
		lineCount++
		line := []rune(sc.Text())
		if quoted {
			builder.WriteString("\r\n")
		} else {
			startLine = lineCount
		}
		for i := 0; i < len(line); i++ {
			if !quoted && hasPrefix(line[i:], separator) {
				// end of field
				fields = append(fields, builder.String())
				builder.Reset()
				i += len(separator) - 1
			} else if line[i] == '"' {
				if quoted {
					if i+1 >= len(line) || line[i+1] != '"' {
						// end of quoted
						quoted = false
					} else {
						i++
						builder.WriteRune('"')
					}
				} else {
					// start of quoted
					quoted = true
				}
			} else {
				builder.WriteRune(line[i])
			}
		}
		// end of record
		if !quoted {
			fields = append(fields, builder.String())
			builder.Reset()
			if !handler(startLine, fields) {
				return nil
			}
			fields = []string{}
		}
	}
	return sc.Err()
}

func hasPrefix(line, prefix []rune) bool {
	if len(prefix) == 0 || len(line) < len(prefix) {
		return false
	}
	for i := range prefix {
		if line[i] != prefix[i] {
			return false
		}
	}
	return true
}
