// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ddl

import (
	"regexp"
	"strings"
)

// The statements below are not MySQL syntax, so they are recognized before
// the statement reaches the parser.
var (
	createMacroRe = regexp.MustCompile(`(?is)^CREATE\s+(OR\s+REPLACE\s+)?(TEMPORARY\s+)?MACRO\s+(IF\s+NOT\s+EXISTS\s+)?(?:(\w+)\.)?(\w+)\s*\(([^)]*)\)\s+AS\s+(.+)$`)
	dropMacroRe   = regexp.MustCompile(`(?is)^DROP\s+(?:MACRO|FUNCTION)\s+(IF\s+EXISTS\s+)?(?:(\w+)\.)?(\w+)$`)
	alterViewRe   = regexp.MustCompile(`(?is)^ALTER\s+VIEW\s+(IF\s+EXISTS\s+)?(?:(\w+)\.)?(\w+)\s+RENAME\s+TO\s+(?:(\w+)\.)?(\w+)$`)
	temporaryRe   = regexp.MustCompile(`(?is)^(CREATE\s+(?:OR\s+REPLACE\s+)?)(?:GLOBAL\s+|LOCAL\s+)?TEMP(?:ORARY)?\s+((?:VIEW|TABLE)\b.*)$`)
	viewIfNotRe   = regexp.MustCompile(`(?is)^(CREATE\s+(?:OR\s+REPLACE\s+)?VIEW\s+)IF\s+NOT\s+EXISTS\s+(.*)$`)
	cascadeRe     = regexp.MustCompile(`(?is)^(DROP\s+(?:SCHEMA|DATABASE)\b.*?)\s+(CASCADE|RESTRICT)$`)
)

// stmtFlags are the modifiers stripped from a statement before parsing.
type stmtFlags struct {
	temporary   bool
	ifNotExists bool
	cascade     bool
}

// trimStmt removes surrounding blanks and trailing semicolons.
func trimStmt(sql string) string {
	sql = strings.TrimSpace(sql)
	for strings.HasSuffix(sql, ";") {
		sql = strings.TrimSpace(strings.TrimSuffix(sql, ";"))
	}
	return sql
}

// rewrite strips the modifiers the parser does not accept and records them.
func rewrite(sql string) (string, stmtFlags) {
	var flags stmtFlags
	if m := temporaryRe.FindStringSubmatch(sql); m != nil {
		flags.temporary = true
		sql = m[1] + m[2]
	}
	if m := viewIfNotRe.FindStringSubmatch(sql); m != nil {
		flags.ifNotExists = true
		sql = m[1] + m[2]
	}
	if m := cascadeRe.FindStringSubmatch(sql); m != nil {
		flags.cascade = strings.EqualFold(m[2], "CASCADE")
		sql = m[1]
	}
	return sql, flags
}

func splitParams(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
