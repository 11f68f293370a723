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

package model

import (
	"regexp"
	"strings"
	"sync"

	"github.com/pingcap/errors"
	"github.com/pingcap/parser"
	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/format"
	"github.com/pingcap/parser/types"
	// value expressions of parsed queries need a driver.
	_ "github.com/pingcap/parser/test_driver"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
)

const (
	// canonicalRestoreFlags quote every name. Backslashes in string literals
	// are escaped so the text parses back to the same values.
	canonicalRestoreFlags = format.DefaultRestoreFlags | format.RestoreStringEscapeBackslash
	// plainRestoreFlags render names without quotes. The result is only used
	// when it parses back to the same statement.
	plainRestoreFlags = format.RestoreStringSingleQuotes | format.RestoreStringEscapeBackslash | format.RestoreKeyWordUppercase
	// typeRestoreFlags render column types the way they are declared.
	typeRestoreFlags = format.RestoreKeyWordLowercase
)

var parserPool = sync.Pool{New: func() any { return parser.New() }}

var plainIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseStmt parses exactly one statement.
func ParseStmt(sql string) (ast.StmtNode, error) {
	p := parserPool.Get().(*parser.Parser)
	defer parserPool.Put(p)
	stmt, err := p.ParseOneStmt(sql, "", "")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return stmt, nil
}

// ParseQuery parses a query statement, SELECT or a set operation over SELECTs.
func ParseQuery(sql string) (ast.StmtNode, error) {
	stmt, err := ParseStmt(sql)
	if err != nil {
		return nil, err
	}
	if !IsQueryStmt(stmt) {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("query: " + sql)
	}
	return stmt, nil
}

// IsQueryStmt reports whether stmt is a query statement a view may wrap.
func IsQueryStmt(stmt ast.StmtNode) bool {
	switch stmt.(type) {
	case *ast.SelectStmt, *ast.SetOprStmt:
		return true
	}
	return false
}

// RestoreSQL renders node as canonical SQL text with every name quoted.
func RestoreSQL(node ast.Node) (string, error) {
	return restore(node, canonicalRestoreFlags)
}

func restore(node ast.Node, flags format.RestoreFlags) (string, error) {
	var sb strings.Builder
	if err := node.Restore(format.NewRestoreCtx(flags, &sb)); err != nil {
		return "", errors.Trace(err)
	}
	return sb.String(), nil
}

// TypeString renders a column type as declared, for example int, varchar(10)
// or decimal(10,2) unsigned. A display width is only shown when one was given.
func TypeString(ft *types.FieldType) string {
	if ft == nil {
		return ""
	}
	var sb strings.Builder
	if err := ft.Restore(format.NewRestoreCtx(typeRestoreFlags, &sb)); err != nil {
		return ft.CompactStr()
	}
	return sb.String()
}

// CopyQuery deep copies a query statement. The statement tree has no clone
// support, so the copy is made by restoring it to canonical text and parsing
// that text again. Both the input and the copy must be query statements.
func CopyQuery(stmt ast.StmtNode) (ast.StmtNode, error) {
	if stmt == nil {
		return nil, nil
	}
	if !IsQueryStmt(stmt) {
		return nil, dbterror.ErrNotQueryStmt.GenWithStackByArgs("query", stmt)
	}
	text, err := RestoreSQL(stmt)
	if err != nil {
		return nil, err
	}
	copied, err := ParseStmt(text)
	if err != nil {
		return nil, dbterror.ErrInternal.GenWithStackByArgs("restored query does not parse: " + err.Error())
	}
	if !IsQueryStmt(copied) {
		return nil, dbterror.ErrNotQueryStmt.GenWithStackByArgs("query copy", copied)
	}
	return copied, nil
}

// FormatQuery renders a query with names quoted only where needed. It falls
// back to the canonical quoted form when the unquoted text would not parse to
// the same statement.
func FormatQuery(stmt ast.StmtNode) (string, error) {
	canonical, err := RestoreSQL(stmt)
	if err != nil {
		return "", err
	}
	plain, err := restore(stmt, plainRestoreFlags)
	if err != nil {
		return "", err
	}
	if plain == canonical {
		return plain, nil
	}
	reparsed, err := ParseStmt(plain)
	if err != nil {
		return canonical, nil
	}
	again, err := RestoreSQL(reparsed)
	if err != nil || again != canonical {
		return canonical, nil
	}
	return plain, nil
}

// QuoteIdent quotes name with backquotes unless it can be written bare.
func QuoteIdent(name string) string {
	if plainIdentRe.MatchString(name) && parsesAsAlias(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func parsesAsAlias(name string) bool {
	stmt, err := ParseStmt("SELECT 1 AS " + name)
	if err != nil {
		return false
	}
	sel, ok := stmt.(*ast.SelectStmt)
	if !ok || sel.Fields == nil || len(sel.Fields.Fields) != 1 {
		return false
	}
	return sel.Fields.Fields[0].AsName.O == name
}

// QualifiedName renders schema.name, leaving out the default schema.
func QualifiedName(schema, name string) string {
	if schema == "" || strings.EqualFold(schema, DefaultSchemaName) {
		return QuoteIdent(name)
	}
	return QuoteIdent(schema) + "." + QuoteIdent(name)
}
