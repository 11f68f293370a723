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

package errno

import "github.com/pingcap/parser/mysql"

// MySQLErrName maps error code to MySQL error messages.
var MySQLErrName = map[uint16]*mysql.ErrMessage{
	ErrDBCreateExists:      mysql.Message("Can't create database '%-.192s'; database exists", nil),
	ErrDBDropExists:        mysql.Message("Can't drop database '%-.192s'; database doesn't exist", nil),
	ErrBadDB:               mysql.Message("Unknown database '%-.192s'", nil),
	ErrTableExists:         mysql.Message("Table '%-.192s' already exists", nil),
	ErrDupFieldName:        mysql.Message("Duplicate column name '%-.192s'", nil),
	ErrCantDropFieldOrKey:  mysql.Message("Can't DROP '%-.192s'; check that column/key exists", nil),
	ErrNoSuchTable:         mysql.Message("Table '%-.192s.%-.192s' doesn't exist", nil),
	ErrWrongObject:         mysql.Message("'%-.192s.%-.192s' is not %s", nil),
	ErrParse:               mysql.Message("%s %s", nil),
	ErrBadField:            mysql.Message("Unknown column '%-.192s' in '%-.192s'", nil),
	ErrDupKeyName:          mysql.Message("Duplicate key name '%-.192s'", nil),
	ErrSchemaNotEmpty:      mysql.Message("Schema '%-.192s' is not empty", nil),
	ErrSpDoesNotExist:      mysql.Message("%s %s does not exist", nil),
	ErrSpAlreadyExists:     mysql.Message("%s %s already exists", nil),
	ErrNotSupportedYet:     mysql.Message("This version of the catalog doesn't yet support '%s'", nil),
	ErrKeyDoesNotExist:     mysql.Message("Key '%-.192s' doesn't exist in table '%-.192s'", nil),
	ErrWrongArguments:      mysql.Message("Incorrect arguments to %s", nil),
	ErrTooManyFields:       mysql.Message("Too many columns", nil),
	ErrCantRemoveAllFields: mysql.Message("You can't delete all columns with ALTER TABLE; use DROP TABLE instead", nil),

	ErrTxnAlreadyFinished:   mysql.Message("Transaction has already been %s", nil),
	ErrWriteConflict:        mysql.Message("Write conflict on %s, txnStartVersion=%d, conflictVersion=%d", nil),
	ErrInternal:             mysql.Message("Internal : %s", nil),
	ErrUnsupportedDDL:       mysql.Message("Unsupported %s", nil),
	ErrAlterKindMismatch:    mysql.Message("Can only modify %s with ALTER %s statement", nil),
	ErrInternalEntry:        mysql.Message("Cannot %s internal entry '%s'", nil),
	ErrUnknownAlterType:     mysql.Message("Unrecognized alter %s type %d", nil),
	ErrNotQueryStmt:         mysql.Message("'%s' wraps a %T, expected a query statement", nil),
	ErrDropInternalEntry:    mysql.Message("Cannot drop internal entry '%s'", nil),
	ErrCatalogStoreCorrupt:  mysql.Message("Catalog store is corrupt: %s", nil),
	ErrSnapshotNotAvailable: mysql.Message("Catalog snapshot for %s %d is not available", nil),
	ErrColumnInIndex:        mysql.Message("Column '%-.192s' is used by index '%-.192s'", nil),
	ErrReadOnlySnapshot:     mysql.Message("Cannot run %s in a read-only catalog snapshot", nil),
}
