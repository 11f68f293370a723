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

package dbterror

import (
	"github.com/pingcap/tidb-catalog/pkg/errno"
)

var (
	// ErrAlterKindMismatch is returned when an alter descriptor targets the wrong kind of entry.
	ErrAlterKindMismatch = ClassDDL.NewStd(errno.ErrAlterKindMismatch)
	// ErrUnsupportedDDL is returned for statements the catalog does not implement.
	ErrUnsupportedDDL = ClassDDL.NewStd(errno.ErrUnsupportedDDL)
	// ErrWrongObject is returned when an entry exists but has a different kind.
	ErrWrongObject = ClassDDL.NewStd(errno.ErrWrongObject)
	// ErrDupFieldName is returned when a column name is used twice.
	ErrDupFieldName = ClassDDL.NewStd(errno.ErrDupFieldName)
	// ErrBadField is returned when a column does not exist.
	ErrBadField = ClassDDL.NewStd(errno.ErrBadField)
	// ErrCantDropFieldOrKey is returned when dropping a missing column.
	ErrCantDropFieldOrKey = ClassDDL.NewStd(errno.ErrCantDropFieldOrKey)
	// ErrTooManyFields is returned when a table declares too many columns.
	ErrTooManyFields = ClassDDL.NewStd(errno.ErrTooManyFields)
	// ErrCantRemoveAllFields is returned when dropping the last column of a table.
	ErrCantRemoveAllFields = ClassDDL.NewStd(errno.ErrCantRemoveAllFields)
	// ErrColumnInIndex is returned when dropping a column an index covers.
	ErrColumnInIndex = ClassDDL.NewStd(errno.ErrColumnInIndex)
	// ErrWrongArguments is returned for malformed descriptors.
	ErrWrongArguments = ClassDDL.NewStd(errno.ErrWrongArguments)
	// ErrDropInternalEntry is returned when a statement drops a system entry.
	ErrDropInternalEntry = ClassDDL.NewStd(errno.ErrDropInternalEntry)

	// ErrSchemaExists is returned when creating an existing schema.
	ErrSchemaExists = ClassSchema.NewStd(errno.ErrDBCreateExists)
	// ErrSchemaDropNotExists is returned when dropping a missing schema.
	ErrSchemaDropNotExists = ClassSchema.NewStd(errno.ErrDBDropExists)
	// ErrSchemaNotExists is returned when a schema cannot be resolved.
	ErrSchemaNotExists = ClassSchema.NewStd(errno.ErrBadDB)
	// ErrSchemaNotEmpty is returned when dropping a schema that still has entries.
	ErrSchemaNotEmpty = ClassSchema.NewStd(errno.ErrSchemaNotEmpty)
	// ErrTableExists is returned when a table or view name is taken.
	ErrTableExists = ClassSchema.NewStd(errno.ErrTableExists)
	// ErrTableNotExists is returned when a table or view cannot be resolved.
	ErrTableNotExists = ClassSchema.NewStd(errno.ErrNoSuchTable)
	// ErrIndexExists is returned when an index name is taken.
	ErrIndexExists = ClassSchema.NewStd(errno.ErrDupKeyName)
	// ErrIndexNotExists is returned when an index cannot be resolved.
	ErrIndexNotExists = ClassSchema.NewStd(errno.ErrKeyDoesNotExist)
	// ErrFunctionExists is returned when a function name is taken.
	ErrFunctionExists = ClassSchema.NewStd(errno.ErrSpAlreadyExists)
	// ErrFunctionNotExists is returned when a function cannot be resolved.
	ErrFunctionNotExists = ClassSchema.NewStd(errno.ErrSpDoesNotExist)

	// ErrWriteConflict is returned when a transaction publishes over a name
	// that another transaction changed after its snapshot was taken.
	ErrWriteConflict = ClassKV.NewStd(errno.ErrWriteConflict)
	// ErrTxnDone is returned when a finished transaction is used again.
	ErrTxnDone = ClassKV.NewStd(errno.ErrTxnAlreadyFinished)
	// ErrReadOnlySnapshot is returned when a historical transaction writes.
	ErrReadOnlySnapshot = ClassKV.NewStd(errno.ErrReadOnlySnapshot)
	// ErrSnapshotNotAvailable is returned when a historical snapshot was evicted.
	ErrSnapshotNotAvailable = ClassKV.NewStd(errno.ErrSnapshotNotAvailable)

	// ErrStoreCorrupt is returned when persisted descriptors cannot be decoded.
	ErrStoreCorrupt = ClassMeta.NewStd(errno.ErrCatalogStoreCorrupt)

	// ErrParse is returned when DDL text cannot be parsed.
	ErrParse = ClassParser.NewStd(errno.ErrParse)

	// ErrInternalEntry is returned when Copy or AlterEntry is invoked on an internal entry.
	ErrInternalEntry = ClassInvariant.NewStd(errno.ErrInternalEntry)
	// ErrUnknownAlterType is returned when an alter sub-operation is not recognized.
	ErrUnknownAlterType = ClassInvariant.NewStd(errno.ErrUnknownAlterType)
	// ErrNotQueryStmt is returned when a view wraps something other than a query statement.
	ErrNotQueryStmt = ClassInvariant.NewStd(errno.ErrNotQueryStmt)
	// ErrInternal is returned for any other broken invariant.
	ErrInternal = ClassInvariant.NewStd(errno.ErrInternal)
)
