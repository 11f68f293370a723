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

// MySQL compatible error codes used by the catalog.
const (
	ErrDBCreateExists       = 1007
	ErrDBDropExists         = 1008
	ErrBadDB                = 1049
	ErrTableExists          = 1050
	ErrDupFieldName         = 1060
	ErrCantDropFieldOrKey   = 1091
	ErrNoSuchTable          = 1146
	ErrWrongObject          = 1347
	ErrParse                = 1064
	ErrBadField             = 1054
	ErrDupKeyName           = 1061
	ErrSchemaNotEmpty       = 3730
	ErrSpDoesNotExist       = 1305
	ErrSpAlreadyExists      = 1304
	ErrNotSupportedYet      = 1235
	ErrKeyDoesNotExist      = 1176
	ErrWrongArguments       = 1210
	ErrTooManyFields        = 1117
	ErrCantRemoveAllFields  = 1090
	ErrTxnAlreadyFinished   = 8020
	ErrWriteConflict        = 9007
	ErrInternal             = 8141
	ErrUnsupportedDDL       = 8200
	ErrAlterKindMismatch    = 8301
	ErrInternalEntry        = 8302
	ErrUnknownAlterType     = 8303
	ErrNotQueryStmt         = 8304
	ErrDropInternalEntry    = 8305
	ErrCatalogStoreCorrupt  = 8306
	ErrSnapshotNotAvailable = 8307
	ErrColumnInIndex        = 8308
	ErrReadOnlySnapshot     = 8309
)
