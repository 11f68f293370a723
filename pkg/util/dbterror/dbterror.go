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
	"github.com/pingcap/parser/terror"
	"github.com/pingcap/tidb-catalog/pkg/errno"
)

// ErrClass represents a class of errors.
type ErrClass struct{ terror.ErrClass }

// Error classes.
var (
	ClassDDL    = ErrClass{terror.ClassDDL}
	ClassSchema = ErrClass{terror.ClassSchema}
	ClassMeta   = ErrClass{terror.ClassMeta}
	ClassKV     = ErrClass{terror.ClassKV}
	ClassParser = ErrClass{terror.ClassParser}
	// ClassInvariant holds errors that are only raised when the catalog itself
	// is misused or corrupted. Valid user input never produces them.
	ClassInvariant = ErrClass{terror.RegisterErrorClass(101, "catalog-invariant")}
)

// NewStd calls New using the standard message for the error code
// Attention:
// this method is not goroutine-safe and
// usually be used in global variable initializer
func (ec ErrClass) NewStd(code terror.ErrCode) *terror.Error {
	return ec.NewStdErr(code, errno.MySQLErrName[uint16(code)])
}

// IsInvariantViolation reports whether err signals a broken catalog invariant
// rather than a bad statement. Such errors must abort the surrounding
// transaction, nothing may be published after them.
func IsInvariantViolation(err error) bool {
	return ClassInvariant.EqualClass(err)
}
