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

import "fmt"

// DefaultSchemaName is the schema unqualified names resolve to. Rendered DDL
// omits the schema qualifier for entries living in it.
const DefaultSchemaName = "main"

// CatalogType is the kind of a catalog entry.
type CatalogType byte

// List of catalog entry kinds.
const (
	InvalidEntry CatalogType = iota
	TableEntry
	ViewEntry
	IndexEntry
	FunctionEntry
	SchemaEntry
)

var catalogTypeNames = map[CatalogType]string{
	InvalidEntry:  "invalid",
	TableEntry:    "table",
	ViewEntry:     "view",
	IndexEntry:    "index",
	FunctionEntry: "function",
	SchemaEntry:   "schema",
}

// String implements fmt.Stringer interface.
func (t CatalogType) String() string {
	if name, ok := catalogTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// EntrySet is the namespace a name lives in. Tables and views share a set.
type EntrySet byte

// List of entry sets.
const (
	SchemaSet EntrySet = iota
	RelationSet
	IndexSet
	FunctionSet
)

// String implements fmt.Stringer interface.
func (s EntrySet) String() string {
	switch s {
	case SchemaSet:
		return "schemas"
	case RelationSet:
		return "relations"
	case IndexSet:
		return "indexes"
	case FunctionSet:
		return "functions"
	}
	return fmt.Sprintf("unknown(%d)", s)
}

// Set returns the namespace entries of this kind live in.
func (t CatalogType) Set() EntrySet {
	switch t {
	case TableEntry, ViewEntry:
		return RelationSet
	case IndexEntry:
		return IndexSet
	case FunctionEntry:
		return FunctionSet
	default:
		return SchemaSet
	}
}

// OnCreateConflict decides what CREATE does when the name is already taken.
type OnCreateConflict byte

// List of create conflict policies.
const (
	// OnConflictError returns an "already exists" error.
	OnConflictError OnCreateConflict = iota
	// OnConflictIgnore keeps the existing entry, as in CREATE ... IF NOT EXISTS.
	OnConflictIgnore
	// OnConflictReplace publishes the new entry over the existing one, as in CREATE OR REPLACE.
	OnConflictReplace
)
