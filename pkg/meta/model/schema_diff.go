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

// DiffAction is what a committed transaction did to one key.
type DiffAction byte

// List of diff actions.
const (
	DiffActionNone DiffAction = iota
	DiffActionCreate
	DiffActionAlter
	DiffActionDrop
)

// String implements fmt.Stringer interface.
func (a DiffAction) String() string {
	switch a {
	case DiffActionCreate:
		return "create"
	case DiffActionAlter:
		return "alter"
	case DiffActionDrop:
		return "drop"
	}
	return "none"
}

// DiffKey is one name a schema version changed.
type DiffKey struct {
	Schema string      `json:"schema"`
	Set    EntrySet    `json:"set"`
	Name   string      `json:"name"`
	Type   CatalogType `json:"type"`
	Action DiffAction  `json:"action"`
}

// SchemaDiff lists what changed between Version-1 and Version.
type SchemaDiff struct {
	Version  int64     `json:"version"`
	TxnID    uint64    `json:"txn_id"`
	CommitTS uint64    `json:"commit_ts"`
	Keys     []DiffKey `json:"keys"`
}

// EncodeSchemaDiff serializes diff.
func EncodeSchemaDiff(diff *SchemaDiff) ([]byte, error) {
	return json.Marshal(diff)
}

// DecodeSchemaDiff restores a diff written by EncodeSchemaDiff.
func DecodeSchemaDiff(data []byte) (*SchemaDiff, error) {
	diff := &SchemaDiff{}
	if err := json.Unmarshal(data, diff); err != nil {
		return nil, err
	}
	return diff, nil
}
