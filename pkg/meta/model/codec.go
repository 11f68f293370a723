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
	jsoniter "github.com/json-iterator/go"
	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// descriptorVersion is bumped when an envelope layout changes incompatibly.
const descriptorVersion = 1

type createInfoEnvelope struct {
	Version int                 `json:"version"`
	Type    CatalogType         `json:"type"`
	Info    jsoniter.RawMessage `json:"info"`
}

type alterInfoEnvelope struct {
	Version int                 `json:"version"`
	Type    AlterType           `json:"type"`
	Info    jsoniter.RawMessage `json:"info"`
}

// viewInfoJSON is the wire form of CreateViewInfo. The query travels as
// canonical SQL text.
type viewInfoJSON struct {
	*viewInfoFields
	Query string `json:"query,omitempty"`
}

type viewInfoFields CreateViewInfo

// MarshalJSON implements json.Marshaler interface.
func (info *CreateViewInfo) MarshalJSON() ([]byte, error) {
	out := viewInfoJSON{viewInfoFields: (*viewInfoFields)(info)}
	if info.Query != nil {
		text, err := RestoreSQL(info.Query)
		if err != nil {
			return nil, err
		}
		out.Query = text
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (info *CreateViewInfo) UnmarshalJSON(b []byte) error {
	in := viewInfoJSON{viewInfoFields: (*viewInfoFields)(info)}
	if err := json.Unmarshal(b, &in); err != nil {
		return errors.Trace(err)
	}
	info.Query = nil
	if in.Query == "" {
		return nil
	}
	query, err := ParseQuery(in.Query)
	if err != nil {
		return err
	}
	info.Query = query
	return nil
}

// EncodeCreateInfo serializes a create descriptor.
func EncodeCreateInfo(info CreateInfo) ([]byte, error) {
	if info == nil {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("nil create info")
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return json.Marshal(&createInfoEnvelope{
		Version: descriptorVersion,
		Type:    info.Base().Type,
		Info:    raw,
	})
}

// DecodeCreateInfo restores a descriptor written by EncodeCreateInfo.
func DecodeCreateInfo(data []byte) (CreateInfo, error) {
	var env createInfoEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Trace(err)
	}
	if env.Version != descriptorVersion {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("create info version")
	}
	var info CreateInfo
	switch env.Type {
	case ViewEntry:
		info = &CreateViewInfo{}
	case TableEntry:
		info = &CreateTableInfo{}
	case IndexEntry:
		info = &CreateIndexInfo{}
	case FunctionEntry:
		info = &CreateFunctionInfo{}
	case SchemaEntry:
		info = &CreateSchemaInfo{}
	default:
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("create info type " + env.Type.String())
	}
	if err := json.Unmarshal(env.Info, info); err != nil {
		return nil, errors.Trace(err)
	}
	if info.Base().Type != env.Type {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("create info type " + info.Base().Type.String())
	}
	return info, nil
}

// EncodeAlterInfo serializes an alter descriptor.
func EncodeAlterInfo(info AlterInfo) ([]byte, error) {
	if info == nil {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("nil alter info")
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return json.Marshal(&alterInfoEnvelope{
		Version: descriptorVersion,
		Type:    info.AlterType(),
		Info:    raw,
	})
}

// DecodeAlterInfo restores a descriptor written by EncodeAlterInfo.
func DecodeAlterInfo(data []byte) (AlterInfo, error) {
	var env alterInfoEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Trace(err)
	}
	if env.Version != descriptorVersion {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("alter info version")
	}
	var info AlterInfo
	switch env.Type {
	case AlterView:
		info = &AlterViewInfo{}
	case AlterTable:
		info = &AlterTableInfo{}
	default:
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("alter info type " + env.Type.String())
	}
	if err := json.Unmarshal(env.Info, info); err != nil {
		return nil, errors.Trace(err)
	}
	return info, nil
}
