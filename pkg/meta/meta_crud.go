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

package meta

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pingcap/tidb-catalog/pkg/catalog"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// entryRecord is the value stored under an entry key.
type entryRecord struct {
	ID   int64               `json:"id"`
	Info jsoniter.RawMessage `json:"info"`
}

func entryKey(schema string, set model.EntrySet, name string) []byte {
	if set == model.SchemaSet {
		return append(append([]byte{}, mSchemaPrefix...), strings.ToLower(name)...)
	}
	key := append([]byte{}, mChildPrefix...)
	key = append(key, strings.ToLower(schema)...)
	key = append(key, mNameSep...)
	key = append(key, byte(set))
	key = append(key, mNameSep...)
	return append(key, strings.ToLower(name)...)
}

func encodeEntry(e catalog.CatalogEntry) ([]byte, error) {
	info, err := e.GetInfo()
	if err != nil {
		return nil, err
	}
	data, err := model.EncodeCreateInfo(info)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&entryRecord{ID: e.ID(), Info: data})
}

func decodeEntry(val []byte) (catalog.RestoredEntry, error) {
	var rec entryRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return catalog.RestoredEntry{}, dbterror.ErrStoreCorrupt.GenWithStackByArgs(err.Error())
	}
	if rec.ID <= 0 {
		return catalog.RestoredEntry{}, dbterror.ErrStoreCorrupt.GenWithStackByArgs(fmt.Sprintf("invalid entry id %d", rec.ID))
	}
	info, err := model.DecodeCreateInfo(rec.Info)
	if err != nil {
		return catalog.RestoredEntry{}, dbterror.ErrStoreCorrupt.GenWithStackByArgs(err.Error())
	}
	return catalog.RestoredEntry{ID: rec.ID, Info: info}, nil
}
