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

package testsetup

import (
	"fmt"
	"os"

	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
)

// SetupForCommonTest runs before all the tests.
func SetupForCommonTest() {
	applyOSLogLevel()
}

func applyOSLogLevel() {
	osLoglevel := os.Getenv("log_level")
	if len(osLoglevel) > 0 {
		cfg := logutil.NewLogConfig(osLoglevel, logutil.DefaultLogFormat, logutil.EmptyFileLogConfig, false)
		err := logutil.InitLogger(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "init logger for test failed: %v\n", err)
		}
	}
}
