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

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pingcap/tidb-catalog/pkg/domain"
	"github.com/pingcap/tidb-catalog/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newMetricsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the catalog metrics collected while opening the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withDomain(cmd, func(_ context.Context, _ *domain.Domain) error {
				reg := prometheus.NewRegistry()
				metrics.RegisterMetrics(reg)
				families, err := reg.Gather()
				if err != nil {
					return err
				}
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"Metric", "Value"})
				for _, mf := range families {
					for _, m := range mf.GetMetric() {
						labels := make([]string, 0, len(m.GetLabel()))
						for _, l := range m.GetLabel() {
							labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
						}
						name := mf.GetName()
						if len(labels) > 0 {
							name += "{" + strings.Join(labels, ",") + "}"
						}
						var value float64
						switch {
						case m.GetCounter() != nil:
							value = m.GetCounter().GetValue()
						case m.GetGauge() != nil:
							value = m.GetGauge().GetValue()
						case m.GetHistogram() != nil:
							name += "_count"
							value = float64(m.GetHistogram().GetSampleCount())
						}
						t.AppendRow(table.Row{name, value})
					}
				}
				t.Render()
				return nil
			})
		},
	}
}
