// Copyright 2020 CUE Authors
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

package ident

import "encoding/json"

// MarshalJSON renders a Name as its canonical source spelling, so that the
// JSON-encoded syntax trees internal/integration's golden fixtures load
// carry identifiers the same way the external parser's own source text
// would.
func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Text())
}

// UnmarshalJSON recovers a Name via New, so a reserved spelling round-trips
// back to its Reserved tag rather than becoming a standard name spelled
// "mod".
func (n *Name) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = New(raw)
	return nil
}
