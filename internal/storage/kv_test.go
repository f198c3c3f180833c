/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStoreUsesSingleKey(t *testing.T) {
	kv := NewMemoryKV()
	s := NewKVStore(kv)

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(sampleDocument()))
	assert.Contains(t, kv.String(RecordKey), `"title": "Build a Minimalist Desk"`)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), got)

	require.NoError(t, s.Clear())
	assert.Empty(t, kv.String(RecordKey))
	_, err = s.Load()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestKVStoreCorruptValue(t *testing.T) {
	kv := NewMemoryKV()
	kv.SetString(RecordKey, "{ this is not json")
	_, err := NewKVStore(kv).Load()
	assert.ErrorIs(t, err, ErrCorrupt)
}
