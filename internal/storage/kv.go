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
	"sync"

	"instructionbuilder/internal/domain"
)

// KV is the subset of a string preferences API the prefs backend needs.
// fyne.Preferences satisfies it.
type KV interface {
	String(key string) string
	SetString(key string, value string)
	RemoveValue(key string)
}

// KVStore persists the document as one string value under RecordKey.
type KVStore struct {
	kv  KV
	key string
}

func NewKVStore(kv KV) *KVStore { return &KVStore{kv: kv, key: RecordKey} }

func (s *KVStore) Load() (domain.Document, error) {
	raw := s.kv.String(s.key)
	if raw == "" {
		return domain.Document{}, ErrNotFound
	}
	return Decode([]byte(raw))
}

func (s *KVStore) Save(doc domain.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	s.kv.SetString(s.key, string(data))
	return nil
}

func (s *KVStore) Clear() error {
	s.kv.RemoveValue(s.key)
	return nil
}

// MemoryKV is an in-process KV for tests and ephemeral sessions.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV { return &MemoryKV{m: make(map[string]string)} }

func (m *MemoryKV) String(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[key]
}

func (m *MemoryKV) SetString(key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = value
}

func (m *MemoryKV) RemoveValue(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
}
