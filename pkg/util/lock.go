// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Lazy holds a value that is built at most once, on first use.
//
// Concurrent first users block on the builder and then observe the same
// value. A builder that reaches back into the same Lazy from its own
// goroutine panics instead of deadlocking.
type Lazy[T any] struct {
	mu     sync.Mutex
	done   atomic.Bool
	owner  atomic.Int64
	builds atomic.Int64
	val    T
}

func (lazy *Lazy[T]) Get(build func() T) T {
	if lazy.done.Load() {
		return lazy.val
	}
	rid := goid.Get()
	if lazy.owner.Load() == rid {
		panic(fmt.Sprintf("recursive lazy initialization in goroutine %d", rid))
	}
	lazy.mu.Lock()
	defer lazy.mu.Unlock()
	if lazy.done.Load() {
		return lazy.val
	}
	lazy.owner.Store(rid)
	defer lazy.owner.Store(0)

	lazy.val = build()
	lazy.builds.Add(1)
	lazy.done.Store(true)
	return lazy.val
}

// Done reports whether the value has been built.
func (lazy *Lazy[T]) Done() bool {
	return lazy.done.Load()
}

// Builds is the number of completed builds. It never exceeds one.
func (lazy *Lazy[T]) Builds() int64 {
	return lazy.builds.Load()
}
