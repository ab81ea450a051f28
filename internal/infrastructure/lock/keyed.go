// Package lock 提供按讨论 ID 串行化写操作的进程内互斥锁
package lock

import (
	"sort"
	"sync"
)

// entry 单个键的锁及其引用计数
type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex 按键加锁，不同键之间互不阻塞
// 无人持有或等待的键会被回收，map 不会无限增长
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewKeyedMutex 创建按键互斥锁
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Lock 锁定 key，返回解锁函数
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.entries, key)
			}
			k.mu.Unlock()
		})
	}
}

// LockMany 按排序后的顺序锁定多个 key（去重），避免交叉加锁导致死锁
func (k *KeyedMutex) LockMany(keys ...string) (unlock func()) {
	uniq := make(map[string]struct{}, len(keys))
	sorted := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := uniq[key]; ok {
			continue
		}
		uniq[key] = struct{}{}
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	unlocks := make([]func(), 0, len(sorted))
	for _, key := range sorted {
		unlocks = append(unlocks, k.Lock(key))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// Len 当前被持有或等待的键数量（测试用）
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
