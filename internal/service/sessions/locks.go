package sessions

import "sync"

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// keyedMutex мьютекс на ключ; запись удаляется, когда ключ никто не держит
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock блокирует ключ и возвращает функцию разблокировки
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
