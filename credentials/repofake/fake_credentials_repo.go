package repofake

import (
	"sync"

	"github.com/jrsteele09/go-skillgap-client/credentials"
)

var _ credentials.Repo = (*FakeCredentialsRepo)(nil)

// FakeCredentialsRepo is an in-memory credentials.Repo for tests.
type FakeCredentialsRepo struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeCredentialsRepo() *FakeCredentialsRepo {
	return &FakeCredentialsRepo{values: make(map[string]string)}
}

func (r *FakeCredentialsRepo) Get(key string) (string, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	value, ok := r.values[key]
	return value, ok, nil
}

func (r *FakeCredentialsRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.values[key] = value
	return nil
}

func (r *FakeCredentialsRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.values, key)
	return nil
}

func (r *FakeCredentialsRepo) DeleteAll(keys ...string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, key := range keys {
		delete(r.values, key)
	}
	return nil
}

func (r *FakeCredentialsRepo) Close() error {
	return nil
}

// Len reports how many keys are stored. Test helper.
func (r *FakeCredentialsRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.values)
}
