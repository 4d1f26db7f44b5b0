package mediasvc

import (
	"context"
	"io"
	"io/ioutil"
	"sync"

	"github.com/mwalimu/tutorhub/core"
)

// MockService keeps uploaded objects in memory for tests.
type MockService struct {
	sync.Mutex
	Objects map[string][]byte
	Deleted []string
}

var _ core.MediaService = (*MockService)(nil)

func NewMockService() *MockService {
	return &MockService{Objects: make(map[string][]byte)}
}

func (svc *MockService) Upload(_ context.Context, name, _ string, content io.Reader) (core.MediaObject, error) {
	data, err := ioutil.ReadAll(content)
	if err != nil {
		return core.MediaObject{}, err
	}

	svc.Lock()
	defer svc.Unlock()
	key := "media/" + name
	svc.Objects[key] = data
	return core.MediaObject{Key: key, URL: "https://media.test.tld/" + key}, nil
}

func (svc *MockService) Delete(_ context.Context, key string) error {
	svc.Lock()
	defer svc.Unlock()
	delete(svc.Objects, key)
	svc.Deleted = append(svc.Deleted, key)
	return nil
}
