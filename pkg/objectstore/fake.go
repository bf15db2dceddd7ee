package objectstore

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Store for tests. It records every upload and can be
// made to fail after a number of successful calls.
type Fake struct {
	mu      sync.Mutex
	uploads []FakeUpload
	// Err, when set, is returned by every Store call.
	Err error
	// FailAfter, when > 0, makes calls beyond the first FailAfter succeed
	// and the rest fail. Used to exercise partial multi-file failures.
	FailAfter int
}

// FakeUpload is one recorded Store call.
type FakeUpload struct {
	Data []byte
	Meta Metadata
}

// NewFake creates an empty fake store.
func NewFake() *Fake { return &Fake{} }

// Store records the upload and returns a deterministic URL.
func (f *Fake) Store(_ context.Context, data []byte, meta Metadata) (Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return Object{}, f.Err
	}
	if f.FailAfter > 0 && len(f.uploads) >= f.FailAfter {
		return Object{}, fmt.Errorf("fake objectstore: upload limit reached")
	}

	n := len(f.uploads)
	f.uploads = append(f.uploads, FakeUpload{Data: data, Meta: meta})

	key := fmt.Sprintf("%s/object-%d", meta.Folder, n+1)
	return Object{URL: "https://assets.test/" + key, AssetID: key}, nil
}

// Uploads returns a copy of the recorded uploads.
func (f *Fake) Uploads() []FakeUpload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeUpload, len(f.uploads))
	copy(out, f.uploads)
	return out
}
