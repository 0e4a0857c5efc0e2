package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// IntentCall records one payment intent request.
type IntentCall struct {
	AmountCents int64
	Currency    string
}

// FakeIntents is a services.IntentCreator that records calls.
type FakeIntents struct {
	mu     sync.Mutex
	Calls  []IntentCall
	Secret string
	Err    error
}

func (f *FakeIntents) CreateIntent(_ context.Context, amountCents int64, currency string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, IntentCall{AmountCents: amountCents, Currency: currency})
	if f.Err != nil {
		return "", f.Err
	}
	return f.Secret, nil
}

// FakeObjects is an in-memory services.ObjectStore.
type FakeObjects struct {
	mu      sync.Mutex
	Objects map[string][]byte
	PutErr  error
	PingErr error
}

// NewFakeObjects returns an empty FakeObjects.
func NewFakeObjects() *FakeObjects {
	return &FakeObjects{Objects: map[string][]byte{}}
}

func (f *FakeObjects) PutObject(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[key] = data
	return nil
}

func (f *FakeObjects) RemoveObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, key)
	return nil
}

func (f *FakeObjects) PresignedGetURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://objects.test/%s?expires=%d", key, int(expiry.Seconds())), nil
}

func (f *FakeObjects) Ping(context.Context) error {
	return f.PingErr
}
