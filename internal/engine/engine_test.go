package engine

import (
	"context"
	"fmt"

	"github.com/xxxsen/mediadup/internal/model"
)

// fakeFS is an in-memory FS for exercising the engine without a disk.
type fakeFS struct {
	dirs       map[string]fakeDir
	removed    []string
	failRemove map[string]error
}

type fakeDir struct {
	size  int64
	files int
}

func newFakeFS() *fakeFS {
	return &fakeFS{dirs: map[string]fakeDir{}, failRemove: map[string]error{}}
}

func (f *fakeFS) add(path string, size int64, files int) *fakeFS {
	f.dirs[path] = fakeDir{size: size, files: files}
	return f
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.dirs[path]
	return ok
}

func (f *fakeFS) DirSize(_ context.Context, path string) (int64, error) {
	return f.dirs[path].size, nil
}

func (f *fakeFS) MediaFileCount(_ context.Context, path string) (int, error) {
	return f.dirs[path].files, nil
}

func (f *fakeFS) RemoveAll(_ context.Context, path string) error {
	if err, ok := f.failRemove[path]; ok {
		return err
	}
	f.removed = append(f.removed, path)
	delete(f.dirs, path)
	return nil
}

// captureRecorder keeps every event for assertions.
type captureRecorder struct {
	events []Event
}

func (c *captureRecorder) Record(_ context.Context, ev Event) {
	c.events = append(c.events, ev)
}

func (c *captureRecorder) statesFor(path string) []model.PathState {
	var states []model.PathState
	for _, ev := range c.events {
		if ev.Type == EventTransition && ev.Path == path {
			states = append(states, ev.State)
		}
	}
	return states
}

// answerAll returns a confirmer that always gives the same answer and counts
// the prompts it received.
func answerAll(answer bool, prompts *[]string) Confirmer {
	return func(_ context.Context, prompt string) (bool, error) {
		if prompts != nil {
			*prompts = append(*prompts, prompt)
		}
		return answer, nil
	}
}

func answerErr() Confirmer {
	return func(context.Context, string) (bool, error) {
		return false, fmt.Errorf("prompt channel closed")
	}
}
