package fsys

import (
	"time"
)

// Memory is an in-memory FileSystem with a logical clock. Every Touch moves
// the clock one second forward so files touched later are always newer.
type Memory struct {
	files   map[string]time.Time
	clock   time.Time
	Removed []string
}

func NewMemory() *Memory {
	return &Memory{
		files:   map[string]time.Time{},
		clock:   time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Removed: make([]string, 0),
	}
}

// Create adds name with the next clock tick as its modification time
func (memory *Memory) Create(names ...string) {
	for _, name := range names {
		memory.files[name] = memory.tick()
	}
}

func (memory *Memory) Put(name string, mtime time.Time) {
	memory.files[name] = mtime
}

func (memory *Memory) Exists(name string) bool {
	_, ok := memory.files[name]
	return ok
}

func (memory *Memory) tick() time.Time {
	memory.clock = memory.clock.Add(time.Second)
	return memory.clock
}

func (memory *Memory) Stat(name string) (bool, time.Time, error) {
	mtime, ok := memory.files[name]
	return ok, mtime, nil
}

func (memory *Memory) Touch(name string) (time.Time, error) {
	mtime := memory.tick()
	memory.files[name] = mtime
	return mtime, nil
}

func (memory *Memory) Remove(name string) error {
	if _, ok := memory.files[name]; ok {
		delete(memory.files, name)
		memory.Removed = append(memory.Removed, name)
	}

	return nil
}
