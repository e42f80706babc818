package task

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// ID identifies a task. It is numeric so that ids coming back from text
// (CLI arguments, stringly-typed payloads) compare by value.
type ID int64

var lastID atomic.Int64

// NewID returns a millisecond timestamp with a random suffix, strictly
// greater than every id previously issued or observed in this process.
func NewID(now time.Time) ID {
	candidate := now.UnixMilli()*1000 + rand.Int64N(1000)
	for {
		last := lastID.Load()
		next := candidate
		if next <= last {
			next = last + 1
		}
		if lastID.CompareAndSwap(last, next) {
			return ID(next)
		}
	}
}

// observeID keeps NewID ahead of ids read from storage.
func observeID(id ID) {
	for {
		last := lastID.Load()
		if int64(id) <= last || lastID.CompareAndSwap(last, int64(id)) {
			return
		}
	}
}

// ParseID accepts the decimal form produced by String. Integral floats
// ("1700000000000.0", "1.7e15") are accepted as well.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty task id")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(v), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return ID(int64(f)), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(id), 10), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	v, err := ParseID(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
