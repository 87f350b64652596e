package chart

import (
	"bytes"
	"sync"

	"github.com/vadiminshakov/chartbot/pkg/indicators"
)

// Artifact is a rendered chart image. Its buffer goes back to the renderer's
// pool on Release, after which Bytes returns nil.
type Artifact struct {
	mu      sync.Mutex
	buf     *bytes.Buffer
	release func(*bytes.Buffer)

	SMA     indicators.Series
	HasSMA  bool
	Bullish []int
	Bearish []int
}

// Bytes returns the PNG-encoded image.
func (a *Artifact) Bytes() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buf == nil {
		return nil
	}
	return a.buf.Bytes()
}

// Released reports whether the artifact has already been released.
func (a *Artifact) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buf == nil
}

// Release returns the image buffer to the pool. Safe to call more than once.
func (a *Artifact) Release() {
	if a == nil {
		return
	}
	a.mu.Lock()
	buf := a.buf
	a.buf = nil
	a.mu.Unlock()

	if buf != nil && a.release != nil {
		a.release(buf)
	}
}

// ReleaseAll releases every non-nil artifact.
func ReleaseAll(artifacts []*Artifact) {
	for _, a := range artifacts {
		a.Release()
	}
}
