/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	applog "promptarchitect/internal/log"
	"promptarchitect/internal/telemetry"
)

// DefaultCopyHold is how long a copy status stays visible.
const DefaultCopyHold = 1800 * time.Millisecond

// ErrClipboardUnavailable is returned when the platform has no clipboard utility.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// CopyStatus is the transient outcome of the last copy.
type CopyStatus string

const (
	StatusIdle   CopyStatus = "idle"
	StatusCopied CopyStatus = "copied"
	StatusFailed CopyStatus = "failed"
)

type CopierOptions struct {
	// Hold is how long Copied or Failed is reported before reverting to Idle.
	Hold time.Duration
	// Write replaces the system clipboard, mainly for tests.
	Write   func(string) error
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
}

// Copier puts the encoded document on the clipboard and reports a status that
// clears itself after the hold time. A newer copy restarts the timer.
type Copier struct {
	write   func(string) error
	hold    time.Duration
	metrics *telemetry.Metrics
	log     *slog.Logger

	mu     sync.Mutex
	status CopyStatus
	gen    uint64
	timer  *time.Timer
}

func NewCopier(opts CopierOptions) *Copier {
	c := &Copier{write: opts.Write, hold: opts.Hold, metrics: opts.Metrics, log: opts.Logger, status: StatusIdle}
	if c.write == nil {
		c.write = systemClipboard
	}
	if c.hold <= 0 {
		c.hold = DefaultCopyHold
	}
	if c.log == nil {
		c.log = applog.WithComponent("export")
	}
	return c
}

func systemClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// Copy writes doc to the clipboard. The error is reported once through the
// returned value and the Failed status; it is not retried.
func (c *Copier) Copy(doc []byte) error {
	err := c.write(string(doc))
	if err != nil {
		err = fmt.Errorf("copy to clipboard: %w", err)
		c.log.Warn("copy failed", slog.Any("err", err))
	} else {
		c.log.Debug("document copied", slog.Int("bytes", len(doc)))
	}
	c.metrics.ObserveCopy(err)

	status := StatusCopied
	if err != nil {
		status = StatusFailed
	}
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.status = status
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.hold, func() { c.expire(gen) })
	c.mu.Unlock()
	return err
}

func (c *Copier) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.status = StatusIdle
	}
}

// Status reports the outcome of the most recent copy while it is still held.
func (c *Copier) Status() CopyStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
