/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "promptarchitect/internal/log"
	"promptarchitect/internal/telemetry"
	"promptarchitect/internal/version"
)

// Document is anything that can render the current prompt document.
// *session.Store satisfies it.
type Document interface {
	Encoded() ([]byte, error)
}

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// reportDir is where crash reports and rescued documents are written.
var reportDir = os.TempDir

// Recover captures a panic, logs it with the stack trace, writes a crash
// report, and saves the current document next to it when doc is non-nil.
// Session state lives only in memory, so the rescued file is the user's only
// copy of their work.
//
// Usage: defer crash.Recover(store)
func Recover(doc Document) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	stamp := time.Now().Format("20060102-150405")
	reportPath, err := writeReport(stamp, r, stack)
	if err != nil {
		l.Error("crash report failed", slog.Any("err", err))
	}
	if doc != nil {
		if path, err := rescueDocument(stamp, doc); err != nil {
			l.Error("document rescue failed", slog.Any("err", err))
		} else {
			l.Info("document rescued", slog.String("path", path))
			fmt.Fprintf(os.Stderr, "Your prompt document was saved to: %s\n", path)
		}
	}

	fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	// Exit with a non-zero code to indicate failure in CLI context.
	exitFn(2)
}

func writeReport(stamp string, panicVal any, stack []byte) (string, error) {
	path := filepath.Join(reportDir(), fmt.Sprintf("promptarchitect-crash-%s.log", stamp))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Prompt Architect Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	// The upload carries the report only, never the document.
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}

func rescueDocument(stamp string, doc Document) (path string, err error) {
	defer func() {
		// the document itself may be what panicked
		if r := recover(); r != nil {
			err = fmt.Errorf("encode document: %v", r)
		}
	}()
	data, err := doc.Encoded()
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	path = filepath.Join(reportDir(), fmt.Sprintf("promptarchitect-rescue-%s.json", stamp))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
