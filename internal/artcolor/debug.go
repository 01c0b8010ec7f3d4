package artcolor

import (
	"log"
	"os"
	"sync"
)

// Diagnostics go to a side-channel file since the terminal belongs to the
// dashboard. Everything here is best effort: a log that cannot be opened or
// written is silently dropped.
var (
	debugMu  sync.Mutex
	debugLog *log.Logger
)

// EnableDebugLog appends pipeline diagnostics to the named file.
func EnableDebugLog(path string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	debugMu.Lock()
	debugLog = log.New(f, "", log.Ltime)
	debugMu.Unlock()
}

func debugf(format string, args ...any) {
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}
