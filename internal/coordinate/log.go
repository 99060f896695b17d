package coordinate

import (
	"fmt"
	"log"
	"os"
	"sync"
)

var (
	debugMu sync.Mutex
	debugOn = os.Getenv("BATON_DEBUG") != ""
)

// SetDebug toggles verbose coordinator logging at runtime.
func SetDebug(on bool) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugOn = on
}

func debugLog(format string, args ...interface{}) {
	debugMu.Lock()
	on := debugOn
	debugMu.Unlock()
	if !on {
		return
	}
	log.Printf("[coordinate] %s", fmt.Sprintf(format, args...))
}
