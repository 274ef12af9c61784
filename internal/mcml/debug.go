package mcml

import (
	"sync"

	"github.com/lukaszgryglicki/mcml/internal/log"
)

var logger = log.New("mcml")

func DebugLog(format string, args ...interface{}) {
	if !Debug {
		return
	}
	logger.Debugf(format, args...)
}

var once sync.Once

func DebugLogOnce(format string, args ...interface{}) {
	if !Debug {
		return
	}
	once.Do(func() {
		logger.Debugf(format, args...)
	})
}
