package debug

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//
// Debug output is controled by MMDEBUG environment variable, which
// can be a list of labels (e.g., "MATMUL;BENCH").
//

const DEBUG_ENV = "MMDEBUG"

var (
	mu     sync.Mutex
	labels map[Tselector]bool
	logger *zap.SugaredLogger
	tag    string
)

func init() {
	labels = debugLabels(os.Getenv(DEBUG_ENV))
	logger = newLogger()
}

func newLogger() *zap.SugaredLogger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.CallerKey = ""
	ec.StacktraceKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), zapcore.DebugLevel)
	return zap.New(core).Sugar()
}

func debugLabels(s string) map[Tselector]bool {
	m := make(map[Tselector]bool)
	if s == "" {
		return m
	}
	for _, l := range strings.Split(s, ";") {
		if l != "" {
			m[Tselector(l)] = true
		}
	}
	return m
}

// Name tags every subsequent line with the program name.
func Name(name string) {
	mu.Lock()
	defer mu.Unlock()
	tag = name
}

// SetLabels overrides the labels read from MMDEBUG.
func SetLabels(s string) {
	mu.Lock()
	defer mu.Unlock()
	labels = debugLabels(s)
}

func WillBePrinted(label Tselector) bool {
	if label == NEVER {
		return false
	}
	mu.Lock()
	defer mu.Unlock()
	return label == ALWAYS || label == ERROR || labels[label]
}

func DPrintf(label Tselector, format string, v ...interface{}) {
	if !WillBePrinted(label) {
		return
	}
	logger.Infof("%v %v %v", getTag(), label, fmt.Sprintf(format, v...))
}

func DFatalf(format string, v ...interface{}) {
	// Get info for the caller.
	pc, file, line, ok := runtime.Caller(1)
	fnDetails := runtime.FuncForPC(pc)
	if ok && fnDetails != nil {
		logger.Fatalf("FATAL %v %v %v:%v %v", getTag(), fnDetails.Name(), file, line, fmt.Sprintf(format, v...))
	} else {
		logger.Fatalf("FATAL %v (missing details) %v", getTag(), fmt.Sprintf(format, v...))
	}
}

func Sync() {
	logger.Sync()
}

func getTag() string {
	mu.Lock()
	defer mu.Unlock()
	if tag == "" {
		return "-"
	}
	return tag
}
