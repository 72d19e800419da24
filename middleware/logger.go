package middleware

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dzonerzy/go-argspec/internal/pool"
)

// InvocationIDKey is the metadata key the logger stores the invocation id under.
const InvocationIDKey = "logger.invocation_id"

// RequestInfo contains information about one program run.
type RequestInfo struct {
	ID        string
	Program   string
	Args      []string
	StartTime time.Time
	Duration  time.Duration
	Error     error
}

var requestInfoPool = pool.NewPoolWithReset(
	func() *RequestInfo {
		return &RequestInfo{Args: make([]string, 0, 4)}
	},
	func(info *RequestInfo) {
		info.ID = ""
		info.Program = ""
		info.Args = info.Args[:0]
		info.StartTime = time.Time{}
		info.Duration = 0
		info.Error = nil
	},
)

// Logger creates a middleware that logs each run with a fresh invocation id.
func Logger(options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	writer := logWriter(config)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			if config.LogLevel == LogLevelNone {
				return next(ctx)
			}

			info := requestInfoPool.Get()
			defer requestInfoPool.Put(info)

			info.ID = uuid.NewString()
			info.Program = programName(ctx)
			info.Args = append(info.Args, ctx.Args()...)
			info.StartTime = time.Now()
			ctx.Set(InvocationIDKey, info.ID)

			logRequest(writer, config, info, "START")

			err := next(ctx)

			info.Duration = time.Since(info.StartTime)
			info.Error = err
			logRequest(writer, config, info, levelFor(err))

			return err
		}
	}
}

// LoggerWithWriter creates a logger middleware that writes to a specific writer
func LoggerWithWriter(writer io.Writer, options ...MiddlewareOption) Middleware {
	return Logger(append(options, WithWriter(writer))...)
}

func levelFor(err error) string {
	if err != nil {
		return "ERROR"
	}
	return "SUCCESS"
}

func shouldLog(configLevel LogLevel, messageLevel string) bool {
	switch messageLevel {
	case "ERROR":
		return configLevel >= LogLevelError
	case "START":
		return configLevel >= LogLevelDebug
	default:
		return configLevel >= LogLevelInfo
	}
}

func logWriter(config *MiddlewareConfig) io.Writer {
	if config.Writer != nil {
		return config.Writer
	}
	switch config.LogOutput {
	case LogOutputStdout:
		return os.Stdout
	case LogOutputNone:
		return nil
	default:
		return os.Stderr
	}
}

func logRequest(writer io.Writer, config *MiddlewareConfig, info *RequestInfo, level string) {
	if writer == nil || !shouldLog(config.LogLevel, level) {
		return
	}
	switch config.LogFormat {
	case LogFormatJSON:
		writeJSONLog(writer, info, level, config)
	default:
		writeTextLog(writer, info, level, config)
	}
}

func writeTextLog(writer io.Writer, info *RequestInfo, level string, config *MiddlewareConfig) {
	buf := pool.GetBuffer(256)
	defer pool.PutBuffer(buf)

	*buf = append(*buf, '[')
	*buf = info.StartTime.AppendFormat(*buf, "2006-01-02 15:04:05")
	*buf = append(*buf, "] "...)
	*buf = append(*buf, level...)
	*buf = append(*buf, " program="...)
	*buf = append(*buf, info.Program...)
	*buf = append(*buf, " id="...)
	*buf = append(*buf, info.ID...)

	if info.Duration > 0 {
		*buf = append(*buf, " duration="...)
		*buf = append(*buf, info.Duration.String()...)
	}

	if config.IncludeArgs && len(info.Args) > 0 {
		*buf = append(*buf, " args="...)
		for i, arg := range info.Args {
			if i > 0 {
				*buf = append(*buf, ' ')
			}
			*buf = append(*buf, arg...)
		}
	}

	if info.Error != nil {
		*buf = append(*buf, " error="...)
		*buf = strconv.AppendQuote(*buf, info.Error.Error())
	}
	*buf = append(*buf, '\n')

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	writer.Write(*buf)
}

func writeJSONLog(writer io.Writer, info *RequestInfo, level string, config *MiddlewareConfig) {
	buf := pool.GetBuffer(512)
	defer pool.PutBuffer(buf)

	*buf = append(*buf, `{"timestamp":"`...)
	*buf = info.StartTime.AppendFormat(*buf, time.RFC3339)
	*buf = append(*buf, `","level":"`...)
	*buf = append(*buf, level...)
	*buf = append(*buf, `","program":`...)
	*buf = appendJSONString(*buf, info.Program)
	*buf = append(*buf, `,"id":"`...)
	*buf = append(*buf, info.ID...)
	*buf = append(*buf, '"')

	if info.Duration > 0 {
		*buf = append(*buf, `,"duration_ms":`...)
		*buf = strconv.AppendInt(*buf, info.Duration.Milliseconds(), 10)
	}

	if config.IncludeArgs && len(info.Args) > 0 {
		*buf = append(*buf, `,"args":[`...)
		for i, arg := range info.Args {
			if i > 0 {
				*buf = append(*buf, ',')
			}
			*buf = appendJSONString(*buf, arg)
		}
		*buf = append(*buf, ']')
	}

	if info.Error != nil {
		*buf = append(*buf, `,"error":`...)
		*buf = appendJSONString(*buf, info.Error.Error())
	}
	*buf = append(*buf, "}\n"...)

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	writer.Write(*buf)
}

func appendJSONString(buf []byte, s string) []byte {
	enc, _ := json.Marshal(s)
	return append(buf, enc...)
}

// DebugLogger logs the start of every run as well as its outcome.
func DebugLogger() Middleware {
	return Logger(WithLogLevel(LogLevelDebug))
}

// ErrorLogger logs only failed runs.
func ErrorLogger() Middleware {
	return Logger(WithLogLevel(LogLevelError))
}

// JSONLogger creates a logger that outputs JSON format
func JSONLogger() Middleware {
	return Logger(WithLogFormat(LogFormatJSON))
}

// SilentLogger still assigns invocation ids but writes nothing.
func SilentLogger() Middleware {
	return Logger(func(config *MiddlewareConfig) {
		config.LogOutput = LogOutputNone
	})
}
