package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/kilnworks/kiln/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger describes a Logger that is disabled by default and is enabled when the CLI or a compiler service is
// created. Each module/package should create its own sub-logger. This allows to create unique logging instances
// depending on the use case.
var GlobalLogger *Logger

// Logger describes a custom logging object that can log events to any arbitrary channel and can handle specialized
// output to console as well
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// structuredLogger describes a logger that will be used to output structured logs to any arbitrary channel(s)
	structuredLogger zerolog.Logger

	// structuredWriters describes the list of channels that the structuredLogger will use
	structuredWriters []io.Writer

	// unstructuredLogger describes a logger that will be used to output unstructured logs to any arbitrary channel(s)
	unstructuredLogger zerolog.Logger

	// unstructuredWriters describes the list of channels that the unstructuredLogger will use
	unstructuredWriters []io.Writer

	// unstructuredColorLogger describes a logger that will be used to output unstructured, colorized logs to any
	// arbitrary channel(s). We separate the colorized output from the plain one so that piped or persisted logs stay
	// free of ANSI escape codes.
	unstructuredColorLogger zerolog.Logger

	// unstructuredColorWriters describes the list of channels that the unstructuredColorLogger will use
	unstructuredColorWriters []io.Writer
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. A logger is created with no writers attached:
// use Logger.AddWriter to direct output to console, files, or any other channel.
func NewLogger(level zerolog.Level) *Logger {
	logger := &Logger{
		level:                    level,
		structuredWriters:        make([]io.Writer, 0),
		unstructuredWriters:      make([]io.Writer, 0),
		unstructuredColorWriters: make([]io.Writer, 0),
	}
	logger.rebuildLoggers()
	return logger
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have their own unique logger so that parsing of logs is "grep-able" based on some key
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	return &Logger{
		level:                    l.level,
		structuredLogger:         l.structuredLogger.With().Str(key, value).Logger(),
		structuredWriters:        l.structuredWriters,
		unstructuredLogger:       l.unstructuredLogger.With().Str(key, value).Logger(),
		unstructuredWriters:      l.unstructuredWriters,
		unstructuredColorLogger:  l.unstructuredColorLogger.With().Str(key, value).Logger(),
		unstructuredColorWriters: l.unstructuredColorWriters,
	}
}

// AddWriter will add a writer to the list of channels that receive log output in the requested format. The colored
// flag only applies to unstructured output; structured output is always written without coloring. Adding a writer
// that is already registered under the same format is a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	// Resolve which list of writers this writer belongs to.
	writers := l.writersFor(format, colored)

	// Check to see if the writer is already registered.
	for _, w := range *writers {
		if w == writer {
			return
		}
	}

	// Add the writer and rebuild the underlying zerolog loggers.
	*writers = append(*writers, writer)
	l.rebuildLoggers()
}

// RemoveWriter will remove a writer from the list of writers registered under the given format. If the writer does
// not exist, this function is a no-op.
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	// Resolve which list of writers this writer belongs to.
	writers := l.writersFor(format, colored)

	// Remove the writer, if registered, and rebuild the underlying zerolog loggers.
	for i, w := range *writers {
		if w == writer {
			*writers = append((*writers)[:i], (*writers)[i+1:]...)
			l.rebuildLoggers()
			return
		}
	}
}

// writersFor returns a pointer to the list of writers registered for a given format and coloring choice.
func (l *Logger) writersFor(format LogFormat, colored bool) *[]io.Writer {
	if format == STRUCTURED {
		return &l.structuredWriters
	}
	if colored {
		return &l.unstructuredColorWriters
	}
	return &l.unstructuredWriters
}

// rebuildLoggers will re-create the underlying zerolog loggers from the current writer lists and log level. Writer
// lists may be empty, in which case the associated logger is disabled rather than left nil.
func (l *Logger) rebuildLoggers() {
	// The base loggers are effectively loggers that are disabled. We are creating instances of them so that we do
	// not get nil pointer dereferences down the line.
	l.structuredLogger = zerolog.New(io.Discard).Level(zerolog.Disabled)
	l.unstructuredLogger = zerolog.New(io.Discard).Level(zerolog.Disabled)
	l.unstructuredColorLogger = zerolog.New(io.Discard).Level(zerolog.Disabled)

	// Structured writers receive raw JSON output with timestamps.
	if len(l.structuredWriters) > 0 {
		l.structuredLogger = zerolog.New(zerolog.MultiLevelWriter(l.structuredWriters...)).Level(l.level).With().Timestamp().Logger()
	}

	// Unstructured writers are wrapped in console writers with no ANSI coloring, so piped or
	// persisted output stays free of escape codes.
	if len(l.unstructuredWriters) > 0 {
		wrapped := make([]io.Writer, len(l.unstructuredWriters))
		for i, writer := range l.unstructuredWriters {
			wrapped[i] = zerolog.ConsoleWriter{Out: writer, NoColor: true}
		}
		l.unstructuredLogger = zerolog.New(zerolog.MultiLevelWriter(wrapped...)).Level(l.level).With().Timestamp().Logger()
	}

	// Unstructured color writers are wrapped in console writers with the default formatting applied.
	if len(l.unstructuredColorWriters) > 0 {
		wrapped := make([]io.Writer, len(l.unstructuredColorWriters))
		for i, writer := range l.unstructuredColorWriters {
			wrapped[i] = setupDefaultFormatting(zerolog.ConsoleWriter{Out: writer}, l.level)
		}
		l.unstructuredColorLogger = zerolog.New(zerolog.MultiLevelWriter(wrapped...)).Level(l.level)
	}
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.structuredLogger = l.structuredLogger.Level(level)
	l.unstructuredLogger = l.unstructuredLogger.Level(level)
	l.unstructuredColorLogger = l.unstructuredColorLogger.Level(level)
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, plainMsg, err, info := buildMsgs(args...)

	// Instantiate log events
	colorLog := l.unstructuredColorLogger.Trace()
	plainLog := l.unstructuredLogger.Trace()
	structuredLog := l.structuredLogger.Trace()

	// Chain the error, structured log info, and messages and send off the logs
	chainError(err, l.level <= zerolog.DebugLevel, colorLog, plainLog, structuredLog)
	chainStructuredLogInfoAndMsgs(info, colorMsg, plainMsg, colorLog, plainLog, structuredLog)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, plainMsg, err, info := buildMsgs(args...)

	// Instantiate log events
	colorLog := l.unstructuredColorLogger.Debug()
	plainLog := l.unstructuredLogger.Debug()
	structuredLog := l.structuredLogger.Debug()

	// Chain the error, structured log info, and messages and send off the logs
	chainError(err, l.level <= zerolog.DebugLevel, colorLog, plainLog, structuredLog)
	chainStructuredLogInfoAndMsgs(info, colorMsg, plainMsg, colorLog, plainLog, structuredLog)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, plainMsg, err, info := buildMsgs(args...)

	// Instantiate log events
	colorLog := l.unstructuredColorLogger.Info()
	plainLog := l.unstructuredLogger.Info()
	structuredLog := l.structuredLogger.Info()

	// Chain the error, structured log info, and messages and send off the logs
	chainError(err, l.level <= zerolog.DebugLevel, colorLog, plainLog, structuredLog)
	chainStructuredLogInfoAndMsgs(info, colorMsg, plainMsg, colorLog, plainLog, structuredLog)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, plainMsg, err, info := buildMsgs(args...)

	// Instantiate log events
	colorLog := l.unstructuredColorLogger.Warn()
	plainLog := l.unstructuredLogger.Warn()
	structuredLog := l.structuredLogger.Warn()

	// Chain the error, structured log info, and messages and send off the logs
	chainError(err, l.level <= zerolog.DebugLevel, colorLog, plainLog, structuredLog)
	chainStructuredLogInfoAndMsgs(info, colorMsg, plainMsg, colorLog, plainLog, structuredLog)
}

// Error is a wrapper function that will log an error event
func (l *Logger) Error(args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, plainMsg, err, info := buildMsgs(args...)

	// Instantiate log events
	colorLog := l.unstructuredColorLogger.Error()
	plainLog := l.unstructuredLogger.Error()
	structuredLog := l.structuredLogger.Error()

	// Chain the error, structured log info, and messages and send off the logs
	chainError(err, l.level <= zerolog.DebugLevel, colorLog, plainLog, structuredLog)
	chainStructuredLogInfoAndMsgs(info, colorMsg, plainMsg, colorLog, plainLog, structuredLog)
}

// Panic is a wrapper function that will log a panic event
func (l *Logger) Panic(args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, plainMsg, err, info := buildMsgs(args...)

	// Instantiate log events
	colorLog := l.unstructuredColorLogger.Panic()
	plainLog := l.unstructuredLogger.Panic()
	structuredLog := l.structuredLogger.Panic()

	// Chain the error, structured log info, and messages and send off the logs. Stack traces are always chained for
	// panics.
	chainError(err, true, colorLog, plainLog, structuredLog)
	chainStructuredLogInfoAndMsgs(info, colorMsg, plainMsg, colorLog, plainLog, structuredLog)
}

// buildMsgs describes a function that takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string will be a colorized-string that can be used for
// console logging while the second string will be a non-colorized one that can be used for file/structured logging.
// The error and the StructuredLogInfo can be used to add additional context to log messages
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	// Guard clause
	if len(args) == 0 {
		return "", "", nil, nil
	}

	// Initialize the base color context, the string buffers and the structured log info object
	colorCtx := colors.Reset
	colorOutput := make([]string, 0)
	plainOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	// Iterate through each argument in the list and switch on type
	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// If the argument is a color function, switch the current color context
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message
			info = t
		case error:
			// Note that only one error can be provided for each log message
			err = t
		default:
			// In the base case, append the object to the two string buffers. The colorized string buffer will have
			// the current color context applied to it.
			colorOutput = append(colorOutput, colorCtx(t))
			plainOutput = append(plainOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(colorOutput, ""), strings.Join(plainOutput, ""), err, info
}

// chainError is a helper function that takes in a list of *zerolog.Event objects and chains an error to all of them.
// If debug is true, then a stack trace is added to each event as well.
func chainError(err error, debug bool, events ...*zerolog.Event) {
	// Note that even if err is nil, there will not be a panic here
	for _, event := range events {
		event.Err(err)
		if debug {
			event.Stack()
		}
	}
}

// chainStructuredLogInfoAndMsgs is a helper function that takes in a list of *zerolog.Event objects, chains any
// StructuredLogInfo provided to it, adds the associated messages, and sends out the logs to their respective channels.
// The first event in the list is expected to be the colorized one; all others receive the plain message.
func chainStructuredLogInfoAndMsgs(info StructuredLogInfo, colorMsg string, plainMsg string, colorLog *zerolog.Event, plainLogs ...*zerolog.Event) {
	// If we are provided a structured log info object, add that as a key-value pair to the events
	if info != nil {
		colorLog.Any("info", info)
		for _, plainLog := range plainLogs {
			plainLog.Any("info", info)
		}
	}

	// Append the messages to each event. This will also result in the log events being sent out to their respective
	// streams. Note that the plain messages are deferred in case we are logging a panic and want to make sure that
	// all channels receive the panic log.
	for _, plainLog := range plainLogs {
		defer plainLog.Msg(plainMsg)
	}
	colorLog.Msg(colorMsg)
}

// setupDefaultFormatting will update the console writer's formatting to the kiln standard
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i interface{}) string {
		return ""
	}

	// We will define a custom format for each level
	writer.FormatLevel = func(i any) string {
		// Create a level object for better switch logic
		level, err := zerolog.ParseLevel(i.(string))
		if err != nil {
			panic(fmt.Sprintf("unable to parse the log level: %v", err))
		}

		// Switch on the level and return a custom, colored string
		switch level {
		case zerolog.TraceLevel:
			// Return a bold, cyan "trace" string
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			// Return a bold, blue "debug" string
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			// Return a bold, green left arrow
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			// Return a bold, yellow "warn" string
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			// Return a bold, red "err" string
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			// Return a bold, red "fatal" string
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			// Return a bold, red "panic" string
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return i.(string)
		}
	}

	// If we are above debug level, we want to get rid of the `module` component when logging to console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
