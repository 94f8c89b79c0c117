// Package log provides the leveled, colorized logger used throughout the
// node instead of fmt or the standard library's log package.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level is a logging severity.
type Level int

const (
	LvlCrit Level = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

var levelNames = map[Level]string{
	LvlCrit:  "CRIT",
	LvlError: "ERROR",
	LvlWarn:  "WARN",
	LvlInfo:  "INFO",
	LvlDebug: "DEBUG",
	LvlTrace: "TRACE",
}

var levelColors = map[Level]color.Attribute{
	LvlCrit:  color.FgMagenta,
	LvlError: color.FgRed,
	LvlWarn:  color.FgYellow,
	LvlInfo:  color.FgGreen,
	LvlDebug: color.FgCyan,
	LvlTrace: color.FgWhite,
}

// Logger mirrors the node's context-carrying logger: New(ctx...) returns
// a child logger that prepends fixed key/value pairs to every record.
type Logger interface {
	New(ctx ...interface{}) Logger
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}

type logger struct {
	ctx []interface{}
}

var (
	root       = &logger{}
	mu         sync.Mutex
	minLevel   = LvlInfo
	out        io.Writer
	colorTerm  bool
	vmodule    *regexp2.Regexp
	vmoduleLvl Level
)

func init() {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		out = colorable.NewColorableStderr()
		colorTerm = true
	} else {
		out = os.Stderr
	}
}

// New returns the root logger's child with the given context.
func New(ctx ...interface{}) Logger {
	return root.New(ctx...)
}

func (l *logger) New(ctx ...interface{}) Logger {
	child := make([]interface{}, 0, len(l.ctx)+len(ctx))
	child = append(child, l.ctx...)
	child = append(child, ctx...)
	return &logger{ctx: child}
}

// SetLevel adjusts the global verbosity floor.
func SetLevel(lvl Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = lvl
}

// SetVmodule installs a per-package verbosity override: any call site whose
// stack frame package matches pattern logs at lvl regardless of the global
// floor. Matching uses regexp2 (the node's own vmodule implementation
// relies on the extended regex features regexp2 exposes that the standard
// library's regexp does not, e.g. lookaheads in glob-like patterns).
func SetVmodule(pattern string, lvl Level) error {
	re, err := regexp2.Compile(pattern, 0)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	vmodule = re
	vmoduleLvl = lvl
	return nil
}

func (l *logger) write(lvl Level, msg string, ctx []interface{}) {
	mu.Lock()
	floor := minLevel
	re := vmodule
	reLvl := vmoduleLvl
	mu.Unlock()

	callSite := ""
	if frames := stack.Trace().TrimRuntime(); len(frames) > 2 {
		callSite = fmt.Sprintf("%n", frames[2])
	}

	effective := floor
	if re != nil {
		if ok, _ := re.MatchString(callSite); ok {
			effective = reLvl
		}
	}
	if lvl > effective {
		return
	}

	all := make([]interface{}, 0, len(l.ctx)+len(ctx))
	all = append(all, l.ctx...)
	all = append(all, ctx...)

	line := formatLine(lvl, msg, all, callSite)
	mu.Lock()
	fmt.Fprint(out, line)
	mu.Unlock()
}

func formatLine(lvl Level, msg string, ctx []interface{}, callSite string) string {
	ts := time.Now().Format("2006-01-02T15:04:05.000")
	name := levelNames[lvl]
	if colorTerm {
		name = color.New(levelColors[lvl]).Sprint(name)
	}
	line := fmt.Sprintf("%s [%s] %s", ts, name, msg)
	for i := 0; i+1 < len(ctx); i += 2 {
		line += fmt.Sprintf(" %v=%v", ctx[i], ctx[i+1])
	}
	if callSite != "" {
		line += fmt.Sprintf(" caller=%s", callSite)
	}
	return line + "\n"
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(LvlTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(LvlDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(LvlInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(LvlWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(LvlError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.write(LvlCrit, msg, ctx) }

// Package-level convenience wrappers, matching the node's log.Debug(...)
// call style used without constructing a logger first.
func Trace(msg string, ctx ...interface{}) { root.write(LvlTrace, msg, ctx) }
func Debug(msg string, ctx ...interface{}) { root.write(LvlDebug, msg, ctx) }
func Info(msg string, ctx ...interface{})  { root.write(LvlInfo, msg, ctx) }
func Warn(msg string, ctx ...interface{})  { root.write(LvlWarn, msg, ctx) }
func Error(msg string, ctx ...interface{}) { root.write(LvlError, msg, ctx) }
func Crit(msg string, ctx ...interface{})  { root.write(LvlCrit, msg, ctx) }
