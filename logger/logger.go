// Package logger implements async logging of scan messages
package logger

import (
	"fmt"
	"os"

	"github.com/MG-RAST/Strand/conf"
	l4g "github.com/MG-RAST/golib/log4go"
)

var Log *Logger

type m struct {
	log     string
	lvl     l4g.Level
	message string
}

type Logger struct {
	queue chan m
	logs  map[string]l4g.Logger
}

// Initialize sets up package var Log for use in Info(), Error(), and Perf()
func Initialize() {
	Log = New()
	go Log.Handle()
}

// Info is a short cut function that uses package initialized logger
func Info(log string, message string) {
	Log.Info(log, message)
	return
}

// Error is a short cut function that uses package initialized logger and error log
func Error(message string) {
	Log.Error(message)
	return
}

// Perf is a short cut function that uses package initialized logger and performance log
func Perf(message string) {
	Log.Perf(message)
	return
}

// New configures and returns a new logger. Writes to per-log files under
// conf.LOGS_PATH, or to the console when no log path is configured.
func New() *Logger {
	l := &Logger{queue: make(chan m, 1024), logs: map[string]l4g.Logger{}}
	for _, name := range []string{"scan", "error", "perf"} {
		l.logs[name] = make(l4g.Logger)
		if conf.LOGS_PATH == "" {
			l.logs[name].AddFilter(name, l4g.FINEST, l4g.NewConsoleLogWriter())
			continue
		}
		logf := l4g.NewFileLogWriter(conf.LOGS_PATH+"/"+name+".log", false)
		if logf == nil {
			fmt.Fprintf(os.Stderr, "ERROR: error creating %s log file\n", name)
			os.Exit(1)
		}
		if conf.LOG_ROTATE {
			l.logs[name].AddFilter(name, l4g.FINEST, logf.SetFormat("[%D %T] [%L] %M").SetRotate(true).SetRotateDaily(true))
		} else {
			l.logs[name].AddFilter(name, l4g.FINEST, logf.SetFormat("[%D %T] [%L] %M"))
		}
	}
	return l
}

func (l *Logger) Handle() {
	for {
		m := <-l.queue
		l.logs[m.log].Log(m.lvl, "", m.message)
	}
}

func (l *Logger) Log(log string, lvl l4g.Level, message string) {
	l.queue <- m{log: log, lvl: lvl, message: message}
	return
}

func (l *Logger) Debug(log string, message string) {
	l.Log(log, l4g.DEBUG, message)
	return
}

func (l *Logger) Warning(log string, message string) {
	l.Log(log, l4g.WARNING, message)
	return
}

func (l *Logger) Info(log string, message string) {
	l.Log(log, l4g.INFO, message)
	return
}

func (l *Logger) Critical(log string, message string) {
	l.Log(log, l4g.CRITICAL, message)
	return
}

func (l *Logger) Error(message string) {
	l.Log("error", l4g.ERROR, message)
	return
}

func (l *Logger) Perf(message string) {
	l.Log("perf", l4g.INFO, message)
	return
}
