package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

type logger interface {
	newSubLogger(prefix string) logger

	Printf(format string, v ...any)
	Debugf(format string, v ...any)
	Warnf(format string, v ...any)
}

type rootLogger struct {
	entry *logrus.Entry
}

func newLogger(out io.Writer, level logrus.Level) logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	return &rootLogger{
		entry: logrus.NewEntry(l),
	}
}

func (l *rootLogger) newSubLogger(prefix string) logger {
	return &subLogger{
		entry:  l.entry.WithField("component", prefix),
		prefix: prefix,
	}
}

func (l *rootLogger) Printf(format string, v ...any) {
	l.entry.Infof(format, v...)
}

func (l *rootLogger) Debugf(format string, v ...any) {
	l.entry.Debugf(format, v...)
}

func (l *rootLogger) Warnf(format string, v ...any) {
	l.entry.Warnf(format, v...)
}

type subLogger struct {
	entry  *logrus.Entry
	prefix string
}

func (s *subLogger) newSubLogger(prefix string) logger {
	prefix = s.prefix + "." + prefix

	return &subLogger{
		entry:  s.entry.WithField("component", prefix),
		prefix: prefix,
	}
}

func (s *subLogger) Printf(format string, v ...any) {
	s.entry.Infof(format, v...)
}

func (s *subLogger) Debugf(format string, v ...any) {
	s.entry.Debugf(format, v...)
}

func (s *subLogger) Warnf(format string, v ...any) {
	s.entry.Warnf(format, v...)
}
