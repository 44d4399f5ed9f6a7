package providers

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"warden/internal/structures"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeEvent
	TypeCmd
	TypeHTTP
)

type Logger interface {
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Errorf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type logFileNames struct {
	t    TypeEnum
	name string
}

var logFiles = []logFileNames{
	{TypeApp, "app.log"},
	{TypeEvent, "events.log"},
	{TypeCmd, "commands.log"},
	{TypeHTTP, "http.log"},
}

type LogProvider struct {
	loggers map[TypeEnum]*zerolog.Logger
	files   []*os.File
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(conf.Logger.Dir, 0755); err != nil {
		return nil, err
	}

	lp := &LogProvider{loggers: make(map[TypeEnum]*zerolog.Logger, len(logFiles))}
	for _, lf := range logFiles {
		path := filepath.Join(conf.Logger.Dir, lf.name)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			lp.Close()
			return nil, err
		}
		lp.files = append(lp.files, file)

		var out io.Writer = file
		if conf.Debug {
			out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		l := zerolog.New(out).Level(level).With().Timestamp().Logger()
		lp.loggers[lf.t] = &l
	}
	return lp, nil
}

func (lp *LogProvider) log(t TypeEnum) *zerolog.Logger {
	if l, ok := lp.loggers[t]; ok {
		return l
	}
	return lp.loggers[TypeApp]
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Debug().Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Info().Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Warn().Msgf(format, args...)
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Error().Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Fatal().Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	for _, f := range lp.files {
		_ = f.Close()
	}
}
