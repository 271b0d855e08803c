package logging

import (
	"go.uber.org/zap"
)

type impl struct {
	name  string
	level zap.AtomicLevel

	*zap.SugaredLogger
}

// Subloggers share their parent's level and outputs.
func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = imp.name + "." + subname
	}
	return &impl{
		name:          newName,
		level:         imp.level,
		SugaredLogger: imp.SugaredLogger.Named(subname),
	}
}

func (imp *impl) SetLevel(level Level) {
	imp.level.SetLevel(level.AsZap())
}

func (imp *impl) GetLevel() Level {
	switch imp.level.Level() {
	case zap.DebugLevel:
		return DEBUG
	case zap.InfoLevel:
		return INFO
	case zap.WarnLevel:
		return WARN
	default:
		return ERROR
	}
}
