package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("measured", "cm", 17.15)
	logger.Sublogger("ultrasonic").Info("ready")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entries := logs.All()
	test.That(t, entries[0].Message, test.ShouldEqual, "measured")
	test.That(t, entries[0].ContextMap()["cm"], test.ShouldEqual, 17.15)
	test.That(t, entries[1].LoggerName, test.ShouldEqual, "ultrasonic")
	test.That(t, entries[1].Level, test.ShouldEqual, zapcore.InfoLevel)
}

func TestSetLevel(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)

	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
	logger.Info("dropped")
	logger.Warn("kept")
	test.That(t, logs.Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].Message, test.ShouldEqual, "kept")

	// subloggers follow the parent.
	sub := logger.Sublogger("child")
	sub.Info("dropped too")
	test.That(t, logs.Len(), test.ShouldEqual, 1)
}

func TestLevelFromString(t *testing.T) {
	for inp, expected := range map[string]Level{"debug": DEBUG, "INFO": INFO, "Warn": WARN, "error": ERROR} {
		level, err := LevelFromString(inp)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, expected)
		test.That(t, level.AsZap().String(), test.ShouldEqual, strings.ToLower(level.String()))
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGlobal(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	prev := Global()
	test.That(t, prev, test.ShouldNotBeNil)
	defer ReplaceGlobal(prev)

	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
	Global().Infow("from global", "k", 1)
	test.That(t, logs.FilterMessage("from global").Len(), test.ShouldEqual, 1)
}
