package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/hcsr04/components/board"
	"go.viam.com/hcsr04/components/board/genericlinux"
	"go.viam.com/hcsr04/components/sensor/ultrasonic"
	"go.viam.com/hcsr04/logging"
	"go.viam.com/hcsr04/units"
)

const (
	flagConfig        = "config"
	flagDebug         = "debug"
	flagLogLevel      = "log-level"
	flagChip          = "chip"
	flagPeriph        = "periph"
	flagTrigger       = "trigger"
	flagEcho          = "echo"
	flagTimeout       = "timeout"
	flagRangeCm       = "range-cm"
	flagMinDistanceCm = "min-distance-cm"
	flagInterval      = "interval"

	defaultTriggerPin = "21"
	defaultEchoPin    = "20"
	defaultInterval   = 200 * time.Millisecond
)

func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "ultrasonic",
		Usage:           "print distances read from an HC-SR04 ultrasonic sensor",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load board and sensor configuration from JSON `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "log level: debug, info, warn or error",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  flagChip,
				Usage: "GPIO character device",
				Value: board.DefaultChip,
			},
			&cli.BoolFlag{
				Name:  flagPeriph,
				Usage: "drive the lines through periph.io instead of the character device",
			},
			&cli.StringFlag{
				Name:  flagTrigger,
				Usage: "trigger line",
				Value: defaultTriggerPin,
			},
			&cli.StringFlag{
				Name:  flagEcho,
				Usage: "echo line",
				Value: defaultEchoPin,
			},
			&cli.DurationFlag{
				Name:  flagTimeout,
				Usage: "per-edge timeout; the echo may take twice as long",
			},
			&cli.Float64Flag{
				Name:  flagRangeCm,
				Usage: "derive the timeout from the farthest range of interest, in centimeters",
			},
			&cli.Float64Flag{
				Name:  flagMinDistanceCm,
				Usage: "report readings closer than this as no measurement",
			},
			&cli.DurationFlag{
				Name:  flagInterval,
				Usage: "time between readings",
				Value: defaultInterval,
			},
		},
		Action: runAction,
	}
}

// appConfig is the file format read by --config. The file is JSON5, so it may carry comments.
type appConfig struct {
	Board  board.Config           `json:"board"`
	Sensor map[string]interface{} `json:"sensor"`
}

// options is everything a run needs once the config file and flags are merged.
type options struct {
	board    board.Config
	sensor   *ultrasonic.Config
	timeout  time.Duration
	interval time.Duration
	logLevel logging.Level
}

func readConfigFile(path string) (*appConfig, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", path)
	}
	var conf appConfig
	if err := json5.Unmarshal(data, &conf); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config file %q", path)
	}
	return &conf, nil
}

// loadOptions reads the config file, if any, and applies the flags the user set on top of it.
func loadOptions(c *cli.Context) (*options, error) {
	opts := &options{sensor: &ultrasonic.Config{}, interval: c.Duration(flagInterval)}

	level, err := logging.LevelFromString(c.String(flagLogLevel))
	if err != nil {
		return nil, err
	}
	opts.logLevel = level
	if c.Bool(flagDebug) {
		opts.logLevel = logging.DEBUG
	}

	if path := c.String(flagConfig); path != "" {
		conf, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		opts.board = conf.Board
		if conf.Sensor != nil {
			if opts.sensor, err = ultrasonic.ConfigFromAttributes(conf.Sensor); err != nil {
				return nil, err
			}
		}
	}

	if c.IsSet(flagChip) || opts.board.Chip == "" {
		opts.board.Chip = c.String(flagChip)
	}
	if c.IsSet(flagPeriph) {
		opts.board.UsePeriphGpio = c.Bool(flagPeriph)
	}
	if c.IsSet(flagTrigger) || opts.sensor.TriggerPin == "" {
		opts.sensor.TriggerPin = c.String(flagTrigger)
	}
	if c.IsSet(flagEcho) || opts.sensor.EchoPin == "" {
		opts.sensor.EchoPin = c.String(flagEcho)
	}
	if c.IsSet(flagMinDistanceCm) {
		opts.sensor.MinDistance = c.Float64(flagMinDistanceCm)
		opts.sensor.MinDistanceUnit = units.Centimeter.String()
	}

	if c.IsSet(flagTimeout) && c.IsSet(flagRangeCm) {
		return nil, errors.Errorf("--%s and --%s cannot be used together", flagTimeout, flagRangeCm)
	}
	opts.timeout = c.Duration(flagTimeout)
	if c.IsSet(flagRangeCm) {
		timeout, err := ultrasonic.RangeToTimeout(units.Cm(c.Float64(flagRangeCm)))
		if err != nil {
			return nil, err
		}
		opts.timeout = timeout
	}
	if opts.interval <= 0 {
		return nil, errors.Errorf("--%s must be positive", flagInterval)
	}

	if err := opts.board.Validate("board"); err != nil {
		return nil, err
	}
	if _, err := opts.sensor.Validate("sensor"); err != nil {
		return nil, err
	}
	return opts, nil
}

func runAction(c *cli.Context) (err error) {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	logger := logging.NewLogger("ultrasonic")
	logger.SetLevel(opts.logLevel)
	logging.ReplaceGlobal(logger)
	defer utils.UncheckedErrorFunc(logger.Sync)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := genericlinux.NewBoard(ctx, &opts.board, logger.Sublogger("board"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, b.Close(context.Background()))
	}()

	sensor, err := ultrasonic.NewSensor(ctx, b, opts.sensor, logger.Sublogger("sensor"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, sensor.Close(context.Background()))
	}()

	return poll(ctx, sensor, opts.timeout, opts.interval, c.App.Writer, logger)
}

type distanceSensor interface {
	MeasureCm(ctx context.Context, timeout time.Duration) (units.Distance, error)
}

// poll prints one reading per interval until ctx is done. Missed echoes and targets that are
// too close are logged and skipped; any other failure ends polling.
func poll(
	ctx context.Context,
	sensor distanceSensor,
	timeout, interval time.Duration,
	out io.Writer,
	logger logging.Logger,
) error {
	for {
		d, err := sensor.MeasureCm(ctx, timeout)
		switch {
		case err == nil:
			if _, err := fmt.Fprintf(out, "Distance: %05.2fcm\n", d.Value()); err != nil {
				return err
			}
		case errors.Is(err, ultrasonic.ErrTimeout), errors.Is(err, ultrasonic.ErrNoMeasurement):
			logger.Warnw("no reading", "error", err)
		default:
			return err
		}
		if !utils.SelectContextOrWait(ctx, interval) {
			return nil
		}
	}
}
