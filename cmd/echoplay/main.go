// SPDX-License-Identifier: EPL-2.0

// Command echoplay plays an audio file with an echo applied.
//
//	echoplay [flags] [input]
//
// The input defaults to ./piano.wav. With -render the processed signal is
// written to a WAV file instead of being played.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ik5/echoplay"
	"github.com/ik5/echoplay/device"
	"github.com/ik5/echoplay/playback"
	"github.com/ik5/echoplay/sample"
)

const defaultInput = "./piano.wav"

// cliConfig holds the parsed command line.
type cliConfig struct {
	input     string
	delayMs   float64
	feedback  float64
	delayRate int
	format    string
	mono      bool
	buffer    time.Duration
	render    string
	headless  bool
	logLevel  string
}

// parseFlags parses args, not including the program name.
func parseFlags(args []string, output io.Writer) (*cliConfig, error) {
	cfg := &cliConfig{}

	fs := flag.NewFlagSet("echoplay", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.input, "in", defaultInput, "Input audio file (wav, aiff, mp3, ogg, flac)")

	// Effect
	fs.Float64Var(&cfg.delayMs, "delay-ms", 500, "Echo delay in milliseconds")
	fs.Float64Var(&cfg.feedback, "feedback", 0.5, "Gain of the delayed signal")
	fs.IntVar(&cfg.delayRate, "delay-rate", 0, "Sample rate used to compute the delay offset (0: the file's rate)")

	// Output
	fs.StringVar(&cfg.format, "format", sample.Float32.String(), "Device sample format (float32, int16)")
	fs.BoolVar(&cfg.mono, "mono", false, "Downmix the input to mono")
	fs.DurationVar(&cfg.buffer, "buffer", 0, "Device buffer duration (0: driver default)")
	fs.StringVar(&cfg.render, "render", "", "Write the processed signal to this WAV file instead of playing it")
	fs.BoolVar(&cfg.headless, "headless", false, "Play to a timer-driven null device")

	// Logging
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: echoplay [flags] [input]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.input = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}

	return cfg, nil
}

// options converts the command line into pipeline options.
func (c *cliConfig) options(log logrus.FieldLogger) (echoplay.Options, error) {
	format, err := sample.ParseFormat(c.format)
	if err != nil {
		return echoplay.Options{}, err
	}

	opts := echoplay.DefaultOptions()
	opts.DelayMs = float32(c.delayMs)
	opts.Feedback = float32(c.feedback)
	opts.DelayRate = c.delayRate
	opts.Mono = c.mono
	opts.Format = format
	opts.Log = log

	return opts, nil
}

// newLogger builds the process logger. Text output goes to terminals, JSON
// everywhere else.
func newLogger(level string, out *os.File) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)

	if term.IsTerminal(int(out.Fd())) {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log, nil
}

func run(ctx context.Context, args []string) error {
	cfg, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.logLevel, os.Stderr)
	if err != nil {
		return err
	}
	log := logger.WithField("session", uuid.NewString())

	opts, err := cfg.options(log)
	if err != nil {
		return err
	}

	sig, err := echoplay.Load(cfg.input, echoplay.DefaultRegistry(), opts)
	if err != nil {
		return err
	}

	wet := echoplay.Process(sig, opts)

	if cfg.render != "" {
		return echoplay.Render(cfg.render, wet, opts)
	}

	var dev playback.Device = device.NewOto(cfg.buffer, log)
	if cfg.headless {
		dev = device.NewHeadless(device.DefaultBlockFrames)
	}

	_, err = echoplay.Play(ctx, wet, dev, opts)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "echoplay: %v\n", err)
		os.Exit(1)
	}
}
