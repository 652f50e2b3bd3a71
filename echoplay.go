// SPDX-License-Identifier: EPL-2.0

package echoplay

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ik5/echoplay/audio"
	"github.com/ik5/echoplay/effect"
	"github.com/ik5/echoplay/formats/aiff"
	"github.com/ik5/echoplay/formats/flac"
	"github.com/ik5/echoplay/formats/mp3"
	"github.com/ik5/echoplay/formats/vorbis"
	"github.com/ik5/echoplay/formats/wav"
	"github.com/ik5/echoplay/playback"
	"github.com/ik5/echoplay/sample"
)

// Options configures a run of the pipeline.
type Options struct {
	// DelayMs is the echo delay in milliseconds.
	DelayMs float32
	// Feedback scales the delayed sample added to the dry one.
	Feedback float32
	// DelayRate is the sample rate used to turn DelayMs into an offset.
	// Zero means the rate of the loaded signal.
	DelayRate int
	// Mono downmixes the input to one channel while loading.
	Mono bool
	// Format is the preferred device sample format.
	Format sample.Format
	// ScratchSize overrides playback.DefaultScratchSize when positive.
	ScratchSize int

	Log logrus.FieldLogger
}

// DefaultOptions returns a 500 ms echo at half feedback, played as float32.
func DefaultOptions() Options {
	return Options{
		DelayMs:  500,
		Feedback: 0.5,
		Format:   sample.Float32,
	}
}

func (o Options) logger() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}

	return o.Log
}

// DefaultRegistry returns a registry with every decoder in formats/.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("flac", flac.Decoder{})

	return reg
}

// Load decodes path into memory with the decoder registered for its
// extension. Malformed samples are logged and skipped by audio.Collect.
func Load(path string, reg *audio.Registry, opts Options) (sig *audio.Signal, err error) {
	log := opts.logger().WithFields(logrus.Fields{
		"function": "Load",
		"path":     path,
	})

	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.WithError(cerr).Warn("Closing input failed")
		}
	}()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close decoder: %w", cerr))
		}
	}()

	if opts.Mono && src.Channels() > 1 {
		log.WithField("channels", src.Channels()).Debug("Downmixing to mono")
		src = audio.NewMonoMixer(src)
	}

	sig, err = audio.Collect(src, log)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return sig, nil
}

// Process applies the delay to sig and returns a new signal with the same
// format. sig is not modified.
func Process(sig *audio.Signal, opts Options) *audio.Signal {
	params := effect.Params{
		SampleRate: opts.DelayRate,
		DelayMs:    opts.DelayMs,
		Feedback:   opts.Feedback,
	}
	if params.SampleRate == 0 {
		params.SampleRate = sig.SampleRate
	}

	out := &audio.Signal{
		SampleRate: sig.SampleRate,
		Channels:   sig.Channels,
		Samples:    params.Apply(sig.Samples),
	}

	opts.logger().WithFields(logrus.Fields{
		"function": "Process",
		"delay_ms": params.DelayMs,
		"feedback": params.Feedback,
		"rate":     params.SampleRate,
		"offset":   params.Offset(),
		"samples":  len(out.Samples),
	}).Info("Applied delay")

	return out
}

// Play streams sig to dev and returns once the signal's duration has passed
// or ctx is done. The stream format is negotiated from the signal and
// opts.Format; sample rate and channels are never converted.
func Play(ctx context.Context, sig *audio.Signal, dev playback.Device, opts Options) (playback.Stats, error) {
	log := opts.logger().WithFields(logrus.Fields{
		"function": "Play",
		"device":   dev.Name(),
	})

	if err := sig.Validate(); err != nil {
		return playback.Stats{}, err
	}

	cfg, err := playback.Negotiate(sig.SampleRate, sig.Channels, opts.Format, dev.SupportedFormats())
	if err != nil {
		return playback.Stats{}, fmt.Errorf("negotiate with %s: %w", dev.Name(), err)
	}

	drv, err := playback.NewDriver(
		playback.NewBuffer(sig.Samples),
		cfg,
		playback.WithLogger(opts.logger()),
		playback.WithScratchSize(opts.ScratchSize),
	)
	if err != nil {
		return playback.Stats{}, err
	}

	err = drv.Run(ctx, dev, sig.Duration())
	stats := drv.Stats()

	log.WithFields(logrus.Fields{
		"callbacks":     stats.Callbacks,
		"samples":       stats.SamplesWritten,
		"silence":       stats.SilenceWritten,
		"device_errors": stats.DeviceErrors,
	}).Info("Playback finished")

	return stats, err
}

// Render writes sig to path as a 16-bit PCM WAV file.
func Render(path string, sig *audio.Signal, opts Options) error {
	if err := wav.WriteFile(path, sig); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	opts.logger().WithFields(logrus.Fields{
		"function": "Render",
		"path":     path,
		"samples":  len(sig.Samples),
		"duration": sig.Duration(),
	}).Info("Rendered output")

	return nil
}
