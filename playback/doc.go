// SPDX-License-Identifier: EPL-2.0

// Package playback moves a processed signal to an output device in real
// time.
//
// Two goroutines share one Buffer. The setup goroutine builds it from a
// finished signal, starts the stream and then only waits. The device's own
// goroutine calls Driver.Fill every time it needs a block of audio. The
// buffer's mutex guards the cursor alone and is held just long enough to
// copy a block out; encoding to the native format happens after the lock is
// released.
//
// A typical session:
//
//	cfg, err := playback.Negotiate(sig.SampleRate, sig.Channels, sample.Float32, dev.SupportedFormats())
//	if err != nil {
//	    return err
//	}
//
//	drv, err := playback.NewDriver(playback.NewBuffer(sig.Samples), cfg)
//	if err != nil {
//	    return err
//	}
//
//	err = drv.Run(ctx, dev, sig.Duration())
//
// Device errors raised while the stream runs are logged and counted in
// Stats; they never end the session. Only the play duration elapsing or ctx
// being cancelled does.
package playback
