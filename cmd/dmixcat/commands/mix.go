// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/dmixpbx"
	"github.com/ik5/dmixpbx/audio"
	"github.com/ik5/dmixpbx/formats/wav"
	"github.com/ik5/dmixpbx/internal/config"
)

var mixOpts struct {
	output     string
	format     string
	rate       int
	channels   int
	period     int
	maxPeriods int
	config     string
	shm        string
}

var mixCmd = &cobra.Command{
	Use:   "mix [flags] input...",
	Short: "Mix input files into a WAV file",
	Long: `Mix every input file onto one bus and write the result as WAV.

Inputs are resampled and up or down mixed to the bus layout. The mix
lasts as long as the longest input; overflow saturates.

Settings come from the YAML file given with --config, and flags override
them. Inputs on the command line replace the inputs of the file.

Example config (dmix.yaml):
  bus:
    format: s24_3le
    rate: 44100
    channels: 2
    period_frames: 512
  output: mix.wav
  inputs:
    - voice.wav
    - music.ogg

Examples:
  dmixcat mix -o out.wav a.wav b.mp3
  dmixcat mix --config dmix.yaml --format s32
  dmixcat mix -o - a.wav b.wav > out.wav`,
	RunE: runMix,
}

func init() {
	d := config.Default()
	f := mixCmd.Flags()
	f.StringVarP(&mixOpts.output, "output", "o", "", "output WAV file, - for stdout")
	f.StringVar(&mixOpts.format, "format", d.Bus.Format, "bus sample format: s16, s32 or s24_3le")
	f.IntVar(&mixOpts.rate, "rate", d.Bus.Rate, "bus sample rate in Hz")
	f.IntVar(&mixOpts.channels, "channels", d.Bus.Channels, "bus channel count")
	f.IntVar(&mixOpts.period, "period", d.Bus.PeriodFrames, "frames per period")
	f.IntVar(&mixOpts.maxPeriods, "max-periods", 0, "stop after this many periods, 0 for no limit")
	f.StringVarP(&mixOpts.config, "config", "c", "", "YAML config file")
	f.StringVar(&mixOpts.shm, "shm", "", "map the bus memory from this file")

	rootCmd.AddCommand(mixCmd)
}

// loadMixConfig merges the config file, the changed flags and args.
func loadMixConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if mixOpts.config != "" {
		var err error
		if cfg, err = config.Load(mixOpts.config); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = mixOpts.output
	}
	if flags.Changed("format") {
		cfg.Bus.Format = mixOpts.format
	}
	if flags.Changed("rate") {
		cfg.Bus.Rate = mixOpts.rate
	}
	if flags.Changed("channels") {
		cfg.Bus.Channels = mixOpts.channels
	}
	if flags.Changed("period") {
		cfg.Bus.PeriodFrames = mixOpts.period
	}
	if flags.Changed("max-periods") {
		cfg.Bus.MaxPeriods = mixOpts.maxPeriods
	}
	if flags.Changed("shm") {
		cfg.Shm.Path = mixOpts.shm
	}
	if len(args) > 0 {
		cfg.Inputs = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Output == "" {
		return nil, fmt.Errorf("output file is required, use -o flag")
	}
	if len(cfg.Inputs) == 0 {
		return nil, fmt.Errorf("at least one input file is required")
	}
	return cfg, nil
}

func runMix(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadMixConfig(cmd, args)
	if err != nil {
		return err
	}
	if !verbose && cfg.Logging.Level != "" {
		level, _ := cfg.LogLevel()
		setupLogger(level)
	}
	log := slog.Default()

	busCfg, err := cfg.BusConfig()
	if err != nil {
		return err
	}

	// every input must open before the output file is created
	streams, err := openStreams(dmixpbx.NewRegistry(), cfg.Inputs, busCfg)
	if err != nil {
		return err
	}

	bus, release, err := openBus(busCfg, cfg.Shm.Path)
	if err != nil {
		return errors.Join(err, closeStreams(streams))
	}
	defer release()

	sink, finish, err := openSink(cmd.OutOrStdout(), cfg.Output, busCfg)
	if err != nil {
		return errors.Join(err, closeStreams(streams))
	}

	eng := audio.NewEngine(bus, sink, audio.WithLogger(log), audio.WithMaxPeriods(cfg.Bus.MaxPeriods))
	defer func() {
		if cerr := eng.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close inputs: %w", cerr))
		}
	}()
	for _, s := range streams {
		eng.Add(s)
	}

	start := time.Now()
	periods, runErr := eng.Run(cmd.Context())
	// whatever was mixed before an interrupt is still written out
	if err := finish(); err != nil {
		return errors.Join(runErr, fmt.Errorf("write %s: %w", cfg.Output, err))
	}
	if runErr != nil {
		return runErr
	}

	log.Info("mix done",
		"inputs", len(cfg.Inputs),
		"periods", periods,
		"format", busCfg.Format,
		"rate", busCfg.Rate,
		"channels", busCfg.Channels,
		"elapsed", time.Since(start),
	)
	return nil
}

// openStreams opens every input, or none: on failure the streams opened
// so far are closed again.
func openStreams(reg *audio.Registry, inputs []string, cfg audio.BusConfig) ([]*audio.Stream, error) {
	streams := make([]*audio.Stream, 0, len(inputs))
	for _, in := range inputs {
		s, err := openStream(reg, in, cfg)
		if err != nil {
			return nil, errors.Join(err, closeStreams(streams))
		}
		slog.Debug("input opened", "name", in)
		streams = append(streams, s)
	}
	return streams, nil
}

func closeStreams(streams []*audio.Stream) error {
	var errs []error
	for _, s := range streams {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

func openStream(reg *audio.Registry, path string, cfg audio.BusConfig) (*audio.Stream, error) {
	dec, err := reg.Lookup(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	s, err := audio.NewStream(filepath.Base(path), &fileSource{Source: src, file: f}, cfg)
	if err != nil {
		src.Close()
		f.Close()
		return nil, err
	}
	return s, nil
}

// fileSource closes the input file along with the decoded source.
type fileSource struct {
	audio.Source
	file *os.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.file.Close())
}

// openSink returns the period sink for output and a function that
// completes the file. Regular files are written as the mix runs; stdout
// is buffered because the header sizes cannot be patched on a pipe.
func openSink(stdout io.Writer, output string, cfg audio.BusConfig) (audio.Sink, func() error, error) {
	if output == "-" {
		var col audio.Collector
		finish := func() error {
			return wav.WriteWAV(stdout, cfg.Rate, cfg.Channels, cfg.Format, col.Data)
		}
		return &col, finish, nil
	}

	f, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	enc, err := wav.NewEncoder(f, cfg.Rate, cfg.Channels, cfg.Format)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	finish := func() error {
		return errors.Join(enc.Close(), f.Close())
	}
	return enc, finish, nil
}
