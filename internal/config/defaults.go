package config

const (
	defaultSegmentBinary     = "src/c/bin/segment"
	defaultSoxBinary         = "sox"
	defaultFramegenBinary    = "./generate_frames"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultSegmentTimeout    = 30
	defaultConcatTimeout     = 30
	defaultFramesTimeout     = 300
	defaultVideoTimeout      = 120
	defaultProbeTimeout      = 10
	defaultConcatRepeat      = 6
	defaultFrameRate         = 60
	defaultMinVideoBytes     = 1000
	defaultDescriptionPrefix = "NFT from"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			SegmentBinary:  defaultSegmentBinary,
			SoxBinary:      defaultSoxBinary,
			FramegenBinary: defaultFramegenBinary,
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
		},
		Timeouts: Timeouts{
			Segment: defaultSegmentTimeout,
			Concat:  defaultConcatTimeout,
			Frames:  defaultFramesTimeout,
			Video:   defaultVideoTimeout,
			Probe:   defaultProbeTimeout,
		},
		Pipeline: Pipeline{
			ConcatRepeat:      defaultConcatRepeat,
			FrameRate:         defaultFrameRate,
			MinVideoBytes:     defaultMinVideoBytes,
			DescriptionPrefix: defaultDescriptionPrefix,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func (c *Config) normalize() {
	if c.Tools.SegmentBinary == "" {
		c.Tools.SegmentBinary = defaultSegmentBinary
	}
	if c.Tools.SoxBinary == "" {
		c.Tools.SoxBinary = defaultSoxBinary
	}
	if c.Tools.FramegenBinary == "" {
		c.Tools.FramegenBinary = defaultFramegenBinary
	}
	if c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Pipeline.DescriptionPrefix == "" {
		c.Pipeline.DescriptionPrefix = defaultDescriptionPrefix
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
