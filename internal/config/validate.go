package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	for name, value := range map[string]int{
		"timeouts.segment": c.Timeouts.Segment,
		"timeouts.concat":  c.Timeouts.Concat,
		"timeouts.frames":  c.Timeouts.Frames,
		"timeouts.video":   c.Timeouts.Video,
		"timeouts.probe":   c.Timeouts.Probe,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive (seconds)", name)
		}
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.ConcatRepeat < 1 || c.Pipeline.ConcatRepeat > 64 {
		return fmt.Errorf("pipeline.concat_repeat must be between 1 and 64, got %d", c.Pipeline.ConcatRepeat)
	}
	if c.Pipeline.FrameRate <= 0 {
		return errors.New("pipeline.frame_rate must be positive")
	}
	if c.Pipeline.MinVideoBytes <= 0 {
		return errors.New("pipeline.min_video_bytes must be positive")
	}
	return nil
}
