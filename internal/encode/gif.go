package encode

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/heatanim/internal/heat"
)

const (
	DefaultInterval = 50 * time.Millisecond
	// DefaultMinSize is the size below which an artifact is reported as
	// possibly corrupted (0.1 MiB).
	DefaultMinSize int64 = 1024 * 1024 / 10
)

// Frames is an ordered, finite sequence of paletted images.
type Frames interface {
	Len() int
	Image(i int) (*image.Paletted, error)
}

// Artifact describes a written animation.
type Artifact struct {
	Path     string
	Frames   int
	FPS      float64
	Delay    int // hundredths of a second per frame
	Size     int64
	Warnings []string
}

type Encoder struct {
	Interval time.Duration
	MinSize  int64
	Logger   *slog.Logger
}

func New(interval time.Duration, logger *slog.Logger) *Encoder {
	return &Encoder{Interval: interval, MinSize: DefaultMinSize, Logger: logger}
}

func (e *Encoder) interval() time.Duration {
	if e.Interval <= 0 {
		return DefaultInterval
	}
	return e.Interval
}

func (e *Encoder) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// FPS is 1000 divided by the frame interval in milliseconds.
func (e *Encoder) FPS() float64 {
	return float64(time.Second) / float64(e.interval())
}

// Delay converts the interval to GIF delay units, at least one.
func (e *Encoder) Delay() int {
	d := int(math.Round(float64(e.interval()) / float64(10*time.Millisecond)))
	if d < 1 {
		d = 1
	}
	return d
}

// Encode writes frames to path as a looping GIF. It makes a single attempt.
// Failures return *heat.EncodingError; an undersized result only adds a
// warning to the artifact.
func (e *Encoder) Encode(path string, frames Frames) (*Artifact, error) {
	log := e.logger()
	n := frames.Len()
	if n == 0 {
		return nil, &heat.EncodingError{Path: path, Wrapped: errors.New("no frames")}
	}

	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, n),
		Delay: make([]int, 0, n),
	}
	delay := e.Delay()
	log.Info("generating frames", "frames", n)
	for i := 0; i < n; i++ {
		img, err := frames.Image(i)
		if err != nil {
			return nil, &heat.EncodingError{Path: path, Wrapped: fmt.Errorf("frame %d: %w", i, err)}
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	}

	log.Info("saving animation", "path", path, "fps", e.FPS())
	if err := write(path, anim); err != nil {
		return nil, &heat.EncodingError{Path: path, Wrapped: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &heat.EncodingError{Path: path, Wrapped: fmt.Errorf("artifact was not created: %w", err)}
	}

	art := &Artifact{
		Path:   path,
		Frames: n,
		FPS:    e.FPS(),
		Delay:  delay,
		Size:   info.Size(),
	}
	log.Info("animation saved", "path", path, "size_mb", fmt.Sprintf("%.2f", float64(art.Size)/(1024*1024)))

	if e.MinSize > 0 && art.Size < e.MinSize {
		msg := fmt.Sprintf("file seems too small (%d bytes), might be corrupted", art.Size)
		art.Warnings = append(art.Warnings, msg)
		log.Warn("animation "+msg, "path", path)
	}
	return art, nil
}

func write(path string, anim *gif.GIF) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
