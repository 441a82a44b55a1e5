package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// ErrFFmpegNotFound is returned when ffmpeg or ffprobe is not in PATH.
var ErrFFmpegNotFound = errors.New("source: ffmpeg not found in PATH")

// FFmpeg is a Source decoding a video file with an ffmpeg subprocess.
type FFmpeg struct {
	info   Info
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	buf    []byte
}

type probe struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
}

// parseRate parses a frame rate as ffprobe prints it, such as "30000/1001".
func parseRate(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("source: bad frame rate %q", s)
	}
	d := 1.0
	if ok {
		if d, err = strconv.ParseFloat(den, 64); err != nil || d == 0 {
			return 0, fmt.Errorf("source: bad frame rate %q", s)
		}
	}
	if n <= 0 {
		return 0, fmt.Errorf("source: bad frame rate %q", s)
	}
	return n / d, nil
}

func parseProbe(b []byte) (Info, error) {
	var p probe
	if err := json.Unmarshal(b, &p); err != nil {
		return Info{}, fmt.Errorf("source: parsing ffprobe output: %w", err)
	}
	if len(p.Streams) == 0 {
		return Info{}, errors.New("source: no video stream")
	}
	s := p.Streams[0]

	rate := s.AvgFrameRate
	if rate == "" || rate == "0/0" {
		rate = s.RFrameRate
	}
	fps, err := parseRate(rate)
	if err != nil {
		return Info{}, err
	}

	info := Info{Width: s.Width, Height: s.Height, FPS: fps}
	if n, err := strconv.Atoi(s.NbFrames); err == nil {
		info.Frames = n
	}
	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, fmt.Errorf("source: bad video size %dx%d", info.Width, info.Height)
	}
	return info, nil
}

// NewFFmpeg probes the video at path and starts decoding it. Cancelling ctx
// kills the decoder.
func NewFFmpeg(ctx context.Context, path string) (*FFmpeg, error) {
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, ErrFFmpegNotFound
	}
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, ErrFFmpegNotFound
	}

	out, err := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,nb_frames",
		"-of", "json",
		path).Output()
	if err != nil {
		return nil, fmt.Errorf("source: ffprobe %s: %w", path, err)
	}
	info, err := parseProbe(out)
	if err != nil {
		return nil, err
	}

	s := &FFmpeg{
		info: info,
		buf:  make([]byte, info.Width*info.Height*3),
	}
	s.cmd = exec.CommandContext(ctx, ffmpeg,
		"-v", "error",
		"-i", path,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-")
	s.cmd.Stderr = &s.stderr
	if s.stdout, err = s.cmd.StdoutPipe(); err != nil {
		return nil, err
	}
	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("source: starting ffmpeg: %w", err)
	}

	return s, nil
}

// Info implements Source.
func (s *FFmpeg) Info() Info {
	return s.info
}

// Next implements Source.
func (s *FFmpeg) Next() (*image.RGBA, error) {
	if _, err := io.ReadFull(s.stdout, s.buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("source: ffmpeg: short frame: %s", strings.TrimSpace(s.stderr.String()))
		}
		return nil, err
	}
	return rgb24(s.buf, s.info.Width, s.info.Height), nil
}

func rgb24(b []byte, w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i < len(b); i, j = i+3, j+4 {
		m.Pix[j], m.Pix[j+1], m.Pix[j+2], m.Pix[j+3] = b[i], b[i+1], b[i+2], 0xff
	}
	return m
}

// Close stops the decoder.
func (s *FFmpeg) Close() error {
	s.stdout.Close()
	if err := s.cmd.Wait(); err != nil {
		// Closing the pipe early makes ffmpeg fail
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return nil
		}
		return err
	}
	return nil
}
