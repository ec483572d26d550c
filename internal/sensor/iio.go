package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"compass.klederson.com/internal/config"
	"compass.klederson.com/internal/heading"
	tea "github.com/charmbracelet/bubbletea"
)

const iioBase = "/sys/bus/iio/devices"

// iioChannel reads one sysfs triple (x/y/z raw plus scale) of an IIO device.
type iioChannel struct {
	dir    string
	prefix string // "in_accel" or "in_magn"
	scale  heading.Vec3
}

// IIOSource polls a Linux IIO accelerometer and magnetometer and emits
// gravity and magnetic vector samples for the dual-vector extractor.
type IIOSource struct {
	base   string // sysfs root, overridable for tests
	name   string // device name filter, empty = first capable device
	accel  *iioChannel
	magn   *iioChannel
	period time.Duration

	program *tea.Program
	cancel  context.CancelFunc
}

// NewIIOSource creates a source backed by /sys/bus/iio. name optionally
// restricts discovery to devices whose name matches (case-insensitive
// substring), mirroring how drivers expose chips like "lsm303dlhc".
func NewIIOSource(name string) *IIOSource {
	return &IIOSource{base: iioBase, name: name, period: config.SampleInterval}
}

// Start discovers the accelerometer and magnetometer channels and begins
// polling. Returns ErrUnavailable if either capability is missing; heading
// extraction needs both.
func (s *IIOSource) Start(p *tea.Program) error {
	accel, err := s.discover("in_accel")
	if err != nil {
		return fmt.Errorf("%w: accelerometer: %v", ErrUnavailable, err)
	}
	magn, err := s.discover("in_magn")
	if err != nil {
		return fmt.Errorf("%w: magnetometer: %v", ErrUnavailable, err)
	}
	s.accel, s.magn = accel, magn
	s.program = p

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx)
	return nil
}

// Stop halts polling.
func (s *IIOSource) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *IIOSource) loop(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// The two kinds are sent as independent messages; the
			// extractor re-pairs them.
			s.emit(VectorGravity, s.accel)
			s.emit(VectorMagnetic, s.magn)
		}
	}
}

func (s *IIOSource) emit(kind VectorKind, ch *iioChannel) {
	v, err := ch.read()
	if err != nil {
		s.program.Send(SourceErrorMsg{Err: fmt.Errorf("read %s: %w", kind, err)})
		return
	}
	s.program.Send(VectorSampleMsg{Kind: kind, V: v})
}

// discover walks the sysfs tree for a device exposing the given channel
// prefix. With a name filter, only matching devices qualify.
func (s *IIOSource) discover(prefix string) (*iioChannel, error) {
	entries, err := os.ReadDir(s.base)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.base, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "iio:device") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, n := range names {
		dir := filepath.Join(s.base, n)
		if s.name != "" && !matchesName(dir, s.name) {
			continue
		}
		if !fileExists(filepath.Join(dir, prefix+"_x_raw")) {
			continue
		}
		ch := &iioChannel{dir: dir, prefix: prefix}
		ch.scale = readScale(dir, prefix)
		return ch, nil
	}
	return nil, fmt.Errorf("no IIO device with %s channels", prefix)
}

func (c *iioChannel) read() (heading.Vec3, error) {
	x, err := readRaw(c.dir, c.prefix, "x")
	if err != nil {
		return heading.Vec3{}, err
	}
	y, err := readRaw(c.dir, c.prefix, "y")
	if err != nil {
		return heading.Vec3{}, err
	}
	z, err := readRaw(c.dir, c.prefix, "z")
	if err != nil {
		return heading.Vec3{}, err
	}
	return heading.Vec3{
		X: float64(x) * c.scale.X,
		Y: float64(y) * c.scale.Y,
		Z: float64(z) * c.scale.Z,
	}, nil
}

func readRaw(dir, prefix, axis string) (int64, error) {
	b, err := os.ReadFile(filepath.Join(dir, prefix+"_"+axis+"_raw"))
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s_%s_raw %q: %w", prefix, axis, s, err)
	}
	return v, nil
}

// readScale reads per-axis scales, falling back to the shared channel scale
// and finally to 1.0 (some drivers expose pre-scaled raw values).
func readScale(dir, prefix string) heading.Vec3 {
	shared := 1.0
	if v, ok := readFloatIfExists(filepath.Join(dir, prefix+"_scale")); ok {
		shared = v
	}
	scale := heading.Vec3{X: shared, Y: shared, Z: shared}
	if v, ok := readFloatIfExists(filepath.Join(dir, prefix+"_x_scale")); ok {
		scale.X = v
	}
	if v, ok := readFloatIfExists(filepath.Join(dir, prefix+"_y_scale")); ok {
		scale.Y = v
	}
	if v, ok := readFloatIfExists(filepath.Join(dir, prefix+"_z_scale")); ok {
		scale.Z = v
	}
	return scale
}

func readFloatIfExists(path string) (float64, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func matchesName(dir, want string) bool {
	b, err := os.ReadFile(filepath.Join(dir, "name"))
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(string(b))), strings.ToLower(want))
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
