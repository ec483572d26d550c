package sensor

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"compass.klederson.com/internal/config"
	"compass.klederson.com/internal/heading"
	tea "github.com/charmbracelet/bubbletea"
	"tinygo.org/x/bluetooth"
)

// Thingy:52 motion service. The attitude characteristic streams four
// little-endian 2Q30 fixed-point values: w, x, y, z.
const (
	bleMotionService = "ef680400-9b35-4933-9b10-52ffa9740042"
	bleQuaternion    = "ef680404-9b35-4933-9b10-52ffa9740042"
)

// BLESource subscribes to a BLE IMU peripheral streaming orientation
// quaternions and emits rotation-matrix samples for the matrix extractor.
type BLESource struct {
	name    string // peripheral name (substring match)
	adapter *bluetooth.Adapter
	program *tea.Program

	device    bluetooth.Device
	connected bool
	running   bool
}

// NewBLESource creates a source that looks for the named peripheral.
func NewBLESource(name string) *BLESource {
	return &BLESource{
		name:    name,
		adapter: bluetooth.DefaultAdapter,
	}
}

// Start enables the adapter and begins scanning for the peripheral in a
// goroutine. A disabled or missing adapter is reported immediately as
// ErrUnavailable; scan and connect failures after that arrive as
// SourceErrorMsg since they happen asynchronously.
func (s *BLESource) Start(p *tea.Program) error {
	s.program = p

	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("%w: enable BLE adapter: %v (try running with sudo or setcap cap_net_admin+ep)", ErrUnavailable, err)
	}

	s.running = true
	go s.scanAndSubscribe()
	return nil
}

// Stop halts scanning and drops the peripheral connection.
func (s *BLESource) Stop() {
	s.running = false
	_ = s.adapter.StopScan()
	if s.connected {
		_ = s.device.Disconnect()
		s.connected = false
	}
}

func (s *BLESource) scanAndSubscribe() {
	var found bluetooth.ScanResult
	matched := false

	timeout := time.AfterFunc(config.BLEScanTimeout, func() {
		_ = s.adapter.StopScan()
	})
	err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		if !s.running {
			_ = adapter.StopScan()
			return
		}
		name := result.LocalName()
		if name == "" || !strings.Contains(strings.ToLower(name), strings.ToLower(s.name)) {
			return
		}
		found = result
		matched = true
		_ = adapter.StopScan()
	})
	timeout.Stop()

	if !s.running {
		return
	}
	if err != nil {
		s.fail(fmt.Errorf("BLE scan: %w", err))
		return
	}
	if !matched {
		s.fail(fmt.Errorf("%w: no peripheral named %q found within %s", ErrUnavailable, s.name, config.BLEScanTimeout))
		return
	}

	if err := s.subscribe(found); err != nil {
		s.fail(err)
	}
}

func (s *BLESource) subscribe(result bluetooth.ScanResult) error {
	device, err := s.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect %s: %w", result.Address.String(), err)
	}
	s.device = device
	s.connected = true

	svcUUID, err := bluetooth.ParseUUID(bleMotionService)
	if err != nil {
		return err
	}
	charUUID, err := bluetooth.ParseUUID(bleQuaternion)
	if err != nil {
		return err
	}

	svcs, err := device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil || len(svcs) == 0 {
		return fmt.Errorf("motion service not found on %q: %w", result.LocalName(), err)
	}
	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{charUUID})
	if err != nil || len(chars) == 0 {
		return fmt.Errorf("quaternion characteristic not found on %q: %w", result.LocalName(), err)
	}

	return chars[0].EnableNotifications(func(buf []byte) {
		if !s.running {
			return
		}
		m, err := parseQuaternion(buf)
		if err != nil {
			s.program.Send(SourceErrorMsg{Err: err})
			return
		}
		s.program.Send(MatrixSampleMsg{M: m})
	})
}

func (s *BLESource) fail(err error) {
	if s.program != nil {
		s.program.Send(SourceErrorMsg{Err: err})
	}
}

// parseQuaternion decodes a 16-byte w,x,y,z 2Q30 fixed-point notification
// into a rotation matrix sample.
func parseQuaternion(buf []byte) (heading.RotationMatrix, error) {
	if len(buf) < 16 {
		return heading.RotationMatrix{}, fmt.Errorf("quaternion notification too short: %d bytes", len(buf))
	}
	const q30 = 1 << 30
	w := float64(int32(binary.LittleEndian.Uint32(buf[0:4]))) / q30
	x := float64(int32(binary.LittleEndian.Uint32(buf[4:8]))) / q30
	y := float64(int32(binary.LittleEndian.Uint32(buf[8:12]))) / q30
	z := float64(int32(binary.LittleEndian.Uint32(buf[12:16]))) / q30
	return heading.QuaternionMatrix(w, x, y, z), nil
}
