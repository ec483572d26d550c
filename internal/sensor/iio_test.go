package sensor

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeIIODevice lays out a minimal sysfs device directory.
func fakeIIODevice(t *testing.T, base, devName, chipName string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(base, devName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	files["name"] = chipName + "\n"
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func accelFiles() map[string]string {
	return map[string]string{
		"in_accel_x_raw": "16\n",
		"in_accel_y_raw": "-32\n",
		"in_accel_z_raw": "1000\n",
		"in_accel_scale": "0.00981\n",
	}
}

func magnFiles() map[string]string {
	return map[string]string{
		"in_magn_x_raw":   "120\n",
		"in_magn_y_raw":   "240 \n",
		"in_magn_z_raw":   "-400\n",
		"in_magn_x_scale": "0.1\n",
		"in_magn_y_scale": "0.1\n",
		"in_magn_z_scale": "0.1\n",
	}
}

func TestIIODiscover_FindsChannels(t *testing.T) {
	base := t.TempDir()
	fakeIIODevice(t, base, "iio:device0", "lsm303dlhc_accel", accelFiles())
	fakeIIODevice(t, base, "iio:device1", "lsm303dlhc_magn", magnFiles())

	s := NewIIOSource("")
	s.base = base

	accel, err := s.discover("in_accel")
	if err != nil {
		t.Fatalf("accel discover: %v", err)
	}
	magn, err := s.discover("in_magn")
	if err != nil {
		t.Fatalf("magn discover: %v", err)
	}

	v, err := accel.read()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v.Z-9.81) > 1e-9 || math.Abs(v.X-0.15696) > 1e-9 {
		t.Errorf("accel read=%+v, shared scale not applied", v)
	}

	v, err = magn.read()
	if err != nil {
		t.Fatal(err)
	}
	if v.X != 12 || v.Y != 24 || v.Z != -40 {
		t.Errorf("magn read=%+v, per-axis scale not applied", v)
	}
}

func TestIIODiscover_NameFilter(t *testing.T) {
	base := t.TempDir()
	fakeIIODevice(t, base, "iio:device0", "bmc150_accel", accelFiles())
	fakeIIODevice(t, base, "iio:device1", "lsm303dlhc_accel", accelFiles())

	s := NewIIOSource("LSM303")
	s.base = base

	ch, err := s.discover("in_accel")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(ch.dir) != "iio:device1" {
		t.Errorf("picked %s, name filter ignored", ch.dir)
	}
}

func TestIIOStart_MissingMagnetometerUnavailable(t *testing.T) {
	base := t.TempDir()
	fakeIIODevice(t, base, "iio:device0", "bmc150_accel", accelFiles())

	s := NewIIOSource("")
	s.base = base

	err := s.Start(&tea.Program{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
}

func TestIIODiscover_DefaultsScaleToOne(t *testing.T) {
	base := t.TempDir()
	files := accelFiles()
	delete(files, "in_accel_scale")
	fakeIIODevice(t, base, "iio:device0", "prescaled_accel", files)

	s := NewIIOSource("")
	s.base = base

	ch, err := s.discover("in_accel")
	if err != nil {
		t.Fatal(err)
	}
	v, err := ch.read()
	if err != nil {
		t.Fatal(err)
	}
	if v.X != 16 || v.Y != -32 || v.Z != 1000 {
		t.Errorf("read=%+v want raw values passed through", v)
	}
}
