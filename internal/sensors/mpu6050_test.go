package sensors

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/lightsaber/internal/imu"
)

// fakeBus is an in-memory register file that records every transaction.
type fakeBus struct {
	regs    map[byte]byte
	writes  []byte
	reads   []byte
	failAt  byte
	failErr error
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[byte]byte{}}
}

func (b *fakeBus) ReadByte(dev uint16, reg byte) (byte, error) {
	b.reads = append(b.reads, reg)
	if b.failErr != nil && reg == b.failAt {
		return 0, b.failErr
	}
	return b.regs[reg], nil
}

func (b *fakeBus) WriteByte(dev uint16, reg byte, value byte) error {
	b.writes = append(b.writes, reg, value)
	b.regs[reg] = value
	return nil
}

func (b *fakeBus) setAxis(high byte, v uint16) {
	b.regs[high] = byte(v >> 8)
	b.regs[high+1] = byte(v)
}

func TestDecodeAxis(t *testing.T) {
	tests := []struct {
		in   uint16
		want int16
	}{
		{0, 0},
		{100, 100},
		{32767, 32767},
		{32768, -32768},
		{65535, -1},
		{0xFF38, -200},
	}
	for _, tt := range tests {
		if got := DecodeAxis(tt.in); got != tt.want {
			t.Errorf("DecodeAxis(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInitWakesSensor(t *testing.T) {
	bus := newFakeBus()
	bus.regs[RegPwrMgmt1] = 0x40
	if err := NewMPU6050(bus, MPU6050Addr).Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(bus.writes) != 2 || bus.writes[0] != RegPwrMgmt1 || bus.writes[1] != 0 {
		t.Errorf("writes = %#v, want PWR_MGMT_1=0", bus.writes)
	}
}

func TestReadAxis(t *testing.T) {
	bus := newFakeBus()
	bus.setAxis(RegGyroYOutH, 0xFFFE)
	v, err := NewMPU6050(bus, MPU6050Addr).ReadAxis(RegGyroYOutH)
	if err != nil {
		t.Fatalf("ReadAxis: %v", err)
	}
	if v != -2 {
		t.Errorf("ReadAxis = %d, want -2", v)
	}
	if len(bus.reads) != 2 || bus.reads[0] != RegGyroYOutH || bus.reads[1] != RegGyroYOutH+1 {
		t.Errorf("reads = %#v, want high then low", bus.reads)
	}
}

func TestSampleRawOrderAndValues(t *testing.T) {
	bus := newFakeBus()
	bus.setAxis(RegAccelXOutH, 16384)
	bus.setAxis(RegAccelYOutH, 0xC000) // -16384
	bus.setAxis(RegAccelZOutH, 1)
	bus.setAxis(RegGyroXOutH, 131)
	bus.setAxis(RegGyroYOutH, 0)
	bus.setAxis(RegGyroZOutH, 0xFF7D) // -131

	got, err := NewMPU6050(bus, MPU6050Addr).SampleRaw()
	if err != nil {
		t.Fatalf("SampleRaw: %v", err)
	}
	want := imu.RawSample{Ax: 16384, Ay: -16384, Az: 1, Gx: 131, Gy: 0, Gz: -131}
	if got != want {
		t.Errorf("SampleRaw = %+v, want %+v", got, want)
	}

	wantReads := []byte{0x3B, 0x3C, 0x3D, 0x3E, 0x3F, 0x40, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48}
	if string(bus.reads) != string(wantReads) {
		t.Errorf("reads = % X, want % X", bus.reads, wantReads)
	}
}

func TestSampleRawPropagatesBusError(t *testing.T) {
	bus := newFakeBus()
	bus.failAt = RegGyroXOutH + 1
	bus.failErr = errors.New("nack")

	_, err := NewMPU6050(bus, MPU6050Addr).SampleRaw()
	if err == nil {
		t.Fatal("SampleRaw succeeded on a failing bus")
	}
	if !errors.Is(err, bus.failErr) {
		t.Errorf("error %v does not wrap the bus error", err)
	}
	if !strings.Contains(err.Error(), "gyro X") {
		t.Errorf("error %q does not name the axis", err)
	}
	// No retries: reading stops at the failing register.
	if last := bus.reads[len(bus.reads)-1]; last != RegGyroXOutH+1 || len(bus.reads) != 8 {
		t.Errorf("reads = % X, want to stop after 0x44", bus.reads)
	}
}

func TestReadRegisters(t *testing.T) {
	bus := newFakeBus()
	bus.regs[RegWhoAmI] = 0x68
	regs := []RegisterInfo{
		{Address: RegWhoAmI, Name: "WHO_AM_I", Access: "R"},
		{Address: 0x10, Name: "WRITE_ONLY", Access: "W"},
	}
	got, err := NewMPU6050(bus, MPU6050Addr).ReadRegisters(regs)
	if err != nil {
		t.Fatalf("ReadRegisters: %v", err)
	}
	if len(got) != 1 || got[0].Value != 0x68 {
		t.Errorf("ReadRegisters = %+v, want WHO_AM_I=0x68 only", got)
	}
}

func TestRegisterMapCoversDataRegisters(t *testing.T) {
	seen := map[byte]bool{}
	for _, r := range MPU6050RegisterMap() {
		if seen[r.Address] {
			t.Errorf("duplicate register 0x%02X", r.Address)
		}
		seen[r.Address] = true
	}
	for reg := byte(RegAccelXOutH); reg <= RegGyroZOutH+1; reg++ {
		if !seen[reg] {
			t.Errorf("register 0x%02X missing from map", reg)
		}
	}
}

func TestMockBusProducesImpacts(t *testing.T) {
	clock := time.Unix(0, 0)
	bus := newMockBus(func() time.Time { return clock })
	dev := NewMPU6050(bus, MPU6050Addr)

	s, err := dev.SampleRaw()
	if err != nil {
		t.Fatalf("SampleRaw: %v", err)
	}
	if s != (imu.RawSample{}) {
		t.Errorf("sleeping mock returned %+v, want zeros", s)
	}

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	clock = clock.Add(100 * time.Millisecond)
	rest, _ := dev.SampleRaw()
	if rest.Az != 16384 {
		t.Errorf("resting Az = %d, want 16384", rest.Az)
	}

	clock = clock.Add(mockImpactEvery)
	hit, _ := dev.SampleRaw()
	if hit.Ax < 30000 {
		t.Errorf("impact Ax = %d, want a near full-scale spike", hit.Ax)
	}

	clock = clock.Add(16 * time.Millisecond)
	after, _ := dev.SampleRaw()
	if after.Ax > 1000 {
		t.Errorf("post-impact Ax = %d, want the spike to last one sample", after.Ax)
	}
}

func TestProbe(t *testing.T) {
	bus := newFakeBus()
	bus.regs[RegPwrMgmt1] = 0x40
	bus.regs[RegWhoAmI] = 0x68
	id, err := NewMPU6050(bus, MPU6050Addr).Probe()
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if id != 0x68 {
		t.Errorf("id = 0x%02X, want 0x68", id)
	}
	if bus.regs[RegPwrMgmt1] != 0 {
		t.Errorf("PWR_MGMT_1 = 0x%02X after probe, want 0", bus.regs[RegPwrMgmt1])
	}
}
