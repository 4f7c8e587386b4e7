package imu

// RawSample is one poll of the six MPU-6050 output registers, already
// reinterpreted as signed 16-bit values.
type RawSample struct {
	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

// ScaledSample holds a RawSample converted to physical units.
// Accelerations are in g and always non-negative; angular rates are in °/s
// with their sign preserved.
type ScaledSample struct {
	Ax float64 `json:"ax_g"`
	Ay float64 `json:"ay_g"`
	Az float64 `json:"az_g"`

	Gx float64 `json:"gx_dps"`
	Gy float64 `json:"gy_dps"`
	Gz float64 `json:"gz_dps"`
}

// RawSource is anything that can produce raw samples, one per call.
type RawSource interface {
	SampleRaw() (RawSample, error)
}
