package accel

import "testing"

func TestAxisFromUint32(t *testing.T) {
	type spec struct {
		in      uint32
		expAxis Axis
		expName string
	}
	specs := []spec{
		{0, AxisX, "x"},
		{1, AxisY, "y"},
		{2, AxisZ, "z"},
	}

	for idx, s := range specs {
		axis := AxisFromUint32(s.in)
		if axis != s.expAxis {
			t.Fatalf("[spec %d] expected axis %d; got %d", idx, s.expAxis, axis)
		}
		if name := axis.String(); name != s.expName {
			t.Fatalf("[spec %d] expected axis name %s; got %s", idx, s.expName, name)
		}
	}
}

func TestAxisFromUint32PanicsOnInvalidValue(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected invalid axis value to trigger a panic")
		}
	}()

	AxisFromUint32(3)
}
