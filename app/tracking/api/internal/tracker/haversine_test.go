package tracker

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	if d := Haversine(52.5163, 13.3777, 52.5163, 13.3777); d != 0 {
		t.Fatalf("相同坐标距离应为 0，实际 %v", d)
	}
}

func TestHaversineKnownSegments(t *testing.T) {
	// 柏林市区两段约 130 米的位移
	d1 := Haversine(52.5163, 13.3777, 52.5173, 13.3787)
	d2 := Haversine(52.5173, 13.3787, 52.5183, 13.3797)

	for _, d := range []float64{d1, d2} {
		if d < 120 || d > 140 {
			t.Fatalf("市区单段距离应在 120-140 米之间，实际 %v", d)
		}
	}
}

func TestHaversineLongDistance(t *testing.T) {
	// 柏林 -> 巴黎 约 878 公里
	d := Haversine(52.5200, 13.4050, 48.8566, 2.3522)
	if math.Abs(d-878000) > 10000 {
		t.Fatalf("柏林-巴黎距离应约 878 公里，实际 %v", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Haversine(52.5163, 13.3777, 52.5183, 13.3797)
	b := Haversine(52.5183, 13.3797, 52.5163, 13.3777)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("距离应对称: %v != %v", a, b)
	}
}
