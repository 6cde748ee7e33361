package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from int8
		to   int8
		want bool
	}{
		{"计划到进行", ActivityStatusPlanned, ActivityStatusActive, true},
		{"计划到取消", ActivityStatusPlanned, ActivityStatusCancelled, true},
		{"进行到完赛", ActivityStatusActive, ActivityStatusFinished, true},
		{"进行到取消", ActivityStatusActive, ActivityStatusCancelled, true},
		{"计划不能直接完赛", ActivityStatusPlanned, ActivityStatusFinished, false},
		{"完赛为终态", ActivityStatusFinished, ActivityStatusActive, false},
		{"取消为终态", ActivityStatusCancelled, ActivityStatusActive, false},
		{"进行不能回到计划", ActivityStatusActive, ActivityStatusPlanned, false},
		{"完赛不能取消", ActivityStatusFinished, ActivityStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransition(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	if IsTerminalStatus(ActivityStatusPlanned) || IsTerminalStatus(ActivityStatusActive) {
		t.Fatal("非终态被误判为终态")
	}
	if !IsTerminalStatus(ActivityStatusFinished) || !IsTerminalStatus(ActivityStatusCancelled) {
		t.Fatal("终态未被识别")
	}
}

func TestParseEventType(t *testing.T) {
	tests := []struct {
		raw  string
		want int8
	}{
		{"marathon", EventTypeMarathon},
		{"half-marathon", EventTypeHalfMarathon},
		{"10k", EventTypeTenK},
		{"5k", EventTypeFiveK},
		{"ultra", EventTypeUltra},
		{"custom", EventTypeCustom},
		{"other", EventTypeOther},
		// 未知类型一律归入 Other
		{"trail", EventTypeOther},
		{"", EventTypeOther},
		{"MARATHON", EventTypeOther},
	}

	for _, tt := range tests {
		if got := ParseEventType(tt.raw); got != tt.want {
			t.Fatalf("ParseEventType(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestEventTypeDistance(t *testing.T) {
	if d := EventTypeDistance(EventTypeMarathon); d != 42195 {
		t.Fatalf("全马距离错误: %v", d)
	}
	if d := EventTypeDistance(EventTypeHalfMarathon); d != 21097.5 {
		t.Fatalf("半马距离错误: %v", d)
	}
	// Custom 与 Other 无标准距离
	if d := EventTypeDistance(EventTypeCustom); d != 0 {
		t.Fatalf("自定义赛程不应有标准距离: %v", d)
	}
}

func TestEventInBounds(t *testing.T) {
	e := &Event{
		BoundsMinLat: 52.3, BoundsMaxLat: 52.7,
		BoundsMinLng: 13.1, BoundsMaxLng: 13.8,
	}
	if !e.InBounds(52.5163, 13.3777) {
		t.Fatal("赛道内坐标被误判为越界")
	}
	if e.InBounds(48.8566, 2.3522) {
		t.Fatal("赛道外坐标未被识别")
	}

	// 未设置矩形时恒为 true
	open := &Event{}
	if !open.InBounds(0.1, 0.1) {
		t.Fatal("未设置矩形时不应判越界")
	}
}
