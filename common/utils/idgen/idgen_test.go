package idgen

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	id := New(KindActivity)
	if !strings.HasPrefix(id, "act_") {
		t.Fatalf("生成的活动标识符缺少前缀: %s", id)
	}
	if len(id) != len("act_")+12 {
		t.Fatalf("生成的标识符长度错误: %s", id)
	}
	if !IsValid(KindActivity, id) {
		t.Fatalf("生成的标识符未通过校验: %s", id)
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New(KindRunner)
		if seen[id] {
			t.Fatalf("生成了重复的标识符: %s", id)
		}
		seen[id] = true
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		raw     string
		want    string
		wantErr bool
	}{
		{"前缀格式原样返回", KindRunner, "run_x7k2m9q4p1d8", "run_x7k2m9q4p1d8", false},
		{"旧版格式补前缀并转小写", KindRunner, "A1B2C3D4E5F6A7B8", "run_a1b2c3d4e5f6a7b8", false},
		{"旧版格式活动", KindActivity, "9f8e7d6c5b4a3210", "act_9f8e7d6c5b4a3210", false},
		{"前后空白被去除", KindEvent, "  evt_c4g7k2m5p9s1  ", "evt_c4g7k2m5p9s1", false},
		{"空字符串", KindActivity, "", "", true},
		{"类型前缀不匹配", KindActivity, "run_x7k2m9q4p1d8", "", true},
		{"旧版长度不足", KindMessage, "a1b2c3d4", "", true},
		{"非法字符", KindActivity, "act_x7k2m9q4p1d!", "", true},
		{"注入尝试", KindActivity, "act_1; DROP TABLE", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.kind, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("期望错误，实际得到: %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("归一化失败: %v", err)
			}
			if got != tt.want {
				t.Fatalf("归一化结果错误: got=%s want=%s", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	// 归一化结果再次归一化必须不变
	first, err := Normalize(KindRunner, "A1B2C3D4E5F6A7B8")
	if err != nil {
		t.Fatalf("归一化失败: %v", err)
	}
	second, err := Normalize(KindRunner, first)
	if err != nil {
		t.Fatalf("二次归一化失败: %v", err)
	}
	if first != second {
		t.Fatalf("归一化不幂等: %s != %s", first, second)
	}
}
