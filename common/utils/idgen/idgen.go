/**
 * @projectName: LiveTrack
 * @package: idgen
 * @className: idgen
 * @description: 业务标识符生成与归一化工具
 * @version: 1.0
 */

package idgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"livetrack-platform/common/errorx"
)

// ==================== 说明 ====================
// 业务标识符采用「类型前缀 + 随机后缀」格式：
//   run_x7k2m9q4p1d8   跑者
//   act_b3f6h1j5n8r2   活动
//   evt_c4g7k2m5p9s1   赛事
//   msg_d5h8l1n4q7t0   加油消息
//
// 迁移期内同时接受旧版 16 位字母数字标识符，
// 归一化后统一为前缀格式，业务层只见归一化结果。

// Kind 标识符类型
type Kind string

const (
	KindRunner   Kind = "run"
	KindActivity Kind = "act"
	KindEvent    Kind = "evt"
	KindMessage  Kind = "msg"
)

const suffixLen = 12

// 预编译正则：前缀格式按类型区分，旧版格式全类型通用
var (
	prefixedPatterns = map[Kind]*regexp.Regexp{
		KindRunner:   regexp.MustCompile(`^run_[0-9a-z]{12,16}$`),
		KindActivity: regexp.MustCompile(`^act_[0-9a-z]{12,16}$`),
		KindEvent:    regexp.MustCompile(`^evt_[0-9a-z]{12,16}$`),
		KindMessage:  regexp.MustCompile(`^msg_[0-9a-z]{12,16}$`),
	}
	legacyPattern = regexp.MustCompile(`^[0-9a-zA-Z]{16}$`)
)

// New 生成指定类型的新标识符（前缀格式）
// 后缀取自 UUID 的十六进制字符，截取前 12 位
func New(kind Kind) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s", kind, raw[:suffixLen])
}

// Normalize 归一化外部传入的标识符
// 接受前缀格式与旧版 16 位格式，输出统一的前缀格式；
// 两种格式都不匹配时返回参数错误
func Normalize(kind Kind, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errorx.ErrIdentifierInvalid(fmt.Sprintf("%s 标识符不能为空", kind))
	}

	pattern, ok := prefixedPatterns[kind]
	if !ok {
		return "", errorx.ErrIdentifierInvalid(fmt.Sprintf("未知的标识符类型: %s", kind))
	}

	// 1. 前缀格式：原样返回
	if pattern.MatchString(raw) {
		return raw, nil
	}

	// 2. 旧版格式：小写后补前缀
	if legacyPattern.MatchString(raw) {
		return fmt.Sprintf("%s_%s", kind, strings.ToLower(raw)), nil
	}

	return "", errorx.ErrIdentifierInvalid(fmt.Sprintf("%s 标识符格式无效: %s", kind, raw))
}

// IsValid 判断标识符是否为指定类型的合法格式（前缀或旧版）
func IsValid(kind Kind, raw string) bool {
	_, err := Normalize(kind, raw)
	return err == nil
}
