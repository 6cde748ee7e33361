package validate

import (
	"strings"
	"unicode/utf8"
)

// IsNotBlank 判断字符串不为空白
func IsNotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsBlank 判断字符串为空白
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// LengthBetween 判断字符串长度在范围内（按字符数，非字节数）
func LengthBetween(s string, min, max int) bool {
	length := utf8.RuneCountInString(s)
	return length >= min && length <= max
}

// MaxLength 判断字符串长度不超过最大值
func MaxLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

// InRange 判断整数在范围内
func InRange(n, min, max int) bool {
	return n >= min && n <= max
}

// InRange64 判断 int64 在范围内
func InRange64(n, min, max int64) bool {
	return n >= min && n <= max
}

// IsValidLatitude 判断纬度是否合法
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude 判断经度是否合法
func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// Contains 判断字符串是否在列表中
func Contains(s string, list []string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
