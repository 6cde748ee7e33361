// ============================================================================
// 状态与枚举定义
// ============================================================================
//
// 说明：
//   定义追踪服务的活动状态机与赛事类型枚举，避免魔法数字
//
// ============================================================================

package model

// ==================== 活动状态（状态机） ====================
//
// 状态流转：
//   Planned(0) -> Active(1) -> Finished(2)
//   Planned/Active -> Cancelled(3)
//
// Finished 与 Cancelled 为终态，只进不退

const (
	ActivityStatusPlanned   = 0 // 已计划
	ActivityStatusActive    = 1 // 进行中
	ActivityStatusFinished  = 2 // 已完赛
	ActivityStatusCancelled = 3 // 已取消
)

// ActivityStatusMap 活动状态映射（用于展示）
var ActivityStatusMap = map[int8]string{
	ActivityStatusPlanned:   "已计划",
	ActivityStatusActive:    "进行中",
	ActivityStatusFinished:  "已完赛",
	ActivityStatusCancelled: "已取消",
}

// ActivityStatusTransitions 活动状态合法转换
// key: 当前状态, value: 可转换的目标状态列表
var ActivityStatusTransitions = map[int8][]int8{
	ActivityStatusPlanned: {ActivityStatusActive, ActivityStatusCancelled},
	ActivityStatusActive:  {ActivityStatusFinished, ActivityStatusCancelled},
}

// CanTransition 检查状态转换是否合法
func CanTransition(from, to int8) bool {
	allowedStates, ok := ActivityStatusTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowedStates {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus 判断是否为终态
func IsTerminalStatus(status int8) bool {
	return status == ActivityStatusFinished || status == ActivityStatusCancelled
}

// ==================== 赛事类型（封闭枚举） ====================

const (
	EventTypeMarathon     = 1 // 全程马拉松
	EventTypeHalfMarathon = 2 // 半程马拉松
	EventTypeTenK         = 3 // 10公里
	EventTypeFiveK        = 4 // 5公里
	EventTypeUltra        = 5 // 超级马拉松
	EventTypeCustom       = 6 // 自定义赛程
	EventTypeOther        = 7 // 其他
)

// EventTypeMap 赛事类型映射
var EventTypeMap = map[int8]string{
	EventTypeMarathon:     "marathon",
	EventTypeHalfMarathon: "half-marathon",
	EventTypeTenK:         "10k",
	EventTypeFiveK:        "5k",
	EventTypeUltra:        "ultra",
	EventTypeCustom:       "custom",
	EventTypeOther:        "other",
}

// eventTypeNames 赛事类型反向映射（外部字符串 -> 枚举）
var eventTypeNames = map[string]int8{
	"marathon":      EventTypeMarathon,
	"half-marathon": EventTypeHalfMarathon,
	"10k":           EventTypeTenK,
	"5k":            EventTypeFiveK,
	"ultra":         EventTypeUltra,
	"custom":        EventTypeCustom,
	"other":         EventTypeOther,
}

// eventTypeDistances 各类型的标准赛程距离（米）
// Custom 的距离由赛事记录自带，Other 未知记 0
var eventTypeDistances = map[int8]float64{
	EventTypeMarathon:     42195,
	EventTypeHalfMarathon: 21097.5,
	EventTypeTenK:         10000,
	EventTypeFiveK:        5000,
	EventTypeUltra:        50000,
	EventTypeCustom:       0,
	EventTypeOther:        0,
}

// ParseEventType 解析外部传入的赛事类型字符串
// 未知类型一律归入 Other，不做开放式字符串比较
func ParseEventType(s string) int8 {
	if t, ok := eventTypeNames[s]; ok {
		return t
	}
	return EventTypeOther
}

// EventTypeText 获取赛事类型文本
func EventTypeText(t int8) string {
	if text, ok := EventTypeMap[t]; ok {
		return text
	}
	return "other"
}

// EventTypeDistance 获取赛事类型的标准距离（米）
func EventTypeDistance(t int8) float64 {
	return eventTypeDistances[t]
}

// ==================== 分页默认值 ====================

const (
	DefaultPageSize = 20  // 默认每页条数
	MaxPageSize     = 100 // 最大每页条数

	// UnannouncedBatchLimit 单次下发给跑者设备的未播报消息上限
	UnannouncedBatchLimit = 10
)
