// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

// ==================== 活动 ====================

// CustomEventInfo 自定义赛程参数
type CustomEventInfo struct {
	Name            string  `json:"name"`
	Type            string  `json:"type,optional"`
	Date            int64   `json:"date,optional"`
	CourseDistanceM float64 `json:"course_distance_m,optional"`
	BoundsMinLat    float64 `json:"bounds_min_lat,optional"`
	BoundsMaxLat    float64 `json:"bounds_max_lat,optional"`
	BoundsMinLng    float64 `json:"bounds_min_lng,optional"`
	BoundsMaxLng    float64 `json:"bounds_max_lng,optional"`
}

// StartLocationInfo 设备随开始请求上报的初始位置
type StartLocationInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp,optional"` // 缺省取活动开始时间
}

type StartActivityReq struct {
	ActivityId    string             `json:"activity_id,optional"` // 客户端生成的活动ID，用于幂等重试
	RunnerId      string             `json:"runner_id"`
	EventId       string             `json:"event_id,optional"`
	Event         *CustomEventInfo   `json:"event,optional"`
	StartedAt     int64              `json:"started_at,optional"`
	StartLocation *StartLocationInfo `json:"start_location,optional"` // 作为首条采样转发
}

type ActivityInfo struct {
	Id                  string  `json:"id"`
	RunnerId            string  `json:"runner_id"`
	EventId             string  `json:"event_id"`
	Status              int8    `json:"status"`
	StatusText          string  `json:"status_text"`
	StartedAt           int64   `json:"started_at"`
	EndedAt             int64   `json:"ended_at,omitempty"`
	CumulativeDistanceM float64 `json:"cumulative_distance_m"`
	PaceSecPerKm        float64 `json:"pace_sec_per_km"`
	LastLat             float64 `json:"last_lat,omitempty"`
	LastLng             float64 `json:"last_lng,omitempty"`
	LastSampleAt        int64   `json:"last_sample_at,omitempty"`
}

type StartActivityResp struct {
	Activity ActivityInfo `json:"activity"`
	Created  bool         `json:"created"` // false 表示命中幂等重试
}

type GetActivityReq struct {
	ActivityId string `path:"activityId"`
}

type GetActivityResp struct {
	Activity ActivityInfo `json:"activity"`
}

type ListActivityReq struct {
	RunnerId string `path:"runnerId"`
	Limit    int    `form:"limit,optional"`
}

type ListActivityResp struct {
	List []ActivityInfo `json:"list"`
}

type FinishActivityReq struct {
	ActivityId string `path:"activityId"`
}

type FinishActivityResp struct {
	Activity ActivityInfo `json:"activity"`
}

type CancelActivityReq struct {
	ActivityId string `path:"activityId"`
}

type CancelActivityResp struct {
	Activity ActivityInfo `json:"activity"`
}

// ==================== 定位采样 ====================

type IngestLocationReq struct {
	ActivityId string  `path:"activityId"`
	RunnerId   string  `json:"runner_id"`
	Timestamp  int64   `json:"timestamp"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	AccuracyM  float64 `json:"accuracy_m,optional"`
	AltitudeM  float64 `json:"altitude_m,optional"`
	SpeedMps   float64 `json:"speed_mps,optional"`
	Heading    float64 `json:"heading,optional"`
	HeartRate  int     `json:"heart_rate,optional"`
	Cadence    int     `json:"cadence,optional"`
}

type TelemetrySnapshot struct {
	ActivityId          string  `json:"activity_id"`
	RunnerId            string  `json:"runner_id"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	CumulativeDistanceM float64 `json:"cumulative_distance_m"`
	PaceSecPerKm        float64 `json:"pace_sec_per_km"`
	RemainingDistanceM  float64 `json:"remaining_distance_m"`
	Timestamp           int64   `json:"timestamp"`
}

type IngestLocationResp struct {
	Snapshot TelemetrySnapshot `json:"snapshot"`
}

// ==================== 加油消息 ====================

type SendMessageReq struct {
	ActivityId string `path:"activityId"`
	Sender     string `json:"sender,optional"`
	Text       string `json:"text"`
}

type MessageInfo struct {
	Id          string `json:"id"`
	ActivityId  string `json:"activity_id"`
	Sender      string `json:"sender"`
	Text        string `json:"text"`
	CreatedAt   int64  `json:"created_at"`
	DeliveredAt int64  `json:"delivered_at,omitempty"`
	SpokenAt    int64  `json:"spoken_at,omitempty"`
}

type SendMessageResp struct {
	Message MessageInfo `json:"message"`
}

type ListMessageReq struct {
	ActivityId string `path:"activityId"`
	Page       int    `form:"page,optional"`
	PageSize   int    `form:"pageSize,optional"`
}

type ListMessageResp struct {
	List     []MessageInfo `json:"list"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

type UnannouncedMessageReq struct {
	ActivityId string `path:"activityId"`
}

type UnannouncedMessageResp struct {
	List []MessageInfo `json:"list"`
}

type AnnounceMessageReq struct {
	ActivityId string `path:"activityId"`
	MessageId  string `path:"messageId"`
}

type AnnounceMessageResp struct {
	Message MessageInfo `json:"message"`
}

type MarkSpokenReq struct {
	ActivityId string `path:"activityId"`
	MessageId  string `path:"messageId"`
}

type MarkSpokenResp struct {
	Message MessageInfo `json:"message"`
}

// ==================== 健康检查 ====================

type HealthResp struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
