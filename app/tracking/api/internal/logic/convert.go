package logic

import (
	"livetrack-platform/app/tracking/api/internal/tracker"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/app/tracking/model"
)

// ConvertActivityToApi 活动模型转 API 结构
func ConvertActivityToApi(a *model.Activity) types.ActivityInfo {
	return types.ActivityInfo{
		Id:                  a.ID,
		RunnerId:            a.RunnerID,
		EventId:             a.EventID,
		Status:              a.Status,
		StatusText:          a.StatusText(),
		StartedAt:           a.StartedAt,
		EndedAt:             a.EndedAt,
		CumulativeDistanceM: a.CumulativeDistanceM,
		PaceSecPerKm:        a.PaceSecPerKm,
		LastLat:             a.LastLat,
		LastLng:             a.LastLng,
		LastSampleAt:        a.LastSampleAt,
	}
}

// ConvertSnapshotToApi 聚合快照转 API 结构
func ConvertSnapshotToApi(s *tracker.Snapshot) types.TelemetrySnapshot {
	return types.TelemetrySnapshot{
		ActivityId:          s.ActivityID,
		RunnerId:            s.RunnerID,
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		CumulativeDistanceM: s.CumulativeDistanceM,
		PaceSecPerKm:        s.PaceSecPerKm,
		RemainingDistanceM:  s.RemainingDistanceM,
		Timestamp:           s.Timestamp,
	}
}

// ConvertMessageToApi 加油消息模型转 API 结构
func ConvertMessageToApi(m *model.CheerMessage) types.MessageInfo {
	info := types.MessageInfo{
		Id:         m.ID,
		ActivityId: m.ActivityID,
		Sender:     m.Sender,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	}
	if m.DeliveredAt != nil {
		info.DeliveredAt = *m.DeliveredAt
	}
	if m.SpokenAt != nil {
		info.SpokenAt = *m.SpokenAt
	}
	return info
}

// ConvertMessagesToApi 加油消息列表转 API 结构
func ConvertMessagesToApi(msgs []model.CheerMessage) []types.MessageInfo {
	list := make([]types.MessageInfo, 0, len(msgs))
	for i := range msgs {
		list = append(list, ConvertMessageToApi(&msgs[i]))
	}
	return list
}
