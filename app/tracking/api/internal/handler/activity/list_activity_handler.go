// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package activity

import (
	"net/http"

	"livetrack-platform/app/tracking/api/internal/logic/activity"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// 跑者的活动列表
func ListActivityHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ListActivityReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := activity.NewListActivityLogic(r.Context(), svcCtx)
		resp, err := l.ListActivity(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
