package main

import (
	"flag"
	"fmt"

	"livetrack-platform/app/tracking/api/internal/config"
	"livetrack-platform/app/tracking/api/internal/handler"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/common/response"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/tracking-api.yaml", "配置文件路径")

func main() {
	flag.Parse()

	// 全局错误处理器（必须在 server.Start() 之前）
	response.SetupGlobalErrorHandler()

	// 1. 加载配置文件
	var c config.Config
	conf.MustLoad(*configFile, &c)

	// 2. 创建 REST 服务器
	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	// 3. 初始化服务上下文
	ctx := svc.NewServiceContext(c)

	// 4. 注册路由处理器
	handler.RegisterHandlers(server, ctx)

	// 5. 启动服务
	fmt.Printf("Starting tracking-api server at %s:%d...\n", c.Host, c.Port)
	server.Start()
}

// 追踪服务 API 入口
// 说明：
//   tracking-api 是实时追踪服务的 HTTP 接口层，负责：
//   - 活动生命周期（开始/完赛/取消）
//   - 定位采样上报与聚合
//   - 加油消息信箱
//
// 启动命令：
//   go run tracking.go -f etc/tracking-api.yaml
