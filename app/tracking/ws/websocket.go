package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/ws/hub"
	"livetrack-platform/app/tracking/ws/internal/config"
	"livetrack-platform/app/tracking/ws/internal/handler"
	"livetrack-platform/app/tracking/ws/internal/svc"
)

var configFile = flag.String("f", "etc/websocket.yaml", "the config file")

func main() {
	flag.Parse()

	// 加载配置
	var c config.Config
	conf.MustLoad(*configFile, &c)

	// 创建服务上下文
	svcCtx := svc.NewServiceContext(c)

	// 创建 Hub
	h := hub.NewHub(svcCtx.MessagingClient, svcCtx.RedisClient)

	// 启动 Hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)

	// 创建 HTTP 服务器
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.WebSocketHandler(svcCtx, h))

	// 健康检查
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 观战统计
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"clients":%d,"topics":%d}`, h.GetClientCount(), h.GetTopicCount())
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", c.Host, c.Port),
		Handler: mux,
	}

	// 启动服务器
	go func() {
		logx.Infof("观战 WebSocket 服务启动在 %s:%d", c.Host, c.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Errorf("服务器错误: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logx.Info("正在关闭服务器...")
	cancel()

	// 停止接收新连接
	if err := server.Shutdown(context.Background()); err != nil {
		logx.Errorf("服务器关闭错误: %v", err)
	}

	// 关闭消息中间件客户端
	if err := svcCtx.MessagingClient.Close(); err != nil {
		logx.Errorf("关闭消息中间件客户端失败: %v", err)
	}

	logx.Info("服务器已停止")
}
