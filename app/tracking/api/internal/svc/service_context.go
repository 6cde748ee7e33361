package svc

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"livetrack-platform/app/tracking/api/internal/config"
	"livetrack-platform/app/tracking/api/internal/mailbox"
	"livetrack-platform/app/tracking/api/internal/mq"
	"livetrack-platform/app/tracking/api/internal/registry"
	"livetrack-platform/app/tracking/api/internal/tracker"
	"livetrack-platform/app/tracking/model"
	"livetrack-platform/common/messaging"
)

type ServiceContext struct {
	Config config.Config

	// 数据存储
	DB    *gorm.DB      // MySQL 连接
	Redis *redis.Client // Redis 客户端

	// Model 层
	RunnerModel   *model.RunnerModel
	EventModel    *model.EventModel
	ActivityModel *model.ActivityModel
	SampleModel   *model.LocationSampleModel
	MessageModel  *model.CheerMessageModel

	// 业务组件
	Tracker  *tracker.Tracker   // 位置遥测处理器
	Registry *registry.Registry // 活动生命周期管理
	Mailbox  *mailbox.Mailbox   // 加油消息信箱
	Producer *mq.Producer       // 事件发布器
}

func NewServiceContext(c config.Config) *ServiceContext {
	// 1. 初始化数据库连接
	db := initDB(c.MySQL)

	// 2. 初始化 Redis（快照缓存）
	rds := initRedis(c.Redis)

	// 3. 初始化消息通道（不可用时降级：只写库，不推送）
	producer := initProducer(c)

	// 4. Model 层
	runnerModel := model.NewRunnerModel(db)
	eventModel := model.NewEventModel(db)
	activityModel := model.NewActivityModel(db)
	sampleModel := model.NewLocationSampleModel(db)
	messageModel := model.NewCheerMessageModel(db)

	// 5. 业务组件
	trk := tracker.NewTracker(
		tracker.NewGormStore(activityModel, eventModel, sampleModel),
		tracker.NewSnapshotCache(rds),
	)
	reg := registry.NewRegistry(
		registry.NewGormStore(runnerModel, eventModel, activityModel),
		trk,
	)
	mbx := mailbox.NewMailbox(
		mailbox.NewGormStore(activityModel, messageModel),
	)

	return &ServiceContext{
		Config: c,

		DB:    db,
		Redis: rds,

		RunnerModel:   runnerModel,
		EventModel:    eventModel,
		ActivityModel: activityModel,
		SampleModel:   sampleModel,
		MessageModel:  messageModel,

		Tracker:  trk,
		Registry: reg,
		Mailbox:  mbx,
		Producer: producer,
	}
}

// 初始化函数

// initDB 初始化数据库连接
func initDB(mysqlConf config.MySQLConfig) *gorm.DB {
	dsn := buildMySQLDSN(mysqlConf)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logx.Errorf("连接数据库失败: %v", err)
		panic(err)
	}

	// 设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	maxOpenConns := mysqlConf.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 100
	}
	maxIdleConns := mysqlConf.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 10
	}
	connMaxLifetime := mysqlConf.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 3600
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	logx.Info("数据库连接成功")
	return db
}

// initRedis 初始化 Redis 连接
func initRedis(c config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})
}

// initProducer 初始化事件发布器
// 消息通道连不上时返回 nil Producer（nil 安全，发布降级为空操作）
func initProducer(c config.Config) *mq.Producer {
	if !c.Messaging.Enabled {
		logx.Info("消息通道未启用，事件发布降级为空操作")
		return nil
	}

	msgConf := messaging.DefaultConfig()
	msgConf.Redis = messaging.RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
	msgConf.ServiceName = c.Messaging.ServiceName
	msgConf.EnableMetrics = c.Messaging.EnableMetrics

	client, err := messaging.NewClient(msgConf)
	if err != nil {
		logx.Errorf("连接消息通道失败，事件发布降级为空操作: %v", err)
		return nil
	}
	return mq.NewProducer(client)
}

func buildMySQLDSN(c config.MySQLConfig) string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}
