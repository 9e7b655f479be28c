package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/georgs-k/employee-service/internal/config"
	"github.com/georgs-k/employee-service/internal/db"
	"github.com/georgs-k/employee-service/internal/kafka"
	"github.com/georgs-k/employee-service/internal/repository"
	"github.com/georgs-k/employee-service/internal/routes"
	"github.com/georgs-k/employee-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer := kafka.NewProducer(cfg.KafkaBrokers())
	defer producer.Close()

	gateway := kafka.NewGateway(cfg, producer)

	txManager := repository.NewGormTxManager(database)
	attendanceService := service.NewAttendanceService(txManager, gateway)
	employeeService := service.NewEmployeeService(txManager, gateway)
	userService := service.NewUserService(txManager)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers(), cfg.KafkaGroupID, attendanceService, producer, gateway)
	consumer.Run(ctx)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, employeeService, userService, cfg)

	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
