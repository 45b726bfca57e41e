package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/talentgrid/ctms/pkg/fsx"
	"github.com/talentgrid/ctms/pkg/fsx/fsxs3"
	"github.com/talentgrid/ctms/pkg/iam/auth"
	"github.com/talentgrid/ctms/pkg/iam/auth/authapi"
	"github.com/talentgrid/ctms/pkg/iam/auth/authinfra"
	"github.com/talentgrid/ctms/pkg/iam/user/userinfra"
	"github.com/talentgrid/ctms/pkg/logx"
	"github.com/talentgrid/ctms/pkg/mailx"
	"github.com/talentgrid/ctms/tracking/candidate/candidateapi"
	"github.com/talentgrid/ctms/tracking/candidate/candidateinfra"
	"github.com/talentgrid/ctms/tracking/candidate/candidatesrv"
	"github.com/talentgrid/ctms/tracking/interview/interviewapi"
	"github.com/talentgrid/ctms/tracking/interview/interviewinfra"
	"github.com/talentgrid/ctms/tracking/interview/interviewsrv"
	"github.com/talentgrid/ctms/tracking/report/reportapi"
	"github.com/talentgrid/ctms/tracking/report/reportsrv"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client
	Mail       mailx.Sender

	// Services
	AuthService      *auth.Service
	TokenService     *auth.TokenService
	CandidateService *candidatesrv.CandidateService
	InterviewService *interviewsrv.InterviewService
	ReportService    *reportsrv.ReportService

	// API Handlers
	AuthHandlers      *authapi.Handlers
	CandidateHandlers *candidateapi.Handlers
	InterviewHandlers *interviewapi.Handlers
	ReportHandlers    *reportapi.Handlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. File Storage: S3 when a bucket is configured, local disk otherwise
	if bucket := os.Getenv("AWS_BUCKET"); bucket != "" {
		cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.S3Client = s3.NewFromConfig(cfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, bucket, "uploads")
	} else {
		uploadDir := os.Getenv("UPLOAD_DIR")
		if uploadDir == "" {
			uploadDir = "uploads"
		}
		c.FileSystem = fsx.NewLocalFileSystem(uploadDir)
	}

	// 4. Mail: disabled unless SMTP is configured
	if host := os.Getenv("SMTP_HOST"); host != "" {
		port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if port == 0 {
			port = 587
		}
		mailer, err := mailx.NewSMTPMailer(mailx.SMTPConfig{
			Host:     host,
			Port:     port,
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		})
		if err != nil {
			logx.Fatalf("Failed to configure SMTP mailer: %v", err)
		}
		c.Mail = mailx.NewDispatcher(mailer)
	} else {
		logx.Warn("SMTP_HOST is not set, email notifications are disabled")
		c.Mail = mailx.NewDispatcher(nil)
	}
}

func (c *Container) initServices() {
	// --- Repositories ---
	userRepo := userinfra.NewPostgresUserRepository(c.DB)
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)
	interviewRepo := interviewinfra.NewPostgresInterviewRepository(c.DB)

	// --- Auth ---
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		secret = "super-secret-key-please-change-me-in-production"
	}
	revocations := authinfra.NewRedisRevocationStore(c.Redis)
	c.TokenService = auth.NewTokenService(secret, revocations)
	c.AuthService = auth.NewService(userRepo, c.TokenService, auth.NewPasswordService())

	// --- Domain Services ---
	logoPath := os.Getenv("COMPANY_LOGO")

	c.CandidateService = candidatesrv.NewCandidateService(candidateRepo, interviewRepo, userRepo, c.FileSystem)
	c.InterviewService = interviewsrv.NewInterviewService(interviewRepo, candidateRepo, c.FileSystem, c.Mail, logoPath)
	c.ReportService = reportsrv.NewReportService(candidateRepo, interviewRepo, logoPath)

	// --- Handlers ---
	c.AuthHandlers = authapi.NewHandlers(c.AuthService)
	c.CandidateHandlers = candidateapi.NewHandlers(c.CandidateService)
	c.InterviewHandlers = interviewapi.NewHandlers(c.InterviewService)
	c.ReportHandlers = reportapi.NewHandlers(c.ReportService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService)
}
