package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type (
	Container struct {
		App   *App   `validate:"required"`
		Token *Token `validate:"required"`
		HTTP  *HTTP  `validate:"required"`
		Redis *Redis `validate:"required"`
		Cache *Cache `validate:"required"`
		GRPC  *GRPC  `validate:"required"`
	}

	App struct {
		Name string `validate:"required"`
		Env  string `validate:"oneof=local dev prod production"`
	}

	Token struct {
		Secret   string        `validate:"required,min=16"`
		Duration time.Duration `validate:"gt=0"`
	}

	HTTP struct {
		Env            string
		Port           string `validate:"required,numeric"`
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string `validate:"required,hostname_port"`
		Password string
		DB       int `validate:"gte=0,lte=15"`
	}

	Cache struct {
		// Liveness reported before the first connection event arrives.
		OptimisticLiveness bool
	}

	GRPC struct {
		Port int `validate:"gt=0,lte=65535"`
	}
)

func New() (*Container, error) {
	const op = "config.New"

	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	grpcPort, err := intEnv("GRPC_PORT", 50051)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tokenDuration, err := durationEnv("TOKEN_DURATION", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	optimistic, err := boolEnv("CACHE_OPTIMISTIC_LIVENESS", true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	env := stringEnv("APP_ENV", "local")

	app := &App{
		Name: stringEnv("APP_NAME", "cache_microservice"),
		Env:  env,
	}

	token := &Token{
		Secret:   os.Getenv("TOKEN_SECRET"),
		Duration: tokenDuration,
	}

	http := &HTTP{
		Port:           stringEnv("HTTP_PORT", "8080"),
		AllowedOrigins: stringEnv("ALLOWED_ORIGINS", "*"),
		URL:            os.Getenv("HTTP_URL"),
		Env:            env,
	}

	redis := &Redis{
		Address:  stringEnv("REDIS_ADDRESS", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	cache := &Cache{
		OptimisticLiveness: optimistic,
	}

	grpc := &GRPC{
		Port: grpcPort,
	}

	container := &Container{
		App:   app,
		Token: token,
		HTTP:  http,
		Redis: redis,
		Cache: cache,
		GRPC:  grpc,
	}

	if err := validator.New().Struct(container); err != nil {
		return nil, fmt.Errorf("%s: invalid configuration: %w", op, err)
	}

	return container, nil
}

func stringEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
