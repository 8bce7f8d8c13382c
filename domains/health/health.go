package health

import (
	"context"
	"time"
)

type Component string

const (
	ComponentDatabase Component = "database"
	ComponentCache    Component = "cache"
)

type Status string

const (
	StatusOk    Status = "OK"
	StatusError Status = "ERROR"
)

type HealthRecord struct {
	Component   Component     `json:"component"`
	Status      Status        `json:"status"`
	LastMessage string        `json:"last_message,omitempty"`
	Latency     time.Duration `json:"latency_ns"`
	LastChecked time.Time     `json:"last_checked"`
}

type IHealthUsecase interface {
	CheckDatabase(ctx context.Context) HealthRecord
	CheckCache(ctx context.Context) HealthRecord
	GetStatus(ctx context.Context) []HealthRecord
	StartPeriodicChecks(ctx context.Context, interval time.Duration)
}
