package services

import (
	"testing"
	"time"
)

func TestMonitoringStart_ReturnsWithoutBlocking(t *testing.T) {
	t.Setenv("PROMETHEUS_PORT", "0")

	svc := &MonitoringService{}

	done := make(chan error, 1)
	go func() { done <- svc.Start() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected start error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start must hand the metrics listener to a goroutine; services after it would never start")
	}

	svc.Shutdown()
}
