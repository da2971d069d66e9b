package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/mock"
)

func TestClientProbeJob_Probe(t *testing.T) {
	tests := []struct {
		name      string
		pingErr   error
		reachable bool
	}{
		{name: "answered", pingErr: nil, reachable: true},
		{name: "rejected still answered", pingErr: fmt.Errorf("%w: ping", adapter.ErrNotFound), reachable: true},
		{name: "unreachable", pingErr: fmt.Errorf("%w: ping", adapter.ErrUnreachable), reachable: false},
		{name: "bad gateway", pingErr: fmt.Errorf("%w: ping", adapter.ErrBadGateway), reachable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			serverAdapter := mock.NewMockServerAdapter(ctrl)
			serverAdapter.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			observer := NewConnectivityObserver(logger.Nop())
			job := NewClientProbeJob(serverAdapter, observer, config.ClientWorkers{}, logger.Nop())

			assert.Equal(t, tt.reachable, job.Probe(context.Background()))
			assert.Equal(t, tt.reachable, observer.IsOnline())
		})
	}
}

func TestClientProbeJob_DisabledInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)

	job := NewClientProbeJob(serverAdapter, NewConnectivityObserver(logger.Nop()), config.ClientWorkers{ProbeInterval: 0}, logger.Nop())

	job.Start(context.Background())
	job.Stop()
}

func TestClientProbeJob_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)

	pinged := make(chan struct{}, 16)
	serverAdapter.EXPECT().Ping(gomock.Any()).MinTimes(1).DoAndReturn(func(context.Context) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})

	observer := NewConnectivityObserver(logger.Nop())
	job := NewClientProbeJob(serverAdapter, observer, config.ClientWorkers{ProbeInterval: 5 * time.Millisecond}, logger.Nop())

	job.Start(context.Background())
	select {
	case <-pinged:
	case <-time.After(time.Second):
		t.Fatal("probe did not run")
	}
	job.Stop()
	job.Stop()

	assert.True(t, observer.IsOnline())
}
