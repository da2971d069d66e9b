package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

type countingDrainer struct {
	calls atomic.Int32
}

func (d *countingDrainer) Drain(ctx context.Context) (models.DrainResult, error) {
	d.calls.Add(1)
	return models.DrainResult{}, nil
}

func TestConnectivityObserver_StartsOffline(t *testing.T) {
	o := NewConnectivityObserver(logger.Nop())

	assert.False(t, o.IsOnline())
}

func TestConnectivityObserver_DrainsOncePerTransition(t *testing.T) {
	ctx := context.Background()
	d := &countingDrainer{}
	o := NewConnectivityObserver(logger.Nop())
	o.setDrainer(d)

	o.SetOnline(ctx, true)
	o.SetOnline(ctx, true)
	o.Wait()
	assert.Equal(t, int32(1), d.calls.Load())

	o.SetOnline(ctx, false)
	o.Wait()
	assert.Equal(t, int32(1), d.calls.Load())

	o.SetOnline(ctx, true)
	o.Wait()
	assert.Equal(t, int32(2), d.calls.Load())
}

func TestConnectivityObserver_Report(t *testing.T) {
	ctx := context.Background()
	d := &countingDrainer{}
	o := NewConnectivityObserver(logger.Nop())
	o.setDrainer(d)

	was := o.Report(ctx, fmt.Errorf("%w: refused", adapter.ErrUnreachable))
	assert.False(t, was)
	assert.False(t, o.IsOnline())

	// a rejection proves the server answered
	was = o.Report(ctx, fmt.Errorf("%w: nope", adapter.ErrBadRequest))
	assert.False(t, was)
	assert.True(t, o.IsOnline())

	was = o.Report(ctx, nil)
	assert.True(t, was)

	was = o.Report(ctx, fmt.Errorf("%w: down", adapter.ErrServiceUnavailable))
	assert.True(t, was)
	assert.False(t, o.IsOnline())

	o.Wait()
	assert.Equal(t, int32(1), d.calls.Load())
}

func TestConnectivityObserver_SubscribeOrderAndUnsubscribe(t *testing.T) {
	o := NewConnectivityObserver(logger.Nop())

	var got []string
	unsubA := o.Subscribe(PendingFunc(func(n int) { got = append(got, fmt.Sprintf("a%d", n)) }))
	o.Subscribe(PendingFunc(func(n int) { got = append(got, fmt.Sprintf("b%d", n)) }))

	o.notify(2)
	unsubA()
	unsubA()
	o.notify(0)

	assert.Equal(t, []string{"a2", "b2", "b0"}, got)
}

func TestConnectivityObserver_NoDrainerBound(t *testing.T) {
	o := NewConnectivityObserver(logger.Nop())

	o.SetOnline(context.Background(), true)
	o.Wait()

	assert.True(t, o.IsOnline())
}
