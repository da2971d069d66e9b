package client

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/models"
)

type stepKind int

const (
	stepCreateList stepKind = iota
	stepDeleteList
	stepCreateItem
	stepUpdateItem
	stepDeleteItem
)

// step refers to entities by handle, the index of the step that created
// them, so one sequence can run against engines that assign different ids.
type step struct {
	kind   stepKind
	handle int
	target int
	text   string
	done   bool
}

type itemHandle struct {
	handle int
	list   int
}

var (
	labels = []string{"Groceries", "Weekend", "Party", "Hardware"}
	names  = []string{"Milk", "Bread", "Eggs", "Apples", "Nails"}
)

func drawSteps(t *rapid.T) []step {
	n := rapid.IntRange(0, 12).Draw(t, "steps")

	var (
		lists []int
		items []itemHandle
		steps []step
	)
	for i := 0; i < n; i++ {
		kinds := []stepKind{stepCreateList}
		if len(lists) > 0 {
			kinds = append(kinds, stepDeleteList, stepCreateItem)
		}
		if len(items) > 0 {
			kinds = append(kinds, stepUpdateItem, stepDeleteItem)
		}

		s := step{kind: rapid.SampledFrom(kinds).Draw(t, "kind"), handle: i}
		switch s.kind {
		case stepCreateList:
			s.text = rapid.SampledFrom(labels).Draw(t, "label")
			lists = append(lists, i)

		case stepDeleteList:
			idx := rapid.IntRange(0, len(lists)-1).Draw(t, "list")
			s.target = lists[idx]
			lists = slices.Delete(lists, idx, idx+1)
			items = slices.DeleteFunc(items, func(it itemHandle) bool { return it.list == s.target })

		case stepCreateItem:
			s.target = lists[rapid.IntRange(0, len(lists)-1).Draw(t, "list")]
			s.text = rapid.SampledFrom(names).Draw(t, "name")
			items = append(items, itemHandle{handle: i, list: s.target})

		case stepUpdateItem:
			s.target = items[rapid.IntRange(0, len(items)-1).Draw(t, "item")].handle
			s.done = rapid.Bool().Draw(t, "done")
			if rapid.Bool().Draw(t, "rename") {
				s.text = rapid.SampledFrom(names).Draw(t, "new name")
			}

		case stepDeleteItem:
			idx := rapid.IntRange(0, len(items)-1).Draw(t, "item")
			s.target = items[idx].handle
			items = slices.Delete(items, idx, idx+1)
		}
		steps = append(steps, s)
	}
	return steps
}

func apply(ctx context.Context, engine service.SyncEngine, ids map[int]int64, s step) error {
	switch s.kind {
	case stepCreateList:
		list, err := engine.CreateList(ctx, s.text)
		ids[s.handle] = list.ID
		return err
	case stepDeleteList:
		return engine.DeleteList(ctx, ids[s.target])
	case stepCreateItem:
		item, err := engine.CreateItem(ctx, ids[s.target], models.CreateItemRequest{Name: s.text})
		ids[s.handle] = item.ID
		return err
	case stepUpdateItem:
		update := models.ItemUpdate{Done: &s.done}
		if s.text != "" {
			update.Name = &s.text
		}
		_, err := engine.UpdateItem(ctx, ids[s.target], update)
		return err
	case stepDeleteItem:
		return engine.DeleteItem(ctx, ids[s.target])
	}
	return fmt.Errorf("unknown step kind %d", s.kind)
}

// serverState renders every list with its items in an id independent,
// sorted form.
func serverState(ctx context.Context, shopping service.ShoppingService) ([]string, error) {
	lists, err := shopping.GetLists(ctx)
	if err != nil {
		return nil, err
	}

	state := make([]string, 0, len(lists))
	for _, l := range lists {
		items, err := shopping.GetItems(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		entries := make([]string, 0, len(items))
		for _, it := range items {
			entries = append(entries, fmt.Sprintf("%s:%t", it.Name, it.Done))
		}
		slices.Sort(entries)
		state = append(state, l.Label+"["+strings.Join(entries, ",")+"]")
	}
	slices.Sort(state)
	return state, nil
}

type replayRun struct {
	rs  *referenceServer
	app *App
	dir string
}

func startReplayRun(ctx context.Context) (*replayRun, error) {
	dir, err := os.MkdirTemp("", "replay-property-*")
	if err != nil {
		return nil, err
	}
	rs, err := startReferenceServer(dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	app, err := NewApp(ctx, clientConfig(rs.URL, dir), logger.Nop())
	if err != nil {
		rs.stop()
		os.RemoveAll(dir)
		return nil, err
	}
	return &replayRun{rs: rs, app: app, dir: dir}, nil
}

func (r *replayRun) stop() {
	r.app.Close()
	r.rs.stop()
	os.RemoveAll(r.dir)
}

// Replaying offline changes must leave the service in the state it would
// have reached had every call been issued online in the same order.
func TestReplayMatchesOnlineExecution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		steps := drawSteps(t)
		split := rapid.IntRange(0, len(steps)).Draw(t, "online prefix")

		online, err := startReplayRun(ctx)
		require.NoError(t, err)
		defer online.stop()

		onlineIDs := make(map[int]int64)
		for _, s := range steps {
			require.NoError(t, apply(ctx, online.app.Engine(), onlineIDs, s))
		}
		online.app.services.Observer.Wait()

		replayed, err := startReplayRun(ctx)
		require.NoError(t, err)
		defer replayed.stop()

		replayedIDs := make(map[int]int64)
		for i, s := range steps {
			if i == split {
				replayed.rs.offline.Store(true)
			}
			require.NoError(t, apply(ctx, replayed.app.Engine(), replayedIDs, s))
		}
		for _, id := range replayedIDs {
			require.NotZero(t, id)
		}

		replayed.rs.offline.Store(false)
		res, err := replayed.app.Engine().Drain(ctx)
		require.NoError(t, err)
		replayed.app.services.Observer.Wait()
		require.Zero(t, res.Failed)

		pending, err := replayed.app.Engine().PendingCount(ctx)
		require.NoError(t, err)
		require.Zero(t, pending)

		want, err := serverState(ctx, online.rs.shopping)
		require.NoError(t, err)
		got, err := serverState(ctx, replayed.rs.shopping)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestDrainEmptyQueueIsNoop(t *testing.T) {
	ctx := context.Background()
	rs := newReferenceServer(t)

	app, err := NewApp(ctx, clientConfig(rs.URL, t.TempDir()), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	var notified []int
	unsubscribe := app.services.Observer.Subscribe(service.PendingFunc(func(count int) {
		notified = append(notified, count)
	}))
	defer unsubscribe()

	res, err := app.Engine().Drain(ctx)
	require.NoError(t, err)
	require.Equal(t, models.DrainResult{}, res)
	require.Empty(t, notified)
}
