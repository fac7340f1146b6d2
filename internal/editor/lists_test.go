package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	abcd := []string{"A", "B", "C", "D"}
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"B", "C", "A", "D"}},
		{0, 3, []string{"B", "C", "D", "A"}},
		{3, 0, []string{"D", "A", "B", "C"}},
		{1, 1, []string{"A", "B", "C", "D"}},
		{2, 1, []string{"A", "C", "B", "D"}},
	}
	for _, tt := range tests {
		got := move(append([]string(nil), abcd...), tt.from, tt.to)
		assert.Equal(t, tt.want, got, "move(%d, %d)", tt.from, tt.to)
	}
}

func TestList_Reorder(t *testing.T) {
	e, _ := loaded(t, quiet)
	l := e.PackSizes()
	for _, s := range []string{"A", "B", "C", "D"} {
		require.NoError(t, l.Add(s))
	}

	require.NoError(t, l.Reorder(0, 2))
	items, err := l.Items()
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A", "D"}, items)

	require.ErrorIs(t, l.Reorder(4, 0), ErrIndexOutOfRange)
	require.ErrorIs(t, l.Reorder(0, 4), ErrIndexOutOfRange)
	require.ErrorIs(t, l.Reorder(-1, 0), ErrIndexOutOfRange)
	items, _ = l.Items()
	assert.Equal(t, []string{"B", "C", "A", "D"}, items)
}

func TestList_Remove(t *testing.T) {
	e, _ := loaded(t, quiet)

	packs := e.PackSizes()
	require.ErrorIs(t, packs.Remove(0), ErrIndexOutOfRange)
	items, _ := packs.Items()
	assert.Empty(t, items)
	assert.False(t, e.Snapshot().Lists[catalog.KindPackSizes].Dirty)

	apps := e.Applications()
	require.ErrorIs(t, apps.Remove(2), ErrIndexOutOfRange)
	require.ErrorIs(t, apps.Remove(-1), ErrIndexOutOfRange)
	items, _ = apps.Items()
	assert.Equal(t, []string{"Passenger cars", "Vans"}, items)

	require.NoError(t, apps.Remove(0))
	items, _ = apps.Items()
	assert.Equal(t, []string{"Vans"}, items)
	assert.True(t, e.Snapshot().Lists[catalog.KindApplications].Dirty)

	// the loaded snapshot is not affected by local list edits
	assert.Equal(t, []string{"Passenger cars", "Vans"}, e.Snapshot().Snapshot.Applications)
}

func TestList_SyncSendsOrderedList(t *testing.T) {
	e, b := loaded(t, quiet)

	features := e.Features()
	require.NoError(t, features.Remove(0))
	require.NoError(t, features.Add("Feature A"))
	require.NoError(t, features.Add("Feature B"))
	require.NoError(t, features.Reorder(0, 1))
	require.True(t, e.Snapshot().Lists[catalog.KindFeatures].Dirty)

	require.NoError(t, features.Sync(context.Background()))

	calls := b.replaceCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, replaceCall{id: "p1", kind: catalog.KindFeatures, items: []string{"Feature B", "Feature A"}}, calls[0])

	st := e.Snapshot()
	assert.False(t, st.Lists[catalog.KindFeatures].Dirty)
	assert.Equal(t, SyncSynced, st.Lists[catalog.KindFeatures].Status)
	assert.False(t, st.Dirty)
	assert.Equal(t, StatusIdle, st.Status)
	assert.Equal(t, 0, b.updateCount())
}

func TestList_SyncFailure(t *testing.T) {
	e, b := loaded(t, quiet)
	b.replaceErr = errors.New("server unavailable")

	l := e.Applications()
	require.NoError(t, l.Add("Trucks"))
	require.Error(t, l.Sync(context.Background()))

	ls := e.Snapshot().Lists[catalog.KindApplications]
	assert.Equal(t, []string{"Passenger cars", "Vans", "Trucks"}, ls.Items)
	assert.True(t, ls.Dirty)
	assert.Equal(t, SyncFailed, ls.Status)
	assert.Equal(t, "server unavailable", ls.Message)

	require.NoError(t, l.Add("Buses"))
	ls = e.Snapshot().Lists[catalog.KindApplications]
	assert.Equal(t, SyncIdle, ls.Status)
	assert.Empty(t, ls.Message)
}

func TestList_SyncIsIndependent(t *testing.T) {
	e, b := loaded(t, quiet)

	require.NoError(t, e.Features().Add("Shear stable"))
	require.NoError(t, e.Applications().Add("Trucks"))
	require.NoError(t, e.SetField(catalog.FieldBrand, "Other"))

	require.NoError(t, e.Features().Sync(context.Background()))

	st := e.Snapshot()
	assert.False(t, st.Lists[catalog.KindFeatures].Dirty)
	assert.True(t, st.Lists[catalog.KindApplications].Dirty)
	assert.True(t, st.Dirty)
	assert.Len(t, b.replaceCalls(), 1)

	require.NoError(t, e.SaveNow(context.Background()))
	for _, f := range []catalog.Field{"features", "applications", "packSizes"} {
		assert.NotContains(t, b.lastUpdate(), f)
	}
	assert.True(t, e.Snapshot().Lists[catalog.KindApplications].Dirty)
}

func TestList_EditsDoNotTriggerAutoSave(t *testing.T) {
	e, b := loaded(t, WithAutoSaveDelay(10*time.Millisecond))

	require.NoError(t, e.Features().Add("x"))
	require.NoError(t, e.Features().Reorder(0, 1))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, b.updateCount())
	assert.False(t, e.Snapshot().Dirty)
}

func TestList_EditDuringSyncStaysDirty(t *testing.T) {
	b := newFakeBackend(oilX())
	gated := &gatedReplace{fakeBackend: b, gate: make(chan struct{}), started: make(chan struct{}, 1)}
	e := NewEditor(gated, quiet)
	defer e.Close()
	require.NoError(t, e.Load(context.Background(), "p1"))

	done := make(chan error, 1)
	go func() { done <- e.Features().Sync(context.Background()) }()
	<-gated.started
	assert.Equal(t, SyncSyncing, e.Snapshot().Lists[catalog.KindFeatures].Status)

	require.NoError(t, e.Features().Add("late"))
	close(gated.gate)
	require.NoError(t, <-done)

	ls := e.Snapshot().Lists[catalog.KindFeatures]
	assert.True(t, ls.Dirty)
	assert.Equal(t, []string{"Low ash", "late"}, ls.Items)
}

func TestList_UnknownKind(t *testing.T) {
	e, _ := loaded(t, quiet)
	l := e.List(catalog.Kind("gallery"))

	assert.ErrorIs(t, l.Add("x"), ErrInvalidKind)
	assert.ErrorIs(t, l.Sync(context.Background()), ErrInvalidKind)
	_, err := l.Items()
	assert.ErrorIs(t, err, ErrInvalidKind)
}

type gatedReplace struct {
	*fakeBackend
	gate    chan struct{}
	started chan struct{}
}

func (g *gatedReplace) ReplaceSubcollection(ctx context.Context, id string, kind catalog.Kind, items []string) error {
	g.started <- struct{}{}
	<-g.gate
	return g.fakeBackend.ReplaceSubcollection(ctx, id, kind, items)
}
