package server

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	reg := newPreviewRegistry()
	resume := uuid.New()

	first := reg.create(resume, 1)
	first.mu.Lock()
	first.lastUsed = time.Now().Add(-time.Hour)
	first.mu.Unlock()

	for i := 1; i < maxPreviewSessions; i++ {
		reg.create(resume, 1)
	}
	require.Equal(t, maxPreviewSessions, reg.count())

	reg.create(resume, 1)

	assert.Equal(t, maxPreviewSessions, reg.count())
	_, ok := reg.get(first.id)
	assert.False(t, ok)
}

func TestPreviewRegistry_RemoveResume(t *testing.T) {
	reg := newPreviewRegistry()
	a, b := uuid.New(), uuid.New()
	reg.create(a, 1)
	reg.create(a, 2)
	kept := reg.create(b, 3)

	assert.Equal(t, 2, reg.removeResume(a))
	assert.Equal(t, 1, reg.count())
	_, ok := reg.get(kept.id)
	assert.True(t, ok)

	reg.closeAll()
	assert.Equal(t, 0, reg.count())
}

func TestPreviewSession_SubscribeSeesLatestState(t *testing.T) {
	sess := newPreviewSession(uuid.New(), 5)
	ch, unsubscribe := sess.subscribe()
	defer unsubscribe()

	sess.nav.Next()
	sess.nav.Next()

	st := <-ch
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, 5, st.TotalPages)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued state: %+v", extra)
	default:
	}
}

func TestPreviewSession_CloseEndsSubscriptions(t *testing.T) {
	sess := newPreviewSession(uuid.New(), 2)
	ch, unsubscribe := sess.subscribe()

	sess.close()
	_, open := <-ch
	assert.False(t, open)

	// unsubscribing after close must not panic on a closed channel
	unsubscribe()

	late, _ := sess.subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestPreviewSession_ConcurrentNavigation(t *testing.T) {
	sess := newPreviewSession(uuid.New(), 3)
	ch, unsubscribe := sess.subscribe()
	defer unsubscribe()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.nav.Next()
			sess.nav.Prev()
		}()
	}
	wg.Wait()

	st := sess.state()
	assert.GreaterOrEqual(t, st.Page, 0)
	assert.Less(t, st.Page, 3)
	<-ch
}

func TestPreviewState_Bounds(t *testing.T) {
	sess := newPreviewSession(uuid.New(), 1)
	st := sess.state()

	assert.True(t, st.IsFirst)
	assert.True(t, st.IsLast)
	assert.Equal(t, sess.resumeID.String(), st.ResumeID)
}
