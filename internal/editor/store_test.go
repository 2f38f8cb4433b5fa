package editor

import (
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DispatchBumpsVersion(t *testing.T) {
	store := NewStore(nil)
	assert.Equal(t, 0, store.Version())

	snap, err := store.Dispatch(SetAbout{About: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, "hello", snap.Resume.About)

	snap, err = store.Dispatch(SetSkills{Skills: []string{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Version)
	assert.Equal(t, "hello", snap.Resume.About)
	assert.Equal(t, []string{"Go"}, snap.Resume.Skills)
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	store := NewStore(&types.Resume{Skills: []string{"Go"}})

	snap := store.Snapshot()
	snap.Resume.Skills[0] = "mutated"
	snap.Resume.About = "mutated"

	again := store.Snapshot()
	assert.Equal(t, []string{"Go"}, again.Resume.Skills)
	assert.Empty(t, again.Resume.About)
}

func TestStore_ActionInputIsCopied(t *testing.T) {
	store := NewStore(nil)
	entries := []types.Experience{{Company: "Acme", Role: "Dev", Highlights: []string{"a"}}}

	_, err := store.Dispatch(SetExperience{Entries: entries})
	require.NoError(t, err)
	entries[0].Highlights[0] = "changed"
	entries[0].Company = "changed"

	snap := store.Snapshot()
	assert.Equal(t, "Acme", snap.Resume.Experience[0].Company)
	assert.Equal(t, []string{"a"}, snap.Resume.Experience[0].Highlights)
}

func TestStore_FailedDispatchLeavesStateAlone(t *testing.T) {
	store := NewStore(&types.Resume{Skills: []string{"Go"}})
	called := false
	store.Subscribe(func(Snapshot) { called = true })

	_, err := store.Dispatch(RemoveEntry{Section: types.SectionSkills, Index: 5})
	require.Error(t, err)
	var actionErr *ActionError
	assert.ErrorAs(t, err, &actionErr)

	assert.Equal(t, 0, store.Version())
	assert.Equal(t, []string{"Go"}, store.Snapshot().Resume.Skills)
	assert.False(t, called)
}

func TestRemoveEntry(t *testing.T) {
	tests := []struct {
		name    string
		action  RemoveEntry
		wantErr bool
	}{
		{"remove middle experience", RemoveEntry{Section: types.SectionExperience, Index: 1}, false},
		{"negative index", RemoveEntry{Section: types.SectionExperience, Index: -1}, true},
		{"past end", RemoveEntry{Section: types.SectionExperience, Index: 3}, true},
		{"single-value section", RemoveEntry{Section: types.SectionAbout, Index: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(&types.Resume{
				Experience: []types.Experience{{Company: "A"}, {Company: "B"}, {Company: "C"}},
			})
			snap, err := store.Dispatch(tt.action)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, snap.Resume.Experience, 2)
			assert.Equal(t, "A", snap.Resume.Experience[0].Company)
			assert.Equal(t, "C", snap.Resume.Experience[1].Company)
		})
	}
}

func TestSelectTemplate_Check(t *testing.T) {
	known := func(name string) error {
		if name != "classic" && name != "modern" {
			return errors.New("no such template")
		}
		return nil
	}
	store := NewStore(nil, WithTemplateCheck(known))

	snap, err := store.Dispatch(SelectTemplate{Template: "modern"})
	require.NoError(t, err)
	assert.Equal(t, "modern", snap.Resume.Template)

	_, err = store.Dispatch(SelectTemplate{Template: "baroque"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such template")

	_, err = store.Dispatch(Batch{SetAbout{About: "x"}, SelectTemplate{Template: "baroque"}})
	require.Error(t, err)
	assert.Empty(t, store.Snapshot().Resume.About)

	_, err = store.Dispatch(SelectTemplate{})
	assert.Error(t, err)
}

func TestStore_Subscribe(t *testing.T) {
	store := NewStore(nil)
	var versions []int
	unsubscribe := store.Subscribe(func(s Snapshot) {
		versions = append(versions, s.Version)
	})

	_, _ = store.Dispatch(SetAbout{About: "a"})
	_, _ = store.Dispatch(SetAbout{About: "b"})
	unsubscribe()
	_, _ = store.Dispatch(SetAbout{About: "c"})

	assert.Equal(t, []int{1, 2}, versions)
}

func TestStore_Load(t *testing.T) {
	store := NewStore(nil)
	snap, err := store.Load(&types.Resume{
		Template: "compact",
		Personal: types.Personal{FullName: "Ada"},
		Skills:   []string{"math"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, "compact", snap.Resume.Template)
	assert.Equal(t, "Ada", snap.Resume.Personal.FullName)
}

func TestReduce_DoesNotTouchInput(t *testing.T) {
	state := &types.Resume{About: "before"}
	next, err := Reduce(state, SetAbout{About: "after"})
	require.NoError(t, err)
	assert.Equal(t, "before", state.About)
	assert.Equal(t, "after", next.About)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Dispatch(SetAbout{About: "x"})
			_ = store.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, store.Version())
}

func TestActionFor(t *testing.T) {
	action, errs := ActionFor(types.SectionEducation, []any{
		map[string]any{"school_name": "MIT"},
		map[string]any{"degree": "no school"},
	})
	require.NotNil(t, action)
	require.Len(t, errs, 1)
	set, ok := action.(SetEducation)
	require.True(t, ok)
	require.Len(t, set.Entries, 1)
	assert.Equal(t, "MIT", set.Entries[0].Institution)

	action, errs = ActionFor(types.SectionEducation, "not a list")
	assert.Nil(t, action)
	assert.Len(t, errs, 1)

	action, errs = ActionFor(types.SectionAbout, "  hi  ")
	assert.Empty(t, errs)
	assert.Equal(t, SetAbout{About: "hi"}, action)

	action, errs = ActionFor("hobbies", nil)
	assert.Nil(t, action)
	assert.Len(t, errs, 1)
}
