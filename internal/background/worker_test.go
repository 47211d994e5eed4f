package background

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/creatorstation/imgenhancer/internal/db"
	"github.com/creatorstation/imgenhancer/internal/pending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPanelHost struct {
	mu      sync.Mutex
	windows []int
	err     error
}

func (m *mockPanelHost) Open(_ context.Context, windowID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = append(m.windows, windowID)
	return m.err
}

type mockScheduler struct{ started int }

func (m *mockScheduler) Start() { m.started++ }

// 1x1 transparent GIF.
var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

func newTestWorker() (*Worker, *Menus, *pending.Handoff, *mockPanelHost, *mockScheduler) {
	menus := NewMenus()
	handoff := pending.NewHandoff(db.NewMemoryStore())
	host := &mockPanelHost{}
	sched := &mockScheduler{}
	return NewWorker(menus, handoff, host, sched), menus, handoff, host, sched
}

func TestInstall_RegistersMenuAndStartsSchedule(t *testing.T) {
	w, menus, _, _, sched := newTestWorker()

	require.NoError(t, w.Install(context.Background()))

	item, err := menus.Lookup(EnhanceMenuID)
	require.NoError(t, err)
	assert.Equal(t, "Enhance Image", item.Title)
	assert.Equal(t, []string{"image"}, item.Contexts)
	assert.Equal(t, 1, sched.started)
}

func TestInstall_Twice(t *testing.T) {
	w, menus, _, _, _ := newTestWorker()

	require.NoError(t, w.Install(context.Background()))
	require.NoError(t, w.Install(context.Background()))
	assert.Len(t, menus.Items(), 1)
}

func TestHandleClick_StashesAndOpensPanel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write(gifBytes)
	}))
	defer srv.Close()

	ctx := context.Background()
	w, _, handoff, host, _ := newTestWorker()

	require.NoError(t, w.HandleClick(ctx, MenuClick{MenuItemID: EnhanceMenuID, SrcURL: srv.URL + "/a.gif", WindowID: 7}))

	image, ok, err := handoff.Take(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, image, "data:image/gif;base64,")
	assert.Equal(t, []int{7}, host.windows)
}

func TestHandleClick_SniffsMissingContentType(t *testing.T) {
	ctx := context.Background()
	w, _, handoff, _, _ := newTestWorker()
	w.fetch = func(context.Context, string) ([]byte, string, error) {
		return gifBytes, "application/octet-stream", nil
	}

	require.NoError(t, w.HandleClick(ctx, MenuClick{MenuItemID: EnhanceMenuID, SrcURL: "http://x/a"}))

	image, _, err := handoff.Take(ctx)
	require.NoError(t, err)
	assert.Contains(t, image, "data:image/gif;base64,")
}

func TestHandleClick_IgnoresOtherMenus(t *testing.T) {
	ctx := context.Background()
	w, _, handoff, host, _ := newTestWorker()
	w.fetch = func(context.Context, string) ([]byte, string, error) {
		t.Fatal("fetch should not be called")
		return nil, "", nil
	}

	require.NoError(t, w.HandleClick(ctx, MenuClick{MenuItemID: "other"}))
	_, ok, err := handoff.Take(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, host.windows)
}

func TestHandleClick_FetchFailureStashesNothing(t *testing.T) {
	ctx := context.Background()
	w, _, handoff, host, _ := newTestWorker()
	w.fetch = func(context.Context, string) ([]byte, string, error) {
		return nil, "", errors.New("dns failure")
	}

	err := w.HandleClick(ctx, MenuClick{MenuItemID: EnhanceMenuID, SrcURL: "http://x/a"})
	assert.ErrorContains(t, err, "dns failure")

	_, ok, err := handoff.Take(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, host.windows)
}

func TestHandleClick_SecondClickOverwritesPending(t *testing.T) {
	ctx := context.Background()
	w, _, handoff, _, _ := newTestWorker()
	w.fetch = func(_ context.Context, src string) ([]byte, string, error) {
		return []byte(src), "image/png", nil
	}

	require.NoError(t, w.HandleClick(ctx, MenuClick{MenuItemID: EnhanceMenuID, SrcURL: "one"}))
	require.NoError(t, w.HandleClick(ctx, MenuClick{MenuItemID: EnhanceMenuID, SrcURL: "two"}))

	image, ok, err := handoff.Take(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "data:image/png;base64,dHdv", image)
}

func TestBrowserPanelHost_AddsWindow(t *testing.T) {
	var opened string
	h := NewBrowserPanelHost("http://localhost:8080/panel")
	h.openURL = func(u string) error {
		opened = u
		return nil
	}

	require.NoError(t, h.Open(context.Background(), 3))
	assert.Equal(t, "http://localhost:8080/panel?window=3", opened)
}

func TestMenus_LookupUnknown(t *testing.T) {
	_, err := NewMenus().Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownMenuItem)
	assert.Error(t, NewMenus().Create(MenuItem{}))
}
