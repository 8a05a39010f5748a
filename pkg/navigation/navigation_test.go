package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ayxworxfr/newcomer_admin/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	code := 100000
	switch {
	case status == http.StatusNoContent:
		w.WriteHeader(status)
		return
	case status == http.StatusCreated:
		code = 100004
	case status == http.StatusNotFound:
		code = 200002
	case status == http.StatusConflict:
		code = 200005
	case status >= 400:
		code = 300001
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": http.StatusText(status), "data": data})
}

// fakeCatalog 模拟服务端画面、菜单、关联
type fakeCatalog struct {
	mu       sync.Mutex
	screens  map[uint64]Screen
	menus    map[uint64]Menu
	links    map[uint64][]MenuScreen
	grants   map[uint64][]uint64
	requests atomic.Int32
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		screens: map[uint64]Screen{},
		menus:   map[uint64]Menu{},
		links:   map[uint64][]MenuScreen{},
		grants:  map[uint64][]uint64{},
	}
}

func (f *fakeCatalog) link(menuID, screenID uint64, order int) {
	f.links[menuID] = append(f.links[menuID], MenuScreen{Screen: f.screens[screenID], LinkOrder: order})
}

func pathID(r *http.Request, name string) uint64 {
	id, _ := strconv.ParseUint(r.PathValue(name), 10, 64)
	return id
}

func (f *fakeCatalog) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	// screens 字段缺失，客户端需要补拉
	mux.HandleFunc("GET /api/user-menus/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []map[string]any{}
		for _, menuID := range f.grants[pathID(r, "id")] {
			m := f.menus[menuID]
			out = append(out, map[string]any{"id": m.ID, "menu_name": m.MenuName, "menu_order": m.MenuOrder})
		}
		writeEnvelope(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET /api/menus/{id}/screens", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := append([]MenuScreen{}, f.links[pathID(r, "id")]...)
		writeEnvelope(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /api/menus/{id}/screens", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var in linkInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		menuID := pathID(r, "id")
		for _, s := range f.links[menuID] {
			if s.ID == in.ScreenID {
				writeEnvelope(w, http.StatusConflict, nil)
				return
			}
		}
		f.link(menuID, in.ScreenID, in.ScreenOrder)
		writeEnvelope(w, http.StatusCreated, Link{ID: 1, MenuID: menuID, ScreenID: in.ScreenID, ScreenOrder: in.ScreenOrder})
	})
	mux.HandleFunc("DELETE /api/menus/{id}/screens/{screen_id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		menuID, screenID := pathID(r, "id"), pathID(r, "screen_id")
		kept := f.links[menuID][:0]
		for _, s := range f.links[menuID] {
			if s.ID != screenID {
				kept = append(kept, s)
			}
		}
		f.links[menuID] = kept
		writeEnvelope(w, http.StatusNoContent, nil)
	})
	mux.HandleFunc("GET /api/screens", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := []Screen{}
		for id := uint64(1); id <= uint64(len(f.screens)); id++ {
			list = append(list, f.screens[id])
		}
		writeEnvelope(w, http.StatusOK, page[Screen]{List: list, Total: int64(len(list))})
	})
	mux.HandleFunc("GET /api/screens/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		s, ok := f.screens[pathID(r, "id")]
		if !ok {
			writeEnvelope(w, http.StatusNotFound, nil)
			return
		}
		writeEnvelope(w, http.StatusOK, s)
	})
	mux.HandleFunc("GET /api/screens/path/{path...}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, s := range f.screens {
			if s.ScreenPath == "/"+r.PathValue("path") {
				writeEnvelope(w, http.StatusOK, s)
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, nil)
	})
	mux.HandleFunc("DELETE /api/screens/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.screens, pathID(r, "id"))
		writeEnvelope(w, http.StatusNoContent, nil)
	})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newClient(ts *httptest.Server) *httpclient.Client {
	return httpclient.NewClient(ts.URL, httpclient.WithRetries(0))
}

// newComerCatalog 새가족관리 菜单下挂两个画面
func newComerCatalog() *fakeCatalog {
	f := newFakeCatalog()
	f.screens[1] = Screen{ID: 1, ScreenName: "새가족 목록", ScreenPath: "/new-comers", IsActive: true}
	f.screens[2] = Screen{ID: 2, ScreenName: "수료자 목록", ScreenPath: "/graduates", IsActive: true}
	f.menus[1] = Menu{ID: 1, MenuName: "새가족관리", MenuOrder: 1, IsActive: true}
	f.link(1, 2, 2)
	f.link(1, 1, 1)
	f.grants[1] = []uint64{1}
	return f
}

func screenIDs(screens []MenuScreen) []uint64 {
	ids := make([]uint64, len(screens))
	for i, s := range screens {
		ids[i] = s.ID
	}
	return ids
}

func TestNewComerScenario(t *testing.T) {
	ts := newComerCatalog().server(t)
	resolver := NewResolver(newClient(ts))

	res := resolver.ResolveUserMenus(context.Background(), 1)
	require.True(t, res.OK())
	require.Len(t, res.Value, 1)
	assert.Equal(t, "새가족관리", res.Value[0].Menu.MenuName)
	assert.Equal(t, []uint64{1, 2}, screenIDs(res.Value[0].Screens))

	var navigated []string
	session := NewSession(resolver, NavigatorFunc(func(_ context.Context, path string) {
		navigated = append(navigated, path)
	}))
	session.Start(context.Background(), 1)
	session.Wait()
	require.True(t, session.Ready())

	session.Toggle(1)
	assert.Equal(t, []uint64{1}, session.Expanded())
	nodes := session.Nodes()
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].Expanded)

	session.Open()
	assert.Equal(t, "/graduates", session.SelectScreen(context.Background(), 2, ""))
	assert.Equal(t, []string{"/graduates"}, navigated)
	assert.False(t, session.IsOpen())
}

func TestResolveUserMenus_DedupeOrderAndDangling(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []map[string]any{
			{"id": 2, "menu_name": "empty", "menu_order": 2, "screens": []any{}},
			{"id": 1, "menu_name": "first", "menu_order": 1, "screens": []map[string]any{
				{"id": 0, "link_order": 0},
				{"id": 5, "link_order": 1},
				{"id": 4, "link_order": 1},
				{"id": 3, "link_order": 0},
			}},
			{"id": 2, "menu_name": "empty", "menu_order": 2, "screens": []any{}},
			{"id": 3, "menu_name": "tie", "menu_order": 1, "screens": []any{}},
		})
	}))
	defer ts.Close()

	res := NewResolver(newClient(ts)).ResolveUserMenus(context.Background(), 7)
	require.NoError(t, res.Err)
	require.Len(t, res.Value, 3)
	assert.Equal(t, uint64(1), res.Value[0].Menu.ID)
	assert.Equal(t, uint64(3), res.Value[1].Menu.ID)
	assert.Equal(t, uint64(2), res.Value[2].Menu.ID)
	assert.Equal(t, []uint64{3, 4, 5}, screenIDs(res.Value[0].Screens))
	assert.NotNil(t, res.Value[2].Screens)
	assert.Empty(t, res.Value[2].Screens)
}

func TestResolveUserMenus_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, nil)
	}))
	defer ts.Close()

	resolver := NewResolver(newClient(ts))
	res := resolver.ResolveUserMenus(context.Background(), 1)
	assert.False(t, res.OK())
	assert.Empty(t, res.Value)
	assert.Equal(t, 500, httpclient.StatusCode(res.Err))

	session := NewSession(resolver, nil)
	session.Start(context.Background(), 1)
	session.Wait()
	assert.True(t, session.Ready())
	assert.Empty(t, session.Nodes())
}

func TestResolveScreenRoute_Fallback(t *testing.T) {
	f := newComerCatalog()
	f.screens[3] = Screen{ID: 3, ScreenName: "no path"}
	ts := f.server(t)
	resolver := NewResolver(newClient(ts))
	ctx := context.Background()

	assert.Equal(t, "/new-comers", resolver.ResolveScreenRoute(ctx, 1, "/x"))
	assert.Equal(t, "/screen/99", resolver.ResolveScreenRoute(ctx, 99, "/screen/99"))
	assert.Equal(t, "/fallback", resolver.ResolveScreenRoute(ctx, 3, "/fallback"))

	res := resolver.LookupScreenRoute(ctx, 3)
	assert.ErrorIs(t, res.Err, ErrEmptyRoute)
	assert.True(t, httpclient.IsNotFound(resolver.LookupScreenRoute(ctx, 99).Err))
}

func TestResolveScreenTitle(t *testing.T) {
	f := newComerCatalog()
	ts := f.server(t)
	resolver := NewResolver(newClient(ts))
	ctx := context.Background()

	assert.Equal(t, "메뉴 관리", resolver.ResolveScreenTitle(ctx, "/admin/menus"))
	assert.Equal(t, int32(0), f.requests.Load(), "static titles never hit the server")

	assert.Equal(t, "수료자 목록", resolver.ResolveScreenTitle(ctx, "/graduates"))
	assert.Equal(t, "", resolver.ResolveScreenTitle(ctx, "/unknown"))
	assert.Equal(t, "", resolver.ResolveScreenTitle(ctx, ""))
}

// gatedResolver 按用户阻塞，直到测试放行
type gatedResolver struct {
	gates map[uint64]chan struct{}
}

func (g *gatedResolver) ResolveUserMenus(_ context.Context, userID uint64) Result[[]Node] {
	if gate, ok := g.gates[userID]; ok {
		<-gate
	}
	return success([]Node{{Menu: Menu{ID: userID * 10, MenuName: fmt.Sprintf("menu-%d", userID)}}})
}

func (g *gatedResolver) ResolveScreenRoute(_ context.Context, _ uint64, fallback string) string {
	return fallback
}

func TestSession_StaleResponseDiscarded(t *testing.T) {
	resolver := &gatedResolver{gates: map[uint64]chan struct{}{1: make(chan struct{})}}
	session := NewSession(resolver, nil)
	ctx := context.Background()

	session.Start(ctx, 1)
	session.mu.Lock()
	first := session.done
	session.mu.Unlock()
	assert.False(t, session.Ready())
	assert.Nil(t, session.Nodes())

	session.End()
	session.Start(ctx, 2)
	session.Wait()

	close(resolver.gates[1])
	<-first

	nodes := session.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, uint64(20), nodes[0].Menu.ID)
	userID, loggedIn := session.UserID()
	assert.True(t, loggedIn)
	assert.Equal(t, uint64(2), userID)
}

func TestSession_ToggleIsLocal(t *testing.T) {
	resolver := &gatedResolver{gates: map[uint64]chan struct{}{}}
	navigated := 0
	session := NewSession(resolver, NavigatorFunc(func(context.Context, string) { navigated++ }))

	session.Toggle(5)
	session.Toggle(3)
	before := session.Expanded()
	session.Toggle(7)
	session.Toggle(7)
	assert.Equal(t, before, session.Expanded())
	assert.Equal(t, []uint64{3, 5}, before)

	session.SelectMenuHeader(3)
	assert.Equal(t, []uint64{5}, session.Expanded())
	assert.Zero(t, navigated)

	session.Open()
	assert.Equal(t, "/screen/42", session.SelectScreen(context.Background(), 42, ""))
	assert.Equal(t, 1, navigated)
	assert.False(t, session.IsOpen())

	session.End()
	assert.Empty(t, session.Expanded())
	assert.False(t, session.Ready())
}

func TestAdmin_AvailableScreensFollowLinks(t *testing.T) {
	f := newComerCatalog()
	f.screens[3] = Screen{ID: 3, ScreenName: "교육 현황", ScreenPath: "/education"}
	ts := f.server(t)
	admin := NewAdmin(newClient(ts), ConfirmFunc(func(context.Context, string) bool { return true }))
	ctx := context.Background()

	available, err := admin.AvailableScreens(ctx, 1)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, uint64(3), available[0].ID)

	_, err = admin.LinkScreen(ctx, 1, 3, 3)
	require.NoError(t, err)
	available, err = admin.AvailableScreens(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = admin.LinkScreen(ctx, 1, 3, 3)
	assert.ErrorIs(t, err, httpclient.ErrStatusNotOK, "duplicate link surfaces to the operator")

	require.NoError(t, admin.UnlinkScreen(ctx, 1, 3))
	available, err = admin.AvailableScreens(ctx, 1)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, uint64(3), available[0].ID)
}

func TestAdmin_DeleteRequiresConfirmation(t *testing.T) {
	f := newComerCatalog()
	ts := f.server(t)
	ctx := context.Background()

	declined := NewAdmin(newClient(ts), ConfirmFunc(func(context.Context, string) bool { return false }))
	assert.ErrorIs(t, declined.DeleteScreen(ctx, 1), ErrNotConfirmed)
	assert.ErrorIs(t, declined.UnlinkScreen(ctx, 1, 1), ErrNotConfirmed)
	assert.ErrorIs(t, NewAdmin(newClient(ts), nil).RevokeGrant(ctx, 1), ErrNotConfirmed)
	assert.Equal(t, int32(0), f.requests.Load())

	confirmed := NewAdmin(newClient(ts), ConfirmFunc(func(context.Context, string) bool { return true }))
	require.NoError(t, confirmed.DeleteScreen(ctx, 1))
	assert.NotContains(t, f.screens, uint64(1))
}

func TestAdmin_ValidatesBeforeSending(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusCreated, Screen{ID: 9, ScreenName: "대시보드", ScreenPath: "/dashboard"})
	}))
	defer ts.Close()
	admin := NewAdmin(newClient(ts), nil)
	ctx := context.Background()

	_, err := admin.CreateScreen(ctx, ScreenInput{ScreenName: "x", ScreenPath: "/x", ComponentName: "Unknown"})
	assert.Error(t, err)
	_, err = admin.CreateScreen(ctx, ScreenInput{ScreenName: "x", ScreenPath: "no-slash"})
	assert.Error(t, err)
	_, err = admin.CreateMenu(ctx, MenuInput{})
	assert.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())

	screen, err := admin.CreateScreen(ctx, ScreenInput{ScreenName: "대시보드", ScreenPath: "/dashboard", ComponentName: "Dashboard"})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), screen.ID)
}

func TestAdmin_CreateScreenSentOnceOnGatewayError(t *testing.T) {
	var posts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if posts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeEnvelope(w, http.StatusCreated, Screen{ID: 9, ScreenName: "대시보드", ScreenPath: "/dashboard"})
	}))
	defer ts.Close()
	client := httpclient.NewClient(ts.URL, httpclient.WithRetries(3), httpclient.WithBackoff(time.Millisecond))

	_, err := NewAdmin(client, nil).CreateScreen(context.Background(),
		ScreenInput{ScreenName: "대시보드", ScreenPath: "/dashboard", ComponentName: "Dashboard"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, httpclient.StatusCode(err))
	assert.Equal(t, int32(1), posts.Load())
}

func TestResult(t *testing.T) {
	r := failure(0, errors.New("x"))
	assert.False(t, r.OK())
	assert.Equal(t, 5, r.Or(5))
	assert.Equal(t, 3, success(3).Or(5))
}

func TestGroupColor(t *testing.T) {
	assert.Equal(t, Palette[0], GroupColor(""))
	assert.Equal(t, GroupColor("김목사"), GroupColor("김목사"))
	assert.Contains(t, Palette, GroupColor("이전도사"))
}
