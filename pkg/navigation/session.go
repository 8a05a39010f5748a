package navigation

import (
	"context"
	"sort"
	"sync"

	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Navigator 执行页面跳转
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc 函数适配 Navigator
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }

// Session 一个登录会话的导航树状态
//
// 每次切换用户都会递增 generation，解析结果只在 generation 与用户都未变化时生效。
type Session struct {
	id       string
	resolver MenuResolver
	nav      Navigator

	mu         sync.Mutex
	generation uint64
	userID     uint64
	hasUser    bool
	loading    bool
	open       bool
	nodes      []Node
	expanded   map[uint64]struct{}
	done       chan struct{}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func NewSession(resolver MenuResolver, nav Navigator) *Session {
	return &Session{
		id:       uuid.NewString(),
		resolver: resolver,
		nav:      nav,
		expanded: make(map[uint64]struct{}),
		done:     closedChan(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Start 用户登录后开始解析菜单，立即返回
func (s *Session) Start(ctx context.Context, userID uint64) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.userID = userID
	s.hasUser = true
	s.loading = true
	s.nodes = nil
	s.expanded = make(map[uint64]struct{})
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	ctx = logger.WithContext(ctx, zap.String("session_id", s.id), zap.Uint64("user_id", userID))
	go func() {
		defer close(done)
		res := s.resolver.ResolveUserMenus(ctx, userID)
		s.apply(ctx, gen, userID, res)
	}()
}

// SwitchUser 丢弃当前树并为新用户重新解析
func (s *Session) SwitchUser(ctx context.Context, userID uint64) {
	s.Start(ctx, userID)
}

func (s *Session) apply(ctx context.Context, gen, userID uint64, res Result[[]Node]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || !s.hasUser || userID != s.userID {
		logger.Debug(ctx, "Discarding stale menu resolution", zap.Uint64("generation", gen))
		return
	}
	if !res.OK() {
		logger.Warn(ctx, "Navigation degraded to empty tree", zap.Error(res.Err))
	}
	s.nodes = res.Or([]Node{})
	if s.nodes == nil {
		s.nodes = []Node{}
	}
	s.loading = false
}

// End 登出，进行中的解析结果到达后会被丢弃
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.userID = 0
	s.hasUser = false
	s.loading = false
	s.open = false
	s.nodes = nil
	s.expanded = make(map[uint64]struct{})
	s.done = closedChan()
}

// Wait 等待调用时正在进行的解析结束
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	<-done
}

// Ready 菜单解析完成后才渲染导航树
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasUser && !s.loading
}

// UserID 当前用户，未登录时 ok 为 false
func (s *Session) UserID() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.hasUser
}

// Toggle 展开或收起菜单，只修改本地状态
func (s *Session) Toggle(menuID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.expanded[menuID]; exists {
		delete(s.expanded, menuID)
		return
	}
	s.expanded[menuID] = struct{}{}
}

// SelectMenuHeader 点击菜单标题只切换展开状态，菜单本身没有路由
func (s *Session) SelectMenuHeader(menuID uint64) {
	s.Toggle(menuID)
}

// SelectScreen 解析画面路由并跳转，无论结果如何都关闭下拉框
//
// fallback 为空时使用 /screen/{id}。返回实际跳转的路径。
func (s *Session) SelectScreen(ctx context.Context, screenID uint64, fallback string) string {
	defer s.Close()
	if fallback == "" {
		fallback = DefaultRoute(screenID)
	}
	path := s.resolver.ResolveScreenRoute(ctx, screenID, fallback)
	if s.nav != nil {
		s.nav.Navigate(ctx, path)
	}
	return path
}

// Nodes 当前导航树的快照
func (s *Session) Nodes() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading || !s.hasUser {
		return nil
	}
	out := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = Node{
			Menu:    n.Menu,
			Screens: append([]MenuScreen(nil), n.Screens...),
		}
		_, out[i].Expanded = s.expanded[n.Menu.ID]
		if out[i].Screens == nil {
			out[i].Screens = []MenuScreen{}
		}
	}
	return out
}

// Expanded 已展开的菜单 id，升序
func (s *Session) Expanded() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(s.expanded))
	for id := range s.expanded {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}
