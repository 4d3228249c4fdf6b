package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"storefront-admin/internal/agent"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/events"
	"storefront-admin/internal/insights"
	"storefront-admin/internal/llm"
	"storefront-admin/internal/service/dashboard"
	productsvc "storefront-admin/internal/service/product"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubProductService struct {
	product *domain.Product
	page    domain.Page[domain.Product]
	err     error

	lastQuery  string
	lowStock   bool
	lastField  string
	lastRaw    string
	uploads    []productsvc.Upload
	uploadBody []string
}

func (s *stubProductService) Create(context.Context) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Get(context.Context, string) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) List(_ context.Context, q string, lowStock bool, _, _ int) (domain.Page[domain.Product], error) {
	s.lastQuery, s.lowStock = q, lowStock
	return s.page, s.err
}

func (s *stubProductService) Edit(_ context.Context, _, field string, raw []byte) (*domain.Product, error) {
	s.lastField, s.lastRaw = field, string(raw)
	return s.product, s.err
}

func (s *stubProductService) Publish(context.Context, string) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Discard(context.Context, string) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Delete(context.Context, string) error {
	return s.err
}

func (s *stubProductService) AddImages(_ context.Context, _ string, uploads []productsvc.Upload) (*domain.Product, error) {
	s.uploads = uploads
	for _, u := range uploads {
		b, _ := io.ReadAll(u.Body)
		s.uploadBody = append(s.uploadBody, string(b))
	}
	return s.product, s.err
}

type stubOrderService struct {
	order *domain.Order
	page  domain.Page[domain.Order]
	err   error

	lastStatus string
	lastField  string
}

func (s *stubOrderService) Get(context.Context, string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) List(_ context.Context, _, status string, _, _ int) (domain.Page[domain.Order], error) {
	s.lastStatus = status
	return s.page, s.err
}

func (s *stubOrderService) Edit(_ context.Context, _, field string, _ []byte) (*domain.Order, error) {
	s.lastField = field
	return s.order, s.err
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _, status string) (*domain.Order, error) {
	s.lastStatus = status
	return s.order, s.err
}

func (s *stubOrderService) Publish(context.Context, string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Discard(context.Context, string) (*domain.Order, error) {
	return s.order, s.err
}

type stubDashboardService struct {
	summary *dashboard.Summary
	err     error
}

func (s *stubDashboardService) Summary(context.Context) (*dashboard.Summary, error) {
	return s.summary, s.err
}

type stubCategoryService struct {
	categories []domain.Category
	err        error
}

func (s *stubCategoryService) List(context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

// stubEvents replays a fixed set of events and then closes the stream.
type stubEvents struct {
	events []domain.ChangeEvent
	filter events.Filter
}

func (s *stubEvents) Subscribe(f events.Filter) (<-chan domain.ChangeEvent, func()) {
	s.filter = f
	ch := make(chan domain.ChangeEvent, len(s.events))
	for _, ev := range s.events {
		ch <- ev
	}
	close(ch)
	return ch, func() {}
}

type stubChat struct {
	userID  string
	history []llm.Message
	err     error
	// silent skips writing any stream parts before returning err.
	silent bool
}

func (s *stubChat) Run(_ context.Context, userID string, history []llm.Message, out *agent.UIStream) error {
	s.userID, s.history = userID, history
	if s.silent {
		return s.err
	}
	_ = out.Start("msg-1")
	_ = out.TextStart("t0")
	_ = out.TextDelta("t0", "Hello")
	_ = out.TextEnd("t0")
	_ = out.Finish()
	_ = out.Done()
	return s.err
}

type stubSessions struct {
	tokens map[string]string
}

func (s *stubSessions) Resolve(_ context.Context, token string) (string, bool) {
	id, ok := s.tokens[token]
	return id, ok
}

type stubInsights struct {
	resp *insights.Response
	err  error
}

func (s *stubInsights) Generate(context.Context) (*insights.Response, error) {
	return s.resp, s.err
}

type testDeps struct {
	products   *stubProductService
	orders     *stubOrderService
	dashboard  *stubDashboardService
	categories *stubCategoryService
	events     *stubEvents
	chat       *stubChat
	sessions   *stubSessions
	insights   *stubInsights
}

func newTestDeps() *testDeps {
	return &testDeps{
		products:   &stubProductService{},
		orders:     &stubOrderService{},
		dashboard:  &stubDashboardService{},
		categories: &stubCategoryService{},
		events:     &stubEvents{},
		chat:       &stubChat{},
		sessions:   &stubSessions{tokens: map[string]string{}},
		insights:   &stubInsights{},
	}
}

func (d *testDeps) deps() Deps {
	return Deps{
		ProductSvc:   d.products,
		OrderSvc:     d.orders,
		DashboardSvc: d.dashboard,
		CategorySvc:  d.categories,
		Events:       d.events,
		Chat:         d.chat,
		Sessions:     d.sessions,
		InsightsSvc:  d.insights,
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
