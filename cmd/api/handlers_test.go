package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abastio/abasto/internal/cart"
	"github.com/abastio/abasto/internal/catalog"
	"github.com/abastio/abasto/internal/config"
	"github.com/abastio/abasto/internal/invoice"
	"github.com/abastio/abasto/internal/list"
	"github.com/abastio/abasto/internal/order"
	"github.com/abastio/abasto/internal/promotion"
	"github.com/abastio/abasto/internal/user"
)

//
// ---------- STUBS & FAKES ----------
//

// memUserRepo implements user.Repository in memory.
type memUserRepo struct {
	mu       sync.Mutex
	users    map[string]*user.User // por id
	sessions map[string]*user.Session
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*user.User{}, sessions: map[string]*user.Session{}}
}

func (m *memUserRepo) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Email == u.Email {
			return user.ErrAlreadyExist
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memUserRepo) Update(ctx context.Context, u *user.User, updatePassword bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	// misma semántica parcial que el repo SQL: vacío = sin cambio
	apply := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	apply(&cur.FirstName, u.FirstName)
	apply(&cur.LastName, u.LastName)
	apply(&cur.BusinessName, u.BusinessName)
	apply(&cur.Phone, u.Phone)
	apply(&cur.Address, u.Address)
	if updatePassword {
		cur.PasswordHash = u.PasswordHash
	}
	return nil
}

func (m *memUserRepo) CreateSession(ctx context.Context, s *user.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.AccessToken] = &cp
	return nil
}

func (m *memUserRepo) GetSession(ctx context.Context, accessToken string) (*user.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[accessToken]
	if !ok {
		return nil, user.ErrNoSession
	}
	cp := *s
	return &cp, nil
}

func (m *memUserRepo) DeleteSessions(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, tok)
		}
	}
	return nil
}

// memCatalogRepo implements catalog.Repository in memory.
type memCatalogRepo struct {
	mu       sync.Mutex
	catalogs []catalog.Catalog
}

func (m *memCatalogRepo) Create(ctx context.Context, c *catalog.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogs = append(m.catalogs, *c)
	return nil
}

func (m *memCatalogRepo) GetByID(ctx context.Context, id string) (*catalog.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.catalogs {
		if c.ID == id {
			cp := c
			cp.Items = append([]catalog.Item(nil), c.Items...)
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (m *memCatalogRepo) List(ctx context.Context) ([]catalog.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Catalog(nil), m.catalogs...), nil
}

func (m *memCatalogRepo) ListPublished(ctx context.Context) ([]catalog.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Catalog
	for _, c := range m.catalogs {
		if c.Published {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCatalogRepo) Update(ctx context.Context, c *catalog.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.catalogs {
		if m.catalogs[i].ID == c.ID {
			cp := *c
			cp.Items = append([]catalog.Item(nil), c.Items...)
			m.catalogs[i] = cp
			return nil
		}
	}
	return catalog.ErrNotFound
}

// memListRepo implements list.Repository in memory.
type memListRepo struct {
	mu    sync.Mutex
	lists []list.List
}

func (m *memListRepo) Create(ctx context.Context, l *list.List) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = append(m.lists, *l)
	return nil
}

func (m *memListRepo) GetByID(ctx context.Context, id string) (*list.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lists {
		if l.ID == id {
			cp := l
			cp.Items = append([]list.Item(nil), l.Items...)
			return &cp, nil
		}
	}
	return nil, list.ErrNotFound
}

func (m *memListRepo) ListByOwner(ctx context.Context, ownerID string) ([]list.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []list.List
	for _, l := range m.lists {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memListRepo) Update(ctx context.Context, l *list.List) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lists {
		if m.lists[i].ID == l.ID {
			cp := *l
			cp.Items = append([]list.Item(nil), l.Items...)
			m.lists[i] = cp
			return nil
		}
	}
	return list.ErrNotFound
}

// memOrderRepo implements order.Repository in memory. failCreate makes every
// Create fail, to exercise the checkout failure path.
type memOrderRepo struct {
	mu         sync.Mutex
	orders     []order.Order
	failCreate bool
}

func (m *memOrderRepo) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return fmt.Errorf("create rejected")
	}
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrderRepo) List(ctx context.Context) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]order.Order(nil), m.orders...), nil
}

func (m *memOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			return nil
		}
	}
	return order.ErrNotFound
}

// memInvoiceRepo implements invoice.Repository in memory.
type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices []invoice.Invoice
}

func (m *memInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = append(m.invoices, *inv)
	return nil
}

func (m *memInvoiceRepo) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.ID == id {
			cp := inv
			return &cp, nil
		}
	}
	return nil, invoice.ErrNotFound
}

func (m *memInvoiceRepo) List(ctx context.Context, search string) ([]invoice.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	search = strings.ToLower(strings.TrimSpace(search))
	var out []invoice.Invoice
	for _, inv := range m.invoices {
		if search == "" ||
			strings.Contains(strings.ToLower(inv.InvoiceNumber), search) ||
			strings.Contains(strings.ToLower(inv.OrderID), search) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInvoiceRepo) SetStatus(ctx context.Context, id, ownerID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invoices {
		if m.invoices[i].ID == id && m.invoices[i].OwnerID == ownerID {
			m.invoices[i].Status = status
			return nil
		}
	}
	return invoice.ErrNotFound
}

func (m *memInvoiceRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invoices {
		if m.invoices[i].ID == id && m.invoices[i].OwnerID == ownerID {
			m.invoices = append(m.invoices[:i], m.invoices[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// memPromoRepo implements promotion.Repository in memory.
type memPromoRepo struct {
	mu     sync.Mutex
	promos []promotion.Promotion
}

func (m *memPromoRepo) Create(ctx context.Context, p *promotion.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos = append(m.promos, *p)
	return nil
}

func (m *memPromoRepo) List(ctx context.Context, ownerID string) ([]promotion.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []promotion.Promotion
	for _, p := range m.promos {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPromoRepo) Update(ctx context.Context, p *promotion.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.promos {
		if m.promos[i].ID == p.ID && m.promos[i].OwnerID == p.OwnerID {
			m.promos[i] = *p
			return nil
		}
	}
	return promotion.ErrNotFound
}

func (m *memPromoRepo) SetActive(ctx context.Context, id, ownerID string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.promos {
		if m.promos[i].ID == id && m.promos[i].OwnerID == ownerID {
			m.promos[i].Active = active
			return nil
		}
	}
	return promotion.ErrNotFound
}

func (m *memPromoRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.promos {
		if m.promos[i].ID == id && m.promos[i].OwnerID == ownerID {
			m.promos = append(m.promos[:i], m.promos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

//
// ---------- HARNESS ----------
//

type testEnv struct {
	app       *application
	router    *gin.Engine
	orderRepo *memOrderRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop().Sugar()
	orderRepo := &memOrderRepo{}

	app := &application{
		config:     config.Config{Addr: ":0", Env: "test"},
		logger:     logger,
		users:      user.NewService(newMemUserRepo(), time.Hour, logger),
		catalogs:   catalog.NewService(&memCatalogRepo{}, logger),
		lists:      list.NewService(&memListRepo{}, logger),
		carts:      cart.NewStore(),
		orders:     order.NewStore(orderRepo, logger),
		invoices:   &memInvoiceRepo{},
		promotions: &memPromoRepo{},
	}
	return &testEnv{app: app, router: app.routes(), orderRepo: orderRepo}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signup registers an account and logs it in, returning the bearer token.
func (e *testEnv) signup(t *testing.T, role, email, businessName string) string {
	t.Helper()

	body := fmt.Sprintf(`{"role":%q,"email":%q,"password":"secreto123",
		"firstName":"Ana","lastName":"Pérez","businessName":%q}`, role, email, businessName)
	if w := e.do(t, http.MethodPost, "/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}

	login := fmt.Sprintf(`{"email":%q,"password":"secreto123","role":%q}`, email, role)
	w := e.do(t, http.MethodPost, "/auth/login", "", login)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.AccessToken == "" {
		t.Fatalf("login sin token: %v body=%s", err, w.Body.String())
	}
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("json inválido: %v body=%s", err, w.Body.String())
	}
	return v
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

//
// ---------- AUTH ----------
//

func TestLogin_WrongRoleRejected(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")

	// misma cuenta, rol equivocado
	body := `{"email":"prov@abasto.test","password":"secreto123","role":"restaurant"}`
	w := e.do(t, http.MethodPost, "/auth/login", "", body)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (esperaba 401)", w.Code, w.Body.String())
	}
}

func TestProtectedRoute_MissingToken(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/orders", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d (esperaba 401)", w.Code)
	}
}

func TestRoleGates(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	restTok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")

	// un restaurante no crea catálogos
	if w := e.do(t, http.MethodPost, "/catalogs", restTok, `{"name":"X","category":1}`); w.Code != http.StatusForbidden {
		t.Fatalf("restaurant POST /catalogs status=%d (esperaba 403)", w.Code)
	}
	// un proveedor no tiene carrito
	if w := e.do(t, http.MethodGet, "/cart", provTok, ""); w.Code != http.StatusForbidden {
		t.Fatalf("provider GET /cart status=%d (esperaba 403)", w.Code)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.signup(t, user.RoleRestaurant, "dup@abasto.test", "La Esquina")

	body := `{"role":"restaurant","email":"dup@abasto.test","password":"otra",
		"firstName":"B","lastName":"C","businessName":"Otra"}`
	if w := e.do(t, http.MethodPost, "/auth/register", "", body); w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (esperaba 409)", w.Code, w.Body.String())
	}
}

//
// ---------- CART & CHECKOUT ----------
//

func TestCart_MergeAndTotals(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	add := `{"id":"prod-1","name":"Tomate","quantity":2,"unit":"kg","price":"3.50"}`
	if w := e.do(t, http.MethodPost, "/cart/items", tok, add); w.Code != http.StatusOK {
		t.Fatalf("add status=%d body=%s", w.Code, w.Body.String())
	}
	// mismo id: se fusiona, no duplica
	w := e.do(t, http.MethodPost, "/cart/items", tok, add)
	if w.Code != http.StatusOK {
		t.Fatalf("re-add status=%d body=%s", w.Code, w.Body.String())
	}

	resp := decode[cartResponse](t, w)
	if len(resp.Items) != 1 {
		t.Fatalf("items=%d, esperaba 1 (fusión por id)", len(resp.Items))
	}
	if got := resp.Items[0].Quantity.String(); got != "4" {
		t.Fatalf("quantity=%s, esperaba 4", got)
	}
	if got := resp.Total.String(); got != "14" {
		t.Fatalf("total=%s, esperaba 14", got)
	}
}

func TestCart_ZeroQuantityRemoves(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	e.do(t, http.MethodPost, "/cart/items", tok, `{"name":"Arroz","quantity":1,"unit":"kg","price":"2.00"}`)
	w := e.do(t, http.MethodPut, "/cart/items/0", tok, `{"quantity":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if resp := decode[cartResponse](t, w); len(resp.Items) != 0 {
		t.Fatalf("items=%d, esperaba 0 (cantidad cero elimina)", len(resp.Items))
	}
}

func TestCart_RejectsBadItems(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	for _, body := range []string{
		`{"name":"","quantity":1,"price":"1"}`,
		`{"name":"X","quantity":0,"price":"1"}`,
		`{"name":"X","quantity":1,"price":"-1"}`,
		`{"name":"X","quantity":1,"price":"1","unit":"toneladas"}`,
	} {
		if w := e.do(t, http.MethodPost, "/cart/items", tok, body); w.Code != http.StatusBadRequest {
			t.Fatalf("body=%s status=%d (esperaba 400)", body, w.Code)
		}
	}
}

func TestCheckout_HappyPath(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	e.do(t, http.MethodPost, "/cart/items", tok, `{"name":"Tomate","quantity":2,"unit":"kg","price":"3.50"}`)
	e.do(t, http.MethodPost, "/cart/items", tok, `{"name":"Arroz","quantity":1,"unit":"kg","price":"2.00"}`)

	w := e.do(t, http.MethodPost, "/checkout", tok, `{"location":"Calle 1 #2-3","paymentMethod":"efectivo"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	resp := decode[checkoutResponse](t, w)
	if resp.OrderID == "" {
		t.Fatalf("sin orderId: %s", w.Body.String())
	}

	// la orden queda consultable y arranca en Registrado
	ow := e.do(t, http.MethodGet, "/orders/"+resp.OrderID, tok, "")
	if ow.Code != http.StatusOK {
		t.Fatalf("get order status=%d body=%s", ow.Code, ow.Body.String())
	}
	o := decode[order.Order](t, ow)
	if o.Status != order.StatusRegistrado {
		t.Fatalf("status=%s, esperaba %s", o.Status, order.StatusRegistrado)
	}
	if o.Total != "9.00" {
		t.Fatalf("total=%s, esperaba 9.00", o.Total)
	}
	if o.Restaurant != "La Esquina" {
		t.Fatalf("restaurant=%s", o.Restaurant)
	}

	// el carrito quedó vacío
	cw := e.do(t, http.MethodGet, "/cart", tok, "")
	if resp := decode[cartResponse](t, cw); len(resp.Items) != 0 {
		t.Fatalf("el carrito debía quedar vacío, items=%d", len(resp.Items))
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	w := e.do(t, http.MethodPost, "/checkout", tok, `{"location":"Calle 1"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (esperaba 409)", w.Code, w.Body.String())
	}
}

func TestCheckout_RepoFailureKeepsCart(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	e.do(t, http.MethodPost, "/cart/items", tok, `{"name":"Tomate","quantity":2,"unit":"kg","price":"3.50"}`)
	e.orderRepo.failCreate = true

	w := e.do(t, http.MethodPost, "/checkout", tok, `{"location":"Calle 1"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d body=%s (esperaba 502)", w.Code, w.Body.String())
	}

	// nada se pierde: el carrito sobrevive al fallo
	cw := e.do(t, http.MethodGet, "/cart", tok, "")
	if resp := decode[cartResponse](t, cw); len(resp.Items) != 1 {
		t.Fatalf("items=%d, el carrito debía quedar intacto", len(resp.Items))
	}
	// y no hay órdenes visibles
	ow := e.do(t, http.MethodGet, "/orders", tok, "")
	if orders := decode[[]order.Order](t, ow); len(orders) != 0 {
		t.Fatalf("orders=%d, esperaba 0", len(orders))
	}
}

//
// ---------- ORDERS ----------
//

func placeOrder(t *testing.T, e *testEnv, restTok string) string {
	t.Helper()
	e.do(t, http.MethodPost, "/cart/items", restTok, `{"name":"Tomate","quantity":1,"unit":"kg","price":"3.00"}`)
	w := e.do(t, http.MethodPost, "/checkout", restTok, `{"location":"Calle 1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status=%d body=%s", w.Code, w.Body.String())
	}
	return decode[checkoutResponse](t, w).OrderID
}

func TestOrders_RestaurantSeesOnlyOwn(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tokA := e.signup(t, user.RoleRestaurant, "a@abasto.test", "Restaurante A")
	tokB := e.signup(t, user.RoleRestaurant, "b@abasto.test", "Restaurante B")
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")

	placeOrder(t, e, tokA)
	placeOrder(t, e, tokB)

	wa := e.do(t, http.MethodGet, "/orders", tokA, "")
	if orders := decode[[]order.Order](t, wa); len(orders) != 1 || orders[0].Restaurant != "Restaurante A" {
		t.Fatalf("restaurante A ve %d órdenes: %s", len(orders), wa.Body.String())
	}

	// el proveedor las ve todas
	wp := e.do(t, http.MethodGet, "/orders", provTok, "")
	if orders := decode[[]order.Order](t, wp); len(orders) != 2 {
		t.Fatalf("proveedor ve %d órdenes, esperaba 2", len(orders))
	}
}

func TestUpdateOrderStatus_OnlyNextStage(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	restTok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")
	id := placeOrder(t, e, restTok)

	// saltarse una etapa no está permitido
	w := e.do(t, http.MethodPut, "/orders/"+id+"/status", provTok,
		fmt.Sprintf(`{"status":%q}`, order.StatusPreparado))
	if w.Code != http.StatusConflict {
		t.Fatalf("salto de etapa status=%d body=%s (esperaba 409)", w.Code, w.Body.String())
	}

	// estado desconocido → 400
	w = e.do(t, http.MethodPut, "/orders/"+id+"/status", provTok, `{"status":"Cancelado"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("estado desconocido status=%d (esperaba 400)", w.Code)
	}

	// la etapa siguiente sí
	w = e.do(t, http.MethodPut, "/orders/"+id+"/status", provTok,
		fmt.Sprintf(`{"status":%q}`, order.StatusAprobado))
	if w.Code != http.StatusOK {
		t.Fatalf("siguiente etapa status=%d body=%s", w.Code, w.Body.String())
	}
	if o := decode[order.Order](t, w); o.Status != order.StatusAprobado {
		t.Fatalf("status=%s, esperaba %s", o.Status, order.StatusAprobado)
	}
}

func TestAdvanceOrder_StopsAtDelivered(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	restTok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")
	id := placeOrder(t, e, restTok)

	// más avances que etapas: debe clavarse en Entregado
	var last order.Order
	for i := 0; i < 6; i++ {
		w := e.do(t, http.MethodPost, "/orders/"+id+"/advance", provTok, "")
		if w.Code != http.StatusOK {
			t.Fatalf("advance #%d status=%d body=%s", i, w.Code, w.Body.String())
		}
		last = decode[order.Order](t, w)
	}
	if last.Status != order.StatusEntregado {
		t.Fatalf("status=%s, esperaba %s", last.Status, order.StatusEntregado)
	}
}

func TestCreateOrder_Direct(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	body := `{"location":"Calle 1","items":[
		{"name":"Tomate","quantity":2,"unit":"kg","price":"3.50"},
		{"name":"Arroz","quantity":1,"unit":"kg","price":"2.00"}]}`
	w := e.do(t, http.MethodPost, "/orders", tok, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	id := decode[checkoutResponse](t, w).OrderID

	ow := e.do(t, http.MethodGet, "/orders/"+id, tok, "")
	o := decode[order.Order](t, ow)
	if o.Total != "9.00" || o.Status != order.StatusRegistrado {
		t.Fatalf("total=%s status=%s", o.Total, o.Status)
	}

	// sin ítems no hay orden
	if w := e.do(t, http.MethodPost, "/orders", tok, `{"location":"Calle 1","items":[]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("orden vacía status=%d (esperaba 400)", w.Code)
	}
}

func TestAdvanceOrder_NotFound(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")

	w := e.do(t, http.MethodPost, "/orders/order-nope/advance", provTok, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d (esperaba 404)", w.Code)
	}
}

//
// ---------- CATALOGS & LISTS ----------
//

func TestCatalog_PublishAndSearch(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")
	restTok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	w := e.do(t, http.MethodPost, "/catalogs", provTok, `{"name":"Verduras","category":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	cat := decode[catalog.Catalog](t, w)

	if w := e.do(t, http.MethodPost, "/catalogs/"+cat.ID+"/items", provTok, `{"name":"Tomate chonto"}`); w.Code != http.StatusOK {
		t.Fatalf("add item status=%d body=%s", w.Code, w.Body.String())
	}

	// sin publicar, el restaurante no lo ve ni lo encuentra
	lw := e.do(t, http.MethodGet, "/catalogs", restTok, "")
	if cats := decode[[]catalog.Catalog](t, lw); len(cats) != 0 {
		t.Fatalf("catálogo borrador visible para restaurante: %s", lw.Body.String())
	}
	sw := e.do(t, http.MethodGet, "/catalogs/search?q=tomate", restTok, "")
	if hits := decode[[]catalog.Product](t, sw); len(hits) != 0 {
		t.Fatalf("búsqueda sobre borrador devolvió %d", len(hits))
	}

	if w := e.do(t, http.MethodPost, "/catalogs/"+cat.ID+"/publish", provTok, ""); w.Code != http.StatusOK {
		t.Fatalf("publish status=%d body=%s", w.Code, w.Body.String())
	}

	sw = e.do(t, http.MethodGet, "/catalogs/search?q=tomate", restTok, "")
	hits := decode[[]catalog.Product](t, sw)
	if len(hits) != 1 || hits[0].Name != "Tomate chonto" {
		t.Fatalf("hits=%v", hits)
	}
	if hits[0].CatalogID != cat.ID {
		t.Fatalf("catalogId=%s, esperaba %s", hits[0].CatalogID, cat.ID)
	}
}

func TestCatalog_Rename(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")

	w := e.do(t, http.MethodPost, "/catalogs", provTok, `{"name":"Verduras","category":2}`)
	cat := decode[catalog.Catalog](t, w)

	w = e.do(t, http.MethodPut, "/catalogs/"+cat.ID, provTok, `{"name":"Frutas y verduras","category":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("rename status=%d body=%s", w.Code, w.Body.String())
	}
	got := decode[catalog.Catalog](t, w)
	if got.Name != "Frutas y verduras" || got.Category != 3 {
		t.Fatalf("renombrado: %+v", got)
	}

	// categoría fuera de la tabla
	if w := e.do(t, http.MethodPut, "/catalogs/"+cat.ID, provTok, `{"name":"X","category":42}`); w.Code != http.StatusBadRequest {
		t.Fatalf("categoría inválida status=%d (esperaba 400)", w.Code)
	}
}

func TestCatalog_PublishEmptyRejected(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")

	w := e.do(t, http.MethodPost, "/catalogs", provTok, `{"name":"Vacío","category":1}`)
	cat := decode[catalog.Catalog](t, w)

	if w := e.do(t, http.MethodPost, "/catalogs/"+cat.ID+"/publish", provTok, ""); w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (esperaba 409)", w.Code, w.Body.String())
	}
}

func TestCatalog_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tokA := e.signup(t, user.RoleProvider, "a@abasto.test", "Proveedor A")
	tokB := e.signup(t, user.RoleProvider, "b@abasto.test", "Proveedor B")
	restTok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	w := e.do(t, http.MethodPost, "/catalogs", tokA, `{"name":"Verduras","category":2}`)
	cat := decode[catalog.Catalog](t, w)
	if w := e.do(t, http.MethodPost, "/catalogs/"+cat.ID+"/items", tokA, `{"name":"Tomate"}`); w.Code != http.StatusOK {
		t.Fatalf("add item status=%d body=%s", w.Code, w.Body.String())
	}

	// B no puede tocar el catálogo de A
	if w := e.do(t, http.MethodPut, "/catalogs/"+cat.ID, tokB, `{"name":"Robado","category":1}`); w.Code != http.StatusForbidden {
		t.Fatalf("rename ajeno status=%d (esperaba 403)", w.Code)
	}
	if w := e.do(t, http.MethodPost, "/catalogs/"+cat.ID+"/items", tokB, `{"name":"Cebolla"}`); w.Code != http.StatusForbidden {
		t.Fatalf("add item ajeno status=%d (esperaba 403)", w.Code)
	}
	if w := e.do(t, http.MethodPut, "/catalogs/"+cat.ID+"/items/0", tokB, `{"name":"Papa"}`); w.Code != http.StatusForbidden {
		t.Fatalf("update item ajeno status=%d (esperaba 403)", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/catalogs/"+cat.ID+"/items/0", tokB, ""); w.Code != http.StatusForbidden {
		t.Fatalf("remove item ajeno status=%d (esperaba 403)", w.Code)
	}
	if w := e.do(t, http.MethodPost, "/catalogs/"+cat.ID+"/publish", tokB, ""); w.Code != http.StatusForbidden {
		t.Fatalf("publish ajeno status=%d (esperaba 403)", w.Code)
	}

	// sigue en borrador y con su único ítem
	sw := e.do(t, http.MethodGet, "/catalogs/search?q=tomate", restTok, "")
	if hits := decode[[]catalog.Product](t, sw); len(hits) != 0 {
		t.Fatalf("el intento de B publicó el catálogo: %s", sw.Body.String())
	}
	if w := e.do(t, http.MethodPost, "/catalogs/"+cat.ID+"/publish", tokA, ""); w.Code != http.StatusOK {
		t.Fatalf("publish propio status=%d body=%s", w.Code, w.Body.String())
	}
	sw = e.do(t, http.MethodGet, "/catalogs/search?q=tomate", restTok, "")
	hits := decode[[]catalog.Product](t, sw)
	if len(hits) != 1 || hits[0].Name != "Tomate" {
		t.Fatalf("hits=%v, esperaba solo Tomate", hits)
	}
}

func TestList_TransferToCart(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	w := e.do(t, http.MethodPost, "/lists", tok, `{"name":"Compra semanal","category":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create list status=%d body=%s", w.Code, w.Body.String())
	}
	l := decode[list.List](t, w)

	// transferir una lista vacía no tiene sentido
	if w := e.do(t, http.MethodPost, "/lists/"+l.ID+"/cart", tok, ""); w.Code != http.StatusConflict {
		t.Fatalf("transfer vacía status=%d (esperaba 409)", w.Code)
	}

	product := `{"catalogId":"catalog-x","category":2,"name":"Tomate","quality":"Primera","unit":"kg","price":"3.50"}`
	if w := e.do(t, http.MethodPost, "/lists/"+l.ID+"/items", tok, product); w.Code != http.StatusOK {
		t.Fatalf("add product status=%d body=%s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/lists/"+l.ID+"/cart", tok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("transfer status=%d body=%s", w.Code, w.Body.String())
	}
	resp := decode[cartResponse](t, w)
	if len(resp.Items) != 1 || resp.Items[0].Name != "Tomate" {
		t.Fatalf("carrito tras transferir: %s", w.Body.String())
	}

	// la lista no se toca
	lw := e.do(t, http.MethodGet, "/lists", tok, "")
	lists := decode[[]list.List](t, lw)
	if len(lists) != 1 || len(lists[0].Items) != 1 {
		t.Fatalf("la lista debía conservar su ítem: %s", lw.Body.String())
	}
}

func TestList_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tokA := e.signup(t, user.RoleRestaurant, "a@abasto.test", "Restaurante A")
	tokB := e.signup(t, user.RoleRestaurant, "b@abasto.test", "Restaurante B")

	w := e.do(t, http.MethodPost, "/lists", tokA, `{"name":"Mía","category":1}`)
	l := decode[list.List](t, w)

	if w := e.do(t, http.MethodPut, "/lists/"+l.ID, tokB, `{"name":"Robada"}`); w.Code != http.StatusForbidden {
		t.Fatalf("status=%d body=%s (esperaba 403)", w.Code, w.Body.String())
	}
}

func TestList_ItemUnitAndPriceReadOnly(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")

	w := e.do(t, http.MethodPost, "/lists", tok, `{"name":"Semanal","category":2}`)
	l := decode[list.List](t, w)

	product := `{"catalogId":"catalog-x","category":2,"name":"Tomate","quality":"Primera","unit":"kg","price":"3.50"}`
	if w := e.do(t, http.MethodPost, "/lists/"+l.ID+"/items", tok, product); w.Code != http.StatusOK {
		t.Fatalf("add product status=%d body=%s", w.Code, w.Body.String())
	}
	lw := e.do(t, http.MethodGet, "/lists", tok, "")
	lists := decode[[]list.List](t, lw)
	itemID := lists[0].Items[0].ID

	// unidad y precio vienen congelados de la oferta; editarlos se rechaza
	if w := e.do(t, http.MethodPut, "/lists/"+l.ID+"/items/"+itemID, tok, `{"unit":"g"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("patch de unidad status=%d (esperaba 400)", w.Code)
	}
	if w := e.do(t, http.MethodPut, "/lists/"+l.ID+"/items/"+itemID, tok, `{"price":"0.01"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("patch de precio status=%d (esperaba 400)", w.Code)
	}

	lw = e.do(t, http.MethodGet, "/lists", tok, "")
	got := decode[[]list.List](t, lw)[0].Items[0]
	if got.Unit != "kg" || got.Price.String() != "3.5" {
		t.Fatalf("ítem alterado: unit=%s price=%s", got.Unit, got.Price)
	}
}

//
// ---------- INVOICES ----------
//

func TestInvoices_CRUDAndToggle(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	restTok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")
	orderID := placeOrder(t, e, restTok)

	// orden inexistente → rechazo
	bad := `{"orderId":"order-nope","invoiceNumber":"F-001","issueDate":"2026-08-01","amount":"10.00","file":"f001.pdf"}`
	if w := e.do(t, http.MethodPost, "/invoices", provTok, bad); w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (esperaba 404)", w.Code, w.Body.String())
	}

	body := fmt.Sprintf(`{"orderId":%q,"invoiceNumber":"F-001","issueDate":"2026-08-01","amount":"10.00","file":"f001.pdf"}`, orderID)
	w := e.do(t, http.MethodPost, "/invoices", provTok, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	inv := decode[invoice.Invoice](t, w)
	if inv.Status != invoice.StatusPending {
		t.Fatalf("status inicial=%s, esperaba pending", inv.Status)
	}

	// toggle: pending → paid
	w = e.do(t, http.MethodPut, "/invoices/"+inv.ID+"/status", provTok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status=%d body=%s", w.Code, w.Body.String())
	}
	if got := decode[invoice.Invoice](t, w); got.Status != invoice.StatusPaid {
		t.Fatalf("status=%s, esperaba paid", got.Status)
	}

	// búsqueda por número
	lw := e.do(t, http.MethodGet, "/invoices?q=F-001", provTok, "")
	if invs := decode[[]invoice.Invoice](t, lw); len(invs) != 1 {
		t.Fatalf("búsqueda devolvió %d", len(invs))
	}

	// delete y doble delete
	if w := e.do(t, http.MethodDelete, "/invoices/"+inv.ID, provTok, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/invoices/"+inv.ID, provTok, ""); w.Code != http.StatusNotFound {
		t.Fatalf("segundo delete status=%d (esperaba 404)", w.Code)
	}
}

func TestInvoices_MissingFields(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")

	w := e.do(t, http.MethodPost, "/invoices", provTok, `{"amount":"-5"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s (esperaba 422)", w.Code, w.Body.String())
	}
	fields := decode[map[string][]string](t, w)
	for _, f := range []string{"orderId", "invoiceNumber", "issueDate", "file", "amount"} {
		if len(fields[f]) == 0 {
			t.Fatalf("falta error para %q: %v", f, fields)
		}
	}
}

func TestInvoices_CrossProviderWritesRejected(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	restTok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")
	tokA := e.signup(t, user.RoleProvider, "a@abasto.test", "Proveedor A")
	tokB := e.signup(t, user.RoleProvider, "b@abasto.test", "Proveedor B")
	orderID := placeOrder(t, e, restTok)

	body := fmt.Sprintf(`{"orderId":%q,"invoiceNumber":"F-100","issueDate":"2026-08-01","amount":"10.00","file":"f100.pdf"}`, orderID)
	w := e.do(t, http.MethodPost, "/invoices", tokA, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	inv := decode[invoice.Invoice](t, w)

	// para B la factura de A no existe
	if w := e.do(t, http.MethodPut, "/invoices/"+inv.ID+"/status", tokB, ""); w.Code != http.StatusNotFound {
		t.Fatalf("toggle ajeno status=%d (esperaba 404)", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/invoices/"+inv.ID, tokB, ""); w.Code != http.StatusNotFound {
		t.Fatalf("delete ajeno status=%d (esperaba 404)", w.Code)
	}

	// intacta para su dueño
	lw := e.do(t, http.MethodGet, "/invoices", tokA, "")
	invs := decode[[]invoice.Invoice](t, lw)
	if len(invs) != 1 || invs[0].Status != invoice.StatusPending {
		t.Fatalf("factura de A alterada: %s", lw.Body.String())
	}
}

func TestInvoices_ListScopedByRole(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	restTok := e.signup(t, user.RoleRestaurant, "rest@abasto.test", "La Esquina")
	otherRestTok := e.signup(t, user.RoleRestaurant, "otro@abasto.test", "El Rincón")
	tokA := e.signup(t, user.RoleProvider, "a@abasto.test", "Proveedor A")
	tokB := e.signup(t, user.RoleProvider, "b@abasto.test", "Proveedor B")
	orderID := placeOrder(t, e, restTok)

	body := fmt.Sprintf(`{"orderId":%q,"invoiceNumber":"F-200","issueDate":"2026-08-01","amount":"10.00","file":"f200.pdf"}`, orderID)
	if w := e.do(t, http.MethodPost, "/invoices", tokA, body); w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}

	// el emisor la ve, otro proveedor no
	if invs := decode[[]invoice.Invoice](t, e.do(t, http.MethodGet, "/invoices", tokA, "")); len(invs) != 1 {
		t.Fatalf("A ve %d facturas, esperaba 1", len(invs))
	}
	if invs := decode[[]invoice.Invoice](t, e.do(t, http.MethodGet, "/invoices", tokB, "")); len(invs) != 0 {
		t.Fatalf("B ve %d facturas ajenas", len(invs))
	}

	// el restaurante solo ve las facturas de sus pedidos
	if invs := decode[[]invoice.Invoice](t, e.do(t, http.MethodGet, "/invoices", restTok, "")); len(invs) != 1 {
		t.Fatalf("el restaurante ve %d facturas, esperaba 1", len(invs))
	}
	if invs := decode[[]invoice.Invoice](t, e.do(t, http.MethodGet, "/invoices", otherRestTok, "")); len(invs) != 0 {
		t.Fatalf("otro restaurante ve %d facturas ajenas", len(invs))
	}
}

//
// ---------- PROMOTIONS ----------
//

func TestPromotions_Lifecycle(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	provTok := e.signup(t, user.RoleProvider, "prov@abasto.test", "Distribuidora Sur")

	// porcentaje > 100 → rechazo
	bad := `{"name":"Locura","code":"LOCURA","discountType":"percentage","discountValue":"150"}`
	if w := e.do(t, http.MethodPost, "/promotions", provTok, bad); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (esperaba 400)", w.Code, w.Body.String())
	}

	body := `{"name":"Agosto","code":"AGO10","discountType":"percentage","discountValue":"10"}`
	w := e.do(t, http.MethodPost, "/promotions", provTok, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	p := decode[promotion.Promotion](t, w)
	if len(p.Products) != 1 || p.Products[0] != promotion.AllProducts {
		t.Fatalf("products=%v, esperaba el comodín", p.Products)
	}

	// activar
	if w := e.do(t, http.MethodPut, "/promotions/"+p.ID+"/active", provTok, `{"active":true}`); w.Code != http.StatusOK {
		t.Fatalf("toggle status=%d body=%s", w.Code, w.Body.String())
	}
	lw := e.do(t, http.MethodGet, "/promotions", provTok, "")
	promos := decode[[]promotion.Promotion](t, lw)
	if len(promos) != 1 || !promos[0].Active {
		t.Fatalf("promos=%s", lw.Body.String())
	}

	if w := e.do(t, http.MethodDelete, "/promotions/"+p.ID, provTok, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/promotions/"+p.ID, provTok, ""); w.Code != http.StatusNotFound {
		t.Fatalf("segundo delete status=%d (esperaba 404)", w.Code)
	}
}

func TestPromotions_OwnerScoped(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tokA := e.signup(t, user.RoleProvider, "a@abasto.test", "Proveedor A")
	tokB := e.signup(t, user.RoleProvider, "b@abasto.test", "Proveedor B")

	body := `{"name":"Solo A","code":"A1","discountType":"fixed","discountValue":"5"}`
	if w := e.do(t, http.MethodPost, "/promotions", tokA, body); w.Code != http.StatusCreated {
		t.Fatalf("create status=%d", w.Code)
	}

	w := e.do(t, http.MethodGet, "/promotions", tokB, "")
	if promos := decode[[]promotion.Promotion](t, w); len(promos) != 0 {
		t.Fatalf("B ve %d promociones ajenas", len(promos))
	}
}

func TestPromotions_CrossProviderWritesRejected(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	tokA := e.signup(t, user.RoleProvider, "a@abasto.test", "Proveedor A")
	tokB := e.signup(t, user.RoleProvider, "b@abasto.test", "Proveedor B")

	body := `{"name":"Solo A","code":"A1","discountType":"fixed","discountValue":"5"}`
	w := e.do(t, http.MethodPost, "/promotions", tokA, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d", w.Code)
	}
	p := decode[promotion.Promotion](t, w)

	// para B la promoción de A no existe
	upd := `{"name":"Pirata","code":"A1","discountType":"fixed","discountValue":"99"}`
	if w := e.do(t, http.MethodPut, "/promotions/"+p.ID, tokB, upd); w.Code != http.StatusNotFound {
		t.Fatalf("update ajeno status=%d (esperaba 404)", w.Code)
	}
	if w := e.do(t, http.MethodPut, "/promotions/"+p.ID+"/active", tokB, `{"active":true}`); w.Code != http.StatusNotFound {
		t.Fatalf("toggle ajeno status=%d (esperaba 404)", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/promotions/"+p.ID, tokB, ""); w.Code != http.StatusNotFound {
		t.Fatalf("delete ajeno status=%d (esperaba 404)", w.Code)
	}

	// la promoción de A sigue igual
	lw := e.do(t, http.MethodGet, "/promotions", tokA, "")
	promos := decode[[]promotion.Promotion](t, lw)
	if len(promos) != 1 || promos[0].Name != "Solo A" || promos[0].Active {
		t.Fatalf("promoción de A alterada: %s", lw.Body.String())
	}
}
