package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-marketplace-api/internal/application"
	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
	"github.com/oksasatya/go-marketplace-api/internal/interface/middleware"
	"github.com/oksasatya/go-marketplace-api/pkg/payment"
	"github.com/oksasatya/go-marketplace-api/pkg/validation"
)

type memUserRepo struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
	byToken map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    map[string]*entity.User{},
		byEmail: map[string]*entity.User{},
		byToken: map[string]*entity.User{},
	}
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	m.byID[u.ID], m.byEmail[u.Email], m.byToken[u.Token] = u, u, u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return memGet(m.byID, id)
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return memGet(m.byEmail, email)
}

func (m *memUserRepo) GetByToken(_ context.Context, token string) (*entity.User, error) {
	return memGet(m.byToken, token)
}

func memGet(m map[string]*entity.User, key string) (*entity.User, error) {
	u, ok := m[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type memOfferRepo struct {
	order  []string
	offers map[string]*entity.Offer
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{offers: map[string]*entity.Offer{}}
}

func (m *memOfferRepo) Create(_ context.Context, o *entity.Offer) error {
	m.offers[o.ID] = o
	m.order = append(m.order, o.ID)
	return nil
}

func (m *memOfferRepo) GetByID(_ context.Context, id string) (*entity.Offer, error) {
	o, ok := m.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (m *memOfferRepo) Update(_ context.Context, o *entity.Offer) error {
	if _, ok := m.offers[o.ID]; !ok {
		return repository.ErrNotFound
	}
	m.offers[o.ID] = o
	return nil
}

func (m *memOfferRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.offers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.offers, id)
	return nil
}

func (m *memOfferRepo) Search(_ context.Context, q repository.OfferSearch) ([]*entity.Offer, int, error) {
	var matched []*entity.Offer
	for i := len(m.order) - 1; i >= 0; i-- {
		o, ok := m.offers[m.order[i]]
		if !ok {
			continue
		}
		if q.Title != "" && !strings.Contains(strings.ToLower(o.Name), strings.ToLower(q.Title)) {
			continue
		}
		if q.PriceMin != nil && o.Price < *q.PriceMin {
			continue
		}
		if q.PriceMax != nil && o.Price > *q.PriceMax {
			continue
		}
		matched = append(matched, o)
	}
	total := len(matched)
	if q.Offset >= total {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

type testCharger struct {
	status string
}

func (tc testCharger) Charge(_ context.Context, in payment.ChargeInput) (*payment.Result, error) {
	return &payment.Result{ID: "ch_test_1", Status: tc.status, Amount: in.Amount}, nil
}

type api struct {
	router *gin.Engine
	users  *memUserRepo
	offers *memOfferRepo
}

func newTestAPI(t *testing.T, chargeStatus string) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	users := newMemUserRepo()
	offers := newMemOfferRepo()

	userH := NewUserHandler(application.NewUserService(users, nil, nil, logger), logger)
	offerH := NewOfferHandler(application.NewOfferService(offers, users, nil, logger, nil, ""), logger)
	payH := NewPaymentHandler(application.NewPaymentService(offers, testCharger{status: chargeStatus}, "eur", logger), logger)

	r := gin.New()
	r.POST("/user/signup", userH.Signup)
	r.POST("/user/login", userH.Login)
	r.GET("/offers", offerH.List)
	r.GET("/offer/:id", offerH.Get)

	authed := r.Group("/", middleware.Auth(users, nil, logger))
	authed.POST("/offer/publish", offerH.Publish)
	authed.PUT("/offer/update/:id", offerH.Update)
	authed.DELETE("/offer/delete/:id", offerH.Delete)
	authed.POST("/payment", payH.Charge)

	return &api{router: r, users: users, offers: offers}
}

func (a *api) do(method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) signup(t *testing.T, email, username string) (id, token string) {
	t.Helper()
	w := a.do(http.MethodPost, "/user/signup", "", url.Values{
		"email":    {email},
		"username": {username},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.ID, body.Token
}

func (a *api) publish(t *testing.T, token, title string, price string) string {
	t.Helper()
	w := a.do(http.MethodPost, "/offer/publish", token, url.Values{
		"title":       {title},
		"description": {"a description"},
		"price":       {price},
		"brand":       {"Acme"},
		"city":        {"Paris"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.ID
}

func TestSignupEndpoint(t *testing.T) {
	a := newTestAPI(t, "succeeded")

	_, token := a.signup(t, "alice@example.com", "alice")
	assert.NotEmpty(t, token)

	// duplicate email
	w := a.do(http.MethodPost, "/user/signup", "", url.Values{
		"email":    {"alice@example.com"},
		"username": {"alice2"},
		"password": {"other"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "There already is an account with this email.")

	// missing fields
	w = a.do(http.MethodPost, "/user/signup", "", url.Values{"email": {"x@example.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	a := newTestAPI(t, "succeeded")
	_, token := a.signup(t, "bob@example.com", "bob")

	w := a.do(http.MethodPost, "/user/login", "", url.Values{
		"email":    {"bob@example.com"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, token, body.Token)

	w = a.do(http.MethodPost, "/user/login", "", url.Values{
		"email":    {"bob@example.com"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = a.do(http.MethodPost, "/user/login", "", url.Values{
		"email":    {"ghost@example.com"},
		"password": {"whatever"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishRequiresAuth(t *testing.T) {
	a := newTestAPI(t, "succeeded")

	w := a.do(http.MethodPost, "/offer/publish", "", url.Values{
		"title": {"x"}, "description": {"y"}, "price": {"10"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublishAndGetOffer(t *testing.T) {
	a := newTestAPI(t, "succeeded")
	_, token := a.signup(t, "carol@example.com", "carol")
	id := a.publish(t, token, "Denim jacket", "45")

	w := a.do(http.MethodGet, "/offer/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"product_name":"Denim jacket"`)
	assert.Contains(t, w.Body.String(), `{"brand":"Acme"}`, "details render as a list of single-key records")
	assert.NotContains(t, w.Body.String(), "carol@example.com", "owner email never leaks")

	w = a.do(http.MethodGet, "/offer/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "This offer doesn't exist.")
}

func TestListOffersPagination(t *testing.T) {
	a := newTestAPI(t, "succeeded")
	_, token := a.signup(t, "dave@example.com", "dave")
	for i := 0; i < 7; i++ {
		a.publish(t, token, "item", "10")
	}

	w := a.do(http.MethodGet, "/offers?limit=5&page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count  int               `json:"count"`
		Offers []json.RawMessage `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Count)
	assert.Len(t, body.Offers, 2)

	w = a.do(http.MethodGet, "/offers?limit=5&page=3", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "This page doesn't exist.")
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	a := newTestAPI(t, "succeeded")
	_, ownerToken := a.signup(t, "eve@example.com", "eve")
	_, otherToken := a.signup(t, "mallory@example.com", "mallory")
	id := a.publish(t, ownerToken, "Scarf", "15")

	w := a.do(http.MethodPut, "/offer/update/"+id, otherToken, url.Values{"price": {"1"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodDelete, "/offer/delete/"+id, otherToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPut, "/offer/update/"+id, ownerToken, url.Values{"price": {"12.5"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"product_price":12.5`)

	// unknown offer on a mutation stays a 400
	w = a.do(http.MethodPut, "/offer/update/missing", ownerToken, url.Values{"price": {"1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "This offer doesn't exist.")

	w = a.do(http.MethodDelete, "/offer/delete/"+id, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Offer successfully deleted.")

	w = a.do(http.MethodGet, "/offer/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentEndpoint(t *testing.T) {
	a := newTestAPI(t, "succeeded")
	_, token := a.signup(t, "frank@example.com", "frank")
	id := a.publish(t, token, "Shoes", "20")

	w := a.do(http.MethodPost, "/payment", token, url.Values{
		"stripeToken": {"tok_visa"},
		"productId":   {id},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"amount":2000`)
	assert.Contains(t, w.Body.String(), `"status":"succeeded"`)

	w = a.do(http.MethodPost, "/payment", token, url.Values{"stripeToken": {"tok_visa"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentDeclined(t *testing.T) {
	a := newTestAPI(t, "pending")
	_, token := a.signup(t, "grace@example.com", "grace")
	id := a.publish(t, token, "Hat", "9")

	w := a.do(http.MethodPost, "/payment", token, url.Values{
		"stripeToken": {"tok_visa"},
		"productId":   {id},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "An error has occurred.")
}
