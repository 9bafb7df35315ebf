package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"

	"github.com/labstack/echo/v4"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
	}
	return out
}

type fakeQuizService struct {
	got  domain.QuizSubmission
	reco *domain.Recommendation
	err  error
}

func (f *fakeQuizService) Recommend(_ context.Context, sub domain.QuizSubmission) (domain.Recommendation, error) {
	f.got = sub
	if f.err != nil {
		return domain.Recommendation{}, f.err
	}
	if f.reco != nil {
		return *f.reco, nil
	}
	return domain.Recommendation{
		Condition: "base",
		Message:   "ciao",
		Products:  []domain.Product{{ID: 1, Name: "Detergente", Price: 20}},
		Total:     20,
	}, nil
}

func TestQuizRecommendPicksFirstKnownSkinType(t *testing.T) {
	svc := &fakeQuizService{}
	h := NewQuizHandler(svc)

	body := `{"skin_types":["lucida","grassa","secca"],"age":35,"concerns":["acne","boh"],
		"contact":{"email":"a@b.it","consent":true}}`
	c, rec := newContext(http.MethodPost, "/api/v1/quiz/recommendations", body)

	if err := h.Recommend(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if svc.got.Profile.SkinType != domain.SkinOily {
		t.Errorf("skin type = %q, want %q", svc.got.Profile.SkinType, domain.SkinOily)
	}
	if len(svc.got.Profile.Concerns) != 1 || svc.got.Profile.Concerns[0] != domain.ConcernAcne {
		t.Errorf("concerns = %v, want [acne]", svc.got.Profile.Concerns)
	}
	if svc.got.Contact == nil || !svc.got.Contact.Consent {
		t.Errorf("contact not forwarded: %+v", svc.got.Contact)
	}
}

func TestQuizRecommendUnknownSkinType(t *testing.T) {
	svc := &fakeQuizService{}
	h := NewQuizHandler(svc)

	c, rec := newContext(http.MethodPost, "/", `{"skin_type":"lucida","age":30}`)
	if err := h.Recommend(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.got.Profile.SkinType != "" {
		t.Errorf("skin type = %q, want empty", svc.got.Profile.SkinType)
	}
}

func TestQuizRecommendValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"age":`},
		{"negative age", `{"age":-1}`},
		{"bad contact email", `{"age":30,"contact":{"email":"nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewQuizHandler(&fakeQuizService{})
			c, rec := newContext(http.MethodPost, "/", tt.body)
			if err := h.Recommend(c); err != nil {
				t.Fatal(err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestQuizRecommendWithoutCatalog(t *testing.T) {
	svc := &fakeQuizService{reco: &domain.Recommendation{
		Condition: "base",
		Message:   "ciao",
		Products:  []domain.Product{},
		LeadID:    "lead-1",
	}}
	h := NewQuizHandler(svc)

	c, rec := newContext(http.MethodPost, "/", `{"age":30,"contact":{"email":"a@b.it"}}`)
	if err := h.Recommend(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	reco, ok := decode(t, rec)["recommendation"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing recommendation in %s", rec.Body.String())
	}
	if products, ok := reco["products"].([]interface{}); !ok || len(products) != 0 {
		t.Errorf("products = %v, want empty list", reco["products"])
	}
	if reco["message"] != "ciao" {
		t.Errorf("message = %v", reco["message"])
	}
}

func TestQuizRecommendCancelledRequest(t *testing.T) {
	h := NewQuizHandler(&fakeQuizService{err: context.Canceled})
	c, rec := newContext(http.MethodPost, "/", `{"age":30}`)
	if err := h.Recommend(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

type fakeProductService struct {
	category string
	created  *domain.Product
	err      error
}

func (f *fakeProductService) ActiveByCategory(_ context.Context, category string) ([]domain.Product, error) {
	f.category = category
	return []domain.Product{{ID: 1, Category: category, Active: true}}, f.err
}

func (f *fakeProductService) GetAllProducts(context.Context) ([]domain.Product, error) {
	return nil, f.err
}

func (f *fakeProductService) GetProductByID(_ context.Context, id uint64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: id}, nil
}

func (f *fakeProductService) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	f.created = p
	if f.err != nil {
		return nil, f.err
	}
	p.ID = 9
	return p, nil
}

func (f *fakeProductService) UpdateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	return p, f.err
}

func (f *fakeProductService) DeleteProduct(context.Context, uint64) error {
	return f.err
}

func TestListProductsByCategory(t *testing.T) {
	svc := &fakeProductService{}
	h := NewProductHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/v1/products?category=siero", "")
	if err := h.ListProducts(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.category != "siero" {
		t.Errorf("category = %q, want siero", svc.category)
	}
}

func TestCreateProductDefaultsActive(t *testing.T) {
	svc := &fakeProductService{}
	h := NewProductHandler(svc)

	c, rec := newContext(http.MethodPost, "/", `{"name":"Siero","category":"siero","price":30,"skin_types":["secca"]}`)
	if err := h.CreateProduct(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !svc.created.Active {
		t.Error("product should default to active")
	}

	c, _ = newContext(http.MethodPost, "/", `{"name":"Siero","category":"siero","active":false}`)
	if err := h.CreateProduct(c); err != nil {
		t.Fatal(err)
	}
	if svc.created.Active {
		t.Error("explicit active=false was ignored")
	}
}

func TestCreateProductRejectsUnknownSkinType(t *testing.T) {
	h := NewProductHandler(&fakeProductService{})
	c, rec := newContext(http.MethodPost, "/", `{"name":"Siero","category":"siero","skin_types":["lucida"]}`)
	if err := h.CreateProduct(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetProductNotFound(t *testing.T) {
	h := NewProductHandler(&fakeProductService{err: errors.New("product not found")})
	c, rec := newContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.GetProductByID(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListCategoriesInRoutineOrder(t *testing.T) {
	h := NewProductHandler(&fakeProductService{})
	c, rec := newContext(http.MethodGet, "/", "")
	if err := h.ListCategories(c); err != nil {
		t.Fatal(err)
	}

	cats, ok := decode(t, rec)["categories"].([]interface{})
	if !ok || len(cats) != len(domain.RoutineOrder) {
		t.Fatalf("categories = %v", cats)
	}
	for i, cat := range cats {
		if cat != domain.RoutineOrder[i] {
			t.Errorf("categories[%d] = %v, want %s", i, cat, domain.RoutineOrder[i])
		}
	}
}

type fakeLeadService struct {
	lead   domain.Lead
	ids    []uint64
	filter domain.LeadFilter
	getErr error
}

func (f *fakeLeadService) CreateLead(_ context.Context, lead *domain.Lead, ids []uint64) (domain.Lead, error) {
	f.lead = *lead
	f.ids = ids
	lead.ID = "lead-1"
	return *lead, nil
}

func (f *fakeLeadService) GetLead(_ context.Context, id string) (domain.Lead, error) {
	return domain.Lead{ID: id}, f.getErr
}

func (f *fakeLeadService) ListLeads(_ context.Context, filter domain.LeadFilter) ([]domain.Lead, int64, error) {
	f.filter = filter
	return []domain.Lead{}, 0, nil
}

func (f *fakeLeadService) Analytics(context.Context, int) (domain.LeadAnalytics, error) {
	return domain.LeadAnalytics{TotalLeads: 3}, nil
}

func TestCreateLead(t *testing.T) {
	svc := &fakeLeadService{}
	h := NewLeadHandler(svc)

	body := `{"full_name":"Giulia","email":"giulia@example.com","consent":true,
		"profile":{"skin_types":["mista"],"age":42,"concerns":["rughe"]},
		"condition":"base","product_ids":[3,1,2],
		"scores":{"idratazione":5,"elasticita":6,"pigmentazione":3,"acne":2,"rughe":7,"pori":4,"rossori":2}}`
	c, rec := newContext(http.MethodPost, "/api/v1/leads", body)
	if err := h.CreateLead(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if svc.lead.SkinType != domain.SkinCombo || svc.lead.Age != 42 {
		t.Errorf("profile not mapped: %+v", svc.lead)
	}
	if len(svc.ids) != 3 || svc.ids[0] != 3 {
		t.Errorf("product ids = %v", svc.ids)
	}
	if !strings.Contains(string(svc.lead.SkinScores), `"rughe":7`) {
		t.Errorf("skin scores = %s", svc.lead.SkinScores)
	}
}

func TestCreateLeadRequiresEmail(t *testing.T) {
	h := NewLeadHandler(&fakeLeadService{})
	c, rec := newContext(http.MethodPost, "/", `{"full_name":"Giulia"}`)
	if err := h.CreateLead(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetLeadErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New("invalid lead id"), http.StatusBadRequest},
		{errors.New("lead not found"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		h := NewLeadHandler(&fakeLeadService{getErr: tt.err})
		c, rec := newContext(http.MethodGet, "/", "")
		c.SetParamNames("id")
		c.SetParamValues("x")
		if err := h.GetLead(c); err != nil {
			t.Fatal(err)
		}
		if rec.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}

func TestListLeadsQuery(t *testing.T) {
	svc := &fakeLeadService{}
	h := NewLeadHandler(svc)

	c, rec := newContext(http.MethodGet, "/?page=2&page_size=50&skin_type=secca&email=gmail", "")
	if err := h.ListLeads(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	want := domain.LeadFilter{Page: 2, PageSize: 50, SkinType: "secca", Email: "gmail"}
	if svc.filter != want {
		t.Errorf("filter = %+v, want %+v", svc.filter, want)
	}
}

type fakeAdvisor struct {
	got domain.ChatRequest
	err error
}

func (f *fakeAdvisor) Reply(_ context.Context, req domain.ChatRequest) (domain.ChatReply, error) {
	f.got = req
	if f.err != nil {
		return domain.ChatReply{}, f.err
	}
	return domain.ChatReply{Reply: "ok"}, nil
}

func TestChatUsesKindParam(t *testing.T) {
	svc := &fakeAdvisor{}
	h := NewChatHandler(svc)

	c, rec := newContext(http.MethodPost, "/", `{"message":"che siero uso?","profile":{"skin_type":"secca","age":30}}`)
	c.SetParamNames("kind")
	c.SetParamValues(domain.ChatProduct)
	if err := h.Chat(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.got.Kind != domain.ChatProduct {
		t.Errorf("kind = %q", svc.got.Kind)
	}
	if svc.got.Profile == nil || svc.got.Profile.SkinType != domain.SkinDry {
		t.Errorf("profile = %+v", svc.got.Profile)
	}
}

func TestChatUnknownKind(t *testing.T) {
	h := NewChatHandler(&fakeAdvisor{err: errors.New("unknown chat kind")})
	c, rec := newContext(http.MethodPost, "/", `{"message":"ciao"}`)
	c.SetParamNames("kind")
	c.SetParamValues("sales")
	if err := h.Chat(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestChatRejectsBadHistoryRole(t *testing.T) {
	h := NewChatHandler(&fakeAdvisor{})
	c, rec := newContext(http.MethodPost, "/", `{"message":"ciao","history":[{"role":"system","content":"x"}]}`)
	if err := h.Chat(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

type fakeAnalysis struct {
	err error
}

func (f fakeAnalysis) Analyze(context.Context, string, string) (domain.SkinAnalysis, error) {
	if f.err != nil {
		return domain.SkinAnalysis{}, f.err
	}
	return domain.SkinAnalysis{Scores: domain.FallbackSkinScores, Fallback: true}, nil
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"ok", `{"image":"aGVsbG8=","mime_type":"image/png"}`, nil, http.StatusOK},
		{"missing image", `{}`, nil, http.StatusBadRequest},
		{"bad type", `{"image":"aGVsbG8=","mime_type":"image/gif"}`, errors.New("unsupported image type"), http.StatusBadRequest},
		{"too large", `{"image":"aGVsbG8="}`, errors.New("image too large"), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAnalysisHandler(fakeAnalysis{err: tt.err})
			c, rec := newContext(http.MethodPost, "/", tt.body)
			if err := h.Analyze(c); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
