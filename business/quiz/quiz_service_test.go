package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lorenzotett/alma-skin-guru-sub000/business/recommendation"
	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
)

type fakeCatalog struct {
	products []domain.Product
	err      error
	calls    int
}

func (f *fakeCatalog) ActiveCatalog(_ context.Context) ([]domain.Product, error) {
	f.calls++
	return f.products, f.err
}

type fakeLeads struct {
	lead *domain.Lead
	ids  []uint64
	err  error
}

func (f *fakeLeads) CreateLead(_ context.Context, lead *domain.Lead, ids []uint64) (domain.Lead, error) {
	if f.err != nil {
		return domain.Lead{}, f.err
	}
	f.lead = lead
	f.ids = ids
	lead.ID = "lead-1"
	return *lead, nil
}

func catalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Detergente Purificante", Category: domain.CategoryCleanser, ConcernsTreated: []string{"acne"}, SkinTypes: []string{"grassa"}, Price: 15, Active: true},
		{ID: 2, Name: "Tonico Riequilibrante", Category: domain.CategoryToner, ConcernsTreated: []string{"acne"}, Price: 12, Active: true},
		{ID: 3, Name: "Siero Sebo", Category: domain.CategorySerum, ConcernsTreated: []string{"acne"}, Price: 30, Active: true},
		{ID: 4, Name: "Crema Leggera", Category: domain.CategoryFaceCream, SkinTypes: []string{"grassa"}, Price: 25, Active: true},
		{ID: 5, Name: "Crema Ritirata", Category: domain.CategoryFaceCream, Price: 20, Active: false},
	}
}

func profile() domain.UserProfile {
	return domain.UserProfile{SkinType: domain.SkinOily, Age: 24, Concerns: []string{domain.ConcernAcne}}
}

func TestRecommendWithoutContact(t *testing.T) {
	cat := &fakeCatalog{products: catalog()}
	leads := &fakeLeads{}
	svc := NewQuizService(cat, leads, recommendation.NewEngine(recommendation.DefaultPolicy()))

	got, err := svc.Recommend(context.Background(), domain.QuizSubmission{Profile: profile()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := recommendation.GetRecommendedProducts(profile(), catalog())
	if len(got.Products) != len(want) {
		t.Fatalf("products = %d, want %d", len(got.Products), len(want))
	}
	var total float64
	for i := range want {
		if got.Products[i].ID != want[i].ID {
			t.Fatalf("product %d = %d, want %d", i, got.Products[i].ID, want[i].ID)
		}
		total += want[i].Price
	}
	if got.Total != total {
		t.Errorf("total = %v, want %v", got.Total, total)
	}
	if got.Condition != "acne" {
		t.Errorf("condition = %q, want acne", got.Condition)
	}
	if got.Message != recommendation.GetPersonalizedMessage(profile()) {
		t.Errorf("message = %q", got.Message)
	}
	if got.LeadID != "" || leads.lead != nil {
		t.Error("lead stored without contact")
	}
	if cat.calls != 1 {
		t.Errorf("catalog calls = %d, want 1", cat.calls)
	}
}

func TestRecommendStoresLead(t *testing.T) {
	leads := &fakeLeads{}
	svc := NewQuizService(&fakeCatalog{products: catalog()}, leads, recommendation.NewEngine(recommendation.DefaultPolicy()))

	scores := domain.SkinScores{Hydration: 5, Elasticity: 6, Pigmentation: 3, Acne: 8, Wrinkles: 2, Pores: 6, Redness: 3}
	got, err := svc.Recommend(context.Background(), domain.QuizSubmission{
		Profile: profile(),
		Contact: &domain.Contact{FullName: "Sara", Email: "sara@example.com", Consent: true},
		Scores:  &scores,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if got.LeadID != "lead-1" {
		t.Errorf("lead id = %q", got.LeadID)
	}
	if leads.lead.Source != sourceQuiz || leads.lead.Condition != "acne" || leads.lead.SkinType != domain.SkinOily {
		t.Errorf("lead = %+v", leads.lead)
	}
	if len(leads.ids) != len(got.Products) || leads.ids[0] != got.Products[0].ID {
		t.Errorf("lead products = %v", leads.ids)
	}

	var stored domain.SkinScores
	if err := json.Unmarshal(leads.lead.SkinScores, &stored); err != nil || stored != scores {
		t.Errorf("stored scores = %+v, err = %v", stored, err)
	}
}

func TestRecommendLeadFailureIsNotFatal(t *testing.T) {
	svc := NewQuizService(&fakeCatalog{products: catalog()}, &fakeLeads{err: errors.New("db down")}, recommendation.NewEngine(recommendation.DefaultPolicy()))

	got, err := svc.Recommend(context.Background(), domain.QuizSubmission{
		Profile: profile(),
		Contact: &domain.Contact{Email: "sara@example.com"},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got.LeadID != "" || len(got.Products) == 0 {
		t.Errorf("got = %+v", got)
	}
}

func TestRecommendCatalogErrorDegrades(t *testing.T) {
	leads := &fakeLeads{}
	svc := NewQuizService(&fakeCatalog{err: errors.New("db down")}, leads, recommendation.NewEngine(recommendation.DefaultPolicy()))

	got, err := svc.Recommend(context.Background(), domain.QuizSubmission{
		Profile: profile(),
		Contact: &domain.Contact{FullName: "Sara", Email: "sara@example.com", Consent: true},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(got.Products) != 0 || got.Total != 0 {
		t.Errorf("products = %+v, want none", got.Products)
	}
	if got.Message != recommendation.GetPersonalizedMessage(profile()) {
		t.Errorf("message = %q", got.Message)
	}
	if got.LeadID != "lead-1" || leads.lead == nil || leads.lead.Email != "sara@example.com" {
		t.Errorf("lead not stored: id %q, lead %+v", got.LeadID, leads.lead)
	}
	if len(leads.ids) != 0 {
		t.Errorf("lead products = %v, want none", leads.ids)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	svc := NewQuizService(&fakeCatalog{}, nil, recommendation.NewEngine(recommendation.DefaultPolicy()))

	got, err := svc.Recommend(context.Background(), domain.QuizSubmission{Profile: profile()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got.Products) != 0 || got.Total != 0 {
		t.Errorf("got = %+v", got)
	}
}
