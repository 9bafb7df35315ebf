package recommendation

import (
	"reflect"
	"testing"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
)

func TestStepAugment_DoesNotMutateInput(t *testing.T) {
	base := Routine{
		{product: product(1, domain.CategorySerum, nil)},
		{product: product(2, domain.CategoryFaceCream, nil)},
	}
	snapshot := append(Routine(nil), base...)

	in := augmentInput{
		catalog: []domain.Product{product(3, domain.CategorySerum, nil, domain.ConcernWrinkles)},
		policy:  DefaultPolicy(),
	}
	step := stepAugment{mode: substitute, rule: stepRule{Category: domain.CategorySerum, Tags: antiAgingTags, RequireTag: true}}

	got := step.apply(base, in)

	if !reflect.DeepEqual(base, snapshot) {
		t.Fatalf("input routine changed: %+v", base)
	}
	if got[0].product.ID != 3 || !got[0].targeted {
		t.Fatalf("serum pick = %+v, want targeted product 3", got[0])
	}
}

func TestStepAugment_AdditiveOnlyFillsMissingStep(t *testing.T) {
	in := augmentInput{
		catalog: []domain.Product{
			product(40, domain.CategoryEyeContour, nil),
			product(41, domain.CategoryEyeContour, nil, domain.ConcernDarkCircles),
		},
		policy: DefaultPolicy(),
	}
	step := stepAugment{mode: additive, rule: stepRule{Category: domain.CategoryEyeContour, Tags: eyeContourTags}}

	got := step.apply(Routine{}, in)
	if len(got) != 1 || got[0].product.ID != 41 {
		t.Fatalf("routine = %+v, want eye contour 41", got)
	}

	existing := Routine{{product: product(40, domain.CategoryEyeContour, nil)}}
	if again := step.apply(existing, in); len(again) != 1 || again[0].product.ID != 40 {
		t.Fatalf("additive step replaced an existing pick: %+v", again)
	}
}

func TestStepAugment_MarksCoveringPickAsTargeted(t *testing.T) {
	base := Routine{{product: product(5, domain.CategoryFaceCream, nil, "rassodante")}}
	in := augmentInput{
		catalog: []domain.Product{product(6, domain.CategoryFaceCream, nil, domain.ConcernWrinkles)},
		policy:  DefaultPolicy(),
	}

	firming := stepAugment{mode: substitute, rule: stepRule{Category: domain.CategoryFaceCream, Tags: firmingTags, RequireTag: true}}
	antiAging := stepAugment{mode: substitute, rule: stepRule{Category: domain.CategoryFaceCream, Tags: antiAgingTags, RequireTag: true}}

	got := antiAging.apply(firming.apply(base, in), in)
	if len(got) != 1 || got[0].product.ID != 5 {
		t.Fatalf("routine = %+v, want firming cream kept", got)
	}
}

func TestAugment_FixedOrder(t *testing.T) {
	c := NewConcernSet([]string{
		domain.ConcernElasticity,
		domain.ConcernEnlargedPores,
		domain.ConcernDarkCircles,
		domain.ConcernWrinkles,
		domain.ConcernPigmentation,
	})

	_, applied := augment(Routine{}, c, 30, augmentInput{policy: DefaultPolicy()})

	want := []string{"pigmentation", "anti_aging", "dark_circles", "enlarged_pores", "elasticity"}
	if !reflect.DeepEqual(applied, want) {
		t.Fatalf("applied = %v, want %v", applied, want)
	}
}
