package recommendation

import (
	"strings"
	"testing"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
)

func TestGetPersonalizedMessage(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.UserProfile
		want    []string
	}{
		{
			name: "rosacea with concerns in vocabulary order",
			profile: domain.UserProfile{
				SkinType: domain.SkinCombo,
				Age:      34,
				Concerns: []string{domain.ConcernAcne, domain.ConcernRedness, domain.ConcernDarkCircles},
			},
			want: []string{
				"Per la tua pelle mista",
				"a 34 anni",
				"i rossori, le imperfezioni e le occhiaie",
				"rosacea",
			},
		},
		{
			name:    "no concerns",
			profile: domain.UserProfile{SkinType: domain.SkinDry, Age: 62, Concerns: []string{domain.ConcernNone}},
			want:    []string{"pelle secca", "trattamenti rigeneranti", "Non hai indicato problematiche"},
		},
		{
			name:    "unknown skin type",
			profile: domain.UserProfile{SkinType: "tutte", Age: 0, Concerns: []string{domain.ConcernAcne}},
			want:    []string{"Ecco la tua routine personalizzata.", "le imperfezioni"},
		},
		{
			name:    "single category",
			profile: domain.UserProfile{ProductType: "contorno_occhi"},
			want:    []string{"linea Contorno Occhi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetPersonalizedMessage(tt.profile)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("message %q does not contain %q", got, w)
				}
			}
			if again := GetPersonalizedMessage(tt.profile); again != got {
				t.Errorf("message is not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestJoinItalian(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a e b"},
		{[]string{"a", "b", "c"}, "a, b e c"},
	}
	for _, tt := range tests {
		if got := joinItalian(tt.in); got != tt.want {
			t.Errorf("joinItalian(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
