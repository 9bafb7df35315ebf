package recommendation

import (
	"fmt"
	"strings"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
)

var concernPhrases = map[string]string{
	domain.ConcernRedness:       "i rossori",
	domain.ConcernAcne:          "le imperfezioni",
	domain.ConcernWrinkles:      "le rughe",
	domain.ConcernPigmentation:  "le macchie",
	domain.ConcernEnlargedPores: "i pori dilatati",
	domain.ConcernOiliness:      "l'eccesso di sebo",
	domain.ConcernSunDamage:     "i danni del sole",
	domain.ConcernDarkCircles:   "le occhiaie",
	domain.ConcernDehydration:   "la disidratazione",
	domain.ConcernElasticity:    "la perdita di elasticità",
	domain.ConcernTexture:       "la grana irregolare",
}

var conditionSentences = map[PrimaryCondition]string{
	ConditionRosacea:   "Abbiamo riconosciuto una tendenza alla rosacea: la routine calma i rossori e rinforza la barriera cutanea.",
	ConditionAcne:      "La routine è pensata per riequilibrare il sebo e ridurre le imperfezioni senza aggredire la pelle.",
	ConditionSensitive: "La tua pelle è sensibile: abbiamo scelto formule lenitive e delicate.",
	ConditionBase:      "La routine rispetta le esigenze del tuo tipo di pelle giorno dopo giorno.",
}

func agePhrase(age int) string {
	switch {
	case age <= 0:
		return ""
	case age < 25:
		return fmt.Sprintf("a %d anni la priorità è mantenere la pelle equilibrata e protetta", age)
	case age < 40:
		return fmt.Sprintf("a %d anni è il momento giusto per prevenire i primi segni del tempo", age)
	case age < 55:
		return fmt.Sprintf("a %d anni la pelle ha bisogno di sostegno per tono e compattezza", age)
	default:
		return fmt.Sprintf("a %d anni la pelle chiede nutrimento e trattamenti rigeneranti", age)
	}
}

// joinItalian joins items as "a, b e c".
func joinItalian(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " e " + items[len(items)-1]
	}
}

// GetPersonalizedMessage summarizes the profile for the results page.
func GetPersonalizedMessage(profile domain.UserProfile) string {
	if !profile.WantsFullRoutine() {
		if category, ok := domain.CategoryForProductType(profile.ProductType); ok {
			return fmt.Sprintf("Ecco i prodotti della linea %s selezionati per te.", category)
		}
		return "Ecco i prodotti selezionati per te."
	}

	var b strings.Builder

	opening := "Ciao! Ecco la tua routine personalizzata"
	if domain.IsSkinType(profile.SkinType) {
		opening = fmt.Sprintf("Ciao! Per la tua pelle %s", profile.SkinType)
	}
	b.WriteString(opening)
	if phrase := agePhrase(profile.Age); phrase != "" {
		b.WriteString(", ")
		b.WriteString(phrase)
	}
	b.WriteString(".")

	concerns := NewConcernSet(profile.Concerns)
	phrases := make([]string, 0, len(concerns))
	for _, c := range concerns.Ordered() {
		phrases = append(phrases, concernPhrases[c])
	}
	if len(phrases) > 0 {
		b.WriteString(" Ci concentreremo su ")
		b.WriteString(joinItalian(phrases))
		b.WriteString(".")
	} else {
		b.WriteString(" Non hai indicato problematiche specifiche: puntiamo a mantenere la pelle sana.")
	}

	b.WriteString(" ")
	b.WriteString(conditionSentences[ResolveCondition(concerns)])

	return b.String()
}
