package lead

import (
	"fmt"
	"html"
	"strings"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
)

const (
	emailGreeting = `Ciao%v,</br></br>grazie per aver completato il quiz. Ecco la routine che abbiamo scelto per te:</br>`
	emailItem     = `<li><b>%v</b> (%v) - € %.2f</li>`
	emailTotal    = `</br>Totale routine: € %.2f</br>`
	emailClosing  = `</br>A presto,</br>il team Alma`
)

func composeSummary(lead domain.Lead, products []domain.Product) string {
	name := ""
	if lead.FullName != "" {
		name = " " + html.EscapeString(lead.FullName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, emailGreeting, name)

	if lead.Message != "" {
		b.WriteString("</br>")
		b.WriteString(html.EscapeString(lead.Message))
		b.WriteString("</br>")
	}

	var total float64
	b.WriteString("<ul>")
	for _, p := range products {
		fmt.Fprintf(&b, emailItem, html.EscapeString(p.Name), html.EscapeString(p.Category), p.Price)
		total += p.Price
	}
	b.WriteString("</ul>")

	if len(products) > 0 {
		fmt.Fprintf(&b, emailTotal, total)
	}
	b.WriteString(emailClosing)

	return b.String()
}
