package market

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var gridTmpl = template.Must(template.New("grid").Funcs(template.FuncMap{
	"price":  FormatPrice,
	"change": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "%" },
}).Parse(
	`{{range .}}<div class="coin-card" data-symbol="{{.Pair}}">` +
		`<h4>{{.Name}}</h4>` +
		`<p class="coin-price">${{price .Price}}</p>` +
		`<p class="coin-change {{if ge .Change 0.0}}up{{else}}down{{end}}">{{change .Change}}</p>` +
		`</div>{{else}}<p class="market-unavailable">No market data available right now.</p>{{end}}`,
))

// Grid renders the coins as html cards.
func Grid(coins []Coin) (string, error) {
	sb := &strings.Builder{}
	if err := gridTmpl.Execute(sb, coins); err != nil {
		return "", fmt.Errorf("execute grid template: %w", err)
	}
	return sb.String(), nil
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice formats the usd price with thousands separators. Prices below
// one keep up to six fractional digits.
func FormatPrice(p float64) string {
	if p < 1 {
		s := strconv.FormatFloat(p, 'f', 6, 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		if s == "" || s == "-" {
			return "0"
		}
		return s
	}

	return pricePrinter.Sprintf("%.2f", p)
}
