package handlers

import (
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/h4ks-com/cashbook/web"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name of month m (1-12), or "".
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// FormatMoney renders an amount with two decimals and comma thousands
// separators, e.g. 1234567.5 as "1,234,567.50".
func FormatMoney(d decimal.Decimal) string {
	rounded := d.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}

	abs := rounded.Abs()
	whole := abs.Truncate(0)
	frac := abs.Sub(whole).StringFixed(2)
	return sign + humanize.BigComma(whole.BigInt()) + strings.TrimPrefix(frac, "0")
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money":     FormatMoney,
		"monthName": MonthName,
		"date": func(t time.Time) string {
			return t.UTC().Format(dateLayout)
		},
		"percent": func(d decimal.Decimal) string {
			return d.StringFixed(1)
		},
		"isNegative": func(d decimal.Decimal) bool {
			return d.IsNegative()
		},
	}
}

// ParseTemplates loads the embedded HTML pages.
func ParseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs()).ParseFS(web.TemplatesFS, "templates/*.html")
}
