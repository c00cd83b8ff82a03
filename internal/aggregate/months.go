package aggregate

import (
	"fmt"
	"strings"
	"time"
)

// MonthNames maps January..December to display names.
type MonthNames [12]string

var (
	PortugueseMonths = MonthNames{
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	}
	EnglishMonths = MonthNames{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)

func (n MonthNames) Name(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	if s := n[m-1]; s != "" {
		return s
	}
	return m.String()
}

// MonthNamesFor picks a table by locale tag ("pt_BR", "pt-BR", "en", ...).
func MonthNamesFor(locale string) (MonthNames, error) {
	switch l := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "-", "_")); {
	case l == "" || l == "pt" || strings.HasPrefix(l, "pt_"):
		return PortugueseMonths, nil
	case l == "en" || strings.HasPrefix(l, "en_"):
		return EnglishMonths, nil
	}
	return MonthNames{}, fmt.Errorf("no month names for locale %q", locale)
}
