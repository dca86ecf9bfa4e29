package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// FormatBRL formata um valor em reais no padrão brasileiro, ex.: R$ 1.234,56
func FormatBRL(f float64) string {
	return "R$ " + brPrinter.Sprintf("%.2f", RoundWithTwoDecimalPlace(f))
}

// FormatNumber formata um inteiro com separador de milhar brasileiro
func FormatNumber(n int) string {
	return brPrinter.Sprintf("%d", n)
}

// Percent devolve a fração part/total em porcentagem, limitada entre 0 e 100
func Percent(part, total float64) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}
	return math.Min(100, RoundWithTwoDecimalPlace(part/total*100))
}
