package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultWidth = 80
	boxWidth     = DefaultWidth - 2
)

// PrintSeparator prints a line of char repeated width times
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintHeader prints a report title between "=" rules
func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a summary line between "=" rules
func PrintFooter(message string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintBoxSeparator opens the body of a box section
func PrintBoxSeparator() {
	fmt.Println("├" + strings.Repeat("─", boxWidth))
}

// BoxPrefix returns the box-drawing prefix for a list item
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// FormatMoney renders an amount in reais with two decimal places.
func FormatMoney(amount decimal.Decimal) string {
	return "R$ " + amount.StringFixed(2)
}

// PrintMoneyRow prints one labelled amount inside a box section.
func PrintMoneyRow(label string, amount decimal.Decimal, isLast bool) {
	fmt.Printf("%s %-15s: %20s\n", BoxPrefix(isLast), label, FormatMoney(amount))
}
