package util

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
)

const (
	colorReset = "\x1b[0m"
	colorBlue  = "\x1b[1;34m"
)

// PrintBanner renders the daemon name as an ASCII banner at startup.
func PrintBanner(text string) {
	fig := figure.NewFigure(text, "", true)
	for _, line := range fig.Slicify() {
		fmt.Println(colorBlue + line + colorReset)
	}
}
