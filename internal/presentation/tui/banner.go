package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Voltwiz.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Amber-to-teal scheme, loosely evoking a charge indicator.
	s1 := termenv.String(" __      __   _ _            _     ").Foreground(p.Color("#fbbf24"))
	s2 := termenv.String(" \\ \\    / /__| | |___ __ __ (_)____").Foreground(p.Color("#f59e0b"))
	s3 := termenv.String("  \\ \\  / / _ \\ | __\\ V  V / | |_  /").Foreground(p.Color("#34d399"))
	s4 := termenv.String("   \\ \\/ / (_) | | |_ \\ /\\ /  | |/ / ").Foreground(p.Color("#2dd4bf"))
	s5 := termenv.String("    \\__/ \\___/|_|\\__| \\/ \\/  |_/___|").Foreground(p.Color("#22d3ee"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
