package commands

import (
	"fmt"
	"strings"
)

// Shared console output helpers so every command prints the same way.

func printSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

func printError(message string) {
	fmt.Printf("❌ %s\n", message)
}

func printSeparator() {
	fmt.Println(strings.Repeat("─", 59))
}

func printKeyValue(key, value string) {
	fmt.Printf("   %-18s : %s\n", key, value)
}

func printVerdict(ticker, classification, confidence string, reasons []string) {
	fmt.Println()
	printSeparator()
	fmt.Printf("  %s\n", ticker)
	printSeparator()
	printKeyValue("Classification", classification)
	printKeyValue("Confidence", confidence)
	for _, reason := range reasons {
		fmt.Printf("   • %s\n", reason)
	}
	printSeparator()
}
