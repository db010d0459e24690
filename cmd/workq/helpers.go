package main

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func parseID(arg, label string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id %q", label, arg)
	}
	return id, nil
}

func parseInt(arg, label string) (int64, error) {
	value, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", label, arg)
	}
	return value, nil
}

// splitAtDash separates positional arguments from everything after the
// "--" terminator. Without a terminator all arguments are positional.
func splitAtDash(cmd *cobra.Command, args []string) (before, after []string) {
	at := cmd.ArgsLenAtDash()
	if at < 0 {
		return args, nil
	}
	return args[:at], args[at:]
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// printableData keeps table cells readable when task data is binary or
// long.
func printableData(data []byte) string {
	const maxLen = 48
	if !utf8.Valid(data) {
		return fmt.Sprintf("<%d bytes of binary data>", len(data))
	}
	s := string(data)
	for i, r := range s {
		if r == '\n' || r == '\r' {
			s = s[:i] + "…"
			break
		}
	}
	if runes := []rune(s); len(runes) > maxLen {
		return string(runes[:maxLen]) + "…"
	}
	return s
}
