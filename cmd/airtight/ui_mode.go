package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui setting.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

var uiModes = map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, "on": uiModeOn, "off": uiModeOff}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI resolves auto to an interactive stdout outside CI.
func shouldUseTUI(mode uiMode) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return os.Getenv("CI") == "" && isTerminal(os.Stdout)
}
