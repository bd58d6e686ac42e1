package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusFail
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiRed    = "\x1b[31m"
)

const statusLabelWidth = 12

func renderStatusLine(label, tag string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", tag)
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%-*s %s", statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusFail:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var outcomeCaser = cases.Title(language.English)

// outcomeLabel turns "stopped_gracefully" into "Stopped gracefully".
func outcomeLabel(outcome string) string {
	words := strings.Fields(strings.ReplaceAll(outcome, "_", " "))
	if len(words) == 0 {
		return ""
	}
	words[0] = outcomeCaser.String(words[0])
	return strings.Join(words, " ")
}
