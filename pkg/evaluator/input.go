package evaluator

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ClassifyInput converts a line of user input into a value.
// "True" and "False" become booleans and a run of ASCII digits becomes an
// integer (a float when it does not fit in 64 bits). Anything else, including
// signed or fractional numbers, stays a string.
func ClassifyInput(text string) BabuValue {
	switch text {
	case "True":
		return NewBool(true)
	case "False":
		return NewBool(false)
	}
	if isDigits(text) {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return NewInt(n)
		}
		f, _ := strconv.ParseFloat(text, 64)
		return NewFloat(f)
	}
	return NewString(text)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// readLine reads one line without its terminator. A final line with no
// newline is accepted; io.EOF is returned only when nothing was read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
