// Package cli holds the interactive helpers of the rationportal command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/rationportal/internal/security"
)

var (
	ErrEmptyAccessCode    = errors.New("access code must not be empty")
	ErrAccessCodeMismatch = errors.New("access codes do not match")
)

// PromptAccessCode reads the admin access code twice from the terminal
// without echo.
func PromptAccessCode(stdin *os.File, out io.Writer) (string, error) {
	return promptAccessCode(func() (string, error) { return readLineNoEcho(stdin) }, out)
}

func promptAccessCode(readLine func() (string, error), out io.Writer) (string, error) {
	fmt.Fprint(out, "Access code: ")
	first, err := readLine()
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read access code: %w", err)
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return "", ErrEmptyAccessCode
	}

	fmt.Fprint(out, "Repeat access code: ")
	second, err := readLine()
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read access code: %w", err)
	}
	if strings.TrimSpace(second) != first {
		return "", ErrAccessCodeMismatch
	}
	return first, nil
}

// WriteGeneratedSecrets prints a fresh secret key and access code as
// environment assignments.
func WriteGeneratedSecrets(out io.Writer, envPrefix string) error {
	secretKey, err := security.SecretKey()
	if err != nil {
		return fmt.Errorf("generate secret key: %w", err)
	}
	accessCode, err := security.AccessCode()
	if err != nil {
		return fmt.Errorf("generate access code: %w", err)
	}

	prefix := strings.ToUpper(envPrefix)
	fmt.Fprintf(out, "%s_SECRET_KEY=%s\n", prefix, secretKey)
	fmt.Fprintf(out, "%s_ADMIN_PASSWORD=%s\n", prefix, accessCode)
	return nil
}
