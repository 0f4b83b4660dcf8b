package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

const (
	LangEN = "en"
	LangUR = "ur"
)

var requiredLanguages = []string{LangEN, LangUR}

// rtlLanguages are written right to left.
var rtlLanguages = map[string]bool{LangUR: true}

// Manager serves message catalogs loaded once at startup. Every catalog is
// pre-merged over the default language so a missing key falls back to it.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]map[string]string
	supported       []string
}

func NewManager(defaultLanguage string, localesDir string) (*Manager, error) {
	return NewManagerFS(defaultLanguage, os.DirFS(localesDir))
}

// NewManagerFS loads every <lang>.json file at the root of locales.
func NewManagerFS(defaultLanguage string, locales fs.FS) (*Manager, error) {
	raw, err := readCatalogs(locales)
	if err != nil {
		return nil, err
	}
	for _, required := range requiredLanguages {
		if _, ok := raw[required]; !ok {
			return nil, fmt.Errorf("required locale %q missing", required)
		}
	}

	manager := &Manager{catalogs: make(map[string]map[string]string, len(raw))}
	for language := range raw {
		manager.supported = append(manager.supported, language)
	}
	sort.Strings(manager.supported)

	manager.defaultLanguage = LangEN
	if language := normalizeLanguageTag(defaultLanguage); raw[language] != nil {
		manager.defaultLanguage = language
	}

	base := raw[manager.defaultLanguage]
	for language, messages := range raw {
		merged := make(map[string]string, len(base))
		for key, value := range base {
			merged[key] = value
		}
		for key, value := range messages {
			if strings.TrimSpace(value) != "" {
				merged[key] = value
			}
		}
		manager.catalogs[language] = merged
	}
	return manager, nil
}

func readCatalogs(locales fs.FS) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(locales, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	catalogs := map[string]map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		language := normalizeLanguageTag(strings.TrimSuffix(entry.Name(), ".json"))
		content, err := fs.ReadFile(locales, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}
		catalogs[language] = messages
	}
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("no locales found")
	}
	return catalogs, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.supported...)
}

func (manager *Manager) NormalizeLanguage(raw string) string {
	if language := normalizeLanguageTag(raw); manager.isSupported(language) {
		return language
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the supported language with the highest
// q-weight. Ties keep header order.
func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	best := ""
	bestWeight := 0.0
	for _, part := range strings.Split(raw, ",") {
		tag, weight := parseLanguageRange(part)
		if weight <= bestWeight || !manager.isSupported(tag) {
			continue
		}
		best, bestWeight = tag, weight
	}
	if best == "" {
		return manager.defaultLanguage
	}
	return best
}

// Messages returns the merged catalog for language. Callers must not modify it.
func (manager *Manager) Messages(language string) map[string]string {
	return manager.catalogs[manager.NormalizeLanguage(language)]
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.Messages(language)[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

// Direction returns "rtl" or "ltr" for the html dir attribute.
func (manager *Manager) Direction(language string) string {
	if rtlLanguages[manager.NormalizeLanguage(language)] {
		return "rtl"
	}
	return "ltr"
}

func (manager *Manager) isSupported(language string) bool {
	_, ok := manager.catalogs[language]
	return language != "" && ok
}

func parseLanguageRange(raw string) (string, float64) {
	tag, params, _ := strings.Cut(strings.TrimSpace(raw), ";")
	weight := 1.0
	for _, param := range strings.Split(params, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || strings.TrimSpace(name) != "q" {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return "", 0
		}
		weight = parsed
	}
	return normalizeLanguageTag(tag), weight
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	language, _, _ = strings.Cut(language, "-")
	return language
}
