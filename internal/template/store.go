package template

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Lookup resolves a template key and renders it with named placeholders.
// Missing keys and missing variables render as visible inline errors rather
// than failing the caller.
type Lookup interface {
	Format(key string, vars map[string]string) string
}

type templateFile struct {
	Templates map[string]templateEntry `yaml:"templates"`
}

type templateEntry struct {
	Format string `yaml:"format"`
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Store holds message templates loaded from a YAML file. A background
// watcher reloads the file on modification; a failed reload keeps the
// previous snapshot.
type Store struct {
	path      string
	logger    *slog.Logger
	mu        sync.RWMutex
	templates map[string]string
	watcher   *fsnotify.Watcher
	done      chan struct{}
}

// NewStore loads templates from path. When the file cannot be read and no
// templates were loaded yet, built-in defaults are used so the system stays
// able to speak.
func NewStore(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:      path,
		logger:    logger,
		templates: defaultTemplates(),
	}
	if err := s.load(); err != nil {
		logger.Error("loading templates failed, using defaults", slog.String("error", err.Error()))
	}
	return s
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read templates: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	if len(file.Templates) == 0 {
		return fmt.Errorf("templates file has no templates key")
	}

	loaded := make(map[string]string, len(file.Templates))
	for key, entry := range file.Templates {
		loaded[key] = entry.Format
	}

	s.mu.Lock()
	s.templates = loaded
	s.mu.Unlock()

	s.logger.Info("templates loaded", slog.Int("count", len(loaded)))
	return nil
}

// Reload re-reads the file, keeping the current snapshot on failure.
func (s *Store) Reload() {
	if err := s.load(); err != nil {
		s.logger.Error("template reload failed, keeping previous templates", slog.String("error", err.Error()))
	}
}

// Format renders the template under key with the provided variables.
func (s *Store) Format(key string, vars map[string]string) string {
	s.mu.RLock()
	tmpl, ok := s.templates[key]
	s.mu.RUnlock()

	if !ok {
		s.logger.Warn("template not found", slog.String("key", key))
		return "Template not found: " + key
	}

	missing := ""
	result := placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return value
	})
	if missing != "" {
		s.logger.Error("missing template variable", slog.String("key", key), slog.String("variable", missing))
		return "Template error: missing variable " + missing
	}
	return result
}

// Watch starts the file watcher. Stop with Close.
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch template dir: %w", err)
	}

	s.watcher = watcher
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == s.path && event.Op.Has(fsnotify.Write|fsnotify.Create) {
					s.logger.Info("templates file modified, reloading")
					s.Reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("template watcher error", slog.String("error", err.Error()))
			case <-s.done:
				return
			}
		}
	}()

	s.logger.Info("watching templates file", slog.String("path", s.path))
	return nil
}

// Close stops the watcher.
func (s *Store) Close() {
	if s.watcher != nil {
		close(s.done)
		s.watcher.Close()
		s.watcher = nil
	}
}

func defaultTemplates() map[string]string {
	return map[string]string{
		"new_order_owner":                "💸 New order alert!\n🕓 Time: {time}\n📅 Date: {date}\n💰 Total: {total}\n🙍‍♂️ Client: {client}\n🌐 IP: {ip}",
		"new_order_affiliate":            "💸 One of your referrals just ordered!\n🕓 Time: {time}\n📅 Date: {date}\n💰 Total: {total}",
		"affiliate_registration_success": "✅ You are registered!\nYour link: {link}?ref={token}\nYour token: {token}",
		"affiliate_already_registered":   "You are already registered.\nYour link: {link}?ref={token}\nYour token: {token}",
		"new_affiliate_owner":            "🤝 New affiliate registered!\n🕓 Time: {time}\n📅 Date: {date}\n📱 Phone: {phone}\n🔑 Token: {token}",
		"system_alert":                   "🚨 SYSTEM ALERT: {message}",
		"webhook_alert":                  "⚠️ WEBHOOK ALERT: {message}",
		"api_key_prompt":                 "Please send the new API key value.",
		"merchant_code_prompt":           "API key stored. Now send the merchant code.",
		"credential_retry":               "Something went wrong saving the credential. Please start over with \"New API key\".",
		"credential_session_expired":     "Your session expired. Please start over with \"New API key\".",
		"credential_success":             "✅ Credential registered. Token: {token}",
	}
}
