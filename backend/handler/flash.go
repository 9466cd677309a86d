package handler

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/hkdf"
)

const flashSessionName = "textgen-flash"

// flashes keeps one-shot notifications in a signed and encrypted cookie. A
// message added before a redirect is shown by the next rendered page and then
// dropped.
type flashes struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

func newFlashes(secret string, secure bool, logger *zap.Logger) (*flashes, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret must not be empty")
	}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("textgen flash cookie"))
	hashKey := make([]byte, 32)
	blockKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, hashKey); err != nil {
		return nil, fmt.Errorf("derive cookie hash key: %w", err)
	}
	if _, err := io.ReadFull(kdf, blockKey); err != nil {
		return nil, fmt.Errorf("derive cookie block key: %w", err)
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &flashes{store: store, logger: logger}, nil
}

func (f *flashes) add(w http.ResponseWriter, r *http.Request, msg string) {
	sess, err := f.store.Get(r, flashSessionName)
	if err != nil {
		// an unreadable cookie still yields a fresh session
		f.logger.Debug("Discarding invalid flash cookie", zap.Error(err))
	}
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		f.logger.Warn("Error saving flash message", zap.Error(err))
	}
}

// pop returns the pending messages and clears them. It must run before the
// response header is written.
func (f *flashes) pop(w http.ResponseWriter, r *http.Request) []string {
	sess, err := f.store.Get(r, flashSessionName)
	if err != nil {
		f.logger.Debug("Discarding invalid flash cookie", zap.Error(err))
	}
	pending := sess.Flashes()
	if len(pending) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		f.logger.Warn("Error clearing flash messages", zap.Error(err))
	}

	msgs := make([]string, 0, len(pending))
	for _, p := range pending {
		if s, ok := p.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
