package hugsession

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/soullift/soul-hug/backend/internal/model/hug"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrValidation      = errors.New("invalid session data")
)

// record pairs the stored session with its ingredient id counter. The
// counter never rewinds, so removed ingredient ids are not reissued.
type record struct {
	session          hug.Session
	nextIngredientID int64
}

// Service implements the session mutation API over an expiring in-memory
// store. Reads and read-modify-write cycles are serialized per store by mu;
// the cache's own locking only covers individual map operations.
type Service struct {
	mu    sync.Mutex
	store *gocache.Cache
}

// NewService creates the session service. ttl bounds how long an untouched
// session survives; zero disables expiry.
func NewService(ttl time.Duration) *Service {
	expiry := ttl
	cleanup := 10 * time.Minute
	if ttl <= 0 {
		expiry = gocache.NoExpiration
		cleanup = 0
	}
	return &Service{store: gocache.New(expiry, cleanup)}
}

// Create provisions a new session from the supplied seed. A blank session id
// is replaced with a generated one; an id that is already present is an
// error rather than a silent overwrite.
func (s *Service) Create(_ context.Context, seed hug.Session) (hug.Session, error) {
	seed.SessionID = strings.TrimSpace(seed.SessionID)
	if seed.SessionID == "" {
		seed.SessionID = uuid.NewString()
	}
	if strings.ContainsAny(seed.SessionID, " \t\n") {
		return hug.Session{}, ErrValidation
	}
	for i := range seed.Ingredients {
		if strings.TrimSpace(seed.Ingredients[i].Content) == "" {
			return hug.Session{}, ErrValidation
		}
	}

	now := time.Now().UTC()
	seed.CreatedAt = now
	seed.UpdatedAt = now
	if seed.AIGeneratedPrompts == nil {
		seed.AIGeneratedPrompts = []hug.Prompt{}
	}
	if seed.Descriptors == nil {
		seed.Descriptors = []string{}
	}

	rec := &record{session: seed, nextIngredientID: 1}
	rec.session.Ingredients = assignIngredientIDs(seed.Ingredients, &rec.nextIngredientID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.store.Get(seed.SessionID); exists {
		return hug.Session{}, ErrSessionExists
	}
	s.store.SetDefault(seed.SessionID, rec)
	return copySession(rec.session), nil
}

// Get retrieves a session by id.
func (s *Service) Get(_ context.Context, id string) (hug.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(id)
	if err != nil {
		return hug.Session{}, err
	}
	return copySession(rec.session), nil
}

// Patch merges the supplied partial update into the stored session. Only
// non-nil fields are applied; the update either fully applies or is
// rejected. Touching a session refreshes its expiry.
func (s *Service) Patch(_ context.Context, id string, patch hug.Patch) (hug.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(id)
	if err != nil {
		return hug.Session{}, err
	}

	if patch.Ingredients != nil {
		for _, ing := range *patch.Ingredients {
			if ing.ID == "" && strings.TrimSpace(ing.Content) == "" {
				return hug.Session{}, ErrValidation
			}
		}
	}

	next := rec.session
	if patch.RecipientName != nil {
		next.RecipientName = *patch.RecipientName
	}
	if patch.Anchor != nil {
		next.Anchor = *patch.Anchor
	}
	if patch.Occasion != nil {
		next.Occasion = *patch.Occasion
	}
	if patch.Tone != nil {
		next.Tone = *patch.Tone
	}
	if patch.AIGeneratedPrompts != nil {
		next.AIGeneratedPrompts = append([]hug.Prompt(nil), (*patch.AIGeneratedPrompts)...)
	}
	if patch.Descriptors != nil {
		next.Descriptors = append([]string(nil), (*patch.Descriptors)...)
	}
	if patch.Ingredients != nil {
		next.Ingredients = assignIngredientIDs(*patch.Ingredients, &rec.nextIngredientID)
	}
	if patch.FinalMessage != nil {
		next.FinalMessage = *patch.FinalMessage
	}
	next.UpdatedAt = time.Now().UTC()

	rec.session = next
	s.store.SetDefault(id, rec)
	return copySession(rec.session), nil
}

// List returns every live session, for the debug listing endpoint.
func (s *Service) List(_ context.Context) []hug.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.store.Items()
	sessions := make([]hug.Session, 0, len(items))
	for _, item := range items {
		if rec, ok := item.Object.(*record); ok {
			sessions = append(sessions, copySession(rec.session))
		}
	}
	return sessions
}

func (s *Service) lookup(id string) (*record, error) {
	raw, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	rec, ok := raw.(*record)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return rec, nil
}

// assignIngredientIDs gives every entry with a blank id the next monotonic
// id. Entries that already carry an id keep it untouched.
func assignIngredientIDs(ingredients []hug.Ingredient, next *int64) []hug.Ingredient {
	out := append([]hug.Ingredient(nil), ingredients...)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = strconv.FormatInt(*next, 10)
			*next++
			continue
		}
		// Keep the counter ahead of any externally supplied numeric id.
		if n, err := strconv.ParseInt(out[i].ID, 10, 64); err == nil && n >= *next {
			*next = n + 1
		}
	}
	return out
}

func copySession(s hug.Session) hug.Session {
	out := s
	out.AIGeneratedPrompts = append([]hug.Prompt(nil), s.AIGeneratedPrompts...)
	out.Descriptors = append([]string(nil), s.Descriptors...)
	out.Ingredients = append([]hug.Ingredient(nil), s.Ingredients...)
	return out
}
