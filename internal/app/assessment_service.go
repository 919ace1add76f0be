package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"jfk-emergence-service/internal/domain"

	"go.uber.org/zap"
)

// SessionRepository abstracts how assessment sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	// GetOrCreate reports whether the session was created by this call.
	GetOrCreate(sessionID string, create func() *Session) (*Session, bool)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// ScaleRepository loads validated scale definitions (from cache/backing store).
type ScaleRepository interface {
	GetScale(ctx context.Context, scaleID string) (domain.ScaleDefinition, error)
}

// AssessmentService exposes the assessment flow to transports, one flow per session.
type AssessmentService struct {
	sessions     SessionRepository
	scales       ScaleRepository
	sink         RecordSink
	advanceDelay time.Duration
	log          *zap.Logger
}

func NewAssessmentService(sessions SessionRepository, scales ScaleRepository, sink RecordSink, advanceDelay time.Duration, log *zap.Logger) *AssessmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssessmentService{
		sessions:     sessions,
		scales:       scales,
		sink:         sink,
		advanceDelay: advanceDelay,
		log:          log,
	}
}

// Session serializes access to a single flow.
type Session struct {
	id   string
	mu   sync.Mutex
	flow *Flow
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string, flow *Flow) *Session {
	return &Session{id: id, flow: flow}
}

func (s *Session) ID() string { return s.id }

// Open creates a flow on the list screen for scaleID and returns its view.
// A session belongs to one connection; opening an attached session fails
// with domain.ErrSessionInUse.
func (s *AssessmentService) Open(ctx context.Context, sessionID, scaleID string) (View, error) {
	if _, ok := s.sessions.Get(sessionID); ok {
		return View{}, domain.ErrSessionInUse
	}
	def, err := s.scales.GetScale(ctx, scaleID)
	if err != nil {
		return View{}, err
	}
	session, created := s.sessions.GetOrCreate(sessionID, func() *Session {
		return NewSession(sessionID, NewFlow(sessionID, def, s.advanceDelay))
	})
	if !created {
		return View{}, domain.ErrSessionInUse
	}
	s.log.Debug("session opened", zap.String("session", sessionID), zap.String("scale", def.ID))
	return s.view(session), nil
}

// Start begins a new assessment, discarding any previous answers.
func (s *AssessmentService) Start(_ context.Context, sessionID string) (View, error) {
	return s.apply(sessionID, func(f *Flow) error { return f.Start() })
}

// Select records or clears an answer and returns the auto-advance intent, if any.
func (s *AssessmentService) Select(_ context.Context, sessionID, itemID string, value *int) (View, *FocusIntent, error) {
	var intent *FocusIntent
	view, err := s.apply(sessionID, func(f *Flow) error {
		var err error
		intent, err = f.Select(itemID, value)
		return err
	})
	return view, intent, err
}

// Submit scores the session. domain.ErrIncomplete comes back with a view
// carrying the banner.
func (s *AssessmentService) Submit(_ context.Context, sessionID string) (View, error) {
	return s.apply(sessionID, func(f *Flow) error { return f.Submit() })
}

// Back navigates one screen back.
func (s *AssessmentService) Back(_ context.Context, sessionID string) (View, error) {
	return s.apply(sessionID, func(f *Flow) error { return f.Back() })
}

// Save persists the result and returns to the list. Sink failures are
// logged and do not fail the call.
func (s *AssessmentService) Save(ctx context.Context, sessionID string) (View, error) {
	return s.apply(sessionID, func(f *Flow) error {
		record, err := f.Save(ctx, s.sink)
		if errors.Is(err, domain.ErrInvalidTransition) {
			return err
		}
		if err != nil {
			s.log.Error("persist score failed",
				zap.String("session", sessionID),
				zap.String("record", record.ID),
				zap.Error(err))
			return nil
		}
		s.log.Info("score saved",
			zap.String("session", sessionID),
			zap.String("record", record.ID),
			zap.String("scale", record.ScaleName),
			zap.Int("score", record.Score),
			zap.String("interpretation", record.Interpretation))
		return nil
	})
}

// Close drops the session.
func (s *AssessmentService) Close(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *AssessmentService) apply(sessionID string, fn func(*Flow) error) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	err := fn(session.flow)
	return BuildView(session.flow), err
}

func (s *AssessmentService) view(session *Session) View {
	session.mu.Lock()
	defer session.mu.Unlock()
	return BuildView(session.flow)
}
