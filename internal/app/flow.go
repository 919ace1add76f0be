package app

import (
	"context"
	"fmt"
	"time"

	"jfk-emergence-service/internal/domain"
	"jfk-emergence-service/internal/scale"

	"github.com/google/uuid"
)

// DefaultAutoAdvanceDelay is how long the view waits before bringing the
// next item into focus after an answer.
const DefaultAutoAdvanceDelay = 150 * time.Millisecond

// ScreenKind names the three screens of an assessment.
type ScreenKind string

const (
	ScreenList   ScreenKind = "LIST"
	ScreenForm   ScreenKind = "FORM"
	ScreenResult ScreenKind = "RESULT"
)

// Screen is the current state of a flow. Only the types in this package
// implement it.
type Screen interface {
	Kind() ScreenKind
	isScreen()
}

// ListScreen shows the last saved result and the start action.
type ListScreen struct{}

// FormScreen collects answers.
type FormScreen struct{}

// ResultScreen carries the scored result it displays.
type ResultScreen struct {
	Result domain.Result
}

func (ListScreen) Kind() ScreenKind   { return ScreenList }
func (FormScreen) Kind() ScreenKind   { return ScreenForm }
func (ResultScreen) Kind() ScreenKind { return ScreenResult }

func (ListScreen) isScreen()   {}
func (FormScreen) isScreen()   {}
func (ResultScreen) isScreen() {}

// FocusIntent asks the view to bring an item into focus after Delay.
// Views may ignore it.
type FocusIntent struct {
	ItemID string        `json:"itemId"`
	Delay  time.Duration `json:"-"`
}

// RecordSink persists saved scores.
type RecordSink interface {
	SaveRecord(ctx context.Context, record domain.ScoreRecord) error
}

// Flow drives one assessment through List, Form and Result. It is not safe
// for concurrent use; Session serializes access.
type Flow struct {
	sessionID    string
	def          domain.ScaleDefinition
	screen       Screen
	answers      domain.AnswerSet
	last         *domain.Result
	errMsg       string
	advanceDelay time.Duration
	now          func() time.Time
	newID        func() string
}

// NewFlow returns a flow on the list screen.
func NewFlow(sessionID string, def domain.ScaleDefinition, advanceDelay time.Duration) *Flow {
	return NewFlowWithClock(sessionID, def, advanceDelay, time.Now)
}

// NewFlowWithClock allows deterministic record timestamps in tests.
func NewFlowWithClock(sessionID string, def domain.ScaleDefinition, advanceDelay time.Duration, now func() time.Time) *Flow {
	return &Flow{
		sessionID:    sessionID,
		def:          def,
		screen:       ListScreen{},
		answers:      domain.AnswerSet{},
		advanceDelay: advanceDelay,
		now:          now,
		newID:        uuid.NewString,
	}
}

func (f *Flow) Screen() Screen                     { return f.screen }
func (f *Flow) Definition() domain.ScaleDefinition { return f.def }
func (f *Flow) Error() string                      { return f.errMsg }
func (f *Flow) Answers() domain.AnswerSet          { return f.answers.Clone() }

// Total is the running total of the current answers.
func (f *Flow) Total() int {
	return scale.ComputeTotal(f.def, f.answers)
}

// Last returns the most recently scored result, if any.
func (f *Flow) Last() (domain.Result, bool) {
	if f.last == nil {
		return domain.Result{}, false
	}
	return *f.last, true
}

// Start begins a new assessment with no answers.
func (f *Flow) Start() error {
	if f.screen.Kind() != ScreenList {
		return f.invalid("start")
	}
	f.answers = domain.AnswerSet{}
	f.errMsg = ""
	f.screen = FormScreen{}
	return nil
}

// Select records value for itemID, or clears it when value is nil. A
// non-nil answer on any item but the last yields a focus intent for the
// next item.
func (f *Flow) Select(itemID string, value *int) (*FocusIntent, error) {
	if f.screen.Kind() != ScreenForm {
		return nil, f.invalid("select")
	}
	item, idx, ok := scale.FindItem(f.def, itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if value == nil {
		delete(f.answers, itemID)
		return nil, nil
	}
	if !scale.ValidOption(item, *value) {
		return nil, fmt.Errorf("%w: %s=%d", domain.ErrInvalidOption, itemID, *value)
	}
	f.answers[itemID] = *value

	if idx+1 >= len(f.def.Items) {
		return nil, nil
	}
	return &FocusIntent{ItemID: f.def.Items[idx+1].ID, Delay: f.advanceDelay}, nil
}

// Submit scores the answers. An incomplete form stays on the form screen
// with a banner naming the number of required items.
func (f *Flow) Submit() error {
	if f.screen.Kind() != ScreenForm {
		return f.invalid("submit")
	}
	if !scale.IsComplete(f.def, f.answers) {
		required := len(f.def.Items)
		f.errMsg = fmt.Sprintf("Por favor, responda a todos os %d itens da escala %s para obter um resultado preciso.", required, f.def.Title)
		return fmt.Errorf("%w: %d of %d items answered", domain.ErrIncomplete, required-len(scale.Missing(f.def, f.answers)), required)
	}
	result := domain.Result{Total: scale.ComputeTotal(f.def, f.answers)}
	f.last = &result
	f.errMsg = ""
	f.screen = ResultScreen{Result: result}
	return nil
}

// Back returns from the form to the list, keeping answers, or from the
// result to the form.
func (f *Flow) Back() error {
	switch f.screen.(type) {
	case FormScreen:
		f.errMsg = ""
		f.screen = ListScreen{}
	case ResultScreen:
		f.errMsg = ""
		f.screen = FormScreen{}
	default:
		return f.invalid("back")
	}
	return nil
}

// Save hands the result to sink exactly once and returns to the list with
// answers cleared. The flow moves to the list even when sink fails; that
// error is returned alongside the record for the caller to report.
func (f *Flow) Save(ctx context.Context, sink RecordSink) (domain.ScoreRecord, error) {
	rs, ok := f.screen.(ResultScreen)
	if !ok {
		return domain.ScoreRecord{}, f.invalid("save")
	}
	record := domain.ScoreRecord{
		ID:             f.newID(),
		SessionID:      f.sessionID,
		ScaleName:      f.def.Title,
		Score:          rs.Result.Total,
		Interpretation: scale.Classify(f.def, rs.Result.Total).Text,
		CreatedAt:      f.now().UTC(),
	}
	err := sink.SaveRecord(ctx, record)

	f.screen = ListScreen{}
	f.answers = domain.AnswerSet{}
	f.errMsg = ""
	if err != nil {
		return record, fmt.Errorf("save record: %w", err)
	}
	return record, nil
}

func (f *Flow) invalid(trigger string) error {
	return fmt.Errorf("%w: %s on %s", domain.ErrInvalidTransition, trigger, f.screen.Kind())
}
