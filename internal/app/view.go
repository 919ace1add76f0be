package app

import (
	"jfk-emergence-service/internal/domain"
	"jfk-emergence-service/internal/scale"
)

// View is what a presentation layer needs to render the current screen.
type View struct {
	SessionID   string        `json:"sessionId"`
	Screen      ScreenKind    `json:"screen"`
	ScaleID     string        `json:"scaleId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	MaxScore    int           `json:"maxScore"`
	Items       []ItemView    `json:"items,omitempty"`
	Total       int           `json:"total"`
	Error       string        `json:"error,omitempty"`
	Result      *ResultView   `json:"result,omitempty"`
	Last        *ResultView   `json:"last,omitempty"`
	Legend      []domain.Band `json:"legend,omitempty"`
}

// ItemView is one selector on the form screen.
type ItemView struct {
	Number    int             `json:"number"`
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	MaxPoints int             `json:"maxPoints"`
	Options   []domain.Option `json:"options"`
	Selected  *int            `json:"selected"`
}

// ResultView pairs a total with its band.
type ResultView struct {
	Total int         `json:"total"`
	Band  domain.Band `json:"band"`
}

func newResultView(def domain.ScaleDefinition, r domain.Result) *ResultView {
	return &ResultView{Total: r.Total, Band: scale.Classify(def, r.Total)}
}

// BuildView renders the flow's current screen.
func BuildView(f *Flow) View {
	def := f.Definition()
	v := View{
		SessionID:   f.sessionID,
		Screen:      f.Screen().Kind(),
		ScaleID:     def.ID,
		Title:       def.Title,
		Description: def.Description,
		MaxScore:    scale.MaxScore(def),
		Total:       f.Total(),
		Error:       f.Error(),
	}

	switch s := f.Screen().(type) {
	case ListScreen:
		if last, ok := f.Last(); ok {
			v.Last = newResultView(def, last)
		}
	case FormScreen:
		v.Items = make([]ItemView, 0, len(def.Items))
		for i, item := range def.Items {
			iv := ItemView{
				Number:    i + 1,
				ID:        item.ID,
				Label:     item.Label,
				MaxPoints: item.MaxPoints,
				Options:   item.Options,
			}
			if val, ok := f.answers[item.ID]; ok {
				val := val
				iv.Selected = &val
			}
			v.Items = append(v.Items, iv)
		}
	case ResultScreen:
		v.Result = newResultView(def, s.Result)
		v.Legend = def.Bands
	}
	return v
}
