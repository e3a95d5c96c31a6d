package preview

import (
	"github.com/kk-code-lab/rpeek/internal/archive"
	"github.com/kk-code-lab/rpeek/internal/filetype"
)

// DirectiveKind tells the rendering surface what to draw.
type DirectiveKind int

const (
	DirectiveNone DirectiveKind = iota
	DirectiveLoading
	DirectiveEmbed
	DirectiveText
	DirectiveArchive
	DirectiveExternal
	DirectiveError
)

// Directive is the render contract of a session: a URL to embed natively,
// decoded text, an archive listing, or a status to display.
type Directive struct {
	Kind    DirectiveKind
	Name    string
	URL     string
	Media   filetype.Category
	Text    string
	Entries []archive.Entry
	Message string
}

// DirectiveFor derives the render directive of a state.
func DirectiveFor(s State) Directive {
	d := Directive{Name: s.Ref.Name, URL: s.Ref.URL, Media: s.Classification.Category}
	switch s.Status {
	case StatusIdle, StatusLoading:
		d.Kind = DirectiveLoading
	case StatusError:
		d.Kind = DirectiveError
		d.Message = s.ErrorMessage
	case StatusReady:
		switch s.Strategy {
		case filetype.StrategyEmbed:
			d.Kind = DirectiveEmbed
		case filetype.StrategyText:
			d.Kind = DirectiveText
			d.Text = s.Text
		case filetype.StrategyArchive:
			d.Kind = DirectiveArchive
			d.Entries = s.Entries
		default:
			d.Kind = DirectiveExternal
		}
	default:
		return Directive{Kind: DirectiveNone}
	}
	return d
}
