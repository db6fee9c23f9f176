// Package render turns assembled document data into the official output
// documents. Renderers are ordered strategies tried in sequence; every failed
// attempt is recorded with its reason so the operator can see why a format
// was skipped instead of a silent catch-and-retry.
package render

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pwd-tools/tender-cli/internal/assemble"
)

// DocumentKind identifies one of the four official tender documents.
type DocumentKind string

const (
	ComparativeStatement DocumentKind = "comparative_statement"
	LetterOfAcceptance   DocumentKind = "letter_of_acceptance"
	WorkOrder            DocumentKind = "work_order"
	ScrutinySheet        DocumentKind = "scrutiny_sheet"
)

// AllKinds lists every document a full generation run produces.
var AllKinds = []DocumentKind{
	ComparativeStatement,
	LetterOfAcceptance,
	WorkOrder,
	ScrutinySheet,
}

// Title returns the document heading used on letterheads and in filenames.
func (k DocumentKind) Title() string {
	switch k {
	case ComparativeStatement:
		return "Comparative Statement of Tender"
	case LetterOfAcceptance:
		return "Letter of Acceptance"
	case WorkOrder:
		return "Written Order to Commence Work"
	case ScrutinySheet:
		return "Tender Scrutiny Sheet"
	default:
		return string(k)
	}
}

// Renderer produces one document in one output format.
type Renderer interface {
	Name() string
	// Render returns the document bytes and the file extension (without dot).
	Render(kind DocumentKind, data *assemble.Data) ([]byte, string, error)
}

// Attempt records one renderer try within a chain run.
type Attempt struct {
	Renderer string
	Err      error
}

// Result is a successfully rendered document plus the trail of attempts that
// led to it.
type Result struct {
	Kind     DocumentKind
	Bytes    []byte
	Ext      string
	Renderer string
	Attempts []Attempt
}

// Chain tries renderers in order until one succeeds.
type Chain struct {
	renderers []Renderer
}

// NewChain builds a renderer chain. Order is priority order.
func NewChain(renderers ...Renderer) *Chain {
	return &Chain{renderers: renderers}
}

// Render runs the chain for one document. It fails only when every renderer
// fails, and the returned error carries each attempt's reason.
func (c *Chain) Render(kind DocumentKind, data *assemble.Data) (*Result, error) {
	if len(c.renderers) == 0 {
		return nil, eris.New("render: no renderers configured")
	}

	var attempts []Attempt
	for _, r := range c.renderers {
		out, ext, err := r.Render(kind, data)
		attempts = append(attempts, Attempt{Renderer: r.Name(), Err: err})
		if err != nil {
			zap.L().Warn("render: attempt failed",
				zap.String("document", string(kind)),
				zap.String("renderer", r.Name()),
				zap.Error(err),
			)
			continue
		}
		return &Result{
			Kind:     kind,
			Bytes:    out,
			Ext:      ext,
			Renderer: r.Name(),
			Attempts: attempts,
		}, nil
	}

	err := eris.Errorf("render: all %d renderers failed for %s", len(attempts), kind)
	for _, a := range attempts {
		err = eris.Wrapf(err, "%s: %v", a.Renderer, a.Err)
	}
	return nil, err
}
