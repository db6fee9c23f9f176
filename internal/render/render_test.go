package render

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwd-tools/tender-cli/internal/assemble"
)

// stubRenderer returns fixed output or a fixed error.
type stubRenderer struct {
	name string
	out  []byte
	ext  string
	err  error
}

func (s *stubRenderer) Name() string { return s.name }

func (s *stubRenderer) Render(DocumentKind, *assemble.Data) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.out, s.ext, nil
}

func TestChain_FirstSuccessWins(t *testing.T) {
	chain := NewChain(
		&stubRenderer{name: "primary", out: []byte("doc"), ext: "pdf"},
		&stubRenderer{name: "fallback", out: []byte("other"), ext: "html"},
	)

	res, err := chain.Render(WorkOrder, &assemble.Data{})
	require.NoError(t, err)
	assert.Equal(t, "primary", res.Renderer)
	assert.Equal(t, "pdf", res.Ext)
	assert.Equal(t, []byte("doc"), res.Bytes)
	assert.Len(t, res.Attempts, 1)
}

func TestChain_FallsBackAndRecordsAttempts(t *testing.T) {
	chain := NewChain(
		&stubRenderer{name: "primary", err: eris.New("font missing")},
		&stubRenderer{name: "fallback", out: []byte("doc"), ext: "html"},
	)

	res, err := chain.Render(WorkOrder, &assemble.Data{})
	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Renderer)

	require.Len(t, res.Attempts, 2)
	assert.Error(t, res.Attempts[0].Err)
	assert.NoError(t, res.Attempts[1].Err)
}

func TestChain_AllFail(t *testing.T) {
	chain := NewChain(
		&stubRenderer{name: "a", err: eris.New("boom a")},
		&stubRenderer{name: "b", err: eris.New("boom b")},
	)

	_, err := chain.Render(ScrutinySheet, &assemble.Data{})
	require.Error(t, err)
	assert.Contains(t, eris.ToString(err, true), "boom a")
	assert.Contains(t, eris.ToString(err, true), "boom b")
}

func TestChain_Empty(t *testing.T) {
	_, err := NewChain().Render(WorkOrder, &assemble.Data{})
	assert.Error(t, err)
}

func TestDocumentKindTitles(t *testing.T) {
	assert.Equal(t, "Comparative Statement of Tender", ComparativeStatement.Title())
	assert.Equal(t, "Letter of Acceptance", LetterOfAcceptance.Title())
	assert.Equal(t, "Written Order to Commence Work", WorkOrder.Title())
	assert.Equal(t, "Tender Scrutiny Sheet", ScrutinySheet.Title())
	assert.Len(t, AllKinds, 4)
}
