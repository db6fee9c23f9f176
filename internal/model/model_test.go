package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNITBatch_Work(t *testing.T) {
	batch := NITBatch{
		Works: []WorkRecord{
			{ItemNo: "1", WorkName: "Electrification of GSS"},
			{ItemNo: "2", WorkName: "Street light maintenance"},
		},
	}

	w, ok := batch.Work("2")
	require.True(t, ok)
	assert.Equal(t, "Street light maintenance", w.WorkName)

	_, ok = batch.Work("9")
	assert.False(t, ok)
}

func TestBidSet_Names(t *testing.T) {
	s := BidSet{{BidderName: "M/s Sharma"}, {BidderName: "M/s Verma"}}
	assert.Equal(t, []string{"M/s Sharma", "M/s Verma"}, s.Names())
	assert.Empty(t, BidSet{}.Names())
}
