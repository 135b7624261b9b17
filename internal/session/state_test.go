package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{StateLogin, StateHome, true},
		{StateLogin, StateViewList, false},
		{StateHome, StateAdd, true},
		{StateHome, StateDetails, false},
		{StateViewList, StateDetails, true},
		{StateDetails, StateEdit, true},
		{StateDetails, StateHome, false},
		{StateEdit, StateDetails, true},
		{StateEdit, StateViewList, false},
		{StateAdd, StateHome, true},
		{StateAdd, StateAdd, false},
		{StateDeleteList, StateDeleteList, true},
		{StateDeleteList, StateDetails, false},
		{StateQuit, StateHome, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			err := checkTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrIllegalTransition)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "view_list", StateViewList.String())
	assert.Equal(t, "state(42)", State(42).String())
}

func TestUnknownStateHasNoScreen(t *testing.T) {
	s := &Session{}
	_, err := s.step(State(42), nil)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}
