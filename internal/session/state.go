package session

import (
	"errors"
	"fmt"
)

// State is a screen of the interactive session.
type State int

// Session states.
const (
	StateLogin State = iota
	StateHome
	StateViewList
	StateDetails
	StateEdit
	StateAdd
	StateDeleteList
	StateQuit
)

var stateNames = map[State]string{
	StateLogin:      "login",
	StateHome:       "home",
	StateViewList:   "view_list",
	StateDetails:    "details",
	StateEdit:       "edit",
	StateAdd:        "add",
	StateDeleteList: "delete_list",
	StateQuit:       "quit",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrIllegalTransition is returned by Run when a screen hands control to a
// state it may not reach.
var ErrIllegalTransition = errors.New("illegal state transition")

// transitions lists the states each screen may move to. Quit on end of
// input and Home after a storage failure are allowed from anywhere and
// are not listed.
var transitions = map[State][]State{
	StateLogin:      {StateHome, StateQuit},
	StateHome:       {StateViewList, StateAdd, StateDeleteList, StateHome, StateQuit},
	StateViewList:   {StateDetails, StateHome, StateViewList},
	StateDetails:    {StateViewList, StateEdit, StateDetails},
	StateEdit:       {StateDetails},
	StateAdd:        {StateHome},
	StateDeleteList: {StateHome, StateDeleteList},
}

// checkTransition returns ErrIllegalTransition unless from may move to to.
func checkTransition(from, to State) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
