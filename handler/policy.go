package handler

import (
	"fmt"
	"strings"
)

// DuplicateAction decides which file of an identical pair is removed
type DuplicateAction string

const (
	DuplicateOld  DuplicateAction = "old"  // Remove the older file
	DuplicateNew  DuplicateAction = "new"  // Remove the newer file
	DuplicateNone DuplicateAction = "none" // Keep both files
	DuplicateAsk  DuplicateAction = "ask"  // Ask for each pair
)

// IsValid reports whether a is one of the known actions
func (a DuplicateAction) IsValid() bool {
	switch a {
	case DuplicateOld, DuplicateNew, DuplicateNone, DuplicateAsk:
		return true
	default:
		return false
	}
}

// ParseDuplicateAction accepts old, new, none (or its alias both) and ask.
// An empty string means ask.
func ParseDuplicateAction(s string) (DuplicateAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DuplicateAsk, nil
	case "both":
		return DuplicateNone, nil
	}

	action := DuplicateAction(strings.ToLower(strings.TrimSpace(s)))
	if !action.IsValid() {
		return "", fmt.Errorf("invalid duplicate action %q (must be: old, new, none, both or ask)", s)
	}
	return action, nil
}

// Policy holds the ask / default action pair of every cleanup pass.
// Action true applies the action (remove, rename, change) without asking,
// Ask false with Action false skips it without asking.
type Policy struct {
	AskEmpty          bool
	ActionEmpty       bool
	AskTemporary      bool
	ActionTemporary   bool
	AskWrongName      bool
	ActionWrongName   bool
	AskPermissions    bool
	ActionPermissions bool
	Duplicate         DuplicateAction
}

// DefaultPolicy applies every action silently and removes the older duplicate
func DefaultPolicy() Policy {
	return Policy{
		ActionEmpty:       true,
		ActionTemporary:   true,
		ActionWrongName:   true,
		ActionPermissions: true,
		Duplicate:         DuplicateOld,
	}
}

// PolicyFromFlags builds a policy from a pair of opposite flags per pass:
// neither set asks, the apply flag applies, the keep flag skips
func PolicyFromFlags(emptyDel, emptyKeep, tempDel, tempKeep, badChange, badKeep, permChange, permKeep bool, duplicate DuplicateAction) Policy {
	return Policy{
		AskEmpty:          !(emptyDel || emptyKeep),
		ActionEmpty:       emptyDel,
		AskTemporary:      !(tempDel || tempKeep),
		ActionTemporary:   tempDel,
		AskWrongName:      !(badChange || badKeep),
		ActionWrongName:   badChange,
		AskPermissions:    !(permChange || permKeep),
		ActionPermissions: permChange,
		Duplicate:         duplicate,
	}
}
