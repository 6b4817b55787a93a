// Package flow drives the guided navigation: a pure screen state machine
// plus an orchestrator that wires it to the questionnaire, the plan and the
// remote services.
package flow

import (
	"fmt"
)

// Screen is one named state of the guided flow. Exactly one screen is
// active at a time.
type Screen string

const (
	ScreenWelcome            Screen = "welcome"
	ScreenOnboarding         Screen = "onboarding"
	ScreenOnboardingComplete Screen = "onboarding_complete"
	ScreenTaskList           Screen = "task_list"
	ScreenTaskDetail         Screen = "task_detail"
	ScreenDocumentUpload     Screen = "document_upload"
	ScreenTaskComplete       Screen = "task_complete"
	ScreenEligibility        Screen = "eligibility"
	ScreenSalesProject       Screen = "sales_project"
	ScreenAllComplete        Screen = "all_complete"
)

// Event is a user action or remote-call completion that can move the flow.
type Event string

const (
	EventStart           Event = "start"
	EventResumeTasks     Event = "resume_tasks"
	EventOnboardingDone  Event = "onboarding_done"
	EventContinue        Event = "continue"
	EventSelectTask      Event = "select_task"
	EventOpenUpload      Event = "open_upload"
	EventUploadSucceeded Event = "upload_succeeded"
	EventTaskCompleted   Event = "task_completed"
	EventNextTask        Event = "next_task"
	EventShowEligibility Event = "show_eligibility"
	EventAllDone         Event = "all_done"
	EventBack            Event = "back"
)

// transitions is the complete edge table. Anything absent is an invalid
// move and leaves the current screen untouched.
var transitions = map[Screen]map[Event]Screen{
	ScreenWelcome: {
		EventStart:       ScreenOnboarding,
		EventResumeTasks: ScreenTaskList,
	},
	ScreenOnboarding: {
		EventOnboardingDone: ScreenOnboardingComplete,
	},
	ScreenOnboardingComplete: {
		EventContinue: ScreenTaskList,
	},
	ScreenTaskList: {
		EventSelectTask:      ScreenTaskDetail,
		EventShowEligibility: ScreenEligibility,
		EventAllDone:         ScreenAllComplete,
	},
	ScreenTaskDetail: {
		EventOpenUpload:    ScreenDocumentUpload,
		EventTaskCompleted: ScreenTaskComplete,
		EventBack:          ScreenTaskList,
	},
	ScreenDocumentUpload: {
		EventUploadSucceeded: ScreenTaskComplete,
		EventBack:            ScreenTaskDetail,
	},
	ScreenTaskComplete: {
		EventNextTask:        ScreenTaskDetail,
		EventShowEligibility: ScreenEligibility,
		EventAllDone:         ScreenAllComplete,
	},
	ScreenEligibility: {
		EventContinue: ScreenSalesProject,
		EventBack:     ScreenTaskList,
	},
	ScreenSalesProject: {
		EventAllDone: ScreenAllComplete,
		EventBack:    ScreenTaskList,
	},
	ScreenAllComplete: {},
}

// Transition applies one event to the current screen. It is a pure
// function of its inputs.
func Transition(current Screen, event Event) (Screen, error) {
	edges, ok := transitions[current]
	if !ok {
		return current, fmt.Errorf("unknown screen: %s", current)
	}
	next, ok := edges[event]
	if !ok {
		return current, fmt.Errorf("event %s not allowed on screen %s", event, current)
	}
	return next, nil
}

// CanTransition reports whether the event is legal on the given screen.
func CanTransition(current Screen, event Event) bool {
	_, err := Transition(current, event)
	return err == nil
}
