package terminal

// Event is a decoded terminal input event
// The set is closed: KeyEvent, MouseEvent, PasteStartEvent, PasteEndEvent, FocusEvent, BlurEvent
type Event interface {
	isEvent()
}

// PasteStartEvent marks the start of a bracketed paste
type PasteStartEvent struct{}

// PasteEndEvent marks the end of a bracketed paste
type PasteEndEvent struct{}

// FocusEvent reports the terminal window gained focus
type FocusEvent struct{}

// BlurEvent reports the terminal window lost focus
type BlurEvent struct{}

func (PasteStartEvent) isEvent() {}
func (PasteEndEvent) isEvent()   {}
func (FocusEvent) isEvent()      {}
func (BlurEvent) isEvent()       {}
