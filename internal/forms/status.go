package forms

// State of a form submission as shown to the admin
type State string

const (
	Idle    State = "idle"
	Success State = "success"
	Error   State = "error"
)

// Status is the inline banner rendered above a form
type Status struct {
	State   State
	Message string
}

func Succeeded(message string) Status {
	return Status{State: Success, Message: message}
}

func Failed(message string) Status {
	return Status{State: Error, Message: message}
}

// IsIdle reports whether there is nothing to show
func (s Status) IsIdle() bool {
	return s.State == "" || s.State == Idle
}
