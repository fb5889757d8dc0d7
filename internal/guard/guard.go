// Package guard maps session state to a screen. It is purely reactive:
// routing is a function of a snapshot and never touches the store.
package guard

import "github.com/dmitrijs2005/authvault/internal/session"

// Screen identifies which area of the UI a session snapshot routes to.
type Screen int

const (
	// ScreenLoading is the neutral waiting state rendered while the
	// session is being restored or an operation is in flight.
	ScreenLoading Screen = iota

	// ScreenWelcome is the public entry point (login/signup).
	ScreenWelcome

	// ScreenDashboard is the protected area.
	ScreenDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenWelcome:
		return "welcome"
	case ScreenDashboard:
		return "dashboard"
	}
	return "unknown"
}

// Route returns the screen the given snapshot settles on. While loading,
// neither the public nor the protected area is shown.
func Route(s session.Snapshot) Screen {
	if s.IsLoading {
		return ScreenLoading
	}
	if s.IsAuthenticated {
		return ScreenDashboard
	}
	return ScreenWelcome
}
