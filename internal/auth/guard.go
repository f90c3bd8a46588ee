package auth

import (
	"net/url"
	"strings"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
	// NextParam carries the originally requested location through the login page.
	NextParam = "next"
)

// Action is what the guard wants done with a navigation.
type Action int

const (
	ActionRender Action = iota
	ActionLoading
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionLoading:
		return "loading"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of guarding one navigation.
type Decision struct {
	Action Action
	// Target is the redirect destination.
	Target string
	// From is the location the user asked for, kept so login can send them back.
	From string
}

// Decide guards a navigation to requested. It depends only on state and adminOnly.
func Decide(state State, adminOnly bool, requested string) Decision {
	switch {
	case !state.Initialized:
		return Decision{Action: ActionLoading}
	case !state.Authenticated():
		return Decision{Action: ActionRedirect, Target: LoginPath, From: requested}
	case adminOnly && !state.Admin():
		return Decision{Action: ActionRedirect, Target: HomePath}
	default:
		return Decision{Action: ActionRender}
	}
}

// Location renders the redirect URL, appending ?next= for login redirects.
func (d Decision) Location() string {
	if d.Action != ActionRedirect {
		return ""
	}
	if d.Target == LoginPath && SafeNext(d.From) != "" && d.From != HomePath {
		return d.Target + "?" + url.Values{NextParam: {d.From}}.Encode()
	}
	return d.Target
}

// SafeNext returns next when it is a same-origin absolute path, "" otherwise.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	if u.Path == LoginPath {
		return ""
	}
	return next
}
