package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wanderlust-labs/destination-portal/internal/auth"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

var (
	errNotLoggedIn = errors.New("not logged in: run `destctl login` first")
	errNotAdmin    = errors.New("this command needs an administrator account")
	errRevoked     = errors.New("the service rejected your session; run `destctl login` again")
	errNotReady    = errors.New("session not loaded yet")
)

// guard applies the same navigation rules as the web pages to a command.
func (r *runtime) guard(cmd *cobra.Command, adminOnly bool) error {
	decision := auth.Decide(r.provider.Snapshot(), adminOnly, cmd.CommandPath())
	switch {
	case decision.Action == auth.ActionLoading:
		return errNotReady
	case decision.Action != auth.ActionRedirect:
		return nil
	case decision.Target == auth.LoginPath:
		return errNotLoggedIn
	default:
		return errNotAdmin
	}
}

// explain swaps backend authorization failures for advice.
func explain(err error) error {
	if apperrors.IsAuthorizationFailure(err) {
		return errRevoked
	}
	return err
}
