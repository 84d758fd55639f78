package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/sporthub/internal/model"
)

func newWatchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print login state changes made elsewhere until interrupted",
		Long: `Watch follows the shared store and prints a line whenever another
sporthub process logs in or out. The session is also checked for expiry on
the configured interval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := rt.output(cmd)

			states := make(chan model.AuthState, 16)
			unsubscribe := rt.app.Sessions.OnAuthStateChanged(func(state model.AuthState) {
				select {
				case states <- state:
				default:
				}
			})
			defer unsubscribe()

			user := rt.app.Sessions.CurrentUser()
			out.Print(model.AuthState{User: user, IsAuthenticated: user != nil})

			go rt.app.Sessions.RunExpiryChecks(ctx, rt.settings.ExpiryCheckInterval)

			for {
				select {
				case <-ctx.Done():
					return nil
				case state := <-states:
					out.Print(state)
				}
			}
		},
	}
}
