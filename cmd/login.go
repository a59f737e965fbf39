package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vlbdotgo/vlbgo/vlb"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to VLB and print an access token",
	Long: `Log in with the configured username and password and print the issued
token. Store it as vlb.token (or VLBGO_VLB_TOKEN) to skip the login on
later runs.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadConfig() },
	RunE:              runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if cfg.VLB.Username == "" || cfg.VLB.Password == "" {
		return fmt.Errorf("login requires vlb.username and vlb.password")
	}

	c, err := vlb.NewClient(commandContext(cmd), cfg.VLB.Username, cfg.VLB.Password, logger,
		vlb.WithBaseURL(cfg.VLB.URL),
		vlb.WithTimeout(cfg.VLB.Timeout),
		vlb.WithUserAgent(cfg.VLB.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	logger.Info().Str("url", c.BaseURL()).Msg("Logged in to VLB")
	fmt.Println(c.Token())
	return nil
}
