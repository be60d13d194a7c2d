package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teal-bauer/aemctl/internal/config"
)

const passwordMask = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage connection settings",
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save username, password or base URL",
	Example: `  aemctl config set --username admin --password admin
  aemctl config set --base-url https://author.example.com`,
	Args: cobra.NoArgs,
	RunE: runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get <username|password|baseUrl>",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var (
	configUsername string
	configPassword string
	configBaseURL  string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)

	configSetCmd.Flags().StringVar(&configUsername, "username", "", "AEM username")
	configSetCmd.Flags().StringVar(&configPassword, "password", "", "AEM password")
	configSetCmd.Flags().StringVar(&configBaseURL, "base-url", "", "AEM base URL (default "+config.DefaultBaseURL+")")
}

type configView struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	BaseURL         string `json:"baseUrl"`
	UsingDefaultURL bool   `json:"usingDefaultBaseUrl"`
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	updates := []struct {
		flag, key, value string
	}{
		{"username", config.KeyUsername, configUsername},
		{"password", config.KeyPassword, configPassword},
		{"base-url", config.KeyBaseURL, configBaseURL},
	}

	store, err := loadStore()
	if err != nil {
		return err
	}

	changed := 0
	for _, u := range updates {
		if !cmd.Flags().Changed(u.flag) {
			continue
		}
		if err := store.Set(u.key, u.value); err != nil {
			return err
		}
		changed++
	}
	if changed == 0 {
		return fmt.Errorf("nothing to set: use --username, --password or --base-url")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration saved")
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key, err := config.NormalizeKey(args[0])
	if err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}

	value, ok := store.Get(key)
	switch {
	case key == config.KeyPassword && ok:
		value = passwordMask
	case key == config.KeyBaseURL && !ok:
		value = config.DefaultBaseURL + " (using default)"
	case !ok:
		value = "(not set)"
	}

	out := newOutput(cmd)
	if out.JSONMode() {
		return out.JSON(map[string]string{"key": key, "value": value})
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	cfg := store.All()

	view := configView{
		Username:        cfg.Username,
		BaseURL:         cfg.EffectiveBaseURL(),
		UsingDefaultURL: cfg.BaseURL == "",
	}
	if cfg.Password != "" {
		view.Password = passwordMask
	}

	out := newOutput(cmd)
	if out.JSONMode() {
		return out.JSON(view)
	}

	baseURL := view.BaseURL
	if view.UsingDefaultURL {
		baseURL += " (using default)"
	}
	return out.Fields([][2]string{
		{"Username", orNotSet(view.Username)},
		{"Password", orNotSet(view.Password)},
		{"Base URL", baseURL},
	})
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
