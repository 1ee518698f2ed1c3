package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/matthieukhl/loyaltyctl/internal/query"
	"github.com/matthieukhl/loyaltyctl/internal/validate"
	"github.com/matthieukhl/loyaltyctl/internal/view"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and update global settings",
}

var (
	settingType        string
	settingDescription string
)

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a setting by key",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a setting by key",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingType, "type", "string", "value type tag")
	settingsSetCmd.Flags().StringVar(&settingDescription, "description", "", "human-readable description")

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	key := args[0]
	setting, err := query.Lookup(cmd.Context(), a.cache, query.SettingKey(key),
		func(ctx context.Context) (*api.Setting, error) {
			return a.api.GetSettingByKey(ctx, key)
		})
	if err != nil {
		return err
	}

	fmt.Printf("%s = %s\n", setting.Key, setting.Value)
	if setting.Type != "" {
		fmt.Printf("  type: %s\n", setting.Type)
	}
	if setting.Description != "" {
		fmt.Printf("  description: %s\n", setting.Description)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	key, value := args[0], args[1]

	form := view.NewForm(validate.SettingFromForm)
	form.Reset(map[string]string{
		"value":       value,
		"type":        settingType,
		"description": settingDescription,
	}, true)

	var updated *api.Setting
	err = form.Submit(cmd.Context(), func(ctx context.Context, input api.SettingInput) error {
		return a.cache.Mutate(query.ResourceSettings, func() error {
			setting, err := a.api.UpdateSettingByKey(ctx, key, input)
			if err != nil {
				return err
			}
			updated = setting
			return nil
		})
	})
	if ferrs, ok := err.(validate.FieldErrors); ok {
		fmt.Fprintln(os.Stderr, "Invalid setting:")
		printFieldErrors(ferrs)
		return fmt.Errorf("validation failed")
	}
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s = %s\n", key, updated.Value)
	return nil
}
