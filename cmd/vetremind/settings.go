package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"vetremind/internal/model"
	"vetremind/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage item rules",
	}
	cmd.AddCommand(rulesListCmd(), rulesSetCmd(), rulesDeleteCmd(), rulesResetCmd())
	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getSettings()
			if err != nil {
				return err
			}

			rs := st.Settings().Rules
			if len(rs) == 0 {
				fmt.Println("No rules. Use 'vetremind rules reset' to restore the defaults.")
				return nil
			}

			keys := make([]string, 0, len(rs))
			for k := range rs {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Println(formatRule(k, rs[k]))
			}
			return nil
		},
	}
}

func rulesSetCmd() *cobra.Command {
	var (
		days  int
		qty   bool
		label string
	)

	cmd := &cobra.Command{
		Use:   "set KEY...",
		Short: "Add or change a rule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getSettings()
			if err != nil {
				return err
			}

			key := rules.NormalizeKey(strings.Join(args, " "))
			r := model.Rule{Days: days, UseQty: qty, VisibleText: label}
			if err := st.Upsert(key, r); err != nil {
				return err
			}
			fmt.Println(formatRule(key, st.Settings().Rules[key]))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "interval in days")
	cmd.Flags().BoolVar(&qty, "qty", false, "multiply the interval by the quantity sold")
	cmd.Flags().StringVar(&label, "label", "", "label shown in reminders (default: item name)")
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY...",
		Short: "Delete a rule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getSettings()
			if err != nil {
				return err
			}
			key := strings.Join(args, " ")
			if err := st.Delete(key); err != nil {
				return err
			}
			fmt.Printf("Rule %q deleted.\n", key)
			return nil
		},
	}
}

func rulesResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default rules and clear exclusions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getSettings()
			if err != nil {
				return err
			}
			if err := st.ResetDefaults(); err != nil {
				return err
			}
			fmt.Printf("Restored %d default rules.\n", len(st.Settings().Rules))
			return nil
		},
	}
}

func exclusionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exclusions",
		Short: "Manage excluded plan item terms",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List excluded terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getSettings()
			if err != nil {
				return err
			}
			terms := st.Settings().Exclusions
			if len(terms) == 0 {
				fmt.Println("No exclusions.")
				return nil
			}
			for _, t := range terms {
				fmt.Println(t)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add TERM...",
		Short: "Hide reminders whose plan item contains a term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getSettings()
			if err != nil {
				return err
			}
			return st.AddExclusion(strings.Join(args, " "))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove TERM...",
		Short: "Remove an excluded term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getSettings()
			if err != nil {
				return err
			}
			term := strings.Join(args, " ")
			removed, err := st.RemoveExclusion(term)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Printf("%q is not excluded.\n", term)
			}
			return nil
		},
	})

	return cmd
}

func userNameCmd() *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "user-name [NAME...]",
		Short: "Show or set the name that signs client messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getSettings()
			if err != nil {
				return err
			}

			if unset {
				return st.SetUserName("")
			}
			if len(args) == 0 {
				if name := st.Settings().UserName; name != "" {
					fmt.Println(name)
				} else {
					fmt.Println("(not set)")
				}
				return nil
			}
			return st.SetUserName(strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&unset, "clear", false, "clear the user name")
	return cmd
}

func formatRule(key string, r model.Rule) string {
	per := ""
	if r.UseQty {
		per = " per unit"
	}
	label := r.VisibleText
	if label == "" {
		label = "(item name)"
	}
	return fmt.Sprintf("%-28s %4d days%-9s %s", key, r.Days, per, label)
}
