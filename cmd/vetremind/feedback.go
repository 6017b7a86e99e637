package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vetremind/internal/model"
)

var errAccessDenied = errors.New("access denied: --secret does not match ADMIN_SECRET")

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send or review feedback",
	}
	cmd.AddCommand(feedbackSendCmd(), feedbackListCmd(), feedbackDeleteCmd())
	return cmd
}

func feedbackSendCmd() *cobra.Command {
	var name, email, message string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Store a feedback message",
		RunE: func(cmd *cobra.Command, args []string) error {
			fb, err := getFeedback()
			if err != nil {
				return err
			}
			defer func() { _ = fb.Close() }()

			f := &model.Feedback{Name: name, Email: email, Message: message}
			if err := fb.Insert(cmd.Context(), f); err != nil {
				return err
			}
			fmt.Printf("Feedback #%d saved.\n", f.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "feedback text")
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func feedbackListCmd() *cobra.Command {
	var (
		secret string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feedback, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.IsAdmin(secret) {
				return errAccessDenied
			}
			fb, err := getFeedback()
			if err != nil {
				return err
			}
			defer func() { _ = fb.Close() }()

			entries, err := fb.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No feedback yet.")
				return nil
			}
			for _, f := range entries {
				fmt.Printf("#%d  %s  %s <%s>\n    %s\n", f.ID, f.CreatedAt.Format("2006-01-02 15:04"), f.Name, f.Email, f.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "admin secret")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func feedbackDeleteCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a feedback entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.IsAdmin(secret) {
				return errAccessDenied
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid ID %q", args[0])
			}

			fb, err := getFeedback()
			if err != nil {
				return err
			}
			defer func() { _ = fb.Close() }()

			if err := fb.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Feedback #%d deleted.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "admin secret")
	return cmd
}
