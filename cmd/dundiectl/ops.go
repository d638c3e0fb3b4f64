package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Recalculate winners from the current votes",
		RunE: func(*cobra.Command, []string) error {
			var resolved struct {
				Message string `json:"message"`
				Winners []any  `json:"winners"`
			}
			if err := postJSON(services.Winners+"/winners/calculate", struct{}{}, &resolved); err != nil {
				return err
			}
			fmt.Println(resolved.Message)
			printJSON(resolved.Winners)
			return nil
		},
	}
}

func newNotifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Send congratulations to winners not yet notified",
		RunE: func(*cobra.Command, []string) error {
			var sent struct {
				Message       string `json:"message"`
				Notifications []any  `json:"notifications"`
			}
			if err := postJSON(services.Notifications+"/notifications/send", struct{}{}, &sent); err != nil {
				return err
			}
			fmt.Println(sent.Message)
			printJSON(sent.Notifications)
			return nil
		},
	}
}

func newLogsCmd() *cobra.Command {
	var (
		eventType   string
		serviceName string
		userID      string
		minRisk     int
		limit       int
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Query the audit log",
		RunE: func(*cobra.Command, []string) error {
			query := url.Values{}
			if eventType != "" {
				query.Set("event_type", eventType)
			}
			if serviceName != "" {
				query.Set("service_name", serviceName)
			}
			if userID != "" {
				query.Set("user_id", userID)
			}
			if minRisk > 0 {
				query.Set("min_risk_score", strconv.Itoa(minRisk))
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			var entries []any
			if err := getJSON(services.Security+"/audit/logs?"+query.Encode(), &entries); err != nil {
				return err
			}
			printJSON(entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&eventType, "event-type", "", "filter by event type")
	cmd.Flags().StringVar(&serviceName, "service", "", "filter by originating service")
	cmd.Flags().StringVar(&userID, "user", "", "filter by acting user")
	cmd.Flags().IntVar(&minRisk, "min-risk", 0, "minimum risk score")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to return")
	return cmd
}

func newSuspiciousCmd() *cobra.Command {
	var (
		minRisk int
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "suspicious",
		Short: "List non-investigated high-risk audit entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := url.Values{}
			// Forward the flag whenever set, zero included.
			if cmd.Flags().Changed("min-risk") {
				query.Set("min_risk_score", strconv.Itoa(minRisk))
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			var entries []any
			if err := getJSON(services.Security+"/audit/suspicious?"+query.Encode(), &entries); err != nil {
				return err
			}
			printJSON(entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&minRisk, "min-risk", 0, "minimum risk score (default 50)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to return (default 50)")
	return cmd
}
