// dundiectl drives the award services over HTTP: seed a demo ceremony,
// trigger winner resolution, send notifications, and inspect the audit log.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type endpoints struct {
	Nominations   string
	Voting        string
	Winners       string
	Notifications string
	Security      string
}

var services = endpoints{
	Nominations:   "http://localhost:8001",
	Voting:        "http://localhost:8002",
	Winners:       "http://localhost:8003",
	Notifications: "http://localhost:8004",
	Security:      "http://localhost:8005",
}

func main() {
	root := &cobra.Command{
		Use:           "dundiectl",
		Short:         "Operate the Dundie award services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&services.Nominations, "nominations-url", services.Nominations, "nominations service base URL")
	flags.StringVar(&services.Voting, "voting-url", services.Voting, "voting service base URL")
	flags.StringVar(&services.Winners, "winners-url", services.Winners, "winners service base URL")
	flags.StringVar(&services.Notifications, "notifications-url", services.Notifications, "notifications service base URL")
	flags.StringVar(&services.Security, "security-url", services.Security, "security service base URL")

	root.AddCommand(newDemoCmd(), newResolveCmd(), newNotifyCmd(), newLogsCmd(), newSuspiciousCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func postJSON(url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func getJSON(url string, out any) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var envelope struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			return fmt.Errorf("%s: %s", resp.Status, envelope.Message)
		}
		return fmt.Errorf("%s: %s", resp.Status, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// printJSON renders API responses for the terminal.
func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(b))
}
