package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The demo ceremony: a few nominations, a round of votes, winner resolution,
// and notifications, exercising every service end to end.
func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a full award ceremony against the running services",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo()
		},
	}
}

type demoNomination struct {
	employeeID  string
	category    string
	nominatorID string
	reason      string
}

var demoNominations = []demoNomination{
	{"emp_003", "Busiest Beaver", "emp_004", "Beets, bears, and an unmatched sales record"},
	{"emp_001", "Fine Work", "emp_002", "Closed the Lackawanna County account"},
	{"emp_006", "Fine Work", "emp_008", "His famous chili almost made it to the party"},
	{"emp_002", "Best Dressed", "emp_001", "Office administrator and fashion icon"},
	{"emp_005", "Longest Engagement", "emp_004", "Pretzel day dedication since 1987"},
}

// Everyone in the office votes for the first nomination in their heart;
// spread so Fine Work has a clear winner and Busiest Beaver a near-tie.
var demoVotes = map[string][]int{
	"emp_001": {0, 2},
	"emp_002": {1, 0},
	"emp_003": {3, 4},
	"emp_004": {0, 1},
	"emp_005": {1, 3},
	"emp_006": {1},
	"emp_007": {4, 0},
	"emp_008": {1, 2},
}

func runDemo() error {
	fmt.Println("== Submitting nominations ==")
	nominationIDs := make([]string, 0, len(demoNominations))
	for _, n := range demoNominations {
		var created struct {
			ID           string `json:"id"`
			EmployeeName string `json:"employee_name"`
			Category     string `json:"category"`
		}
		err := postJSON(services.Nominations+"/nominations", map[string]string{
			"employee_id":  n.employeeID,
			"category":     n.category,
			"nominator_id": n.nominatorID,
			"reason":       n.reason,
		}, &created)
		if err != nil {
			return fmt.Errorf("nominate %s: %w", n.employeeID, err)
		}
		nominationIDs = append(nominationIDs, created.ID)
		fmt.Printf("  %s nominated for %q\n", created.EmployeeName, created.Category)
	}

	fmt.Println("== Casting votes ==")
	for voter, picks := range demoVotes {
		for _, pick := range picks {
			err := postJSON(services.Voting+"/votes", map[string]string{
				"nomination_id": nominationIDs[pick],
				"voter_id":      voter,
			}, nil)
			if err != nil {
				// Duplicate votes are part of the show; report and move on.
				fmt.Printf("  vote by %s rejected: %v\n", voter, err)
				continue
			}
			fmt.Printf("  %s voted for nomination %d\n", voter, pick+1)
		}
	}

	fmt.Println("== Resolving winners ==")
	var resolved struct {
		Message string `json:"message"`
		Winners []struct {
			EmployeeName string `json:"employee_name"`
			Category     string `json:"category"`
			TotalVotes   int    `json:"total_votes"`
		} `json:"winners"`
	}
	if err := postJSON(services.Winners+"/winners/calculate", struct{}{}, &resolved); err != nil {
		return fmt.Errorf("resolve winners: %w", err)
	}
	for _, w := range resolved.Winners {
		fmt.Printf("  %s wins %q with %d votes\n", w.EmployeeName, w.Category, w.TotalVotes)
	}

	fmt.Println("== Sending notifications ==")
	var sent struct {
		Message string `json:"message"`
	}
	if err := postJSON(services.Notifications+"/notifications/send", struct{}{}, &sent); err != nil {
		return fmt.Errorf("send notifications: %w", err)
	}
	fmt.Println("  " + sent.Message)

	fmt.Println("The Dundies are done. Check the audit log with: dundiectl logs")
	return nil
}
