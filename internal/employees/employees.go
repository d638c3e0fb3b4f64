// Package employees holds the seeded employee directory. Nominations and
// voting resolve actor names against it; there is no write path.
package employees

import (
	"context"
	"sync"

	dErrors "dundies/pkg/domain-errors"
)

// Employee is a directory record.
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email,omitempty"`
}

// Directory is a read-mostly in-memory employee store.
type Directory struct {
	mu    sync.RWMutex
	byID  map[string]Employee
	order []string
}

// NewDirectory builds a directory from the given records.
func NewDirectory(records []Employee) *Directory {
	d := &Directory{byID: make(map[string]Employee, len(records))}
	for _, e := range records {
		if _, dup := d.byID[e.ID]; dup {
			continue
		}
		d.byID[e.ID] = e
		d.order = append(d.order, e.ID)
	}
	return d
}

// Seeded returns a directory preloaded with the demo employee roster.
func Seeded() *Directory {
	return NewDirectory(sampleEmployees)
}

// List returns all employees in seed order.
func (d *Directory) List(_ context.Context) []Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Employee, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// Get looks up an employee by ID.
func (d *Directory) Get(_ context.Context, id string) (Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.byID[id]; ok {
		return e, nil
	}
	return Employee{}, dErrors.Newf(dErrors.CodeNotFound, "employee %s not found", id)
}

var sampleEmployees = []Employee{
	{ID: "emp_001", Name: "Jim Halpert", Department: "Sales", Email: "jim@dundermifflin.com"},
	{ID: "emp_002", Name: "Pam Beesly", Department: "Reception", Email: "pam@dundermifflin.com"},
	{ID: "emp_003", Name: "Dwight Schrute", Department: "Sales", Email: "dwight@dundermifflin.com"},
	{ID: "emp_004", Name: "Michael Scott", Department: "Management", Email: "michael@dundermifflin.com"},
	{ID: "emp_005", Name: "Stanley Hudson", Department: "Sales", Email: "stanley@dundermifflin.com"},
	{ID: "emp_006", Name: "Kevin Malone", Department: "Accounting", Email: "kevin@dundermifflin.com"},
	{ID: "emp_007", Name: "Angela Martin", Department: "Accounting", Email: "angela@dundermifflin.com"},
	{ID: "emp_008", Name: "Oscar Martinez", Department: "Accounting", Email: "oscar@dundermifflin.com"},
}
